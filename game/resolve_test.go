package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func boardWithShips(coords ...int) Board {
	b := NewBoard()
	for _, c := range coords {
		b[c] = CellShip
	}
	return b
}

func TestResolveMiss(t *testing.T) {
	target := boardWithShips(5)
	view := NewBoard()
	remaining := []Ship{{Name: "sloop", Location: []int{5}}}
	fleet := CloneShips(remaining)

	out, err := Resolve(target, view, remaining, fleet, 12)

	require.NoError(t, err)
	require.Equal(t, ShotMiss, out.Result)
	require.Equal(t, CellMiss, target[12])
	require.Equal(t, CellMiss, view[12])
	require.Empty(t, out.Sunk)
	require.Len(t, out.Remaining, 1)
}

func TestResolveHitWithoutSink(t *testing.T) {
	target := boardWithShips(5, 6)
	view := NewBoard()
	remaining := []Ship{{Name: "cutter", Location: []int{5, 6}}}
	fleet := CloneShips(remaining)

	out, err := Resolve(target, view, remaining, fleet, 5)

	require.NoError(t, err)
	require.Equal(t, ShotHit, out.Result)
	require.Equal(t, CellHit, target[5])
	require.Equal(t, CellHit, view[5])
	require.Equal(t, CellShip, target[6])
	require.Empty(t, out.Sunk)
	require.Len(t, out.Remaining, 1)
	require.Equal(t, []int{6}, out.Remaining[0].Location)
}

func TestResolveSingleCellShipSinksImmediately(t *testing.T) {
	target := boardWithShips(42)
	view := NewBoard()
	remaining := []Ship{{Name: "raft", Location: []int{42}}}
	fleet := CloneShips(remaining)

	out, err := Resolve(target, view, remaining, fleet, 42)

	require.NoError(t, err)
	require.Equal(t, ShotHit, out.Result)
	require.Len(t, out.Sunk, 1)
	require.Equal(t, "raft", out.Sunk[0].Name)
	// A sunk cell is sunk, not merely hit, on both boards.
	require.Equal(t, CellSunk, target[42])
	require.Equal(t, CellSunk, view[42])
	require.Empty(t, out.Remaining)
	require.False(t, target.HasShips())
}

func TestResolveSinkExpandsToAllCoordinates(t *testing.T) {
	target := boardWithShips(10, 11, 12)
	view := NewBoard()
	remaining := []Ship{{Name: "frigate", Location: []int{10, 11, 12}}}
	fleet := CloneShips(remaining)

	for _, coord := range []int{10, 11} {
		out, err := Resolve(target, view, remaining, fleet, coord)
		require.NoError(t, err)
		require.Equal(t, ShotHit, out.Result)
		require.Empty(t, out.Sunk)
		remaining = out.Remaining
	}

	out, err := Resolve(target, view, remaining, fleet, 12)
	require.NoError(t, err)
	require.Len(t, out.Sunk, 1)

	// Every original coordinate flips to sunk, including the earlier hits.
	for _, coord := range []int{10, 11, 12} {
		require.Equal(t, CellSunk, target[coord], "target cell %d", coord)
		require.Equal(t, CellSunk, view[coord], "view cell %d", coord)
	}
}

func TestResolveRemainingNeverGrows(t *testing.T) {
	target := boardWithShips(0, 1, 20)
	view := NewBoard()
	remaining := []Ship{
		{Name: "cutter", Location: []int{0, 1}},
		{Name: "raft", Location: []int{20}},
	}
	fleet := CloneShips(remaining)

	prev := len(remaining)
	for _, coord := range []int{0, 7, 1, 33, 20} {
		out, err := Resolve(target, view, remaining, fleet, coord)
		require.NoError(t, err)
		require.LessOrEqual(t, len(out.Remaining), prev)
		prev = len(out.Remaining)
		remaining = out.Remaining
	}

	require.Zero(t, prev)
	require.False(t, target.HasShips())
}

func TestResolveResolvedCellIsNoop(t *testing.T) {
	target := boardWithShips(5)
	view := NewBoard()
	remaining := []Ship{{Name: "raft", Location: []int{5}}}
	fleet := CloneShips(remaining)

	_, err := Resolve(target, view, remaining, fleet, 3)
	require.NoError(t, err)

	out, err := Resolve(target, view, remaining, fleet, 3)
	require.NoError(t, err)
	require.Equal(t, ShotNone, out.Result)
	require.Equal(t, CellMiss, target[3])
}

func TestResolveOutOfRange(t *testing.T) {
	target := NewBoard()
	view := NewBoard()

	_, err := Resolve(target, view, nil, nil, BoardCells)
	require.Error(t, err)

	_, err = Resolve(target, view, nil, nil, -1)
	require.Error(t, err)
}

func TestBoardValid(t *testing.T) {
	require.NoError(t, NewBoard().Valid())

	short := make(Board, 10)
	require.Error(t, short.Valid())

	bad := NewBoard()
	bad[3] = "submerged"
	require.Error(t, bad.Valid())
}
