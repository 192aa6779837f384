package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/judgegodwins/battleship-server/game"
)

func TestConnectionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Register(ctx, "conn-a"))

	room, err := s.GetRoom(ctx, "conn-a")
	require.NoError(t, err)
	require.Empty(t, room)

	require.NoError(t, s.SetRoom(ctx, "conn-a", "harbor"))

	room, err = s.GetRoom(ctx, "conn-a")
	require.NoError(t, err)
	require.Equal(t, "harbor", room)

	previous, err := s.Unregister(ctx, "conn-a")
	require.NoError(t, err)
	require.Equal(t, "harbor", previous)

	// A second unregister is a distinct not-found, not a crash.
	_, err = s.Unregister(ctx, "conn-a")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetRoom(ctx, "conn-a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetRoomUnknownConnection(t *testing.T) {
	s := NewMemoryStore()
	err := s.SetRoom(context.Background(), "ghost", "harbor")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRoomUpdateIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	room := &Room{
		Name:      "harbor",
		PlayerOne: "conn-a",
		Available: true,
		Status:    StatusWaiting,
		One: PlayerState{
			Board: game.NewBoard(),
		},
	}
	require.NoError(t, s.Create(ctx, room))

	// Mutating the caller's copy must not leak into the store.
	room.PlayerOne = "tampered"

	got, err := s.Get(ctx, "harbor")
	require.NoError(t, err)
	require.Equal(t, "conn-a", got.PlayerOne)

	// Mutating a fetched copy must not leak either.
	got.One.Board[0] = game.CellHit

	again, err := s.Get(ctx, "harbor")
	require.NoError(t, err)
	require.Equal(t, game.CellEmpty, again.One.Board[0])
}

func TestCreateClaimsNameOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, &Room{Name: "harbor", PlayerOne: "conn-a", Available: true}))

	err := s.Create(ctx, &Room{Name: "harbor", PlayerOne: "conn-b", Available: true})
	require.ErrorIs(t, err, ErrConflict)

	// The loser must not have clobbered the winner's record.
	got, err := s.Get(ctx, "harbor")
	require.NoError(t, err)
	require.Equal(t, "conn-a", got.PlayerOne)
}

func TestRoomUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, &Room{Name: "harbor", PlayerOne: "conn-a", Available: true}))

	updated, err := s.Update(ctx, "harbor", func(r *Room) error {
		r.PlayerTwo = "conn-b"
		r.Available = false
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "conn-b", updated.PlayerTwo)

	got, err := s.Get(ctx, "harbor")
	require.NoError(t, err)
	require.Equal(t, "conn-b", got.PlayerTwo)
	require.False(t, got.Available)

	_, err = s.Update(ctx, "missing", func(r *Room) error { return nil })
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRoomUpdateFnErrorDiscardsWrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, &Room{Name: "harbor", PlayerOne: "conn-a"}))

	boom := errors.New("boom")
	_, err := s.Update(ctx, "harbor", func(r *Room) error {
		r.PlayerOne = "tampered"
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "harbor")
	require.NoError(t, err)
	require.Equal(t, "conn-a", got.PlayerOne)
}

func TestListAvailable(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, &Room{Name: "open", Available: true}))
	require.NoError(t, s.Create(ctx, &Room{Name: "closed", Available: false}))

	names, err := s.ListAvailable(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"open"}, names)

	require.NoError(t, s.Delete(ctx, "open"))

	names, err = s.ListAvailable(ctx)
	require.NoError(t, err)
	require.Empty(t, names)
}
