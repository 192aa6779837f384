package game

import "fmt"

// ShotResult classifies what a single shot did to the target board.
type ShotResult int

const (
	// ShotNone means the cell was already resolved (hit, miss or sunk)
	// and the shot changed nothing.
	ShotNone ShotResult = iota
	ShotMiss
	ShotHit
)

// Outcome describes the effect of one resolved shot.
type Outcome struct {
	Result ShotResult
	// Sunk holds the full reference records of every ship whose last
	// remaining coordinate was removed by this shot.
	Sunk []Ship
	// Remaining is the target's remaining-ship list after the shot.
	Remaining []Ship
}

// Resolve applies a single shot at coord to the target's own board and the
// shooter's view of it. Both boards are mutated in lockstep: a miss marks
// both cells miss, a hit marks both hit, and sinking a ship rewrites every
// one of its reference coordinates to sunk on both boards.
//
// remaining is consumed in place; fleet is the immutable reference list
// used to recover a sunk ship's full extent.
func Resolve(target, view Board, remaining []Ship, fleet []Ship, coord int) (Outcome, error) {
	if coord < 0 || coord >= len(target) || coord >= len(view) {
		return Outcome{}, fmt.Errorf("coordinate %d out of range", coord)
	}

	out := Outcome{Remaining: remaining}

	switch target[coord] {
	case CellEmpty:
		target[coord] = CellMiss
		view[coord] = CellMiss
		out.Result = ShotMiss

	case CellShip:
		target[coord] = CellHit
		view[coord] = CellHit
		out.Result = ShotHit

		kept := remaining[:0]
		for _, ship := range remaining {
			ship.Location = removeCoord(ship.Location, coord)

			if len(ship.Location) > 0 {
				kept = append(kept, ship)
				continue
			}

			// Last cell of this ship: recover its full extent from the
			// reference fleet and convert every cell to sunk.
			ref, ok := findShip(fleet, ship.Name)
			if !ok {
				ref = ship
			}
			for _, c := range ref.Location {
				if c >= 0 && c < len(target) {
					target[c] = CellSunk
					view[c] = CellSunk
				}
			}
			out.Sunk = append(out.Sunk, ref)
		}
		out.Remaining = kept

	default:
		// Already resolved cell; historically not guarded against.
		out.Result = ShotNone
	}

	return out, nil
}

func removeCoord(location []int, coord int) []int {
	for i, c := range location {
		if c == coord {
			return append(location[:i], location[i+1:]...)
		}
	}
	return location
}
