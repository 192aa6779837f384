package game

import "fmt"

// CellState is the state of a single board cell. Boards are flat slices
// indexed by coordinate (row-major 10x10).
type CellState string

const (
	CellEmpty CellState = "empty"
	CellShip  CellState = "ship"
	CellHit   CellState = "hit"
	CellMiss  CellState = "miss"
	CellSunk  CellState = "sunk"
)

const (
	BoardSize  = 10
	BoardCells = BoardSize * BoardSize
)

type Board []CellState

// NewBoard returns an all-empty board.
func NewBoard() Board {
	b := make(Board, BoardCells)
	for i := range b {
		b[i] = CellEmpty
	}
	return b
}

// HasShips reports whether any cell is still in the ship state. A side has
// lost once its board has no ship cells left.
func (b Board) HasShips() bool {
	for _, c := range b {
		if c == CellShip {
			return true
		}
	}
	return false
}

// Clone returns a copy of the board.
func (b Board) Clone() Board {
	out := make(Board, len(b))
	copy(out, b)
	return out
}

// Valid reports whether the board has the expected cell count and only
// known cell states.
func (b Board) Valid() error {
	if len(b) != BoardCells {
		return fmt.Errorf("board has %d cells, want %d", len(b), BoardCells)
	}
	for i, c := range b {
		switch c {
		case CellEmpty, CellShip, CellHit, CellMiss, CellSunk:
		default:
			return fmt.Errorf("unknown cell state %q at %d", c, i)
		}
	}
	return nil
}
