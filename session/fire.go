package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/judgegodwins/battleship-server/game"
	"github.com/judgegodwins/battleship-server/store"
)

// ErrCellResolved is returned when RejectResolvedCells is set and a shot
// targets a cell that is already hit, miss or sunk. It is reported to the
// shooter only.
var ErrCellResolved = errors.New("cell already resolved")

// Fire resolves a single shot. computerShot marks the computer as the
// shooter; the request still arrives over the human's connection, and side
// resolution puts the computer in slot two. Boards, views and remaining
// lists for both sides are written back as one logical update, then the
// turn, win/lose and snapshot notifications are attempted independently.
func (m *Manager) Fire(ctx context.Context, connectionID string, coord int, computerShot bool) error {
	roomName, err := m.conns.GetRoom(ctx, connectionID)
	if err != nil {
		return fmt.Errorf("fire from %v: %w", connectionID, err)
	}
	if roomName == "" {
		return errNotInRoom
	}

	var outcome game.Outcome
	var shooterOne bool

	room, err := m.rooms.Update(ctx, roomName, func(r *store.Room) error {
		// Side resolution. A computer shot always takes slot two, even
		// though it arrives on player one's connection.
		switch {
		case computerShot, r.PlayerTwo == connectionID:
			shooterOne = false
		case r.PlayerOne == connectionID:
			shooterOne = true
		default:
			return errNotInRoom
		}

		shooter, target := &r.Two, &r.One
		if shooterOne {
			shooter, target = &r.One, &r.Two
		}

		if coord < 0 || coord >= len(target.Board) {
			return fmt.Errorf("coordinate %d out of range", coord)
		}

		if m.opts.RejectResolvedCells {
			switch target.Board[coord] {
			case game.CellHit, game.CellMiss, game.CellSunk:
				return ErrCellResolved
			}
		}

		res, err := game.Resolve(target.Board, shooter.OpponentView, target.Remaining, target.Ships, coord)
		if err != nil {
			return err
		}
		target.Remaining = res.Remaining
		outcome = res

		if !r.One.Board.HasShips() || !r.Two.Board.HasShips() {
			r.Status = store.StatusFinished
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("resolving shot in %v: %w", roomName, err)
	}

	m.logger.Info("shot resolved",
		"room", roomName, "connection", connectionID,
		"coord", coord, "computer", computerShot,
		"result", outcome.Result, "sunk", len(outcome.Sunk))

	finished := room.Status == store.StatusFinished

	// Turn handoff. Suppressed once the game is over: the winning shot
	// yields win/lose, never a further turn.
	if !finished {
		m.notifyTurn(ctx, room, connectionID, shooterOne, computerShot, outcome)
	}

	// Win/loss detection: both boards checked independently.
	if !room.Two.Board.HasShips() {
		m.push(ctx, room.PlayerOne, EventWin, nil)
		if !room.Computer {
			m.push(ctx, room.PlayerTwo, EventLose, nil)
		}
	}
	if !room.One.Board.HasShips() {
		if !room.Computer {
			m.push(ctx, room.PlayerTwo, EventWin, nil)
		}
		m.push(ctx, room.PlayerOne, EventLose, nil)
	}

	// Fresh state snapshots; slot two is skipped for computer games.
	if !room.Computer {
		m.push(ctx, room.PlayerTwo, EventSetYou, SnapshotPayload{
			Player: PlayerSnapshot{Board: room.Two.Board, ShipLocations: room.Two.Ships},
		})
		m.push(ctx, room.PlayerTwo, EventSetOpponent, SnapshotPayload{
			Player: PlayerSnapshot{Board: room.Two.OpponentView, ShipLocations: room.One.Ships},
		})
	}
	m.push(ctx, room.PlayerOne, EventSetYou, SnapshotPayload{
		Player: PlayerSnapshot{Board: room.One.Board, ShipLocations: room.One.Ships},
	})
	m.push(ctx, room.PlayerOne, EventSetOpponent, SnapshotPayload{
		Player: PlayerSnapshot{Board: room.One.OpponentView, ShipLocations: room.Two.Ships},
	})

	return nil
}

func (m *Manager) notifyTurn(ctx context.Context, room *store.Room, connectionID string, shooterOne, computerShot bool, outcome game.Outcome) {
	opponent := room.PlayerTwo
	if !shooterOne || room.Computer {
		opponent = room.PlayerOne
	}

	switch outcome.Result {
	case game.ShotMiss:
		if !room.Computer {
			m.push(ctx, opponent, EventTurn, nil)
			if !m.opts.StrictTurnOrder {
				// Historical behavior: the shooter is signalled too.
				m.push(ctx, connectionID, EventTurn, nil)
			}
			return
		}
		if computerShot {
			m.push(ctx, connectionID, EventTurn, nil)
			return
		}
		// Human missed against the computer: hand over the computer's
		// view of the human board so its client can pick a move.
		m.push(ctx, connectionID, EventComputerTurn, BoardPayload{Board: room.Two.OpponentView})

	case game.ShotHit:
		if computerShot {
			m.push(ctx, connectionID, EventComputerTurnAgain, BoardPayload{Board: room.Two.OpponentView})
			return
		}
		if m.opts.StrictTurnOrder && !room.Computer {
			// Symmetric bonus-turn rule: a hit keeps the shooter's turn.
			m.push(ctx, connectionID, EventTurn, nil)
		}
	}
}
