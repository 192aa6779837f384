package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/judgegodwins/battleship-server/game"
	"github.com/judgegodwins/battleship-server/store"
)

// BoardSubmission is one player's setup: their own layout, their fleet, and
// their initial (all-empty) view of the opponent. Computer marks the
// submission as the synthesized second side of a computer game.
type BoardSubmission struct {
	Board        game.Board
	Ships        []game.Ship
	OpponentView game.Board
	Computer     bool
}

var errNotInRoom = errors.New("connection does not occupy a room slot")

// SetBoard records a player's setup and arbitrates readiness. The sender's
// slot is resolved by connection id; a computer submission always writes
// slot two and marks the room as a computer game. The submitter is ready
// immediately; once both sides are ready the start (and first turn) events
// go out.
func (m *Manager) SetBoard(ctx context.Context, connectionID string, sub BoardSubmission) error {
	if err := sub.Board.Valid(); err != nil {
		return fmt.Errorf("player board: %w", err)
	}
	if err := sub.OpponentView.Valid(); err != nil {
		return fmt.Errorf("opponent view: %w", err)
	}

	roomName, err := m.conns.GetRoom(ctx, connectionID)
	if err != nil {
		return fmt.Errorf("set board for %v: %w", connectionID, err)
	}
	if roomName == "" {
		return errNotInRoom
	}

	var pairReady bool
	var opponent string

	room, err := m.rooms.Update(ctx, roomName, func(r *store.Room) error {
		state := store.PlayerState{
			Board:        sub.Board,
			Ships:        sub.Ships,
			OpponentView: sub.OpponentView,
			Ready:        true,
			Remaining:    game.CloneShips(sub.Ships),
		}

		switch {
		case sub.Computer:
			// The computer slot is written by the human's connection and
			// is ready the moment it lands.
			r.Computer = true
			r.Two = state
			pairReady = true
			opponent = ""
		case r.PlayerOne == connectionID:
			r.One = state
			pairReady = r.Two.Ready
			opponent = r.PlayerTwo
		case r.PlayerTwo == connectionID:
			r.Two = state
			pairReady = r.One.Ready
			opponent = r.PlayerOne
		default:
			return errNotInRoom
		}

		if pairReady {
			r.Status = store.StatusPlaying
		} else {
			r.Status = store.StatusReady
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("recording board for %v: %w", connectionID, err)
	}

	m.logger.Info("board set", "room", roomName, "connection", connectionID, "computer", sub.Computer, "ready", pairReady)

	if !pairReady {
		return nil
	}

	if err := m.pushStart(ctx, connectionID, EventStart); err != nil {
		return err
	}

	if room.Computer {
		// The human always moves first against the computer.
		return m.pushStart(ctx, connectionID, EventTurn)
	}

	if err := m.pushStart(ctx, opponent, EventStart); err != nil {
		return err
	}
	if err := m.pushStart(ctx, opponent, EventTurn); err != nil {
		return err
	}
	if !m.opts.StrictTurnOrder {
		// Historical behavior: both sides get the opening turn signal.
		if err := m.pushStart(ctx, connectionID, EventTurn); err != nil {
			return err
		}
	}

	return nil
}

// pushStart delivers a start-phase event; a departed recipient is logged
// and swallowed, anything else is fatal for the event.
func (m *Manager) pushStart(ctx context.Context, connectionID, eventType string) error {
	err := m.notifier.Push(ctx, connectionID, eventType, nil)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrGone) {
		m.logger.Info("stale recipient at game start", "connection", connectionID, "event", eventType)
		return nil
	}
	return fmt.Errorf("sending %v to %v: %w", eventType, connectionID, err)
}
