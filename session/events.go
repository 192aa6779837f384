package session

import (
	"context"
	"errors"

	"github.com/judgegodwins/battleship-server/game"
)

// Outbound event types pushed to clients.
const (
	EventKick              = "kick"
	EventRoom              = "room"
	EventRooms             = "rooms"
	EventStart             = "start"
	EventTurn              = "turn"
	EventComputerTurn      = "computerTurn"
	EventComputerTurnAgain = "computerTurnAgain"
	EventWin               = "win"
	EventLose              = "lose"
	EventSetYou            = "setYou"
	EventSetOpponent       = "setOpponent"
)

// ErrGone marks a push to a connection that has already departed. It is an
// expected condition everywhere a push can happen and must never be treated
// as a fault.
var ErrGone = errors.New("connection gone")

// Notifier delivers a typed event to a single connection. Push returns
// ErrGone (possibly wrapped) when the recipient is unreachable.
type Notifier interface {
	Push(ctx context.Context, connectionID, eventType string, payload any) error
}

type RoomAccessPayload struct {
	Allowed bool `json:"allowed"`
}

type RoomsPayload struct {
	Rooms []string `json:"rooms"`
}

type BoardPayload struct {
	Board game.Board `json:"board"`
}

// PlayerSnapshot is the board-plus-fleet view pushed as setYou/setOpponent.
type PlayerSnapshot struct {
	Board         game.Board  `json:"board"`
	ShipLocations []game.Ship `json:"shipLocations"`
}

type SnapshotPayload struct {
	Player PlayerSnapshot `json:"player"`
}
