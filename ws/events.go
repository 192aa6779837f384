package ws

import (
	"context"
	"encoding/json"
)

// Event is the wire envelope for both directions: a route tag plus a raw
// payload.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound route tags.
const (
	EventRoom     = "room"
	EventSetBoard = "setBoard"
	EventFire     = "fire"
	EventGetRoom  = "getRoom"

	EventError = "error"
)

type RoomPayload struct {
	Room        string `json:"room" validate:"required"`
	Multiplayer bool   `json:"multiplayer"`
}

// SetBoardPayload carries the player's setup. Player and Opponent are
// nested JSON documents, matching the historical client encoding: Player
// holds {board, shipLocations}, Opponent holds the initial view board.
type SetBoardPayload struct {
	Player   string `json:"player" validate:"required"`
	Opponent string `json:"opponent" validate:"required"`
	Computer bool   `json:"computer"`
}

type FirePayload struct {
	Where    *int `json:"where" validate:"required"`
	Computer bool `json:"computer"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}

type EventHandler = func(ctx context.Context, e Event, c *Client) error

func NewEvent(eventType string, payload any) (Event, error) {
	if payload == nil {
		return Event{Type: eventType}, nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: b}, nil
}

func NewErrorEvent(reason string) (Event, error) {
	return NewEvent(EventError, ErrorPayload{Reason: reason})
}
