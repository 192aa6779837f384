package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/judgegodwins/battleship-server/game"
	"github.com/judgegodwins/battleship-server/session"
)

// RoomHandler joins or creates the named room for the sender.
func RoomHandler(ctx context.Context, e Event, c *Client) error {
	var payload RoomPayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return fmt.Errorf("invalid room payload: %w", err)
	}
	if err := c.manager.validate.Struct(payload); err != nil {
		return err
	}

	return c.manager.sessions.JoinRoom(ctx, c.ID, payload.Room, payload.Multiplayer)
}

// playerDocument is the nested encoding inside a setBoard payload's player
// field.
type playerDocument struct {
	Board         game.Board  `json:"board"`
	ShipLocations []game.Ship `json:"shipLocations"`
}

// SetBoardHandler records the sender's setup and kicks the game off once
// both sides are ready.
func SetBoardHandler(ctx context.Context, e Event, c *Client) error {
	var payload SetBoardPayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return fmt.Errorf("invalid setBoard payload: %w", err)
	}
	if err := c.manager.validate.Struct(payload); err != nil {
		return err
	}

	var player playerDocument
	if err := json.Unmarshal([]byte(payload.Player), &player); err != nil {
		return fmt.Errorf("invalid player document: %w", err)
	}

	var opponentView game.Board
	if err := json.Unmarshal([]byte(payload.Opponent), &opponentView); err != nil {
		return fmt.Errorf("invalid opponent document: %w", err)
	}

	return c.manager.sessions.SetBoard(ctx, c.ID, session.BoardSubmission{
		Board:        player.Board,
		Ships:        player.ShipLocations,
		OpponentView: opponentView,
		Computer:     payload.Computer,
	})
}

// FireHandler resolves a shot from the sender (or from the computer, when
// the payload says the computer fired over this connection).
func FireHandler(ctx context.Context, e Event, c *Client) error {
	var payload FirePayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return fmt.Errorf("invalid fire payload: %w", err)
	}
	if err := c.manager.validate.Struct(payload); err != nil {
		return err
	}

	return c.manager.sessions.Fire(ctx, c.ID, *payload.Where, payload.Computer)
}

// GetRoomHandler pushes the current available-room list to the sender only.
func GetRoomHandler(ctx context.Context, e Event, c *Client) error {
	return c.manager.sessions.SendAvailableRooms(ctx, c.ID)
}
