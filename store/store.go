package store

import (
	"context"
	"errors"

	"github.com/judgegodwins/battleship-server/game"
)

var (
	// ErrNotFound is returned when a connection or room record does not
	// exist. Lookups of departed connections are expected and must not
	// be treated as faults.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when an optimistic room update loses its
	// race too many times, or when Create finds the name already taken.
	ErrConflict = errors.New("room record conflict")
)

// Status is the explicit room lifecycle state, maintained alongside the
// derived board checks.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusReady    Status = "ready"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// PlayerState is one side's stored game state.
type PlayerState struct {
	Board        game.Board  `json:"board"`
	Ships        []game.Ship `json:"ships"`
	OpponentView game.Board  `json:"opponentView"`
	Ready        bool        `json:"ready"`
	Remaining    []game.Ship `json:"remaining"`
}

// Room is a single match's shared state, keyed by a player-chosen name.
// PlayerOne is set before PlayerTwo; in a computer game PlayerTwo stays
// empty and Computer is set.
type Room struct {
	Name      string
	PlayerOne string
	PlayerTwo string
	Available bool
	Computer  bool
	Status    Status
	One       PlayerState
	Two       PlayerState
}

// ConnectionStore maps opaque connection ids to an optional room name.
type ConnectionStore interface {
	Register(ctx context.Context, id string) error
	// Unregister removes the connection and returns the room it belonged
	// to ("" if none) so the caller can cascade cleanup. Unknown ids
	// return ErrNotFound.
	Unregister(ctx context.Context, id string) (string, error)
	GetRoom(ctx context.Context, id string) (string, error)
	SetRoom(ctx context.Context, id, room string) error
	ClearRoom(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// RoomStore holds room records. Implementations must serialize Update
// calls per room name; concurrent fires against the same room must not
// lose writes.
type RoomStore interface {
	Get(ctx context.Context, name string) (*Room, error)
	// Create writes a new record only if the name is unclaimed; an
	// existing room makes it fail with ErrConflict.
	Create(ctx context.Context, room *Room) error
	Delete(ctx context.Context, name string) error
	// Update runs fn against the current record and persists the result
	// as one logical write. fn may run more than once on contention.
	Update(ctx context.Context, name string, fn func(*Room) error) (*Room, error)
	// ListAvailable returns the names of rooms accepting a second player.
	ListAvailable(ctx context.Context) ([]string, error)
}
