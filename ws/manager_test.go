package ws

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/judgegodwins/battleship-server/session"
	"github.com/judgegodwins/battleship-server/util"
)

func newTestWSManager() *Manager {
	config := &util.Config{
		JWTSecret:   "test-secret",
		SendTimeout: 50 * time.Millisecond,
	}
	return NewManager(config, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPushToUnknownConnectionIsGone(t *testing.T) {
	m := newTestWSManager()

	err := m.Push(context.Background(), "never-registered", session.EventTurn, nil)
	require.ErrorIs(t, err, session.ErrGone)
}

func TestPushTimesOutAsGone(t *testing.T) {
	m := newTestWSManager()

	// A client whose egress nobody drains: the push must classify the
	// peer as gone once the send timeout expires.
	client := &Client{
		ID:      "stuck",
		manager: m,
		egress:  make(chan Event),
		err:     make(chan error),
	}
	m.clients[client.ID] = client

	err := m.Push(context.Background(), "stuck", session.EventTurn, nil)
	require.ErrorIs(t, err, session.ErrGone)
}

func TestRouteEventUnknownTypeIsNoop(t *testing.T) {
	m := newTestWSManager()
	client := &Client{ID: "c1", manager: m}

	err := m.routeEvent(context.Background(), Event{Type: "definitely-not-a-route"}, client)
	require.NoError(t, err)
}

func TestFirePayloadRequiresCoordinate(t *testing.T) {
	m := newTestWSManager()

	var payload FirePayload
	require.Error(t, m.validate.Struct(payload))

	coord := 7
	payload.Where = &coord
	require.NoError(t, m.validate.Struct(payload))
}
