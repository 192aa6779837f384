package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/judgegodwins/battleship-server/metrics"
	"github.com/judgegodwins/battleship-server/store"
)

// Options carries the turn-policy switches. The zero value reproduces the
// historical behavior: a miss in a human game pushes turn to both players,
// only a computer shooter gets a bonus turn on a hit, and already-resolved
// cells can be fired at again.
type Options struct {
	StrictTurnOrder     bool
	RejectResolvedCells bool
}

// Manager owns room lifecycle and shot resolution. Every inbound event is
// an independent invocation; all cross-event state lives in the stores.
type Manager struct {
	conns    store.ConnectionStore
	rooms    store.RoomStore
	notifier Notifier
	opts     Options
	logger   *slog.Logger
}

func NewManager(conns store.ConnectionStore, rooms store.RoomStore, notifier Notifier, opts Options, logger *slog.Logger) *Manager {
	return &Manager{
		conns:    conns,
		rooms:    rooms,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
	}
}

// Connect registers a new connection with no room.
func (m *Manager) Connect(ctx context.Context, connectionID string) error {
	if err := m.conns.Register(ctx, connectionID); err != nil {
		return fmt.Errorf("connect %v: %w", connectionID, err)
	}
	m.logger.Info("connection registered", "connection", connectionID)
	return nil
}

// Disconnect removes the connection and cascades cleanup: the room it was
// in is deleted (rooms are single-use once either side leaves) and the
// remaining occupant, if any, is evicted with a kick.
func (m *Manager) Disconnect(ctx context.Context, connectionID string) error {
	roomName, err := m.conns.Unregister(ctx, connectionID)
	if errors.Is(err, store.ErrNotFound) {
		// Duplicate disconnect; nothing left to clean up.
		return nil
	}
	if err != nil {
		return fmt.Errorf("disconnect %v: %w", connectionID, err)
	}

	if roomName == "" {
		m.logger.Info("connection disconnected", "connection", connectionID)
		return nil
	}

	room, err := m.rooms.Get(ctx, roomName)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := m.rooms.Delete(ctx, roomName); err != nil {
		return fmt.Errorf("deleting room %v: %w", roomName, err)
	}

	var peer string
	if room.PlayerOne == connectionID {
		peer = room.PlayerTwo
	}
	if room.PlayerTwo == connectionID {
		peer = room.PlayerOne
	}

	if peer == "" || peer == connectionID {
		m.logger.Info("connection disconnected", "connection", connectionID, "room", roomName)
		return nil
	}

	if err := m.conns.ClearRoom(ctx, peer); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if err := m.notifier.Push(ctx, peer, EventKick, nil); err != nil {
		if errors.Is(err, ErrGone) {
			m.logger.Info("stale peer on kick", "connection", peer, "room", roomName)
		} else {
			return fmt.Errorf("kicking %v: %w", peer, err)
		}
	}

	m.logger.Info("connection disconnected", "connection", connectionID, "room", roomName)
	return nil
}

var errRoomFull = errors.New("room already has two players")

// JoinRoom joins connectionID to the named room, creating it if absent.
// The creator takes slot one; a later joiner takes slot two; a full room
// denies the request. On success the connection's room field is set and
// the available-room list is broadcast to every registered connection.
func (m *Manager) JoinRoom(ctx context.Context, connectionID, roomName string, multiplayer bool) error {
	created, err := m.claimSlot(ctx, connectionID, roomName, multiplayer)
	if errors.Is(err, errRoomFull) {
		m.logger.Info("room full", "room", roomName, "connection", connectionID)
		return m.notifier.Push(ctx, connectionID, EventRoom, RoomAccessPayload{Allowed: false})
	}
	if err != nil {
		return err
	}

	if created {
		metrics.RoomsCreated.Inc()
		m.logger.Info("room created", "room", roomName, "connection", connectionID)
	} else {
		m.logger.Info("room joined", "room", roomName, "connection", connectionID)
	}

	if err := m.notifier.Push(ctx, connectionID, EventRoom, RoomAccessPayload{Allowed: true}); err != nil {
		return fmt.Errorf("approving room %v: %w", roomName, err)
	}

	if err := m.conns.SetRoom(ctx, connectionID, roomName); err != nil {
		return err
	}

	return m.broadcastAvailableRooms(ctx)
}

// claimSlot makes the create-or-join decision at the store's serialization
// point, so two connections racing for the last slot resolve to exactly
// one member. A lost create race falls through to joining the room the
// winner made.
func (m *Manager) claimSlot(ctx context.Context, connectionID, roomName string, multiplayer bool) (created bool, err error) {
	takeSlotTwo := func(r *store.Room) error {
		if r.PlayerTwo != "" {
			return errRoomFull
		}
		r.PlayerTwo = connectionID
		// Both slots are filled now, so the room leaves the lobby list
		// no matter what the joiner asked for.
		r.Available = false
		return nil
	}

	_, err = m.rooms.Update(ctx, roomName, takeSlotTwo)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("joining room %v: %w", roomName, err)
	}

	err = m.rooms.Create(ctx, &store.Room{
		Name:      roomName,
		PlayerOne: connectionID,
		Available: multiplayer,
		Status:    store.StatusWaiting,
	})
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, store.ErrConflict) {
		return false, fmt.Errorf("creating room %v: %w", roomName, err)
	}

	// Someone else created the room between the update and the create.
	if _, err := m.rooms.Update(ctx, roomName, takeSlotTwo); err != nil {
		return false, fmt.Errorf("joining room %v: %w", roomName, err)
	}
	return false, nil
}

// SendAvailableRooms pushes the current available-room list to a single
// connection.
func (m *Manager) SendAvailableRooms(ctx context.Context, connectionID string) error {
	names, err := m.rooms.ListAvailable(ctx)
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}

	err = m.notifier.Push(ctx, connectionID, EventRooms, RoomsPayload{Rooms: names})
	if err != nil && !errors.Is(err, ErrGone) {
		return err
	}
	return nil
}

// broadcastAvailableRooms fans the available-room list out to every
// registered connection. Stale recipients are dropped from the registry
// best-effort; any other delivery fault aborts the broadcast.
func (m *Manager) broadcastAvailableRooms(ctx context.Context) error {
	ids, err := m.conns.List(ctx)
	if err != nil {
		return err
	}

	names, err := m.rooms.ListAvailable(ctx)
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}

	payload := RoomsPayload{Rooms: names}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		fatalErr error
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			err := m.notifier.Push(ctx, id, EventRooms, payload)
			if err == nil {
				return
			}
			if errors.Is(err, ErrGone) {
				m.logger.Info("dropping stale connection", "connection", id)
				if _, err := m.conns.Unregister(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
					m.logger.Error("removing stale connection", "connection", id, "error", err)
				}
				return
			}
			mu.Lock()
			if fatalErr == nil {
				fatalErr = fmt.Errorf("broadcasting rooms to %v: %w", id, err)
			}
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return fatalErr
}

// push delivers one event and swallows every failure, logging it. The fire
// path attempts each notification independently.
func (m *Manager) push(ctx context.Context, connectionID, eventType string, payload any) {
	if connectionID == "" {
		return
	}
	if err := m.notifier.Push(ctx, connectionID, eventType, payload); err != nil {
		m.logger.Warn("delivery failed", "connection", connectionID, "event", eventType, "error", err)
	}
}
