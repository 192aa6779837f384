package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-process ConnectionStore and RoomStore. It backs
// tests and single-node runs; the mutex is the per-room serialization
// point the Redis implementation gets from WATCH.
type MemoryStore struct {
	mu          sync.RWMutex
	connections map[string]string // connection id -> room name ("" = none)
	rooms       map[string]*Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		connections: make(map[string]string),
		rooms:       make(map[string]*Room),
	}
}

func (s *MemoryStore) Register(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[id] = ""
	return nil
}

func (s *MemoryStore) Unregister(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.connections[id]
	if !ok {
		return "", ErrNotFound
	}
	delete(s.connections, id)
	return room, nil
}

func (s *MemoryStore) GetRoom(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.connections[id]
	if !ok {
		return "", ErrNotFound
	}
	return room, nil
}

func (s *MemoryStore) SetRoom(ctx context.Context, id, room string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.connections[id]; !ok {
		return ErrNotFound
	}
	s.connections[id] = room
	return nil
}

func (s *MemoryStore) ClearRoom(ctx context.Context, id string) error {
	return s.SetRoom(ctx, id, "")
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.connections))
	for id := range s.connections {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[name]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRoom(room)
}

func (s *MemoryStore) Create(ctx context.Context, room *Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.Name]; ok {
		return ErrConflict
	}

	copied, err := cloneRoom(room)
	if err != nil {
		return err
	}
	s.rooms[room.Name] = copied
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, name)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, name string, fn func(*Room) error) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rooms[name]
	if !ok {
		return nil, ErrNotFound
	}

	room, err := cloneRoom(current)
	if err != nil {
		return nil, err
	}

	if err := fn(room); err != nil {
		return nil, err
	}

	s.rooms[name] = room

	return cloneRoom(room)
}

func (s *MemoryStore) ListAvailable(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for name, room := range s.rooms {
		if room.Available {
			names = append(names, name)
		}
	}
	return names, nil
}

// cloneRoom deep-copies through JSON so callers never share board slices
// with the stored record, matching external-store semantics.
func cloneRoom(room *Room) (*Room, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return nil, fmt.Errorf("cloning room %v: %w", room.Name, err)
	}
	out := &Room{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, err
	}
	out.Name = room.Name
	return out, nil
}
