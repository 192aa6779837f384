package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	connectionsSetKey = "connections"

	roomNameKey      = "name"
	roomPlayerOneKey = "player_one"
	roomPlayerTwoKey = "player_two"
	roomAvailableKey = "available"
	roomComputerKey  = "computer"
	roomStatusKey    = "status"
	roomOneStateKey  = "one"
	roomTwoStateKey  = "two"

	connRoomKey = "room"

	// Rooms expire after 12 hours whether or not anyone disconnects, so
	// finished rooms don't accumulate.
	roomTTL = 12 * time.Hour

	// Update retries before giving up with ErrConflict.
	updateAttempts = 5
)

func roomKey(name string) string {
	return fmt.Sprintf("room:%v", name)
}

func connectionKey(id string) string {
	return fmt.Sprintf("connection:%v", id)
}

// RedisStore implements ConnectionStore and RoomStore on Redis hashes.
// Rooms are hashes with scalar fields plus JSON-encoded per-side state;
// connections are hashes tracked in a set for broadcast scans.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Register(ctx context.Context, id string) error {
	if err := s.rdb.HSet(ctx, connectionKey(id), connRoomKey, "").Err(); err != nil {
		return fmt.Errorf("registering connection %v: %w", id, err)
	}
	return s.rdb.SAdd(ctx, connectionsSetKey, id).Err()
}

func (s *RedisStore) Unregister(ctx context.Context, id string) (string, error) {
	room, err := s.rdb.HGet(ctx, connectionKey(id), connRoomKey).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading connection %v: %w", id, err)
	}

	if err := s.rdb.Del(ctx, connectionKey(id)).Err(); err != nil {
		return "", fmt.Errorf("deleting connection %v: %w", id, err)
	}
	if err := s.rdb.SRem(ctx, connectionsSetKey, id).Err(); err != nil {
		return "", err
	}

	return room, nil
}

func (s *RedisStore) GetRoom(ctx context.Context, id string) (string, error) {
	room, err := s.rdb.HGet(ctx, connectionKey(id), connRoomKey).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return room, nil
}

func (s *RedisStore) SetRoom(ctx context.Context, id, room string) error {
	return s.rdb.HSet(ctx, connectionKey(id), connRoomKey, room).Err()
}

func (s *RedisStore) ClearRoom(ctx context.Context, id string) error {
	return s.SetRoom(ctx, id, "")
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	return s.rdb.SMembers(ctx, connectionsSetKey).Result()
}

func (s *RedisStore) Get(ctx context.Context, name string) (*Room, error) {
	data, err := s.rdb.HGetAll(ctx, roomKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading room %v: %w", name, err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return decodeRoom(name, data)
}

// Create claims the room key under WATCH so two connections racing to
// create the same room resolve to one creator; the loser gets ErrConflict
// and can fall through to joining.
func (s *RedisStore) Create(ctx context.Context, room *Room) error {
	fields, err := encodeRoom(room)
	if err != nil {
		return err
	}
	key := roomKey(room.Name)

	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fields)
			pipe.Expire(ctx, key, roomTTL)
			return nil
		})
		return err
	}

	err = s.rdb.Watch(ctx, txf, key)
	if err == redis.TxFailedErr {
		// The key changed under us, so someone else claimed the name.
		return ErrConflict
	}
	if err != nil && err != ErrConflict {
		return fmt.Errorf("creating room %v: %w", room.Name, err)
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	return s.rdb.Del(ctx, roomKey(name)).Err()
}

// Update re-reads the room under WATCH and writes the mutated record in a
// transaction. A concurrent write to the same room aborts the transaction
// and the read-modify-write is retried.
func (s *RedisStore) Update(ctx context.Context, name string, fn func(*Room) error) (*Room, error) {
	key := roomKey(name)
	var updated *Room

	txf := func(tx *redis.Tx) error {
		data, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return ErrNotFound
		}

		room, err := decodeRoom(name, data)
		if err != nil {
			return err
		}

		if err := fn(room); err != nil {
			return err
		}

		fields, err := encodeRoom(room)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fields)
			pipe.Expire(ctx, key, roomTTL)
			return nil
		})
		if err != nil {
			return err
		}

		updated = room
		return nil
	}

	for i := 0; i < updateAttempts; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return nil, err
	}

	return nil, ErrConflict
}

func (s *RedisStore) ListAvailable(ctx context.Context) ([]string, error) {
	var names []string

	iter := s.rdb.Scan(ctx, 0, roomKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		vals, err := s.rdb.HMGet(ctx, iter.Val(), roomNameKey, roomAvailableKey).Result()
		if err != nil {
			return nil, err
		}
		name, _ := vals[0].(string)
		available, _ := vals[1].(string)
		if name != "" && available == "1" {
			names = append(names, name)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning rooms: %w", err)
	}

	return names, nil
}

func encodeRoom(room *Room) (map[string]interface{}, error) {
	one, err := json.Marshal(room.One)
	if err != nil {
		return nil, err
	}
	two, err := json.Marshal(room.Two)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		roomNameKey:      room.Name,
		roomPlayerOneKey: room.PlayerOne,
		roomPlayerTwoKey: room.PlayerTwo,
		roomAvailableKey: boolField(room.Available),
		roomComputerKey:  boolField(room.Computer),
		roomStatusKey:    string(room.Status),
		roomOneStateKey:  string(one),
		roomTwoStateKey:  string(two),
	}, nil
}

func decodeRoom(name string, data map[string]string) (*Room, error) {
	room := &Room{
		Name:      name,
		PlayerOne: data[roomPlayerOneKey],
		PlayerTwo: data[roomPlayerTwoKey],
		Available: data[roomAvailableKey] == "1",
		Computer:  data[roomComputerKey] == "1",
		Status:    Status(data[roomStatusKey]),
	}

	if v := data[roomOneStateKey]; v != "" {
		if err := json.Unmarshal([]byte(v), &room.One); err != nil {
			return nil, fmt.Errorf("decoding room %v player one: %w", name, err)
		}
	}
	if v := data[roomTwoStateKey]; v != "" {
		if err := json.Unmarshal([]byte(v), &room.Two); err != nil {
			return nil, fmt.Errorf("decoding room %v player two: %w", name, err)
		}
	}

	return room, nil
}

func boolField(b bool) string {
	return strconv.Itoa(boolInt(b))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
