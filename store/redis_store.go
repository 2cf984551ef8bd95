package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"resort-backend/models"
)

const DefaultRoomsKey = "rooms"

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// maxWatchRetries bounds the optimistic-lock loop in Update.
const maxWatchRetries = 8

// RedisStore keeps the whole inventory as one JSON array under a single key.
// Update uses WATCH/MULTI so concurrent writers to the key retry instead of
// overwriting each other.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRoomsKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.load(ctx, s.rdb)
	if err != nil {
		return nil, err
	}
	if len(rooms) > 0 {
		return rooms, nil
	}
	return s.seed(ctx)
}

func (s *RedisStore) SaveAll(ctx context.Context, rooms []models.Room) error {
	data, err := encodeRooms(rooms)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", models.ErrStorageUnavailable, s.key, err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn UpdateFunc) (models.Room, error) {
	// make sure the key exists before watching it
	if _, err := s.List(ctx); err != nil {
		return models.Room{}, err
	}

	var updated models.Room
	txf := func(tx *redis.Tx) error {
		rooms, err := s.load(ctx, tx)
		if err != nil {
			return err
		}
		room, err := applyUpdate(rooms, id, fn)
		if err != nil {
			return callbackError{err}
		}
		data, err := encodeRooms(rooms)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = room
		return nil
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := s.rdb.Watch(ctx, txf, s.key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			log.Printf("rooms key changed during update of %s (attempt %d) - retrying", id, attempt+1)
			continue
		}
		var cbErr callbackError
		if errors.As(err, &cbErr) || errors.Is(err, models.ErrStorageCorrupted) || errors.Is(err, models.ErrStorageUnavailable) {
			return models.Room{}, unwrapCallback(err)
		}
		return models.Room{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return models.Room{}, fmt.Errorf("%w: update of room %s kept conflicting", models.ErrStorageUnavailable, id)
}

func (s *RedisStore) Reset(ctx context.Context) ([]models.Room, error) {
	rooms := models.DefaultRooms()
	if err := s.SaveAll(ctx, rooms); err != nil {
		return nil, err
	}
	log.Printf("⚠️  rooms reset to default inventory (redis key %s)", s.key)
	return rooms, nil
}

func (s *RedisStore) seed(ctx context.Context) ([]models.Room, error) {
	rooms := models.DefaultRooms()
	data, err := encodeRooms(rooms)
	if err != nil {
		return nil, err
	}
	// SetNX so two instances seeding at once agree on one payload
	created, err := s.rdb.SetNX(ctx, s.key, data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: seed %s: %v", models.ErrStorageUnavailable, s.key, err)
	}
	if !created {
		existing, err := s.load(ctx, s.rdb)
		if err != nil || len(existing) > 0 {
			return existing, err
		}
		// key holds an empty array
		if err := s.SaveAll(ctx, rooms); err != nil {
			return nil, err
		}
	}
	log.Printf("✅ rooms seeded (%d) into redis key %s", len(rooms), s.key)
	return rooms, nil
}

func (s *RedisStore) load(ctx context.Context, c getter) ([]models.Room, error) {
	raw, err := c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", models.ErrStorageUnavailable, s.key, err)
	}
	return decodeRooms(raw)
}
