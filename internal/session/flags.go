package session

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

const GuestModeKey = "@cakesordering:guest_mode"

func guestKey(device string) string {
	return GuestModeKey + ":" + device
}

// FlagStore persists per-device boolean flags.
type FlagStore interface {
	Get(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string) error
	Remove(ctx context.Context, key string) error
}

type MemoryFlagStore struct {
	mu    sync.Mutex
	flags map[string]struct{}
}

func NewMemoryFlagStore() *MemoryFlagStore {
	return &MemoryFlagStore{flags: make(map[string]struct{})}
}

func (m *MemoryFlagStore) Get(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.flags[key]
	return ok, nil
}

func (m *MemoryFlagStore) Set(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[key] = struct{}{}
	return nil
}

func (m *MemoryFlagStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flags, key)
	return nil
}

// RedisFlagStore keeps flags as plain keys; a present key means true.
type RedisFlagStore struct {
	rdb *redis.Client
}

func NewRedisFlagStore(rdb *redis.Client) *RedisFlagStore {
	return &RedisFlagStore{rdb: rdb}
}

func (s *RedisFlagStore) Get(ctx context.Context, key string) (bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

func (s *RedisFlagStore) Set(ctx context.Context, key string) error {
	return s.rdb.Set(ctx, key, "1", 0).Err()
}

func (s *RedisFlagStore) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
