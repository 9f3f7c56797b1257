package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/lox/doubleout/internal/game"
)

// RedisStore keeps the setup as a JSON string under a single key. Setups
// never expire.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore wraps an existing client. An empty key uses DefaultRedisKey.
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if strings.TrimSpace(key) == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

// OpenRedis connects to the server at url (redis://host:port/db).
func OpenRedis(url, key string) (*RedisStore, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts), key), nil
}

// Key returns the key the setup is stored under.
func (s *RedisStore) Key() string { return s.key }

func (s *RedisStore) Load(ctx context.Context) (game.Setup, error) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.Setup{}, ErrNotFound
	}
	if err != nil {
		return game.Setup{}, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	var setup game.Setup
	if err := json.Unmarshal(raw, &setup); err != nil {
		return game.Setup{}, fmt.Errorf("decode setup: %w", err)
	}
	return setup, nil
}

func (s *RedisStore) Save(ctx context.Context, setup game.Setup) error {
	raw, err := json.Marshal(setup)
	if err != nil {
		return fmt.Errorf("encode setup: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
