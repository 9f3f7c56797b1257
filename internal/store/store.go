// Package store persists the game setup (roster with histories, mode and
// multiplier colors) between runs. Adapters exist for a JSON file, Redis,
// SQLite and memory; all of them satisfy game.Persister.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/doubleout/internal/game"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("no saved setup")

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultRedisKey is the key the Redis adapter stores the setup under.
const DefaultRedisKey = "darts:setup"

// Store loads and saves a game setup.
type Store interface {
	Load(ctx context.Context) (game.Setup, error)
	Save(ctx context.Context, setup game.Setup) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Path       string
	RedisURL   string
	RedisKey   string
	SQLitePath string
}

// Open returns the store selected by opts.Backend. An empty backend means
// the JSON file store.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return NewFileStore(opts.Path)
	case BackendRedis:
		s, err := OpenRedis(opts.RedisURL, opts.RedisKey)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// LoadOrDefault loads the saved setup and sanitizes it. It never fails: a
// missing, unreadable or malformed setup gives an empty roster playing 501
// with the default colors.
func LoadOrDefault(ctx context.Context, s Store, logger *log.Logger) game.Setup {
	return LoadOr(ctx, s, game.DefaultSetup(), logger)
}

// LoadOr is LoadOrDefault with a caller supplied fallback, e.g. the mode and
// colors from the config file.
func LoadOr(ctx context.Context, s Store, fallback game.Setup, logger *log.Logger) game.Setup {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	fallback = fallback.Sanitize()
	if s == nil {
		return fallback
	}
	setup, err := s.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		logger.Debug("No saved setup, starting fresh")
		return fallback
	case err != nil:
		logger.Warn("Failed to load saved setup, starting fresh", "error", err)
		return fallback
	}

	setup = setup.Sanitize()
	logger.Debug("Loaded saved setup", "players", len(setup.Players), "mode", setup.Mode)
	return setup
}
