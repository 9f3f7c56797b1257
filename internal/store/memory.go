package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lox/doubleout/internal/game"
)

// MemoryStore keeps the setup in memory as encoded JSON, so loads never
// alias what was saved. It is used for headless replays and tests.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (game.Setup, error) {
	if err := ctx.Err(); err != nil {
		return game.Setup{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return game.Setup{}, ErrNotFound
	}
	var setup game.Setup
	if err := json.Unmarshal(s.data, &setup); err != nil {
		return game.Setup{}, fmt.Errorf("decode setup: %w", err)
	}
	return setup, nil
}

func (s *MemoryStore) Save(ctx context.Context, setup game.Setup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(setup)
	if err != nil {
		return fmt.Errorf("encode setup: %w", err)
	}
	s.mu.Lock()
	s.data = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
