package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lox/doubleout/internal/fileutil"
	"github.com/lox/doubleout/internal/game"
)

// DefaultPath is where the file store keeps the setup when no path is given.
const DefaultPath = "darts-state.json"

// FileStore keeps the setup as indented JSON in a single file. Writes are
// atomic so a crash never leaves a half-written file behind.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path. An empty path uses DefaultPath.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &FileStore{path: filepath.Clean(path)}, nil
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string { return s.path }

// Load reads the setup. A missing file reports ErrNotFound.
func (s *FileStore) Load(ctx context.Context) (game.Setup, error) {
	if err := ctx.Err(); err != nil {
		return game.Setup{}, err
	}
	var setup game.Setup
	if err := fileutil.ReadJSON(s.path, &setup); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return game.Setup{}, ErrNotFound
		}
		return game.Setup{}, fmt.Errorf("load setup: %w", err)
	}
	return setup, nil
}

// Save writes the setup, replacing any previous one.
func (s *FileStore) Save(ctx context.Context, setup game.Setup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fileutil.WriteJSONAtomic(s.path, setup, 0o644); err != nil {
		return fmt.Errorf("save setup: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }
