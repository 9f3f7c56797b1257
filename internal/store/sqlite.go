package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/doubleout/internal/game"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS setups (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	data       TEXT    NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps the setup as a JSON document in a single-row table.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (game.Setup, error) {
	if err := ctx.Err(); err != nil {
		return game.Setup{}, err
	}
	if s == nil || s.sqlDB == nil {
		return game.Setup{}, fmt.Errorf("storage is not configured")
	}

	var raw string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM setups WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Setup{}, ErrNotFound
	}
	if err != nil {
		return game.Setup{}, fmt.Errorf("load setup: %w", err)
	}

	var setup game.Setup
	if err := json.Unmarshal([]byte(raw), &setup); err != nil {
		return game.Setup{}, fmt.Errorf("decode setup: %w", err)
	}
	return setup, nil
}

func (s *SQLiteStore) Save(ctx context.Context, setup game.Setup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	raw, err := json.Marshal(setup)
	if err != nil {
		return fmt.Errorf("encode setup: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO setups (id, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(raw),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save setup: %w", err)
	}
	return nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
