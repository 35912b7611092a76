package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultSQLitePath is used by the sqlite driver when no path is configured.
const DefaultSQLitePath = ".tripsurvey/state.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS survey_state (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

type sqliteBackend struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at path and stores
// state in a key/value table.
func NewSQLiteStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultSQLitePath
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("persistence: create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("persistence: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("persistence: init sqlite schema: %w", err)
	}
	return newStore(DriverSQLite, &sqliteBackend{db: db}), nil
}

func (s *sqliteBackend) get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM survey_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *sqliteBackend) put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO survey_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}

func (s *sqliteBackend) putIfAbsent(ctx context.Context, key string, value []byte) ([]byte, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO survey_state (key, value) VALUES (?, ?)`, key, value); err != nil {
		return nil, err
	}
	stored, _, err := s.get(ctx, key)
	return stored, err
}

func (s *sqliteBackend) close() error {
	return s.db.Close()
}
