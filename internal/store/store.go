package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no record exists for a key
var ErrNotFound = errors.New("record not found")

// Store is the key-value persistence interface. Values are arbitrary
// JSON-compatible records; no schema is enforced beyond what each writer
// produces.
type Store interface {
	Put(ctx context.Context, key string, record any) error
	Get(ctx context.Context, key string, dest any) error
}

// SQLStore persists records as JSON blobs in a single table. It works
// against both the SQLite and Postgres drivers.
type SQLStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// NewSQLStore creates the store and ensures its table exists
func NewSQLStore(db *sqlx.DB, logger *slog.Logger) (*SQLStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	return &SQLStore{
		db:     db,
		logger: logger,
	}, nil
}

// Put inserts or replaces the record stored under key
func (s *SQLStore) Put(ctx context.Context, key string, record any) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	query := s.db.Rebind(`
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)

	if _, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		s.logger.Error("Failed to put record",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to put record: %w", err)
	}

	return nil
}

// Get loads the record stored under key into dest
func (s *SQLStore) Get(ctx context.Context, key string, dest any) error {
	query := s.db.Rebind(`SELECT value FROM records WHERE key = ?`)

	var value string
	err := s.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		s.logger.Error("Failed to get record",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to get record: %w", err)
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return nil
}
