package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/valpere/reword/internal"
)

// ConfigurationKey is the key the record is stored under.
const ConfigurationKey = "reword.configuration"

// SQLiteStore keeps the record as a JSON blob in a key/value table.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

// NewSQLite opens (creating if needed) the database at dbPath.
func NewSQLite(ctx context.Context, dbPath string, log *zap.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes statements so writers never see SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, log: nopIfNil(log)}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Load returns the stored record, or the defaults when it is absent or
// cannot be parsed.
func (s *SQLiteStore) Load(ctx context.Context) internal.Configuration {
	c, err := s.read(ctx)
	if err != nil {
		s.log.Warn("using default configuration", zap.Error(err))
		return internal.DefaultConfiguration()
	}
	return c
}

func (s *SQLiteStore) read(ctx context.Context) (internal.Configuration, error) {
	var value string

	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, ConfigurationKey).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return internal.DefaultConfiguration(), nil
	}
	if err != nil {
		return internal.DefaultConfiguration(), err
	}

	return decode([]byte(value))
}

// Save replaces the stored record in a single statement, so a concurrent
// Load sees either the old or the new record.
func (s *SQLiteStore) Save(ctx context.Context, c internal.Configuration) {
	if err := s.write(ctx, c); err != nil {
		s.log.Warn("failed to save configuration", zap.Error(err))
	}
}

func (s *SQLiteStore) write(ctx context.Context, c internal.Configuration) error {
	data, err := encode(c)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		ConfigurationKey, string(data), time.Now())
	return err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
