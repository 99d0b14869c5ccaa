package store

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotInitialized is returned when the cache database has no schema yet.
var ErrNotInitialized = errors.New("cache not initialized: run 'appcompat --refresh-cache' to rebuild it")

// Store is a persistent key-value cache backed by SQLite. Every write bumps a
// single store-wide modification time; entries are not aged individually.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new Store with the specified database path.
// Use ":memory:" for in-memory databases (useful for testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// SQLite only allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// OpenReadOnly opens an existing cache without creating, migrating or
// writing to it. Writes through the returned Store fail.
func OpenReadOnly(dbPath string) (*Store, error) {
	dsn := (&url.URL{Scheme: "file", Path: dbPath, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// SetClock replaces the time source used for modification times and
// staleness checks.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateSchema creates all tables.
func (s *Store) CreateSchema() error {
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// wrapErr annotates err with op, mapping "no such table" failures to
// ErrNotInitialized.
func wrapErr(op string, err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%s: %w", op, ErrNotInitialized)
	}
	return fmt.Errorf("%s: %w", op, err)
}
