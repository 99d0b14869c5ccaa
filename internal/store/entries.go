package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Keys of the two cached entries.
const (
	InstalledApplicationsKey = "installed_applications"
	CompatibilityDataKey     = "compatibility_data"
)

// Entry describes one cached value.
type Entry struct {
	Key       string
	SizeBytes int64
}

// Put stores value under key as JSON, replacing any previous value, and
// updates the store's modification time.
func (s *Store) Put(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO cache_entries (key, value) VALUES (?, ?)`, key, string(data)); err != nil {
		tx.Rollback() //nolint:errcheck
		return wrapErr(fmt.Sprintf("failed to store %s", key), err)
	}

	modifiedAt := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.Exec(`INSERT OR REPLACE INTO cache_meta (id, modified_at) VALUES (1, ?)`, modifiedAt); err != nil {
		tx.Rollback() //nolint:errcheck
		return wrapErr("failed to update modification time", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}

	return nil
}

// Get decodes the value stored under key into dst. It reports false when
// the key has never been stored.
func (s *Store) Get(key string, dst any) (bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM cache_entries WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, wrapErr(fmt.Sprintf("failed to read %s", key), err)
	}

	if err := json.Unmarshal([]byte(value), dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return true, nil
}

// ModifiedAt returns the time of the last write to the store. It reports
// false when nothing has ever been written.
func (s *Store) ModifiedAt() (time.Time, bool, error) {
	var modifiedAt string
	err := s.db.QueryRow(`SELECT modified_at FROM cache_meta WHERE id = 1`).Scan(&modifiedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, wrapErr("failed to read modification time", err)
	}

	t, err := time.Parse(time.RFC3339Nano, modifiedAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse modification time: %w", err)
	}

	return t, true, nil
}

// IsStale reports whether the cache is older than ttl. A store that has
// never been written is stale.
func (s *Store) IsStale(ttl time.Duration) (bool, error) {
	modifiedAt, ok, err := s.ModifiedAt()
	if err != nil {
		return true, err
	}
	if !ok {
		return true, nil
	}

	return s.now().Sub(modifiedAt) >= ttl, nil
}

// Entries lists the stored keys with the size of their encoded values.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT key, LENGTH(value) FROM cache_entries ORDER BY key`)
	if err != nil {
		return nil, wrapErr("failed to list cache entries", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.SizeBytes); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache entries: %w", err)
	}

	return entries, nil
}
