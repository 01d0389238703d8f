package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVStore is a last-writer-wins key/value table used for settings and
// favorites.
type KVStore struct {
	db *DB
}

// NewKVStore creates a new key/value store.
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Save stores value under key, replacing any previous value.
func (s *KVStore) Save(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	return nil
}

// Load returns the value stored under key. The boolean is false when the
// key has never been saved.
func (s *KVStore) Load(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %q: %w", key, err)
	}
	return value, true, nil
}

// Clear deletes every key.
func (s *KVStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM kv"); err != nil {
		return fmt.Errorf("failed to clear kv store: %w", err)
	}
	return nil
}
