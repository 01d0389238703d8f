package session

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/SeamusWaldron/cubetrainer"
)

// Persisted keys.
const (
	KeySolves    = "solves"
	KeySettings  = "settings"
	KeyFavorites = "favorites"
	KeyStep      = "step"
)

// Store is a last-writer-wins key/value store.
type Store interface {
	Save(key string, value []byte) error
	// Load returns the stored value. The boolean is false when the key has
	// never been saved.
	Load(key string) ([]byte, bool, error)
	Clear() error
}

// History is an append-only list of solves that can only be cleared in
// bulk.
type History interface {
	Append(rec cubetrainer.SolveRecord) error
	All() ([]cubetrainer.SolveRecord, error)
	Clear() error
}

// Resetter clears the history and the store in one atomic step, leaving
// only the keep entries in the store. Backends that keep both in one
// database implement it.
type Resetter interface {
	Reset(keep map[string][]byte) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Save stores a copy of value.
func (m *MemoryStore) Save(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = slices.Clone(value)
	return nil
}

// Load returns a copy of the stored value.
func (m *MemoryStore) Load(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return slices.Clone(v), ok, nil
}

// Clear removes every key.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
	return nil
}

// MemoryHistory is an in-process History.
type MemoryHistory struct {
	mu      sync.Mutex
	records []cubetrainer.SolveRecord
}

// NewMemoryHistory creates an empty in-memory history.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

// Append adds a record.
func (h *MemoryHistory) Append(rec cubetrainer.SolveRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	return nil
}

// All returns a copy of every record, oldest first.
func (h *MemoryHistory) All() ([]cubetrainer.SolveRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.records), nil
}

// Clear removes every record.
func (h *MemoryHistory) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	return nil
}

// KVHistory keeps the whole solve list as one JSON array under KeySolves
// in a Store. A corrupt list is reported once by All and replaced by the
// next Append.
type KVHistory struct {
	store Store

	mu      sync.Mutex
	loaded  bool
	records []cubetrainer.SolveRecord
}

// NewKVHistory creates a history backed by store.
func NewKVHistory(store Store) *KVHistory {
	return &KVHistory{store: store}
}

// load reads the list once. The caller must hold h.mu.
func (h *KVHistory) load() error {
	if h.loaded {
		return nil
	}
	h.loaded = true

	data, ok, err := h.store.Load(KeySolves)
	if err != nil {
		h.loaded = false
		return err
	}
	if !ok {
		return nil
	}

	var records []cubetrainer.SolveRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, KeySolves, err)
	}
	h.records = records
	return nil
}

// Append adds a record and rewrites the stored list.
func (h *KVHistory) Append(rec cubetrainer.SolveRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A corrupt list has been reported by All already; start over.
	if err := h.load(); err != nil && !h.loaded {
		return err
	}

	next := append(slices.Clone(h.records), rec)
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal solves: %w", err)
	}
	if err := h.store.Save(KeySolves, data); err != nil {
		return err
	}
	h.records = next
	return nil
}

// All returns every record, oldest first.
func (h *KVHistory) All() ([]cubetrainer.SolveRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.load(); err != nil {
		return nil, err
	}
	return slices.Clone(h.records), nil
}

// Clear drops the list from memory and from the store.
func (h *KVHistory) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Save(KeySolves, []byte("[]")); err != nil {
		return err
	}
	h.records = nil
	h.loaded = true
	return nil
}
