package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var validKey = regexp.MustCompile(`^[a-z0-9_-]+$`)

// FileStore keeps each key as a JSON file in a directory, so a corrupt
// value only affects its own key.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// DefaultStateDir returns the default state directory under dataDir.
func DefaultStateDir(dataDir string) string {
	return filepath.Join(dataDir, "state")
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the state files.
func (fs *FileStore) Dir() string {
	return fs.dir
}

func (fs *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(fs.dir, key+".json"), nil
}

// Save writes value to the key's file, replacing it atomically.
func (fs *FileStore) Save(key string, value []byte) error {
	path, err := fs.path(key)
	if err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("%w: %s", ErrNotJSON, key)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	tmp, err := os.CreateTemp(fs.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// Load reads the key's file.
func (fs *FileStore) Load(key string) ([]byte, bool, error) {
	path, err := fs.path(key)
	if err != nil {
		return nil, false, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read state file: %w", err)
	}
	return data, true, nil
}

// Clear deletes every state file.
func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return fmt.Errorf("failed to list state directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(fs.dir, e.Name())); err != nil {
			return fmt.Errorf("failed to remove state file: %w", err)
		}
	}
	return nil
}
