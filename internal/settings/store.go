package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// MemoryStore keeps settings in memory. Used by tests and the memory backend.
type MemoryStore struct {
	mu sync.Mutex
	s  *Settings
}

// NewMemoryStore creates an empty store that loads as Default().
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadSettings returns the saved settings or the defaults.
func (m *MemoryStore) LoadSettings(context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return Default(), nil
	}
	return *m.s, nil
}

// SaveSettings stores a copy of s.
func (m *MemoryStore) SaveSettings(_ context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = &s
	return nil
}

// FileStore keeps settings in a YAML file.
type FileStore struct {
	path string
}

// NewFileStore creates a store for the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the settings file path.
func (f *FileStore) Path() string {
	return f.path
}

// LoadSettings reads the file. A missing file yields the defaults.
// Keys absent from the file keep their default values.
func (f *FileStore) LoadSettings(context.Context) (Settings, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("settings: read %s: %w", f.path, err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("settings: parse %s: %w", f.path, err)
	}
	return s.Normalized(), nil
}

// SaveSettings writes the file through a temp file and rename.
func (f *FileStore) SaveSettings(_ context.Context, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("settings: cannot create directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("settings: commit %s: %w", f.path, err)
	}
	return nil
}
