package storage

import (
	"path/filepath"

	"github.com/vovakirdan/block-buddy/internal/registry"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

func init() {
	registry.Register(registry.BackendInfo{
		Name:        BackendFile,
		Description: "JSON save files with a last-good backup per profile",
	}, func(opts registry.Options) (registry.Backend, error) {
		repo, err := OpenFileRepository(opts.Dir, opts.Profile, opts.Fallback, opts.Logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	})

	registry.Register(registry.BackendInfo{
		Name:        BackendSQLite,
		Description: "single SQLite database holding every profile",
	}, func(opts registry.Options) (registry.Backend, error) {
		dir, err := ExpandHome(opts.Dir)
		if err != nil {
			return nil, err
		}
		store, err := Open(filepath.Join(dir, DatabaseFile))
		if err != nil {
			return nil, err
		}
		repo := store.Profile(opts.Profile, opts.Fallback, opts.Logger)
		repo.owned = true
		return repo, nil
	})

	registry.Register(registry.BackendInfo{
		Name:        BackendMemory,
		Description: "in-memory saves, lost on exit",
	}, func(opts registry.Options) (registry.Backend, error) {
		return NewMemoryRepository(opts.Fallback), nil
	})
}
