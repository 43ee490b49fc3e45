// Package registry provides a global registry for persistence backends.
// Backends register themselves in init() functions, allowing the commands
// to pick one by name from configuration without hardcoded dependencies.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/snapshot"
)

// Backend persists one player profile: the world save and the settings.
type Backend interface {
	// Load returns the saved snapshot. When nothing is saved, or neither the
	// primary nor the backup copy is readable, it returns Options.Fallback().
	Load(ctx context.Context) (snapshot.WorldSnapshot, error)

	// Save writes the snapshot durably without damaging the previous good copy.
	Save(ctx context.Context, s snapshot.WorldSnapshot) error

	// ClearAll removes every saved snapshot of the profile.
	ClearAll(ctx context.Context) error

	settings.Store

	// Close releases resources held by the backend.
	Close() error
}

// Options configure a backend instance.
type Options struct {
	Dir      string                        // Data directory; "~" is expanded
	Profile  string                        // Player profile name
	Fallback func() snapshot.WorldSnapshot // Fresh-start snapshot
	Logger   *log.Logger
}

// BackendInfo contains metadata about a registered backend.
type BackendInfo struct {
	Name        string
	Description string
}

// Factory creates a backend for the given options.
type Factory func(opts Options) (Backend, error)

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a backend factory to the registry.
// Typically called from an init() function.
// Panics if a backend with the same name is already registered.
func Register(info BackendInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[info.Name]; exists {
		panic(fmt.Sprintf("registry: backend %q already registered", info.Name))
	}

	factories[info.Name] = f
	descriptions[info.Name] = info.Description
}

// List returns information about all registered backends, sorted by name.
func List() []BackendInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BackendInfo, 0, len(factories))
	for name := range factories {
		result = append(result, BackendInfo{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Open creates a backend by name.
// Returns an error if the name is not registered.
func Open(name string, opts Options) (Backend, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown backend %q", name)
	}
	if opts.Fallback == nil {
		return nil, fmt.Errorf("registry: backend %q: no fallback snapshot", name)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return f(opts)
}

// Exists checks if a backend with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
