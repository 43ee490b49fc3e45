package storage

import (
	"context"
	"sync"

	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/snapshot"
)

// MemoryRepository keeps saves in memory. Nothing survives the process.
// Saves are stored encoded, so Load goes through the same validation as the
// durable backends.
type MemoryRepository struct {
	*settings.MemoryStore
	mu       sync.Mutex
	primary  []byte
	backup   []byte
	saves    int
	fallback func() snapshot.WorldSnapshot
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository(fallback func() snapshot.WorldSnapshot) *MemoryRepository {
	return &MemoryRepository{
		MemoryStore: settings.NewMemoryStore(),
		fallback:    fallback,
	}
}

// Load returns the last saved snapshot, the backup, or a fresh snapshot.
func (m *MemoryRepository) Load(ctx context.Context) (snapshot.WorldSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.WorldSnapshot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, data := range [][]byte{m.primary, m.backup} {
		if data == nil {
			continue
		}
		if s, err := snapshot.Decode(data); err == nil {
			return s, nil
		}
	}
	return m.fallback(), nil
}

// Save stores the snapshot and keeps the previous one as backup.
func (m *MemoryRepository) Save(ctx context.Context, s snapshot.WorldSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := snapshot.Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.primary != nil {
		m.backup = m.primary
	}
	m.primary = data
	m.saves++
	return nil
}

// ClearAll forgets every save.
func (m *MemoryRepository) ClearAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.primary, m.backup = nil, nil
	return nil
}

// Saves returns how many times Save succeeded.
func (m *MemoryRepository) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Close is a no-op.
func (m *MemoryRepository) Close() error {
	return nil
}
