package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/block-buddy/internal/core"
)

// Store persists settings.
type Store interface {
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// Hub owns the live settings and pushes every change to subscribers.
// Thread-safe for concurrent access.
type Hub struct {
	mu      sync.Mutex
	store   Store
	logger  *log.Logger
	current Settings
	subs    map[int]*core.Mailbox[Settings]
	nextID  int
}

// NewHub loads settings from the store. A failed load is logged and the
// defaults are used, so a broken settings file never blocks play.
func NewHub(ctx context.Context, store Store, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	current, err := store.LoadSettings(ctx)
	if err != nil {
		logger.Warn("settings unreadable, using defaults", "err", err)
		current = Default()
	}
	return &Hub{
		store:   store,
		logger:  logger,
		current: current.Normalized(),
		subs:    make(map[int]*core.Mailbox[Settings]),
	}
}

// Current returns the live settings.
func (h *Hub) Current() Settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Update applies fn, saves the result and notifies subscribers.
// The in-memory value changes even when saving fails; the save error is returned.
func (h *Hub) Update(ctx context.Context, fn func(Settings) Settings) (Settings, error) {
	h.mu.Lock()
	next := fn(h.current).Normalized()
	changed := next != h.current
	h.current = next
	subs := make([]*core.Mailbox[Settings], 0, len(h.subs))
	for _, m := range h.subs {
		subs = append(subs, m)
	}
	h.mu.Unlock()

	if !changed {
		return next, nil
	}
	for _, m := range subs {
		m.Send(next)
	}
	if err := h.store.SaveSettings(ctx, next); err != nil {
		h.logger.Warn("settings save failed", "err", err)
		return next, fmt.Errorf("settings: save: %w", err)
	}
	return next, nil
}

// Set parses and applies one setting by key.
func (h *Hub) Set(ctx context.Context, key, value string) (Settings, error) {
	var parseErr error
	next, err := h.Update(ctx, func(s Settings) Settings {
		updated, err := s.With(key, value)
		if err != nil {
			parseErr = err
			return s
		}
		return updated
	})
	if parseErr != nil {
		return next, parseErr
	}
	return next, err
}

// Subscribe returns a channel that first receives the current settings and
// then every change. Slow readers only miss intermediate values.
// The returned func unsubscribes.
func (h *Hub) Subscribe() (<-chan Settings, func()) {
	m := core.NewMailbox[Settings](4)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = m
	m.Send(h.current)
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		m.Close()
	}
	return m.Values(), cancel
}

// Close unsubscribes everyone.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, m := range h.subs {
		m.Close()
		delete(h.subs, id)
	}
}
