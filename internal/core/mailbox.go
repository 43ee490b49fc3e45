package core

import "sync"

// Mailbox is a buffered, non-blocking channel wrapper.
// When the buffer is full the oldest value is dropped so senders never block.
// Used for session view updates and settings subscriptions.
type Mailbox[T any] struct {
	values   chan T
	done     chan struct{}
	doneOnce sync.Once
	mu       sync.Mutex
}

// NewMailbox creates a mailbox. bufferSize below 1 uses a default of 16.
func NewMailbox[T any](bufferSize int) *Mailbox[T] {
	if bufferSize < 1 {
		bufferSize = 16
	}
	return &Mailbox[T]{
		values: make(chan T, bufferSize),
		done:   make(chan struct{}),
	}
}

// Send delivers v without blocking.
// If the buffer is full, the oldest value is dropped to make room.
func (m *Mailbox[T]) Send(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		// Closed, don't send
		return
	default:
	}

	select {
	case m.values <- v:
	default:
		// Buffer full, drop oldest and retry
		select {
		case <-m.values:
		default:
		}
		select {
		case m.values <- v:
		default:
		}
	}
}

// Values returns the channel to receive from.
func (m *Mailbox[T]) Values() <-chan T {
	return m.values
}

// Done returns a channel that closes when the mailbox is closed.
func (m *Mailbox[T]) Done() <-chan struct{} {
	return m.done
}

// Close stops delivery. Safe to call multiple times.
func (m *Mailbox[T]) Close() {
	m.doneOnce.Do(func() {
		m.mu.Lock()
		close(m.done)
		m.mu.Unlock()
	})
}
