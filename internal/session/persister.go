package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/block-buddy/internal/snapshot"
)

// persistOp is one pending write: a snapshot to save, or a clear.
type persistOp struct {
	snap  snapshot.WorldSnapshot
	clear bool
}

// persister writes snapshots off the interactive path. At most one write is
// in flight; a new request replaces the pending one instead of queueing.
// Failures are logged and never reach the player.
type persister struct {
	repo   Repository
	logger *log.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	cond     *sync.Cond
	pending  *persistOp
	inFlight bool
	closed   bool
	saves    int
	failures int

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func newPersister(repo Repository, logger *log.Logger) *persister {
	ctx, cancel := context.WithCancel(context.Background())
	p := &persister{
		repo:   repo,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	go p.run()
	return p
}

// submit replaces any pending op. It never blocks.
func (p *persister) submit(op persistOp) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.pending = &op
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			for p.writeNext() {
			}
		case <-p.stop:
			for p.writeNext() {
			}
			return
		}
	}
}

// writeNext performs the pending op, if any.
func (p *persister) writeNext() bool {
	p.mu.Lock()
	op := p.pending
	p.pending = nil
	p.inFlight = op != nil
	p.mu.Unlock()
	if op == nil {
		return false
	}

	var err error
	if op.clear {
		err = p.repo.ClearAll(p.ctx)
	} else {
		err = p.repo.Save(p.ctx, op.snap)
	}

	p.mu.Lock()
	p.inFlight = false
	if err != nil {
		p.failures++
	} else {
		p.saves++
	}
	p.cond.Broadcast()
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("persist failed", "clear", op.clear, "err", err)
	}
	return true
}

// flush blocks until nothing is pending or in flight.
func (p *persister) flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for (p.pending != nil || p.inFlight) && !p.closed {
		p.cond.Wait()
	}
}

// stats returns the number of successful and failed writes.
func (p *persister) stats() (saves, failures int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves, p.failures
}

// close writes the last pending op and stops the worker. If ctx ends first,
// the in-flight write is cancelled.
func (p *persister) close(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	close(p.stop)
	select {
	case <-p.done:
	case <-ctx.Done():
		p.cancel()
		<-p.done
	}
	p.cancel()
}
