package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/block-buddy/internal/snapshot"
)

// gatedRepo blocks every Save until release is closed.
type gatedRepo struct {
	started chan struct{}
	release chan struct{}

	mu      sync.Mutex
	saved   []int
	cleared int
}

func newGatedRepo() *gatedRepo {
	return &gatedRepo{started: make(chan struct{}, 8), release: make(chan struct{})}
}

func (r *gatedRepo) Load(context.Context) (snapshot.WorldSnapshot, error) {
	return snapshot.WorldSnapshot{}, nil
}

func (r *gatedRepo) Save(ctx context.Context, s snapshot.WorldSnapshot) error {
	r.started <- struct{}{}
	select {
	case <-r.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	r.mu.Lock()
	r.saved = append(r.saved, s.Stars)
	r.mu.Unlock()
	return nil
}

func (r *gatedRepo) ClearAll(context.Context) error {
	r.mu.Lock()
	r.cleared++
	r.mu.Unlock()
	return nil
}

func (r *gatedRepo) savedStars() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.saved...)
}

func stars(n int) persistOp {
	return persistOp{snap: snapshot.WorldSnapshot{Stars: n}}
}

func TestPersisterSupersedesPending(t *testing.T) {
	repo := newGatedRepo()
	p := newPersister(repo, quietLogger())
	defer p.close(context.Background())

	p.submit(stars(1))
	<-repo.started // 1 is in flight

	p.submit(stars(2))
	p.submit(stars(3))
	close(repo.release)
	p.flush()

	got := repo.savedStars()
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("saved = %v, want [1 3]", got)
	}
	if saves, failures := p.stats(); saves != 2 || failures != 0 {
		t.Errorf("stats = %d saves %d failures", saves, failures)
	}
}

func TestPersisterClearReplacesSave(t *testing.T) {
	repo := newGatedRepo()
	close(repo.release)
	p := newPersister(repo, quietLogger())
	defer p.close(context.Background())

	p.submit(stars(5))
	p.flush()
	p.submit(persistOp{clear: true})
	p.flush()

	if repo.cleared != 1 || len(repo.savedStars()) != 1 {
		t.Errorf("cleared %d saved %v", repo.cleared, repo.savedStars())
	}
}

func TestPersisterCloseDrainsPending(t *testing.T) {
	repo := newGatedRepo()
	close(repo.release)
	p := newPersister(repo, quietLogger())

	p.submit(stars(9))
	p.close(context.Background())

	got := repo.savedStars()
	if len(got) != 1 || got[0] != 9 {
		t.Errorf("saved = %v, want [9]", got)
	}

	p.submit(stars(10))
	p.flush()
	if len(repo.savedStars()) != 1 {
		t.Error("submit after close must be ignored")
	}
}

func TestPersisterCloseHonorsDeadline(t *testing.T) {
	repo := newGatedRepo()
	p := newPersister(repo, quietLogger())

	p.submit(stars(1))
	<-repo.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	p.close(ctx)

	if _, failures := p.stats(); failures != 1 {
		t.Errorf("failures = %d, want the cancelled write", failures)
	}
}
