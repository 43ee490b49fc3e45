package session

import (
	"context"
	"time"

	"github.com/vovakirdan/block-buddy/internal/settings"
)

// runIdleTicker counts idle time and nudges the player once per idle stretch.
func (s *Session) runIdleTicker(ctx context.Context) {
	defer s.tasks.Done()
	ticker := time.NewTicker(s.opts.IdleTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tickIdle(s.opts.IdleTick)
		}
	}
}

// tickIdle adds d to the idle counter. The nudge fires when the counter
// crosses IdleNudge, not on every tick after it.
func (s *Session) tickIdle(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view.Phase != PhaseReady {
		return
	}
	before := s.idle
	s.idle += d
	if before < s.opts.IdleNudge && s.idle >= s.opts.IdleNudge {
		v := s.view
		v.HintText = HintIdleNudge
		s.publish(v)
	}
}

// watchSettings turns settings updates into SettingsChanged intents.
func (s *Session) watchSettings(ctx context.Context, changes <-chan settings.Settings) {
	defer s.tasks.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case next := <-changes:
			s.Handle(SettingsChanged{Settings: next})
		}
	}
}

// Idle returns how long the player has been idle.
func (s *Session) Idle() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idle
}
