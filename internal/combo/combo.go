// Package combo scores chains of quick successful placements.
package combo

import "time"

// Defaults for the combo window and milestone interval.
const (
	DefaultWindow    = 4500 * time.Millisecond
	DefaultMilestone = 3
)

// Outcome is the streak state after one successful placement.
type Outcome struct {
	Streak     int // Always >= 1
	BonusStars int // 0 or 1
}

// Engine chains placements that land within Window of each other.
type Engine struct {
	Window    time.Duration
	Milestone int
}

// New creates an engine. Non-positive values fall back to the defaults.
func New(window time.Duration, milestone int) Engine {
	if window <= 0 {
		window = DefaultWindow
	}
	if milestone <= 0 {
		milestone = DefaultMilestone
	}
	return Engine{Window: window, Milestone: milestone}
}

// RegisterPlacement advances the streak for a placement at now.
// A zero previous time means there was no earlier placement to chain from.
// The gap is inclusive: exactly Window apart still chains.
func (e Engine) RegisterPlacement(now, previous time.Time, currentStreak int) Outcome {
	streak := 1
	if !previous.IsZero() && now.Sub(previous) <= e.Window {
		streak = currentStreak + 1
	}

	bonus := 0
	if streak > 1 && e.Milestone > 0 && streak%e.Milestone == 0 {
		bonus = 1
	}
	return Outcome{Streak: streak, BonusStars: bonus}
}
