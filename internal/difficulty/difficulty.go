// Package difficulty turns struggle signals into assist recommendations.
package difficulty

import "time"

// Signals are counters accumulated by the session.
type Signals struct {
	FailedPlacements int
	HintUses         int
	Idle             time.Duration
	Completion       *time.Duration // nil when the mission is not finished yet
}

// Recommendation is recomputed on every call; nothing is remembered.
type Recommendation struct {
	ReducedObjectiveCount  bool
	HighlightBlueprint     bool
	IncreasedResourceDrops bool
}

// Thresholds decide when a player counts as struggling.
type Thresholds struct {
	FailedPlacements int           `yaml:"failed_placements"`
	HintUses         int           `yaml:"hint_uses"`
	Idle             time.Duration `yaml:"idle"`
	SlowCompletion   time.Duration `yaml:"slow_completion"` // Extra drops only above this
}

// DefaultThresholds returns the stock tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FailedPlacements: 5,
		HintUses:         2,
		Idle:             25 * time.Second,
		SlowCompletion:   240 * time.Second,
	}
}

// Adjuster is a stateless classifier.
type Adjuster struct {
	t Thresholds
}

// NewAdjuster creates an adjuster with the given thresholds.
func NewAdjuster(t Thresholds) Adjuster {
	return Adjuster{t: t}
}

// Struggling reports whether any signal crossed its threshold.
func (a Adjuster) Struggling(s Signals) bool {
	return s.FailedPlacements >= a.t.FailedPlacements ||
		s.HintUses >= a.t.HintUses ||
		s.Idle >= a.t.Idle
}

// Recommend derives assists from the signals.
// Extra resource drops are withheld from players who already finish quickly.
func (a Adjuster) Recommend(s Signals) Recommendation {
	struggling := a.Struggling(s)
	slow := s.Completion == nil || *s.Completion > a.t.SlowCompletion
	return Recommendation{
		ReducedObjectiveCount:  struggling,
		HighlightBlueprint:     struggling,
		IncreasedResourceDrops: struggling && slow,
	}
}
