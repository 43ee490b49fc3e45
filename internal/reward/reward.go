// Package reward grants the one-time welcome-back bonus after an absence.
package reward

import (
	"fmt"
	"time"
)

// Defaults for the welcome-back reward.
const (
	DefaultWindow     = 24 * time.Hour
	DefaultBonusStars = 2
)

// Outcome is the result of one evaluation.
type Outcome struct {
	StarsAfterReward int
	BonusStars       int
	Granted          bool
	HintText         string // Empty when nothing was granted
}

// WelcomeBack holds no memory of earlier grants. Callers must move their
// last-updated timestamp to now right after a grant.
type WelcomeBack struct {
	Window     time.Duration
	BonusStars int
}

// NewWelcomeBack creates an engine. A non-positive window or a negative bonus
// falls back to the default. A bonus of 0 turns the reward off.
func NewWelcomeBack(window time.Duration, bonus int) WelcomeBack {
	if window <= 0 {
		window = DefaultWindow
	}
	if bonus < 0 {
		bonus = DefaultBonusStars
	}
	return WelcomeBack{Window: window, BonusStars: bonus}
}

// Evaluate grants the bonus when at least Window has passed since lastUpdated.
// A zero bonus never grants.
func (w WelcomeBack) Evaluate(currentStars int, lastUpdated, now time.Time) Outcome {
	if w.BonusStars <= 0 || now.Sub(lastUpdated) < w.Window {
		return Outcome{StarsAfterReward: currentStars}
	}
	return Outcome{
		StarsAfterReward: currentStars + w.BonusStars,
		BonusStars:       w.BonusStars,
		Granted:          true,
		HintText:         fmt.Sprintf("Welcome back! You earned +%d stars for returning.", w.BonusStars),
	}
}
