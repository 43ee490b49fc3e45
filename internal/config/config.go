// Package config provides YAML-based engine configuration loading and
// assist presets for the block builder.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/block-buddy/internal/difficulty"
)

// Config contains all tunable parameters of the game engine and shell.
type Config struct {
	Grid        GridConfig        `yaml:"grid"`
	Undo        UndoConfig        `yaml:"undo"`
	Combo       ComboConfig       `yaml:"combo"`
	Difficulty  DifficultyConfig  `yaml:"difficulty"`
	WelcomeBack WelcomeBackConfig `yaml:"welcome_back"`
	Session     SessionConfig     `yaml:"session"`
	Missions    MissionsConfig    `yaml:"missions"`
	Storage     StorageConfig     `yaml:"storage"`
}

// GridConfig defines the size of a fresh build board.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// UndoConfig defines the undo history.
type UndoConfig struct {
	Capacity int `yaml:"capacity"`
}

// ComboConfig defines combo chaining.
type ComboConfig struct {
	Window    time.Duration `yaml:"window"`    // Max gap between chained placements
	Milestone int           `yaml:"milestone"` // Bonus star every N chained placements
}

// DifficultyConfig defines when the player counts as struggling.
type DifficultyConfig struct {
	Preset     AssistPreset          `yaml:"preset"` // Overrides thresholds unless "custom"
	Thresholds difficulty.Thresholds `yaml:"thresholds"`
}

// WelcomeBackConfig defines the returning-player reward.
type WelcomeBackConfig struct {
	Window     time.Duration `yaml:"window"`
	BonusStars int           `yaml:"bonus_stars"`
}

// SessionConfig defines session timers.
type SessionConfig struct {
	IdleTick  time.Duration `yaml:"idle_tick"`  // Idle counter resolution
	IdleNudge time.Duration `yaml:"idle_nudge"` // Idle time before the help nudge
}

// MissionsConfig points at an optional custom mission catalog.
type MissionsConfig struct {
	Catalog string `yaml:"catalog"` // Empty uses the built-in catalog
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file", "sqlite" or "memory"
	Dir     string `yaml:"dir"`
	Profile string `yaml:"profile"`
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Validate checks that every value is usable.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Grid.Width > 0 && c.Grid.Height > 0, "grid must be at least 1x1, got %dx%d", c.Grid.Width, c.Grid.Height)
	check(c.Undo.Capacity > 0, "undo.capacity must be positive, got %d", c.Undo.Capacity)
	check(c.Combo.Window > 0, "combo.window must be positive, got %s", c.Combo.Window)
	check(c.Combo.Milestone > 0, "combo.milestone must be positive, got %d", c.Combo.Milestone)
	check(c.WelcomeBack.Window > 0, "welcome_back.window must be positive, got %s", c.WelcomeBack.Window)
	check(c.WelcomeBack.BonusStars >= 0, "welcome_back.bonus_stars must not be negative, got %d", c.WelcomeBack.BonusStars)
	check(c.Session.IdleTick > 0, "session.idle_tick must be positive, got %s", c.Session.IdleTick)
	check(c.Session.IdleNudge >= c.Session.IdleTick, "session.idle_nudge must be at least idle_tick, got %s", c.Session.IdleNudge)
	check(c.Storage.Backend != "", "storage.backend is required")

	t := c.Difficulty.Thresholds
	check(t.FailedPlacements > 0 && t.HintUses > 0 && t.Idle > 0 && t.SlowCompletion > 0,
		"difficulty thresholds must be positive, got %+v", t)
	if c.Difficulty.Preset != "" {
		_, ok := ThresholdsForPreset(c.Difficulty.Preset)
		check(ok || c.Difficulty.Preset == AssistCustom, "unknown difficulty.preset %q", c.Difficulty.Preset)
	}

	return errors.Join(errs...)
}
