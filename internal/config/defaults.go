package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/block-buddy/internal/difficulty"
)

//go:embed defaults/buddy.yaml
var defaultBuddyYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grid: GridConfig{
			Width:  10,
			Height: 6,
		},
		Undo: UndoConfig{
			Capacity: 20,
		},
		Combo: ComboConfig{
			Window:    4500 * time.Millisecond,
			Milestone: 3,
		},
		Difficulty: DifficultyConfig{
			Preset:     AssistStandard,
			Thresholds: difficulty.DefaultThresholds(),
		},
		WelcomeBack: WelcomeBackConfig{
			Window:     24 * time.Hour,
			BonusStars: 2,
		},
		Session: SessionConfig{
			IdleTick:  time.Second,
			IdleNudge: 20 * time.Second,
		},
		Storage: StorageConfig{
			Backend: "file",
			Dir:     "~/.blockbuddy",
			Profile: "default",
		},
	}
}
