package config

import (
	"time"

	"github.com/vovakirdan/block-buddy/internal/difficulty"
)

// AssistPreset is a named set of struggle thresholds.
type AssistPreset string

const (
	AssistGentle      AssistPreset = "gentle"      // Help arrives early
	AssistStandard    AssistPreset = "standard"    // Default thresholds
	AssistIndependent AssistPreset = "independent" // Help waits longer
	AssistCustom      AssistPreset = "custom"      // Use thresholds from the file
)

// ThresholdsForPreset returns the thresholds of a named preset.
// Returns false for custom or unknown presets.
func ThresholdsForPreset(preset AssistPreset) (difficulty.Thresholds, bool) {
	switch preset {
	case AssistGentle:
		return difficulty.Thresholds{
			FailedPlacements: 3,
			HintUses:         1,
			Idle:             15 * time.Second,
			SlowCompletion:   180 * time.Second,
		}, true
	case AssistStandard:
		return difficulty.DefaultThresholds(), true
	case AssistIndependent:
		return difficulty.Thresholds{
			FailedPlacements: 8,
			HintUses:         3,
			Idle:             45 * time.Second,
			SlowCompletion:   360 * time.Second,
		}, true
	default:
		return difficulty.Thresholds{}, false
	}
}

// ApplyAssistPreset sets the preset and, unless it is custom, its thresholds.
// Unknown presets leave the config unchanged and return false.
func ApplyAssistPreset(cfg *Config, preset AssistPreset) bool {
	if preset == AssistCustom {
		cfg.Difficulty.Preset = AssistCustom
		return true
	}
	t, ok := ThresholdsForPreset(preset)
	if !ok {
		return false
	}
	cfg.Difficulty.Preset = preset
	cfg.Difficulty.Thresholds = t
	return true
}
