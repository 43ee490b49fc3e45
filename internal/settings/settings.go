// Package settings holds the player-facing options and broadcasts changes to
// subscribers.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/block-buddy/internal/core"
)

// Camera sensitivity range.
const (
	MinCameraSensitivity     = 1
	MaxCameraSensitivity     = 10
	DefaultCameraSensitivity = 5
)

// ErrUnknownKey is returned for a setting name that does not exist.
var ErrUnknownKey = errors.New("settings: unknown key")

// Settings are the options the game reads. Only BlueprintAssist and
// DailyChallengeMode change game rules; the rest are cosmetic.
type Settings struct {
	LargerControls      bool `json:"largerControls" yaml:"larger_controls"`
	CameraSensitivity   int  `json:"cameraSensitivity" yaml:"camera_sensitivity"`
	BlueprintAssist     bool `json:"blueprintAssist" yaml:"blueprint_assist"`
	DailyChallengeMode  bool `json:"dailyChallengeMode" yaml:"daily_challenge_mode"`
	FeedbackCuesEnabled bool `json:"feedbackCuesEnabled" yaml:"feedback_cues_enabled"`
	SensoryCalmMode     bool `json:"sensoryCalmMode" yaml:"sensory_calm_mode"`
}

// Default returns the settings of a fresh install.
func Default() Settings {
	return Settings{
		CameraSensitivity:   DefaultCameraSensitivity,
		BlueprintAssist:     true,
		FeedbackCuesEnabled: true,
	}
}

// Normalized returns s with out-of-range values clamped.
func (s Settings) Normalized() Settings {
	s.CameraSensitivity = core.Clamp(s.CameraSensitivity, MinCameraSensitivity, MaxCameraSensitivity)
	return s
}

// Setting keys, in display order.
const (
	KeyLargerControls      = "larger_controls"
	KeyCameraSensitivity   = "camera_sensitivity"
	KeyBlueprintAssist     = "blueprint_assist"
	KeyDailyChallengeMode  = "daily_challenge_mode"
	KeyFeedbackCuesEnabled = "feedback_cues_enabled"
	KeySensoryCalmMode     = "sensory_calm_mode"
)

// Keys returns every setting key in display order.
func Keys() []string {
	return []string{
		KeyLargerControls,
		KeyCameraSensitivity,
		KeyBlueprintAssist,
		KeyDailyChallengeMode,
		KeyFeedbackCuesEnabled,
		KeySensoryCalmMode,
	}
}

// Get returns the value of one setting formatted for display.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case KeyLargerControls:
		return strconv.FormatBool(s.LargerControls), nil
	case KeyCameraSensitivity:
		return strconv.Itoa(s.CameraSensitivity), nil
	case KeyBlueprintAssist:
		return strconv.FormatBool(s.BlueprintAssist), nil
	case KeyDailyChallengeMode:
		return strconv.FormatBool(s.DailyChallengeMode), nil
	case KeyFeedbackCuesEnabled:
		return strconv.FormatBool(s.FeedbackCuesEnabled), nil
	case KeySensoryCalmMode:
		return strconv.FormatBool(s.SensoryCalmMode), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
}

// With returns a copy of s with one setting parsed from text.
// Camera sensitivity is clamped rather than rejected.
func (s Settings) With(key, value string) (Settings, error) {
	value = strings.TrimSpace(value)
	if key == KeyCameraSensitivity {
		n, err := strconv.Atoi(value)
		if err != nil {
			return s, fmt.Errorf("settings: %s: %w", key, err)
		}
		s.CameraSensitivity = n
		return s.Normalized(), nil
	}

	target, err := s.boolField(key)
	if err != nil {
		return s, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return s, fmt.Errorf("settings: %s: %w", key, err)
	}
	*target = b
	return s, nil
}

func (s *Settings) boolField(key string) (*bool, error) {
	switch key {
	case KeyLargerControls:
		return &s.LargerControls, nil
	case KeyBlueprintAssist:
		return &s.BlueprintAssist, nil
	case KeyDailyChallengeMode:
		return &s.DailyChallengeMode, nil
	case KeyFeedbackCuesEnabled:
		return &s.FeedbackCuesEnabled, nil
	case KeySensoryCalmMode:
		return &s.SensoryCalmMode, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
}
