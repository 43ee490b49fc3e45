// Package daily picks the mission of the day and the next mission in order.
package daily

import (
	"errors"
	"time"

	"github.com/vovakirdan/block-buddy/internal/mission"
)

// DayMillis is one day in milliseconds.
const DayMillis int64 = 24 * 60 * 60 * 1000

// ErrEmptyPool is returned when a planner is given no missions.
var ErrEmptyPool = errors.New("daily: mission pool is empty")

// DayKey returns the day number for an epoch timestamp in milliseconds.
// Inputs are expected to be non-negative.
func DayKey(epochMs int64) int64 {
	return epochMs / DayMillis
}

// DayKeyOf is DayKey for a time.Time.
func DayKeyOf(t time.Time) int64 {
	return DayKey(t.UnixMilli())
}

// Index returns the pool index for a day and completed count, always in [0, n).
func Index(epochMs int64, completedCount, n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyPool
	}
	raw := (DayKey(epochMs) + int64(completedCount)) % int64(n)
	if raw < 0 {
		raw += int64(n)
	}
	return int(raw), nil
}

// MissionOfDay picks the same mission for the same day and completed count.
// Completing missions shifts the pick so replays vary within a day.
func MissionOfDay(missions []mission.Card, epochMs int64, completedCount int) (mission.Card, error) {
	i, err := Index(epochMs, completedCount, len(missions))
	if err != nil {
		return mission.Card{}, err
	}
	return missions[i], nil
}

// NextMissionLinear returns the mission after current, wrapping at the end.
// An unknown current mission restarts from the first one.
func NextMissionLinear(current mission.Card, missions []mission.Card) (mission.Card, error) {
	if len(missions) == 0 {
		return mission.Card{}, ErrEmptyPool
	}
	for i, m := range missions {
		if m.ID == current.ID {
			return missions[(i+1)%len(missions)], nil
		}
	}
	return missions[0], nil
}
