package combo

import (
	"testing"
	"time"
)

var epoch = time.UnixMilli(10_000)

func at(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func TestRegisterPlacement(t *testing.T) {
	e := New(4500*time.Millisecond, 3)

	tests := []struct {
		name       string
		now        time.Time
		previous   time.Time
		streak     int
		wantStreak int
		wantBonus  int
	}{
		{"first placement", at(10_000), time.Time{}, 0, 1, 0},
		{"inside window", at(13_000), at(10_000), 1, 2, 0},
		{"milestone from streak 2", at(14_000), at(11_000), 2, 3, 1},
		{"exactly on window edge", at(14_500), at(10_000), 4, 5, 0},
		{"one ms past window", at(14_501), at(10_000), 4, 1, 0},
		{"too slow resets", at(20_000), at(10_000), 4, 1, 0},
		{"second milestone", at(11_000), at(10_000), 5, 6, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := e.RegisterPlacement(tc.now, tc.previous, tc.streak)
			if got.Streak != tc.wantStreak {
				t.Errorf("Streak = %d, want %d", got.Streak, tc.wantStreak)
			}
			if got.BonusStars != tc.wantBonus {
				t.Errorf("BonusStars = %d, want %d", got.BonusStars, tc.wantBonus)
			}
		})
	}
}

func TestChainedPlacementsGrowMonotonically(t *testing.T) {
	e := New(0, 0) // defaults
	streak := 0
	var prev time.Time
	bonuses := 0

	for i := 0; i < 9; i++ {
		now := epoch.Add(time.Duration(i) * time.Second)
		out := e.RegisterPlacement(now, prev, streak)
		if out.Streak != i+1 {
			t.Fatalf("placement %d: Streak = %d, want %d", i, out.Streak, i+1)
		}
		if (out.BonusStars > 0) != (out.Streak > 1 && out.Streak%DefaultMilestone == 0) {
			t.Errorf("placement %d: bonus %d at streak %d", i, out.BonusStars, out.Streak)
		}
		bonuses += out.BonusStars
		streak, prev = out.Streak, now
	}

	if bonuses != 3 {
		t.Errorf("bonuses after 9 chained placements = %d, want 3", bonuses)
	}
}
