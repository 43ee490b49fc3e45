package difficulty

import (
	"testing"
	"time"
)

func seconds(n int) *time.Duration {
	d := time.Duration(n) * time.Second
	return &d
}

func TestRecommend(t *testing.T) {
	a := NewAdjuster(DefaultThresholds())

	tests := []struct {
		name   string
		s      Signals
		assist bool
		drops  bool
	}{
		{"calm player", Signals{Idle: 5 * time.Second, Completion: seconds(90)}, false, false},
		{"all signals high", Signals{FailedPlacements: 6, HintUses: 2, Idle: 30 * time.Second}, true, true},
		{"failures alone", Signals{FailedPlacements: 5}, true, true},
		{"four failures is fine", Signals{FailedPlacements: 4, HintUses: 1, Idle: 24 * time.Second}, false, false},
		{"hints alone", Signals{HintUses: 2}, true, true},
		{"idle alone", Signals{Idle: 25 * time.Second}, true, true},
		{"struggling but fast finisher", Signals{HintUses: 3, Completion: seconds(120)}, true, false},
		{"struggling at slow boundary", Signals{HintUses: 3, Completion: seconds(240)}, true, false},
		{"struggling and slow", Signals{HintUses: 3, Completion: seconds(241)}, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := a.Recommend(tc.s)
			if r.ReducedObjectiveCount != tc.assist || r.HighlightBlueprint != tc.assist {
				t.Errorf("assists = %+v, want %v", r, tc.assist)
			}
			if r.IncreasedResourceDrops != tc.drops {
				t.Errorf("IncreasedResourceDrops = %v, want %v", r.IncreasedResourceDrops, tc.drops)
			}
		})
	}
}

func TestRecommendHasNoMemory(t *testing.T) {
	a := NewAdjuster(DefaultThresholds())
	if !a.Recommend(Signals{FailedPlacements: 9}).HighlightBlueprint {
		t.Fatal("expected highlight while struggling")
	}
	if a.Recommend(Signals{}).HighlightBlueprint {
		t.Error("recommendation should drop as soon as signals recover")
	}
}
