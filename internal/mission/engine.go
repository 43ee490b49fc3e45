package mission

import (
	"fmt"

	"github.com/vovakirdan/block-buddy/internal/world"
)

// Progress is derived from a grid on every change.
type Progress struct {
	TotalPlaced     int
	ByType          map[world.BlockType]int // Only non-empty types present in the grid
	Complete        bool
	CompletionRatio float64 // In [0, 1]
}

// Count returns the number of placed blocks of type t.
func (p Progress) Count(t world.BlockType) int {
	return p.ByType[t]
}

// Evaluate tallies the grid once and scores it against the mission.
func Evaluate(g world.WorldGrid, m Card) Progress {
	counts := make(map[world.BlockType]int)
	total := 0
	for _, c := range g.Cells() {
		if c == world.Empty {
			continue
		}
		counts[c]++
		total++
	}

	complete := total >= m.MinTotalBlocks
	ratioSum := ratio(total, m.MinTotalBlocks)
	for _, r := range m.RequiredByType {
		have := counts[r.Type]
		if have < r.Count {
			complete = false
		}
		ratioSum += ratio(have, r.Count)
	}

	return Progress{
		TotalPlaced:     total,
		ByType:          counts,
		Complete:        complete,
		CompletionRatio: ratioSum / float64(1+len(m.RequiredByType)),
	}
}

// ratio returns have/need clamped to [0, 1]. A zero requirement is always met.
func ratio(have, need int) float64 {
	if need <= 0 {
		return 1
	}
	r := float64(have) / float64(need)
	if r > 1 {
		return 1
	}
	if r < 0 {
		return 0
	}
	return r
}

// Hint messages.
const (
	HintComplete = "Great work! Mission complete."
)

// NextHint names the first unmet per-type goal in mission order. When every
// type goal is met it falls back to the total block floor.
func NextHint(p Progress, m Card) string {
	for _, r := range m.RequiredByType {
		if have := p.Count(r.Type); have < r.Count {
			return fmt.Sprintf("Try placing %d more %s blocks.", r.Count-have, r.Type)
		}
	}
	if p.TotalPlaced < m.MinTotalBlocks {
		return fmt.Sprintf("Add %d more blocks anywhere.", m.MinTotalBlocks-p.TotalPlaced)
	}
	return HintComplete
}
