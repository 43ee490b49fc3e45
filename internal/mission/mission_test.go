package mission

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/block-buddy/internal/world"
)

func parkMission() Card {
	return Card{
		ID:             "welcome_park",
		Title:          "Build a Tiny Park",
		MinTotalBlocks: 8,
		RequiredByType: Requirements{
			{Type: world.Grass, Count: 3},
			{Type: world.Flower, Count: 2},
		},
		RewardStars:   3,
		StickerReward: "sticker_sunny_park",
	}
}

// fill places blocks left to right, top to bottom.
func fill(g world.WorldGrid, blocks ...world.BlockType) world.WorldGrid {
	for i, b := range blocks {
		g = g.Place(world.Pos(i%g.Width(), i/g.Width()), b)
	}
	return g
}

func TestEvaluateCompleteWhenRequirementsMet(t *testing.T) {
	g := fill(world.EmptyGrid(4, 2),
		world.Grass, world.Grass, world.Grass, world.Flower,
		world.Flower, world.Stone, world.Stone, world.Stone,
	)

	p := Evaluate(g, parkMission())
	if !p.Complete {
		t.Fatalf("Evaluate() complete = false, progress %+v", p)
	}
	if p.TotalPlaced != 8 {
		t.Errorf("TotalPlaced = %d, want 8", p.TotalPlaced)
	}
	if p.CompletionRatio != 1 {
		t.Errorf("CompletionRatio = %v, want 1", p.CompletionRatio)
	}
	if p.Count(world.Stone) != 3 {
		t.Errorf("Count(stone) = %d, want 3", p.Count(world.Stone))
	}
	if _, ok := p.ByType[world.Wood]; ok {
		t.Error("ByType should only list types present in the grid")
	}
}

func TestEvaluateIncompleteWhenTypeGoalUnmet(t *testing.T) {
	g := world.EmptyGrid(4, 2)
	for i := 0; i < 8; i++ {
		g = g.Place(world.Pos(i%4, i/4), world.Grass)
	}

	p := Evaluate(g, parkMission())
	if p.Complete {
		t.Fatal("eight grass blocks should not complete a mission needing flowers")
	}
	// total 1, grass 1, flower 0 => (1 + 1 + 0) / 3
	if math.Abs(p.CompletionRatio-2.0/3.0) > 1e-9 {
		t.Errorf("CompletionRatio = %v, want 2/3", p.CompletionRatio)
	}
}

func TestEvaluateEmptyGridNeverComplete(t *testing.T) {
	for _, m := range DefaultCatalog().All() {
		if m.MinTotalBlocks == 0 {
			continue
		}
		p := Evaluate(world.EmptyGrid(10, 6), m)
		if p.Complete {
			t.Errorf("%s complete on an empty grid", m.ID)
		}
		if p.CompletionRatio != 0 {
			t.Errorf("%s ratio on empty grid = %v", m.ID, p.CompletionRatio)
		}
	}
}

func TestCompletionRatioWithoutTypeGoals(t *testing.T) {
	m := Card{ID: "free", MinTotalBlocks: 4}
	g := fill(world.EmptyGrid(2, 2), world.Wood)
	if got := Evaluate(g, m).CompletionRatio; got != 0.25 {
		t.Errorf("CompletionRatio = %v, want 0.25", got)
	}

	zero := Card{ID: "zero"}
	p := Evaluate(world.EmptyGrid(2, 2), zero)
	if !p.Complete || p.CompletionRatio != 1 {
		t.Errorf("zero-goal mission = %+v, want complete with ratio 1", p)
	}
}

func TestNextHintOrdering(t *testing.T) {
	m := parkMission()

	tests := []struct {
		name   string
		blocks []world.BlockType
		want   string
	}{
		{"first type goal wins", nil, "Try placing 3 more grass blocks."},
		{"second type goal", []world.BlockType{world.Grass, world.Grass, world.Grass, world.Flower}, "Try placing 1 more flower blocks."},
		{"total floor after type goals", []world.BlockType{world.Grass, world.Grass, world.Grass, world.Flower, world.Flower}, "Add 3 more blocks anywhere."},
		{"complete", []world.BlockType{world.Grass, world.Grass, world.Grass, world.Flower, world.Flower, world.Wood, world.Wood, world.Wood}, HintComplete},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := fill(world.EmptyGrid(4, 2), tc.blocks...)
			got := NextHint(Evaluate(g, m), m)
			if got != tc.want {
				t.Errorf("NextHint() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRequirementsJSONKeepsOrder(t *testing.T) {
	m := parkMission()
	m.RequiredByType = Requirements{{Type: world.Flower, Count: 2}, {Type: world.Grass, Count: 3}}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if !strings.Contains(string(data), `"requiredByType":{"FLOWER":2,"GRASS":3}`) {
		t.Errorf("Marshal() = %s", data)
	}

	var back Card
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if len(back.RequiredByType) != 2 || back.RequiredByType[0].Type != world.Flower {
		t.Errorf("order lost: %+v", back.RequiredByType)
	}
}

func TestCardValidate(t *testing.T) {
	dup := parkMission()
	dup.RequiredByType = append(dup.RequiredByType, Requirement{Type: world.Grass, Count: 1})

	emptyReq := parkMission()
	emptyReq.RequiredByType = Requirements{{Type: world.Empty, Count: 1}}

	negative := parkMission()
	negative.MinTotalBlocks = -1

	for name, c := range map[string]Card{"duplicate": dup, "empty type": emptyReq, "negative": negative, "no id": {}} {
		if err := c.Validate(); !errors.Is(err, ErrInvalidMission) {
			t.Errorf("%s: Validate() = %v, want ErrInvalidMission", name, err)
		}
	}
	if err := parkMission().Validate(); err != nil {
		t.Errorf("valid card rejected: %v", err)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if c.Len() < 2 {
		t.Fatalf("Len() = %d, want a pool of missions", c.Len())
	}

	first := c.First()
	if first.ID != "welcome_park" {
		t.Errorf("First().ID = %q, want welcome_park", first.ID)
	}
	if first.RequiredByType[0].Type != world.Grass || first.Required(world.Flower) != 2 {
		t.Errorf("welcome_park requirements = %+v", first.RequiredByType)
	}
	if _, ok := c.ByID("free_build"); !ok {
		t.Error("ByID(free_build) not found")
	}
}

func TestParseCatalogErrors(t *testing.T) {
	if _, err := ParseCatalog([]byte("missions: []")); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("empty catalog error = %v", err)
	}

	dupIDs := `
missions:
  - id: a
    required_by_type: {grass: 1}
  - id: a
    required_by_type: {}
`
	if _, err := ParseCatalog([]byte(dupIDs)); !errors.Is(err, ErrInvalidMission) {
		t.Errorf("duplicate id error = %v", err)
	}

	badType := `
missions:
  - id: a
    required_by_type: {lava: 1}
`
	if _, err := ParseCatalog([]byte(badType)); err == nil {
		t.Error("unknown block type should fail")
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	if err != nil || c.First().ID != DefaultCatalog().First().ID {
		t.Fatalf("LoadCatalog(\"\") = %v, %v", c.First().ID, err)
	}

	path := filepath.Join(t.TempDir(), "missions.yaml")
	doc := `
missions:
  - id: tower
    title: Stone Tower
    min_total_blocks: 3
    required_by_type: {stone: 3}
    reward_stars: 2
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err = LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog() failed: %v", err)
	}
	if c.Len() != 1 || c.First().Required(world.Stone) != 3 {
		t.Errorf("catalog = %+v", c.All())
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
