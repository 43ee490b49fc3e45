// Package mission defines mission cards, evaluates a grid against a mission
// and produces the next hint for the player.
package mission

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/block-buddy/internal/world"
)

// ErrInvalidMission is returned when a mission card breaks its invariants.
var ErrInvalidMission = errors.New("mission: invalid mission card")

// Requirement is a minimum count of one block type.
type Requirement struct {
	Type  world.BlockType
	Count int
}

// Requirements is an ordered list of per-type goals.
// Order matters: hints walk it front to back. It serializes as a JSON/YAML
// object whose key order is preserved.
type Requirements []Requirement

// Card is a static mission definition.
type Card struct {
	ID              string       `json:"id" yaml:"id"`
	Title           string       `json:"title" yaml:"title"`
	MinTotalBlocks  int          `json:"minTotalBlocks" yaml:"min_total_blocks"`
	RequiredByType  Requirements `json:"requiredByType" yaml:"required_by_type"`
	RewardStars     int          `json:"rewardStars" yaml:"reward_stars"`
	StickerReward   string       `json:"stickerReward" yaml:"sticker_reward"`
	CelebrationLine string       `json:"celebrationLine" yaml:"celebration_line"`
}

// Required returns the required count for t, or 0 if t has no goal.
func (c Card) Required(t world.BlockType) int {
	for _, r := range c.RequiredByType {
		if r.Type == t {
			return r.Count
		}
	}
	return 0
}

// Validate checks the card invariants.
func (c Card) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidMission)
	}
	if c.MinTotalBlocks < 0 {
		return fmt.Errorf("%w: %s: negative min_total_blocks", ErrInvalidMission, c.ID)
	}
	if c.RewardStars < 0 {
		return fmt.Errorf("%w: %s: negative reward_stars", ErrInvalidMission, c.ID)
	}
	seen := make(map[world.BlockType]bool, len(c.RequiredByType))
	for _, r := range c.RequiredByType {
		if r.Type == world.Empty || !r.Type.Valid() {
			return fmt.Errorf("%w: %s: requirement on %s", ErrInvalidMission, c.ID, r.Type)
		}
		if r.Count < 0 {
			return fmt.Errorf("%w: %s: negative count for %s", ErrInvalidMission, c.ID, r.Type)
		}
		if seen[r.Type] {
			return fmt.Errorf("%w: %s: duplicate requirement for %s", ErrInvalidMission, c.ID, r.Type)
		}
		seen[r.Type] = true
	}
	return nil
}

// MarshalJSON writes the requirements as an ordered object: {"GRASS":3,"FLOWER":2}.
func (rs Requirements) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Type.Tag())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", r.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of tag → count, keeping document order.
func (rs *Requirements) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("mission: decode requirements: %w", err)
	}
	if tok == nil {
		*rs = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("mission: requirements must be an object")
	}

	var out Requirements
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("mission: decode requirements: %w", err)
		}
		key, _ := keyTok.(string)
		t, ok := world.ParseBlockType(key)
		if !ok {
			return fmt.Errorf("mission: unknown block type %q in requirements", key)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("mission: count for %s: %w", key, err)
		}
		out = append(out, Requirement{Type: t, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("mission: decode requirements: %w", err)
	}
	*rs = out
	return nil
}

// UnmarshalYAML reads a mapping node of block name → count, keeping document order.
func (rs *Requirements) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("mission: line %d: required_by_type must be a mapping", node.Line)
	}
	out := make(Requirements, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		t, ok := world.ParseBlockType(keyNode.Value)
		if !ok {
			return fmt.Errorf("mission: line %d: unknown block type %q", keyNode.Line, keyNode.Value)
		}
		var count int
		if err := valNode.Decode(&count); err != nil {
			return fmt.Errorf("mission: line %d: count for %s: %w", valNode.Line, keyNode.Value, err)
		}
		out = append(out, Requirement{Type: t, Count: count})
	}
	*rs = out
	return nil
}
