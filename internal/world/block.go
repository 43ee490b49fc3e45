// Package world provides the block grid model, single-cell placement rules and
// the bounded undo history. Everything here is a pure value or a small state
// holder; there are no external dependencies so the rules stay testable.
package world

import (
	"fmt"
	"strings"
)

// BlockType is the kind of block occupying a grid cell.
type BlockType uint8

const (
	Empty BlockType = iota
	Grass
	Wood
	Stone
	Flower
	blockTypeCount // Sentinel value for iteration
)

// String returns the lowercase display name of a block type.
func (b BlockType) String() string {
	switch b {
	case Empty:
		return "empty"
	case Grass:
		return "grass"
	case Wood:
		return "wood"
	case Stone:
		return "stone"
	case Flower:
		return "flower"
	default:
		return "unknown"
	}
}

// Tag returns the serialized tag for the block type ("GRASS", "EMPTY", ...).
func (b BlockType) Tag() string {
	return strings.ToUpper(b.String())
}

// Char returns a single character representation for ASCII rendering.
func (b BlockType) Char() rune {
	switch b {
	case Grass:
		return 'G'
	case Wood:
		return 'W'
	case Stone:
		return 'S'
	case Flower:
		return 'F'
	default:
		return '.'
	}
}

// Valid reports whether b is one of the declared block types.
func (b BlockType) Valid() bool {
	return b < blockTypeCount
}

// ParseBlockType converts a tag or name (case-insensitive) to a BlockType.
func ParseBlockType(s string) (BlockType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "empty":
		return Empty, true
	case "grass", "g":
		return Grass, true
	case "wood", "w":
		return Wood, true
	case "stone", "s":
		return Stone, true
	case "flower", "f":
		return Flower, true
	default:
		return Empty, false
	}
}

// PlaceableTypes returns every block type that may be placed, in palette order.
func PlaceableTypes() []BlockType {
	return []BlockType{Grass, Wood, Stone, Flower}
}

// MarshalText encodes the block type as its tag.
func (b BlockType) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("world: unknown block type %d", b)
	}
	return []byte(b.Tag()), nil
}

// UnmarshalText decodes a block type tag.
func (b *BlockType) UnmarshalText(text []byte) error {
	parsed, ok := ParseBlockType(string(text))
	if !ok {
		return fmt.Errorf("world: unknown block type %q", text)
	}
	*b = parsed
	return nil
}

// GridPosition is a zero-based cell coordinate.
// X increases to the right, Y increases downward.
type GridPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pos is a convenience constructor for GridPosition.
func Pos(x, y int) GridPosition {
	return GridPosition{X: x, Y: y}
}

// String returns a string representation of the position.
func (p GridPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns a new position offset by (dx, dy).
func (p GridPosition) Add(dx, dy int) GridPosition {
	return GridPosition{X: p.X + dx, Y: p.Y + dy}
}
