package world

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidGrid is returned when grid dimensions and cells disagree.
var ErrInvalidGrid = errors.New("world: invalid grid")

// WorldGrid is an immutable fixed-size grid of blocks.
// Cells are stored in row-major order: index = y*width + x.
// All mutation returns a new grid; the receiver is never modified.
type WorldGrid struct {
	width  int
	height int
	cells  []BlockType
}

// NewGrid builds a grid from explicit cells.
// The cells slice is copied; len(cells) must equal width*height.
func NewGrid(width, height int, cells []BlockType) (WorldGrid, error) {
	if width <= 0 || height <= 0 {
		return WorldGrid{}, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidGrid, width, height)
	}
	if len(cells) != width*height {
		return WorldGrid{}, fmt.Errorf("%w: %d cells for %dx%d grid", ErrInvalidGrid, len(cells), width, height)
	}
	for i, c := range cells {
		if !c.Valid() {
			return WorldGrid{}, fmt.Errorf("%w: cell %d has unknown block type %d", ErrInvalidGrid, i, c)
		}
	}
	owned := make([]BlockType, len(cells))
	copy(owned, cells)
	return WorldGrid{width: width, height: height, cells: owned}, nil
}

// EmptyGrid returns a grid with every cell Empty.
// It panics on non-positive dimensions, which indicate a programming error.
func EmptyGrid(width, height int) WorldGrid {
	g, err := NewGrid(width, height, make([]BlockType, max(width, 0)*max(height, 0)))
	if err != nil {
		panic(err)
	}
	return g
}

// Width returns the number of columns.
func (g WorldGrid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g WorldGrid) Height() int {
	return g.height
}

// Cells returns a copy of the row-major cell slice.
func (g WorldGrid) Cells() []BlockType {
	out := make([]BlockType, len(g.cells))
	copy(out, g.cells)
	return out
}

// index converts a position to a flat slice index.
func (g WorldGrid) index(p GridPosition) int {
	return p.Y*g.width + p.X
}

// InBounds reports whether p lies within [0,width)×[0,height).
func (g WorldGrid) InBounds(p GridPosition) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// BlockAt returns the block at p, or Empty when p is out of bounds.
func (g WorldGrid) BlockAt(p GridPosition) BlockType {
	if !g.InBounds(p) {
		return Empty
	}
	return g.cells[g.index(p)]
}

// Place returns a copy of the grid with p set to t.
// Out-of-bounds positions return the grid unchanged.
func (g WorldGrid) Place(p GridPosition, t BlockType) WorldGrid {
	if !g.InBounds(p) {
		return g
	}
	cells := make([]BlockType, len(g.cells))
	copy(cells, g.cells)
	cells[g.index(p)] = t
	return WorldGrid{width: g.width, height: g.height, cells: cells}
}

// Cleared returns an empty grid with the same dimensions.
func (g WorldGrid) Cleared() WorldGrid {
	return WorldGrid{width: g.width, height: g.height, cells: make([]BlockType, len(g.cells))}
}

// FilledCount returns the number of non-empty cells.
func (g WorldGrid) FilledCount() int {
	count := 0
	for _, c := range g.cells {
		if c != Empty {
			count++
		}
	}
	return count
}

// Equal returns true if two grids have the same dimensions and contents.
func (g WorldGrid) Equal(other WorldGrid) bool {
	if g.width != other.width || g.height != other.height || len(g.cells) != len(other.cells) {
		return false
	}
	for i, c := range g.cells {
		if c != other.cells[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether the grid was never constructed.
func (g WorldGrid) IsZero() bool {
	return g.width == 0 && g.height == 0
}

// gridJSON is the serialized shape of a grid.
type gridJSON struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Cells  []BlockType `json:"cells"`
}

// MarshalJSON encodes the grid as {width, height, cells: [tags]}.
func (g WorldGrid) MarshalJSON() ([]byte, error) {
	cells := g.cells
	if cells == nil {
		cells = []BlockType{}
	}
	return json.Marshal(gridJSON{Width: g.width, Height: g.height, Cells: cells})
}

// UnmarshalJSON decodes and validates a serialized grid.
func (g *WorldGrid) UnmarshalJSON(data []byte) error {
	var raw gridJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("world: decode grid: %w", err)
	}
	parsed, err := NewGrid(raw.Width, raw.Height, raw.Cells)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
