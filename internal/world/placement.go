package world

// PlacementResult is the outcome of a placement or removal attempt.
// It is a closed set: Placed, OutOfBounds or UnsupportedPlacement.
// Callers match it with a type switch.
type PlacementResult interface {
	placementResult()
}

// Placed is a successful placement or removal.
type Placed struct {
	Updated  WorldGrid // Grid after the change
	Replaced BlockType // Block that occupied the cell before the change
}

// OutOfBounds means the target position lies outside the grid.
type OutOfBounds struct {
	Pos GridPosition
}

// UnsupportedPlacement means the requested block cannot be placed (Empty).
type UnsupportedPlacement struct {
	Type BlockType
}

func (Placed) placementResult()               {}
func (OutOfBounds) placementResult()          {}
func (UnsupportedPlacement) placementResult() {}

// PlaceBlock validates and applies a single-cell placement.
// Bounds are checked before the block type.
func PlaceBlock(g WorldGrid, p GridPosition, t BlockType) PlacementResult {
	if !g.InBounds(p) {
		return OutOfBounds{Pos: p}
	}
	if t == Empty || !t.Valid() {
		return UnsupportedPlacement{Type: t}
	}
	return Placed{Updated: g.Place(p, t), Replaced: g.BlockAt(p)}
}

// RemoveBlock clears a single cell. Removing from an empty cell succeeds
// and reports Empty as the replaced block.
func RemoveBlock(g WorldGrid, p GridPosition) PlacementResult {
	if !g.InBounds(p) {
		return OutOfBounds{Pos: p}
	}
	return Placed{Updated: g.Place(p, Empty), Replaced: g.BlockAt(p)}
}
