package world

// DefaultUndoCapacity is the history depth used when none is configured.
const DefaultUndoCapacity = 20

// UndoStack is a bounded LIFO history of grids.
// When full, pushing discards the oldest entry (sliding window).
// Grids are immutable, so entries are shared by value without copying.
type UndoStack struct {
	capacity int
	history  []WorldGrid
}

// NewUndoStack creates a stack holding at most capacity grids.
// Non-positive capacities fall back to DefaultUndoCapacity.
func NewUndoStack(capacity int) *UndoStack {
	if capacity <= 0 {
		capacity = DefaultUndoCapacity
	}
	return &UndoStack{
		capacity: capacity,
		history:  make([]WorldGrid, 0, capacity),
	}
}

// Push records a grid, dropping the oldest one if the stack is full.
func (s *UndoStack) Push(g WorldGrid) {
	if len(s.history) >= s.capacity {
		copy(s.history, s.history[1:])
		s.history = s.history[:len(s.history)-1]
	}
	s.history = append(s.history, g)
}

// Pop removes and returns the most recent grid.
// The boolean is false when the stack is empty.
func (s *UndoStack) Pop() (WorldGrid, bool) {
	if len(s.history) == 0 {
		return WorldGrid{}, false
	}
	last := s.history[len(s.history)-1]
	s.history[len(s.history)-1] = WorldGrid{}
	s.history = s.history[:len(s.history)-1]
	return last, true
}

// Len returns the number of stored grids.
func (s *UndoStack) Len() int {
	return len(s.history)
}

// Capacity returns the maximum number of stored grids.
func (s *UndoStack) Capacity() int {
	return s.capacity
}

// Clear empties the stack.
func (s *UndoStack) Clear() {
	for i := range s.history {
		s.history[i] = WorldGrid{}
	}
	s.history = s.history[:0]
}
