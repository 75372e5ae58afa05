package markbar

import "github.com/flashingpumpkin/markbar/internal/util"

// Boundary is the split position a pending delete would rewind to.
// The zero value is NoBoundary; 0 is a valid position and is distinct from it.
type Boundary struct {
	pos int
	set bool
}

// NoBoundary reports that no confirm/delete cycle is active.
var NoBoundary = Boundary{}

// BoundaryAt returns a boundary at the given progress value.
func BoundaryAt(pos int) Boundary {
	return Boundary{pos: pos, set: true}
}

// Value returns the boundary position and whether one is set.
func (b Boundary) Value() (int, bool) {
	return b.pos, b.set
}

// IsSet reports whether the boundary holds a position.
func (b Boundary) IsSet() bool {
	return b.set
}

func (b Boundary) String() string {
	if !b.set {
		return "none"
	}
	return util.IntToString(b.pos)
}
