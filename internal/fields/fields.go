// Package fields holds the staggered E, B and J samples defined over a
// Grid, generalizing the teacher's flat per-component float grids into a
// single array of spatial.Vec3 per field.
package fields

import (
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/spatial"
)

// Set holds one field's value at every cell of a Grid, indexed the same
// way the Grid indexes cells (grid.Grid.ToIndex).
type Set struct {
	Values []spatial.Vec3
}

// NewSet allocates a zeroed field over g.
func NewSet(g *grid.Grid) *Set {
	return &Set{Values: make([]spatial.Vec3, g.NumCells())}
}

// Reset zeroes every sample in the field, used to clear J before each
// deposition pass.
func (s *Set) Reset() {
	for i := range s.Values {
		s.Values[i] = spatial.Vec3{}
	}
}

// Fields bundles the three field quantities a step orchestrator owns.
type Fields struct {
	E *Set
	B *Set
	J *Set
}

// New allocates zeroed E, B and J fields over g.
func New(g *grid.Grid) *Fields {
	return &Fields{E: NewSet(g), B: NewSet(g), J: NewSet(g)}
}

// EAt returns the E sample at cell, resolving out-of-bounds cells through
// the boundary policy.
func (f *Fields) EAt(g *grid.Grid, policy grid.BoundaryPolicy, cell grid.Cell) spatial.Vec3 {
	if g.IsOutside(cell) {
		return policy.BoundaryE(g, cell, f.E.Values)
	}
	return f.E.Values[g.ToIndex(cell)]
}

// BAt returns the B sample at cell, resolving out-of-bounds cells through
// the boundary policy.
func (f *Fields) BAt(g *grid.Grid, policy grid.BoundaryPolicy, cell grid.Cell) spatial.Vec3 {
	if g.IsOutside(cell) {
		return policy.BoundaryB(g, cell, f.B.Values)
	}
	return f.B.Values[g.ToIndex(cell)]
}

// JAt returns the J sample at cell, resolving out-of-bounds cells through
// the boundary policy.
func (f *Fields) JAt(g *grid.Grid, policy grid.BoundaryPolicy, cell grid.Cell) spatial.Vec3 {
	if g.IsOutside(cell) {
		return policy.BoundaryJ(g, cell, f.J.Values)
	}
	return f.J.Values[g.ToIndex(cell)]
}
