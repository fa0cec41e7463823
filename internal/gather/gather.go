// Package gather interpolates staggered E and B field samples at a
// particle's continuous position, weighting nearby grid points by the
// particle's assignment function along each axis independently.
package gather

import (
	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/shape"
	"relativistic_pic/internal/spatial"
)

// axisStencil folds a field component's Yee offset into the particle's
// fractional position along one axis, then asks the shape function for
// the grid points that see nonzero weight.
func axisStencil(s shape.Shape, cell int, pos, offset float64) (int, []float64) {
	shifted := pos - offset
	for shifted < 0 {
		shifted += 1
		cell--
	}
	for shifted >= 1 {
		shifted -= 1
		cell++
	}
	base, weights := s.Stencil(shifted)
	return cell + base, weights
}

// component interpolates a single field component (measured at the given
// Yee offset) at the particle's position, summing over the shape
// function's support in every axis.
func component(g *grid.Grid, values func(grid.Cell) spatial.Vec3, extract func(spatial.Vec3) float64,
	s shape.Shape, particleCell grid.Cell, particlePos, offset spatial.Vec3) float64 {

	var bases [3]int
	var weights [3][]float64
	for d := 0; d < g.Dims; d++ {
		bases[d], weights[d] = axisStencil(s, particleCell[d], particlePos.At(d), offset.At(d))
	}

	total := 0.0
	var visit func(dim int, cell grid.Cell, w float64)
	visit = func(dim int, cell grid.Cell, w float64) {
		if dim == g.Dims {
			total += w * extract(values(cell))
			return
		}
		for i, wt := range weights[dim] {
			next := cell
			next[dim] = bases[dim] + i
			visit(dim+1, next, w*wt)
		}
	}
	visit(0, particleCell, 1.0)
	return total
}

func extractAxis(axis int) func(spatial.Vec3) float64 {
	return func(v spatial.Vec3) float64 { return v.At(axis) }
}

// E interpolates the electric field at a particle's position.
func E(g *grid.Grid, policy grid.BoundaryPolicy, f *fields.Fields, s shape.Shape, particleCell grid.Cell, particlePos spatial.Vec3) spatial.Vec3 {
	values := func(cell grid.Cell) spatial.Vec3 { return f.EAt(g, policy, cell) }
	var ret spatial.Vec3
	for comp := 0; comp < g.EComponents(); comp++ {
		offset := g.EMeasurement(comp)
		ret = ret.With(comp, component(g, values, extractAxis(comp), s, particleCell, particlePos, offset))
	}
	return ret
}

// B interpolates the magnetic field at a particle's position.
func B(g *grid.Grid, policy grid.BoundaryPolicy, f *fields.Fields, s shape.Shape, particleCell grid.Cell, particlePos spatial.Vec3) spatial.Vec3 {
	values := func(cell grid.Cell) spatial.Vec3 { return f.BAt(g, policy, cell) }
	var ret spatial.Vec3
	for comp := 0; comp < g.BComponents(); comp++ {
		offset := g.BMeasurement(comp)
		ret = ret.With(comp, component(g, values, extractAxis(comp), s, particleCell, particlePos, offset))
	}
	return ret
}
