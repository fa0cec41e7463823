// Package depositor implements the Esirkepov charge-conserving current
// deposition scheme: rather than assign charge to the grid and derive a
// current from its time derivative, it tracks the flux a particle's
// shape sweeps across each cell face as the particle moves, so the
// resulting J exactly satisfies the discrete continuity equation and no
// Poisson correction of E is ever needed.
package depositor

import (
	"math"

	"relativistic_pic/internal/dispatch"
	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/particlekit"
	"relativistic_pic/internal/shape"
	"relativistic_pic/internal/spatial"
)

// Esirkepov deposits current for every particle of every species onto a
// grid's J field.
type Esirkepov struct {
	Shape shape.Shape
}

func (e Esirkepov) radius() int {
	return int(math.Ceil(float64(e.Shape.Width())/2)) + 1
}

// fraction evaluates the particle shape's overlap with a unit cell offset
// by pos (in cell-size units) from the shape's center, one axis at a
// time; this is the same closed-form spline already used for gather, now
// read as the primitive-difference "particle fraction" Esirkepov needs.
func fraction(s shape.Shape, dims int, pos spatial.Vec3) float64 {
	f := 1.0
	for d := 0; d < dims; d++ {
		f *= s.Weight(pos.At(d))
	}
	return f
}

// accumulateW adds the flux one particle sweeps during a (possibly
// partial) sub-step into tempW, one contribution per cell within the
// shape's support radius of the particle's starting cell.
func accumulateW(g *grid.Grid, policy grid.BoundaryPolicy, s shape.Shape, radius int, dt float64,
	cellSizes spatial.Vec3, charge float64, cell grid.Cell, pos, vel spatial.Vec3, tempW []spatial.Vec3) {

	dims := g.Dims

	policy.ForAllNeighbours(g, radius, cell, func(idx int, thisCell grid.Cell, mirrored [3]bool) {
		var mirrorSign, mirroredVec spatial.Vec3
		for d := 0; d < 3; d++ {
			if mirrored[d] {
				mirrorSign = mirrorSign.With(d, -1)
				mirroredVec = mirroredVec.With(d, 1)
			} else {
				mirrorSign = mirrorSign.With(d, 1)
			}
		}

		fluxFactor := vel.ElementMultiply(cellSizes).ElementMultiply(mirrorSign).Scale(charge)

		cellDelta := spatial.New(
			float64(cell[0]-thisCell[0]),
			float64(cell[1]-thisCell[1]),
			float64(cell[2]-thisCell[2]),
		)
		pI := pos.ElementMultiply(mirrorSign).Add(cellDelta).Add(mirroredVec)
		dp := vel.ElementMultiply(mirrorSign).Scale(dt)

		switch dims {
		case 1:
			wx := fraction(s, 1, pI.Add(dp)) - fraction(s, 1, pI)
			dispatch.AddFloat64(&tempW[idx].X, fluxFactor.X*wx)

		case 2:
			dpZeroX := dp.With(0, 0)
			dpZeroY := dp.With(1, 0)

			wGeneral := (fraction(s, 2, pI.Add(dp)) - fraction(s, 2, pI)) / 2
			wx := wGeneral + (fraction(s, 2, pI.Add(dpZeroY))-fraction(s, 2, pI.Add(dpZeroX)))/2
			wy := wGeneral + (fraction(s, 2, pI.Add(dpZeroX))-fraction(s, 2, pI.Add(dpZeroY)))/2

			dispatch.AddFloat64(&tempW[idx].X, fluxFactor.X*wx)
			dispatch.AddFloat64(&tempW[idx].Y, fluxFactor.Y*wy)

		case 3:
			dpZ0 := dp.With(0, 0)
			dpZ1 := dp.With(1, 0)
			dpZ2 := dp.With(2, 0)
			dpZ01 := dpZ0.With(1, 0)
			dpZ02 := dpZ0.With(2, 0)
			dpZ12 := dpZ1.With(2, 0)

			wGeneral := (2*fraction(s, 3, pI.Add(dp)) +
				fraction(s, 3, pI.Add(dpZ0)) + fraction(s, 3, pI.Add(dpZ1)) + fraction(s, 3, pI.Add(dpZ2)) -
				fraction(s, 3, pI.Add(dpZ01)) - fraction(s, 3, pI.Add(dpZ02)) - fraction(s, 3, pI.Add(dpZ12)) -
				2*fraction(s, 3, pI)) / 6

			wx := wGeneral + (fraction(s, 3, pI.Add(dpZ12))-fraction(s, 3, pI.Add(dpZ0)))/2
			wy := wGeneral + (fraction(s, 3, pI.Add(dpZ02))-fraction(s, 3, pI.Add(dpZ1)))/2
			wz := wGeneral + (fraction(s, 3, pI.Add(dpZ01))-fraction(s, 3, pI.Add(dpZ2)))/2

			dispatch.AddFloat64(&tempW[idx].X, fluxFactor.X*wx)
			dispatch.AddFloat64(&tempW[idx].Y, fluxFactor.Y*wy)
			dispatch.AddFloat64(&tempW[idx].Z, fluxFactor.Z*wz)
		}
	})
}

// timeToBorder returns the smallest non-negative time at which the
// particle, moving at vel from (cell, pos), would cross any domain edge,
// nudged fractionally past the crossing so the later boundary reinsertion
// is unambiguous, or a negative number if vel is zero along every axis.
// It does not compare the result with the step length; callers do.
func timeToBorder(g *grid.Grid, cell grid.Cell, pos, vel spatial.Vec3) float64 {
	best := -1.0
	for d := 0; d < g.Dims; d++ {
		v := vel.At(d)
		var t float64
		switch {
		case v > 0:
			t = (float64(g.N[d]-cell[d]) - pos.At(d)) / v
		case v < 0:
			t = -(float64(cell[d]) + pos.At(d)) / v
		default:
			continue
		}
		if t >= 0 && (t < best || best < 0) {
			best = t
		}
	}
	if best < 0 {
		return best
	}
	return math.Nextafter(best, 2*best)
}

// depositParticle accumulates one particle's contribution into tempW,
// splitting the step in two around a domain-edge crossing if its cell
// lies within the shape's support radius of the border.
func (e Esirkepov) depositParticle(g *grid.Grid, policy grid.BoundaryPolicy, c float64, dt float64,
	charge float64, p particlekit.Particle, tempW []spatial.Vec3) {

	radius := e.radius()
	cellSizes := g.CellSizes()
	vel := p.Vel(cellSizes, c)

	isBorder := false
	for d := 0; d < g.Dims; d++ {
		if p.Cell[d] < radius || p.Cell[d] >= g.N[d]-radius {
			isBorder = true
			break
		}
	}

	if !isBorder {
		accumulateW(g, policy, e.Shape, radius, dt, cellSizes, charge, p.Cell, p.Pos, vel, tempW)
		return
	}

	crossingTime := timeToBorder(g, p.Cell, p.Pos, vel)
	if crossingTime < 0 || crossingTime >= dt {
		accumulateW(g, policy, e.Shape, radius, dt, cellSizes, charge, p.Cell, p.Pos, vel, tempW)
		return
	}

	accumulateW(g, policy, e.Shape, radius, crossingTime, cellSizes, charge, p.Cell, p.Pos, vel, tempW)

	movedPos := p.Pos.Add(vel.Scale(crossingTime))
	newCell, newPos, newU := policy.ApplyParticleBoundary(g, p.Cell, movedPos, p.U, true)
	newVel := (particlekit.Particle{Cell: newCell, Pos: newPos, U: newU}).Vel(cellSizes, c)

	accumulateW(g, policy, e.Shape, radius, dt-crossingTime, cellSizes, charge, newCell, newPos, newVel, tempW)
}

// wComponent picks out, for a given current-vector axis, which component
// of a cell's accumulated W should feed that axis's running sum: J's x
// component only ever accumulates from W's x component, and so on, since
// each axis's W already encodes that axis's own swept flux.
func wComponent(w spatial.Vec3, axis int) float64 {
	return w.At(axis)
}

// computeJ turns the accumulated W buffer into a current field: along
// every line of cells parallel to each axis, that axis's J is the
// running (negated) cumulative sum of W swept past so far, which is
// exactly the discrete antiderivative the continuity equation demands —
// J crossing a face only ever changes by the charge that crossed it.
func computeJ(g *grid.Grid, tempW, j []spatial.Vec3) {
	for dim := 0; dim < g.Dims; dim++ {
		accumulateAlongAxis(g, dim, tempW, j)
	}
}

// accumulateAlongAxis walks every line of cells parallel to dim, fixing
// every other axis's coordinate in turn, and folds tempW's dim component
// into j's running sum along that line.
func accumulateAlongAxis(g *grid.Grid, dim int, tempW, j []spatial.Vec3) {
	var others []int
	for d := 0; d < g.Dims; d++ {
		if d != dim {
			others = append(others, d)
		}
	}

	var walkOthers func(axisIdx int, cell grid.Cell)
	walkOthers = func(axisIdx int, cell grid.Cell) {
		if axisIdx == len(others) {
			acc := 0.0
			for k := 0; k < g.N[dim]; k++ {
				cell[dim] = k
				idx := g.ToIndex(cell)
				acc -= wComponent(tempW[idx], dim)
				j[idx] = j[idx].With(dim, acc)
			}
			return
		}
		axis := others[axisIdx]
		for k := 0; k < g.N[axis]; k++ {
			cell[axis] = k
			walkOthers(axisIdx+1, cell)
		}
	}
	walkOthers(0, grid.Cell{})
}

// Deposit clears f.J and accumulates every particle in pop's contribution
// into it, for a timestep dt and a simulation whose speed of light is c.
func (e Esirkepov) Deposit(g *grid.Grid, policy grid.BoundaryPolicy, f *fields.Fields, pop *particlekit.Population, dt, c float64) {
	tempW := make([]spatial.Vec3, g.NumCells())

	pop.ForEach(func(_, _ int, species *particlekit.Species, p *particlekit.Particle) {
		e.depositParticle(g, policy, c, dt, species.Charge, *p, tempW)
	})

	f.J.Reset()
	computeJ(g, tempW, f.J.Values)
}
