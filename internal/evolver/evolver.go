// Package evolver advances the E and B fields on a staggered Yee grid by
// one timestep using a standard leap-frog FDTD scheme: B is pushed a
// half step from the curl of E, E is pushed a full step from the curl of
// the half-updated B (and the deposited current), then B is pushed its
// second half step.
package evolver

import (
	"relativistic_pic/internal/dispatch"
	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/spatial"
)

// FDTD is the Yee finite-difference time-domain field evolver.
type FDTD struct{}

func neighbourSample(g *grid.Grid, policy grid.BoundaryPolicy, at func(*grid.Grid, grid.BoundaryPolicy, grid.Cell) spatial.Vec3, cell grid.Cell) spatial.Sample {
	return func(axis int, forward bool) spatial.Vec3 {
		neighbour := cell
		if forward {
			neighbour[axis]++
		} else {
			neighbour[axis]--
		}
		return at(g, policy, neighbour)
	}
}

func halfStepB(g *grid.Grid, policy grid.BoundaryPolicy, f *fields.Fields, halfDt float64) {
	next := make([]spatial.Vec3, len(f.B.Values))
	dispatch.Loop(len(f.B.Values), func(idx int) {
		cell := g.ToCell(idx)
		sample := neighbourSample(g, policy, f.EAt, cell)
		curl := spatial.Curl(g.Dims, g.BComponents(), g.CellSizes(), sample)
		next[idx] = f.B.Values[idx].Sub(curl.Scale(halfDt))
	})
	copy(f.B.Values, next)
}

func stepE(g *grid.Grid, policy grid.BoundaryPolicy, f *fields.Fields, dt float64) {
	next := make([]spatial.Vec3, len(f.E.Values))
	dispatch.Loop(len(f.E.Values), func(idx int) {
		cell := g.ToCell(idx)
		sample := neighbourSample(g, policy, f.BAt, cell)
		curl := spatial.Curl(g.Dims, g.EComponents(), g.CellSizes(), sample)
		term := curl.Scale(1 / g.Epsilon / g.Mu).Sub(f.J.Values[idx].Scale(1 / g.Epsilon))
		next[idx] = f.E.Values[idx].Add(term.Scale(dt))
	})
	copy(f.E.Values, next)
}

// Evolve advances f's E and B fields by dt, holding J fixed for the step
// (the orchestrator is responsible for depositing J before calling this).
func (FDTD) Evolve(g *grid.Grid, policy grid.BoundaryPolicy, f *fields.Fields, dt float64) {
	halfStepB(g, policy, f, dt/2)
	stepE(g, policy, f, dt)
	halfStepB(g, policy, f, dt/2)
}
