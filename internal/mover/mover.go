// Package mover advances a particle's position by one timestep, given its
// velocity, and resolves any resulting cell crossings (including ones
// that step across more than one cell boundary in a single move) before
// handing the result to the boundary policy for domain-edge reinsertion.
package mover

import (
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/particlekit"
	"relativistic_pic/internal/spatial"
)

// Move advances p by howMuch (displacement in units of cell size along
// each axis, i.e. velocity * dt / cellSize), splitting the result back
// into an integer cell and a fractional position in [0,1). A displacement
// can cross more than one cell boundary in a single step; the two-stage
// floor below (once on howMuch itself, once on the resulting remainder)
// absorbs any number of whole-cell crossings before the policy's
// ApplyParticleBoundary reapplies the domain's wrap/reflect rule to the
// result.
func Move(g *grid.Grid, policy grid.BoundaryPolicy, p particlekit.Particle, howMuch spatial.Vec3) particlekit.Particle {
	floorHowMuch := howMuch.Floor()
	remainder := p.Pos.Add(howMuch).Sub(floorHowMuch)
	remainderFloor := remainder.Floor()

	var newCell grid.Cell
	for d := 0; d < 3; d++ {
		newCell[d] = p.Cell[d] + int(floorHowMuch.At(d)) + int(remainderFloor.At(d))
	}

	newPos := remainder.Sub(remainderFloor)

	cell, pos, u := policy.ApplyParticleBoundary(g, newCell, newPos, p.U, false)
	p.Cell = cell
	p.Pos = pos
	p.U = u
	return p
}
