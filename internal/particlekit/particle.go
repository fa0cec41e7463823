// Package particlekit defines the per-particle state carried by the
// simulation and the per-species storage it lives in: a dense array per
// species, visited by a small unrolling helper rather than a general
// entity-component framework.
package particlekit

import (
	"math"

	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/spatial"
)

// Particle holds one macro-particle's kinematic state. Position is split
// into an integer Cell and a fractional Pos in [0,1) within that cell,
// matching the Yee grid's own cell-relative addressing; momentum is
// stored as the reduced momentum U = gamma*v (in simulation length units
// per unit time, not cell sizes; Vel divides by the cell sizes), which
// stays well-conditioned as |v| -> c.
type Particle struct {
	Cell grid.Cell
	Pos  spatial.Vec3
	U    spatial.Vec3
}

// Gamma returns the particle's relativistic Lorentz factor for a
// simulation whose speed of light (in the same length/time units as U)
// is c.
func (p Particle) Gamma(c float64) float64 {
	return math.Sqrt(p.U.SquareNorm2()/(c*c) + 1)
}

// P returns the particle's momentum (reduced momentum times rest mass).
func (p Particle) P(mass float64) spatial.Vec3 {
	return p.U.Scale(mass)
}

// Vel returns the particle's velocity, in units of cell separation per
// unit time, given the grid's cell sizes and the simulation's c.
func (p Particle) Vel(cellSizes spatial.Vec3, c float64) spatial.Vec3 {
	return p.U.ElementDivide(cellSizes).Scale(1 / p.Gamma(c))
}

// WithVel returns a copy of p with U set so that Vel returns vel.
func (p Particle) WithVel(vel spatial.Vec3, cellSizes spatial.Vec3, c float64) Particle {
	realVel := vel.ElementMultiply(cellSizes)
	denom := math.Sqrt(1 - realVel.SquareNorm2()/(c*c))
	p.U = realVel.Scale(1 / denom)
	return p
}

// AbsolutePos returns the particle's continuous position in simulation
// length units: (Pos + Cell) scaled by the grid's cell sizes.
func (p Particle) AbsolutePos(cellSizes spatial.Vec3) spatial.Vec3 {
	cellAsVec := spatial.New(float64(p.Cell[0]), float64(p.Cell[1]), float64(p.Cell[2]))
	return p.Pos.Add(cellAsVec).ElementMultiply(cellSizes)
}

// Species is a homogeneous population of particles sharing a charge and
// rest mass.
type Species struct {
	Name      string
	Charge    float64
	Mass      float64
	Particles []Particle
}

// Population is the full set of species a simulation tracks.
type Population struct {
	Species []Species
}

// Visitor is called once per particle during ForEach.
type Visitor func(speciesIndex, particleIndex int, species *Species, p *Particle)

// ForEach visits every particle of every species in order. It does not
// parallelize; callers that need per-step concurrency build their own
// partitioning on top of this (see internal/dispatch), since the right
// granularity differs between gather, push and deposition.
func (pop *Population) ForEach(fn Visitor) {
	for s := range pop.Species {
		species := &pop.Species[s]
		for i := range species.Particles {
			fn(s, i, species, &species.Particles[i])
		}
	}
}

// Count returns the total number of particles across all species.
func (pop *Population) Count() int {
	total := 0
	for _, s := range pop.Species {
		total += len(s.Particles)
	}
	return total
}
