// Package diagnostics provides three ready-made diagnostic hook
// implementations an orchestrator.Hooks can be wired up with: a one-line
// log sink, a per-step CSV sink, and a periodic spectral sink. None of
// them mutate the state they observe; all three only ever read the
// particle population, the fields, the timestep and the grid descriptor
// a hook call exposes.
package diagnostics

import (
	"math"

	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/particlekit"
)

// fieldEnergy returns the total electromagnetic field energy stored
// across g's cells: sum of epsilon*|E|^2/2 + |B|^2/(2*mu).
func fieldEnergy(g *grid.Grid, f *fields.Fields) float64 {
	total := 0.0
	for i := range f.E.Values {
		total += g.Epsilon * f.E.Values[i].SquareNorm2() / 2
		total += f.B.Values[i].SquareNorm2() / (2 * g.Mu)
	}
	return total
}

// kineticEnergy returns a proxy for the population's total kinetic
// energy, sum(mass*|u|^2)/2 over every particle. u is reduced momentum
// rather than velocity, so this is exact only in the non-relativistic
// limit; hooks receive no speed-of-light parameter (per the diagnostic
// hook interface), so an exact gamma-aware energy is outside what a hook
// alone can compute.
func kineticEnergy(pop *particlekit.Population) float64 {
	total := 0.0
	pop.ForEach(func(_, _ int, species *particlekit.Species, p *particlekit.Particle) {
		total += species.Mass * p.U.SquareNorm2() / 2
	})
	return total
}

// maxCurrentMagnitude returns the largest |J| sampled anywhere on the
// grid.
func maxCurrentMagnitude(f *fields.Fields) float64 {
	max := 0.0
	for _, v := range f.J.Values {
		if n := v.SquareNorm2(); n > max {
			max = n
		}
	}
	return math.Sqrt(max)
}

// totalCharge returns the sum of charge*count over every species.
func totalCharge(pop *particlekit.Population) float64 {
	total := 0.0
	for _, species := range pop.Species {
		total += species.Charge * float64(len(species.Particles))
	}
	return total
}
