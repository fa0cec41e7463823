package diagnostics

import (
	"log/slog"

	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/orchestrator"
	"relativistic_pic/internal/particlekit"
)

// LogSink logs a one-line summary at the end of every step: step index,
// total kinetic plus field energy, and the largest current magnitude on
// the grid, the way the teacher's game loop logs per-tick performance.
type LogSink struct {
	step int
}

// PostStep returns an orchestrator.HookFunc suitable for Hooks.PostStep.
func (s *LogSink) PostStep() orchestrator.HookFunc {
	return func(pop *particlekit.Population, f *fields.Fields, dt float64, g *grid.Grid, policy grid.BoundaryPolicy) {
		energy := kineticEnergy(pop) + fieldEnergy(g, f)
		slog.Info("step",
			"step", s.step,
			"energy", energy,
			"max_j", maxCurrentMagnitude(f),
		)
		s.step++
	}
}
