// Command picviewer loads a run configuration, builds the simulation it
// describes, and either steps it headless (for logging/benchmarking) or
// drives it through a raylib window showing the particle population and
// one selected field component every frame.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"relativistic_pic/internal/config"
	"relativistic_pic/internal/diagnostics"
	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/orchestrator"
	"relativistic_pic/internal/particlekit"
	"relativistic_pic/internal/viz"
)

var (
	configPath = flag.String("config", "", "Path to a YAML run configuration (default: embedded defaults)")
	headless   = flag.Bool("headless", false, "Run without graphics, for logging/benchmarking")
	maxSteps   = flag.Int("max-steps", 0, "Stop after N steps (0 = run forever, intended for -headless)")
	field      = flag.String("field", "E", "Field to render: E, B or J")
	component  = flag.Int("component", 0, "Field component to render: 0=X, 1=Y, 2=Z")
	screenW    = flag.Int("width", 1000, "Window width in pixels")
	screenH    = flag.Int("height", 700, "Window height in pixels")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "picviewer: %v\n", err)
		os.Exit(1)
	}

	orch, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "picviewer: %v\n", err)
		os.Exit(1)
	}

	wireHooks(orch, cfg)

	if *headless {
		runHeadless(orch)
		return
	}
	runWindowed(orch)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

func wireHooks(orch *orchestrator.Orchestrator, cfg *config.Config) {
	if cfg.Diagnostics.Log {
		sink := &diagnostics.LogSink{}
		orch.Hooks.PostStep = chain(orch.Hooks.PostStep, sink.PostStep())
	}
	if cfg.Diagnostics.CSVPath != "" {
		sink, err := diagnostics.NewCSVSink(cfg.Diagnostics.CSVPath)
		if err != nil {
			slog.Error("picviewer: csv sink disabled", "error", err)
		} else {
			orch.Hooks.PostStep = chain(orch.Hooks.PostStep, sink.PostStep())
		}
	}
	if cfg.Diagnostics.Spectral.Enabled {
		sink := &diagnostics.SpectralSink{
			Field:     fieldByte(*field),
			Component: cfg.Diagnostics.Spectral.Component,
			Every:     cfg.Diagnostics.Spectral.Every,
		}
		orch.Hooks.PostStep = chain(orch.Hooks.PostStep, sink.PostStep())
	}
}

// chain composes two hooks into one so multiple sinks can share the same
// hook slot.
func chain(first, second orchestrator.HookFunc) orchestrator.HookFunc {
	if first == nil {
		return second
	}
	if second == nil {
		return first
	}
	return func(pop *particlekit.Population, f *fields.Fields, dt float64, g *grid.Grid, policy grid.BoundaryPolicy) {
		first(pop, f, dt, g, policy)
		second(pop, f, dt, g, policy)
	}
}

func fieldByte(name string) byte {
	switch name {
	case "B", "b":
		return 'B'
	case "J", "j":
		return 'J'
	default:
		return 'E'
	}
}

func runHeadless(orch *orchestrator.Orchestrator) {
	step := 0
	for *maxSteps <= 0 || step < *maxSteps {
		orch.Step()
		step++
	}
}

func runWindowed(orch *orchestrator.Orchestrator) {
	viz.Open("relativistic pic viewer", int32(*screenW), int32(*screenH))
	defer viz.Close()

	renderer := viz.New(int32(*screenW), int32(*screenH), viz.FieldSelection{
		Field:     fieldByte(*field),
		Component: *component,
	})

	step := 0
	for !viz.ShouldClose() {
		if *maxSteps <= 0 || step < *maxSteps {
			orch.Step()
			step++
		}
		renderer.Draw(orch.Grid, orch.Policy, orch.Population, orch.Fields)
	}
}
