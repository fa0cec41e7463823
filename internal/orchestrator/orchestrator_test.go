package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/particlekit"
	"relativistic_pic/internal/pusher"
	"relativistic_pic/internal/shape"
	"relativistic_pic/internal/spatial"
)

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	g := grid.New(1, [3]int{20, 0, 0}, spatial.New(1, 0, 0), 1, 1)
	s, err := shape.ByOrder(1)
	require.NoError(t, err)

	pop := &particlekit.Population{Species: []particlekit.Species{{
		Name: "electron", Charge: -1, Mass: 1,
		Particles: []particlekit.Particle{
			{Cell: grid.Cell{10, 0, 0}, Pos: spatial.New(0.5, 0, 0), U: spatial.New(0.01, 0, 0)},
			{Cell: grid.Cell{11, 0, 0}, Pos: spatial.New(0.2, 0, 0), U: spatial.New(-0.01, 0, 0)},
		},
	}}}

	f := fields.New(g)
	return New(g, grid.Periodic{}, s, pusher.Boris{}, pop, f, 0.01, 10.0)
}

func TestStepMarksOrchestratorInitialisedAfterFirstCall(t *testing.T) {
	o := newTestOrchestrator(t)
	require.False(t, o.Initialised())

	o.Step()

	require.True(t, o.Initialised())
}

func TestStepKeepsParticlesWithinDomain(t *testing.T) {
	o := newTestOrchestrator(t)

	for i := 0; i < 20; i++ {
		o.Step()
	}

	for _, species := range o.Population.Species {
		for _, p := range species.Particles {
			require.False(t, o.Grid.IsOutside(p.Cell), "particle cell %v left the domain", p.Cell)
			require.GreaterOrEqual(t, p.Pos.X, 0.0)
			require.Less(t, p.Pos.X, 1.0)
		}
	}
}

func TestStepInvokesRegisteredHooksInOrder(t *testing.T) {
	o := newTestOrchestrator(t)

	var order []string
	record := func(name string) HookFunc {
		return func(pop *particlekit.Population, f *fields.Fields, dt float64, g *grid.Grid, policy grid.BoundaryPolicy) {
			order = append(order, name)
		}
	}
	o.Hooks = Hooks{
		PreStep: record("pre_step"), PostStep: record("post_step"),
		BeforeMover: record("before_mover"), AfterMover: record("after_mover"),
		BeforePusher: record("before_pusher"), AfterPusher: record("after_pusher"),
		BeforeEvolver: record("before_evolver"), AfterEvolver: record("after_evolver"),
		BeforeDepositer: record("before_depositer"), AfterDepositer: record("after_depositer"),
	}

	o.Step()

	want := []string{
		"pre_step",
		"before_mover", "after_mover",
		"before_pusher", "after_pusher",
		"before_evolver", "after_evolver",
		"before_depositer", "after_depositer",
		"before_mover", "after_mover",
		"post_step",
	}
	require.Equal(t, want, order)
}

func TestStepWithoutHooksDoesNotPanic(t *testing.T) {
	o := newTestOrchestrator(t)
	require.NotPanics(t, func() { o.Step() })
}

func TestSetInitialisedSkipsTheHalfDeposit(t *testing.T) {
	o := newTestOrchestrator(t)
	o.SetInitialised(true)
	require.True(t, o.Initialised())

	o.Step()
	// Still initialised - the one-time half deposit should not fire again.
	require.True(t, o.Initialised())
}
