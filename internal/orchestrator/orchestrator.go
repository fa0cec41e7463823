// Package orchestrator threads the grid, particle population and field
// evolver together into one simulation step, enforcing the half-step
// staggering a leap-frog PIC cycle requires: gather and push read fields
// that were advanced by the previous step's evolve phase, and the
// current deposited this step is itself split around the two half-moves
// so particle positions and currents stay mutually consistent.
package orchestrator

import (
	"relativistic_pic/internal/depositor"
	"relativistic_pic/internal/dispatch"
	"relativistic_pic/internal/evolver"
	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/gather"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/mover"
	"relativistic_pic/internal/particlekit"
	"relativistic_pic/internal/pusher"
	"relativistic_pic/internal/shape"
)

// HookFunc is one diagnostic hook invocation: it observes (but must not
// mutate) the orchestrator's owned state at a defined point in the step.
type HookFunc func(pop *particlekit.Population, f *fields.Fields, dt float64, g *grid.Grid, policy grid.BoundaryPolicy)

// Hooks is the set of ten optional diagnostic hook points a step invokes
// if registered. A nil field is simply skipped.
type Hooks struct {
	PreStep, PostStep               HookFunc
	BeforeMover, AfterMover         HookFunc
	BeforePusher, AfterPusher       HookFunc
	BeforeEvolver, AfterEvolver     HookFunc
	BeforeDepositer, AfterDepositer HookFunc
}

func (h Hooks) call(fn HookFunc, pop *particlekit.Population, f *fields.Fields, dt float64, g *grid.Grid, policy grid.BoundaryPolicy) {
	if fn != nil {
		fn(pop, f, dt, g, policy)
	}
}

// Orchestrator owns every piece of state a simulation run needs: the
// grid and its boundary policy, the particle population, the field
// arrays, and the four algorithmic components it threads together.
type Orchestrator struct {
	Grid       *grid.Grid
	Policy     grid.BoundaryPolicy
	Shape      shape.Shape
	Pusher     pusher.Pusher
	Evolver    evolver.FDTD
	Depositor  depositor.Esirkepov
	Population *particlekit.Population
	Fields     *fields.Fields
	Dt         float64
	C          float64
	Hooks      Hooks

	initialised bool
}

// New builds an Orchestrator over caller-supplied, already-populated
// state. The caller is responsible for loading initial conditions into
// Population and Fields before the first Step.
func New(g *grid.Grid, policy grid.BoundaryPolicy, s shape.Shape, p pusher.Pusher,
	pop *particlekit.Population, f *fields.Fields, dt, c float64) *Orchestrator {

	return &Orchestrator{
		Grid:       g,
		Policy:     policy,
		Shape:      s,
		Pusher:     p,
		Evolver:    evolver.FDTD{},
		Depositor:  depositor.Esirkepov{Shape: s},
		Population: pop,
		Fields:     f,
		Dt:         dt,
		C:          c,
	}
}

// Initialised reports whether the first-step half deposit has already
// run.
func (o *Orchestrator) Initialised() bool {
	return o.initialised
}

// SetInitialised forces the initialised flag, used by snapshot restore
// to skip the one-time half deposit on a resumed run.
func (o *Orchestrator) SetInitialised(v bool) {
	o.initialised = v
}

// Step advances the simulation by one timestep Dt, running the control
// flow: a one-time half-step current deposit (first call only), half
// particle move, momentum push, field evolve, full current deposit, and
// a closing half particle move, invoking any registered diagnostic hooks
// around each phase.
func (o *Orchestrator) Step() {
	if !o.initialised {
		o.Depositor.Deposit(o.Grid, o.Policy, o.Fields, o.Population, o.Dt/2, o.C)
		o.initialised = true
	}

	o.Hooks.call(o.Hooks.PreStep, o.Population, o.Fields, o.Dt, o.Grid, o.Policy)

	o.moverPhase(o.Dt / 2)
	o.pusherPhase()
	o.evolverPhase()
	o.depositorPhase()
	o.moverPhase(o.Dt / 2)

	o.Hooks.call(o.Hooks.PostStep, o.Population, o.Fields, o.Dt, o.Grid, o.Policy)
}

func (o *Orchestrator) moverPhase(halfDt float64) {
	o.Hooks.call(o.Hooks.BeforeMover, o.Population, o.Fields, o.Dt, o.Grid, o.Policy)

	cellSizes := o.Grid.CellSizes()
	for s := range o.Population.Species {
		species := &o.Population.Species[s]
		dispatch.Loop(len(species.Particles), func(i int) {
			p := species.Particles[i]
			howMuch := p.Vel(cellSizes, o.C).Scale(halfDt)
			species.Particles[i] = mover.Move(o.Grid, o.Policy, p, howMuch)
		})
	}

	o.Hooks.call(o.Hooks.AfterMover, o.Population, o.Fields, o.Dt, o.Grid, o.Policy)
}

func (o *Orchestrator) pusherPhase() {
	o.Hooks.call(o.Hooks.BeforePusher, o.Population, o.Fields, o.Dt, o.Grid, o.Policy)

	for s := range o.Population.Species {
		species := &o.Population.Species[s]
		dispatch.Loop(len(species.Particles), func(i int) {
			p := species.Particles[i]
			e := gather.E(o.Grid, o.Policy, o.Fields, o.Shape, p.Cell, p.Pos)
			b := gather.B(o.Grid, o.Policy, o.Fields, o.Shape, p.Cell, p.Pos)
			p.U = o.Pusher.Push(p.U, e, b, species.Charge, species.Mass, o.Dt, o.C, o.Grid.Dims, o.Grid.BComponents())
			species.Particles[i] = p
		})
	}

	o.Hooks.call(o.Hooks.AfterPusher, o.Population, o.Fields, o.Dt, o.Grid, o.Policy)
}

func (o *Orchestrator) evolverPhase() {
	o.Hooks.call(o.Hooks.BeforeEvolver, o.Population, o.Fields, o.Dt, o.Grid, o.Policy)
	o.Evolver.Evolve(o.Grid, o.Policy, o.Fields, o.Dt)
	o.Hooks.call(o.Hooks.AfterEvolver, o.Population, o.Fields, o.Dt, o.Grid, o.Policy)
}

func (o *Orchestrator) depositorPhase() {
	o.Hooks.call(o.Hooks.BeforeDepositer, o.Population, o.Fields, o.Dt, o.Grid, o.Policy)
	o.Depositor.Deposit(o.Grid, o.Policy, o.Fields, o.Population, o.Dt, o.C)
	o.Hooks.call(o.Hooks.AfterDepositer, o.Population, o.Fields, o.Dt, o.Grid, o.Policy)
}
