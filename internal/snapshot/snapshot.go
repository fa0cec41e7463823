// Package snapshot persists and restores a complete simulation state:
// the (currently empty) scratch buffers owned by the pusher, evolver and
// depositor, every species' particle array, the E/B/J field arrays, and
// the orchestrator's initialised flag. The stream order is fixed and
// must be read back in exactly the order it was written.
package snapshot

import (
	"bufio"
	"fmt"
	"io"

	"github.com/google/uuid"

	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/particlekit"
)

// Header carries metadata written once at the front of a snapshot stream,
// ahead of the state records themselves.
type Header struct {
	RunID uuid.UUID
}

// State is everything snapshot.Save persists and snapshot.Load restores.
// It has no scratch fields: none of the pusher, evolver or depositor
// carries any per-run state, so Save writes each of their scratch records
// as an empty record and Load skips them, but their position in the
// stream is load-bearing.
type State struct {
	Header Header

	Population  *particlekit.Population
	Fields      *fields.Fields
	Initialised bool
}

// Save writes state to w in binary mode if binary is true, otherwise in
// whitespace-separated text mode, following the fixed field order: run id,
// scratch buffers, species arrays, E, B, J, then the initialised flag.
func Save(w io.Writer, state State, binaryMode bool) error {
	bw := bufio.NewWriter(w)
	enc := encoder{w: bw, binary: binaryMode}

	if err := enc.writeRunID(state.Header.RunID); err != nil {
		return fmt.Errorf("snapshot: write run id: %w", err)
	}

	// Pusher, evolver and depositor scratch: all empty today, but their
	// record boundaries are still written so a future non-empty scratch
	// buffer doesn't shift the rest of the stream.
	for _, name := range []string{"pusher scratch", "evolver scratch", "depositor scratch"} {
		if err := enc.writeInt64(0); err != nil {
			return fmt.Errorf("snapshot: write %s: %w", name, err)
		}
	}

	for _, species := range state.Population.Species {
		if err := enc.writeInt64(int64(len(species.Particles))); err != nil {
			return fmt.Errorf("snapshot: write species %q count: %w", species.Name, err)
		}
		for _, p := range species.Particles {
			if err := enc.writeParticle(p); err != nil {
				return fmt.Errorf("snapshot: write species %q particle: %w", species.Name, err)
			}
		}
	}

	if err := enc.writeField("E", state.Fields.E); err != nil {
		return err
	}
	if err := enc.writeField("B", state.Fields.B); err != nil {
		return err
	}
	if err := enc.writeField("J", state.Fields.J); err != nil {
		return err
	}

	if err := enc.writeBool(state.Initialised); err != nil {
		return fmt.Errorf("snapshot: write initialised flag: %w", err)
	}

	return bw.Flush()
}

// Load reads a snapshot previously written by Save into a fresh State.
// Population is built from speciesTemplate (names, charges and masses are
// not stored in the stream) and the particle counts recorded in the
// stream; Fields are sized for g. The caller must supply the same species
// (order and count) the snapshot was saved with, matching each by
// position.
func Load(r io.Reader, g *grid.Grid, speciesTemplate []particlekit.Species, binaryMode bool) (State, error) {
	dec := decoder{r: r, binary: binaryMode}

	var state State

	runID, err := dec.readRunID()
	if err != nil {
		return state, fmt.Errorf("snapshot: read run id: %w", err)
	}
	state.Header.RunID = runID

	for _, name := range []string{"pusher scratch", "evolver scratch", "depositor scratch"} {
		n, err := dec.readInt64()
		if err != nil {
			return state, fmt.Errorf("snapshot: read %s: %w", name, err)
		}
		for i := int64(0); i < n; i++ {
			if _, err := dec.readFloat64(); err != nil {
				return state, fmt.Errorf("snapshot: read %s record %d: %w", name, i, err)
			}
		}
	}

	pop := &particlekit.Population{Species: make([]particlekit.Species, len(speciesTemplate))}
	for s, template := range speciesTemplate {
		count, err := dec.readInt64()
		if err != nil {
			return state, fmt.Errorf("snapshot: read species %q count: %w", template.Name, err)
		}
		species := template
		species.Particles = make([]particlekit.Particle, count)
		for i := int64(0); i < count; i++ {
			p, err := dec.readParticle()
			if err != nil {
				return state, fmt.Errorf("snapshot: read species %q particle %d: %w", template.Name, i, err)
			}
			species.Particles[i] = p
		}
		pop.Species[s] = species
	}
	state.Population = pop

	f := fields.New(g)
	if err := dec.readField("E", f.E); err != nil {
		return state, err
	}
	if err := dec.readField("B", f.B); err != nil {
		return state, err
	}
	if err := dec.readField("J", f.J); err != nil {
		return state, err
	}
	state.Fields = f

	initialised, err := dec.readBool()
	if err != nil {
		return state, fmt.Errorf("snapshot: read initialised flag: %w", err)
	}
	state.Initialised = initialised

	return state, nil
}
