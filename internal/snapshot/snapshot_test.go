package snapshot

import (
	"bytes"
	"testing"

	"github.com/google/uuid"

	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/particlekit"
	"relativistic_pic/internal/spatial"
)

func testState(g *grid.Grid) State {
	pop := &particlekit.Population{Species: []particlekit.Species{
		{
			Name: "electron", Charge: -1, Mass: 1,
			Particles: []particlekit.Particle{
				{Cell: grid.Cell{3, 0, 0}, Pos: spatial.New(0.25, 0, 0), U: spatial.New(0.1, 0, 0)},
				{Cell: grid.Cell{7, 0, 0}, Pos: spatial.New(0.75, 0, 0), U: spatial.New(-0.2, 0, 0)},
			},
		},
		{
			Name: "ion", Charge: 1, Mass: 1836,
			Particles: []particlekit.Particle{
				{Cell: grid.Cell{5, 0, 0}, Pos: spatial.New(0.5, 0, 0), U: spatial.New(0.001, 0, 0)},
			},
		},
	}}

	f := fields.New(g)
	for i := range f.E.Values {
		f.E.Values[i] = spatial.New(float64(i)*0.1, 0, 0)
		f.B.Values[i] = spatial.New(0, 0, float64(i)*0.01)
		f.J.Values[i] = spatial.New(float64(i)*0.001, 0, 0)
	}

	return State{
		Header:      Header{RunID: uuid.New()},
		Population:  pop,
		Fields:      f,
		Initialised: true,
	}
}

func speciesTemplate(state State) []particlekit.Species {
	template := make([]particlekit.Species, len(state.Population.Species))
	for i, s := range state.Population.Species {
		template[i] = particlekit.Species{Name: s.Name, Charge: s.Charge, Mass: s.Mass}
	}
	return template
}

func assertStatesEqual(t *testing.T, want, got State) {
	t.Helper()

	if got.Header.RunID != want.Header.RunID {
		t.Errorf("RunID mismatch: want %v, got %v", want.Header.RunID, got.Header.RunID)
	}
	if got.Initialised != want.Initialised {
		t.Errorf("Initialised mismatch: want %v, got %v", want.Initialised, got.Initialised)
	}

	if len(got.Population.Species) != len(want.Population.Species) {
		t.Fatalf("species count mismatch: want %d, got %d", len(want.Population.Species), len(got.Population.Species))
	}
	for s := range want.Population.Species {
		wantSpecies := want.Population.Species[s]
		gotSpecies := got.Population.Species[s]
		if len(gotSpecies.Particles) != len(wantSpecies.Particles) {
			t.Fatalf("species %q particle count mismatch: want %d, got %d",
				wantSpecies.Name, len(wantSpecies.Particles), len(gotSpecies.Particles))
		}
		for i := range wantSpecies.Particles {
			if gotSpecies.Particles[i] != wantSpecies.Particles[i] {
				t.Errorf("species %q particle %d mismatch: want %+v, got %+v",
					wantSpecies.Name, i, wantSpecies.Particles[i], gotSpecies.Particles[i])
			}
		}
	}

	for i := range want.Fields.E.Values {
		if got.Fields.E.Values[i] != want.Fields.E.Values[i] {
			t.Errorf("E[%d] mismatch: want %v, got %v", i, want.Fields.E.Values[i], got.Fields.E.Values[i])
		}
		if got.Fields.B.Values[i] != want.Fields.B.Values[i] {
			t.Errorf("B[%d] mismatch: want %v, got %v", i, want.Fields.B.Values[i], got.Fields.B.Values[i])
		}
		if got.Fields.J.Values[i] != want.Fields.J.Values[i] {
			t.Errorf("J[%d] mismatch: want %v, got %v", i, want.Fields.J.Values[i], got.Fields.J.Values[i])
		}
	}
}

func TestSaveLoadRoundTripBinary(t *testing.T) {
	g := grid.New(1, [3]int{10, 0, 0}, spatial.New(1, 0, 0), 1, 1)
	want := testState(g)

	var buf bytes.Buffer
	if err := Save(&buf, want, true); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(&buf, g, speciesTemplate(want), true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	assertStatesEqual(t, want, got)
}

func TestSaveLoadRoundTripText(t *testing.T) {
	g := grid.New(1, [3]int{10, 0, 0}, spatial.New(1, 0, 0), 1, 1)
	want := testState(g)

	var buf bytes.Buffer
	if err := Save(&buf, want, false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(&buf, g, speciesTemplate(want), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	assertStatesEqual(t, want, got)
}

func TestSaveLoadPreservesEmptySpecies(t *testing.T) {
	g := grid.New(1, [3]int{4, 0, 0}, spatial.New(1, 0, 0), 1, 1)
	want := State{
		Header:      Header{RunID: uuid.New()},
		Population:  &particlekit.Population{Species: []particlekit.Species{{Name: "electron", Charge: -1, Mass: 1}}},
		Fields:      fields.New(g),
		Initialised: false,
	}

	var buf bytes.Buffer
	if err := Save(&buf, want, true); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(&buf, g, speciesTemplate(want), true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	assertStatesEqual(t, want, got)
}

func TestLoadRejectsFieldCountMismatch(t *testing.T) {
	smallGrid := grid.New(1, [3]int{4, 0, 0}, spatial.New(1, 0, 0), 1, 1)
	bigGrid := grid.New(1, [3]int{8, 0, 0}, spatial.New(1, 0, 0), 1, 1)
	want := testState(smallGrid)
	want.Population.Species = want.Population.Species[:1]
	want.Population.Species[0].Particles = nil

	var buf bytes.Buffer
	if err := Save(&buf, want, true); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := Load(&buf, bigGrid, speciesTemplate(want), true); err == nil {
		t.Fatalf("expected an error loading a snapshot sized for a different grid")
	}
}
