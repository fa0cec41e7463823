package diagnostics

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats"

	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/particlekit"
	"relativistic_pic/internal/spatial"
)

func testGridAndPop() (*grid.Grid, *particlekit.Population) {
	g := grid.New(1, [3]int{8, 0, 0}, spatial.New(1, 0, 0), 1, 1)
	pop := &particlekit.Population{Species: []particlekit.Species{{
		Name: "electron", Charge: -1, Mass: 2,
		Particles: []particlekit.Particle{
			{Cell: grid.Cell{1, 0, 0}, U: spatial.New(2, 0, 0)},
			{Cell: grid.Cell{2, 0, 0}, U: spatial.New(-1, 0, 0)},
		},
	}}}
	return g, pop
}

func TestFieldEnergyZeroForZeroFields(t *testing.T) {
	g, _ := testGridAndPop()
	f := fields.New(g)
	if e := fieldEnergy(g, f); e != 0 {
		t.Errorf("expected zero field energy, got %v", e)
	}
}

func TestFieldEnergyMatchesHandComputation(t *testing.T) {
	g, _ := testGridAndPop()
	f := fields.New(g)
	f.E.Values[0] = spatial.New(2, 0, 0)
	f.B.Values[0] = spatial.New(0, 0, 3)

	want := g.Epsilon*4/2 + 9/(2*g.Mu)
	if got := fieldEnergy(g, f); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestKineticEnergyMatchesHandComputation(t *testing.T) {
	_, pop := testGridAndPop()
	// mass 2, |u| = 2 and 1: 2*4/2 + 2*1/2 = 4 + 1 = 5
	if got := kineticEnergy(pop); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected 5, got %v", got)
	}
}

func TestMaxCurrentMagnitudeFindsLargestSample(t *testing.T) {
	g, _ := testGridAndPop()
	f := fields.New(g)
	f.J.Values[3] = spatial.New(3, 4, 0)
	if got := maxCurrentMagnitude(f); math.Abs(got-5) > 1e-9 {
		t.Errorf("expected 5, got %v", got)
	}
}

func TestTotalChargeSumsOverSpecies(t *testing.T) {
	_, pop := testGridAndPop()
	if got := totalCharge(pop); got != -2 {
		t.Errorf("expected -2, got %v", got)
	}
}

func TestTotalChargeMatchesIndependentAggregate(t *testing.T) {
	_, pop := testGridAndPop()

	var perSpeciesCharge []float64
	for _, species := range pop.Species {
		perSpeciesCharge = append(perSpeciesCharge, species.Charge*float64(len(species.Particles)))
	}
	want := floats.Sum(perSpeciesCharge)

	if got := totalCharge(pop); got != want {
		t.Errorf("expected totalCharge to match independently aggregated sum %v, got %v", want, got)
	}
}

func TestLogSinkDoesNotPanic(t *testing.T) {
	g, pop := testGridAndPop()
	f := fields.New(g)
	sink := &LogSink{}
	hook := sink.PostStep()

	for i := 0; i < 3; i++ {
		hook(pop, f, 0.01, g, grid.Periodic{})
	}
	if sink.step != 3 {
		t.Errorf("expected step counter 3, got %d", sink.step)
	}
}

func TestCSVSinkWritesHeaderThenRows(t *testing.T) {
	g, pop := testGridAndPop()
	f := fields.New(g)

	path := filepath.Join(t.TempDir(), "steps.csv")
	sink, err := NewCSVSink(path)
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	hook := sink.PostStep()
	hook(pop, f, 0.01, g, grid.Periodic{})
	hook(pop, f, 0.01, g, grid.Periodic{})
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	if content == "" {
		t.Fatal("expected non-empty CSV output")
	}
	if got := countLines(content); got != 3 {
		t.Errorf("expected 1 header + 2 rows = 3 lines, got %d", got)
	}
}

func countLines(s string) int {
	count := 0
	for _, c := range s {
		if c == '\n' {
			count++
		}
	}
	return count
}

func TestDominantWavenumberFindsPureSinusoid(t *testing.T) {
	n := 16
	samples := make([]float64, n)
	for i := range samples {
		// A pure k=2 sinusoid should have its spectral peak at k=2.
		samples[i] = math.Sin(2 * math.Pi * 2 * float64(i) / float64(n))
	}

	k, amplitude := dominantWavenumber(samples)
	if k != 2 {
		t.Errorf("expected dominant wavenumber 2, got %d", k)
	}
	if amplitude <= 0 {
		t.Errorf("expected positive amplitude, got %v", amplitude)
	}
}

func TestSpectralSinkCountsEveryStepWithStrideSet(t *testing.T) {
	n := 8
	g := grid.New(1, [3]int{n, 0, 0}, spatial.New(1, 0, 0), 1, 1)
	f := fields.New(g)
	pop := &particlekit.Population{}

	sink := &SpectralSink{Field: 'E', Component: 0, Every: 2}
	hook := sink.PostStep()
	for i := 0; i < 4; i++ {
		hook(pop, f, 0.01, g, grid.Periodic{})
	}
	if sink.step != 4 {
		t.Errorf("expected step counter 4, got %d", sink.step)
	}
}
