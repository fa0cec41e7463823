package diagnostics

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/orchestrator"
	"relativistic_pic/internal/particlekit"
)

// stepRecord is one row of a CSV sink's output, tagged the way the
// teacher's telemetry records are.
type stepRecord struct {
	Step          int     `csv:"step"`
	Time          float64 `csv:"time"`
	FieldEnergy   float64 `csv:"field_energy"`
	KineticEnergy float64 `csv:"kinetic_energy"`
	TotalCharge   float64 `csv:"total_charge"`
}

// CSVSink appends one row per step to a CSV file, writing the header on
// the first row and plain data rows after.
type CSVSink struct {
	file          *os.File
	headerWritten bool
	step          int
	time          float64
}

// NewCSVSink creates (or truncates) path and returns a sink writing to
// it. The caller must call Close when done.
func NewCSVSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: creating %s: %w", path, err)
	}
	return &CSVSink{file: f}, nil
}

// Close flushes and closes the sink's underlying file.
func (s *CSVSink) Close() error {
	return s.file.Close()
}

// PostStep returns an orchestrator.HookFunc suitable for Hooks.PostStep.
// A write failure is swallowed here since HookFunc has no error return;
// callers that need write errors surfaced should call WriteRow directly.
func (s *CSVSink) PostStep() orchestrator.HookFunc {
	return func(pop *particlekit.Population, f *fields.Fields, dt float64, g *grid.Grid, policy grid.BoundaryPolicy) {
		s.time += dt
		_ = s.WriteRow(pop, f, g)
		s.step++
	}
}

// WriteRow appends one row for the sink's current step and time.
func (s *CSVSink) WriteRow(pop *particlekit.Population, f *fields.Fields, g *grid.Grid) error {
	records := []stepRecord{{
		Step:          s.step,
		Time:          s.time,
		FieldEnergy:   fieldEnergy(g, f),
		KineticEnergy: kineticEnergy(pop),
		TotalCharge:   totalCharge(pop),
	}}

	if !s.headerWritten {
		if err := gocsv.Marshal(records, s.file); err != nil {
			return fmt.Errorf("diagnostics: writing csv row: %w", err)
		}
		s.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, s.file); err != nil {
		return fmt.Errorf("diagnostics: writing csv row: %w", err)
	}
	return nil
}
