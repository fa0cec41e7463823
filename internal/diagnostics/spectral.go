package diagnostics

import (
	"log/slog"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/orchestrator"
	"relativistic_pic/internal/particlekit"
)

// SpectralSink runs a 1-D FFT of one field component every Every steps
// and logs the dominant non-zero wavenumber's amplitude - useful for
// tracking a cold-plasma Langmuir oscillation or a plane wave's spectral
// peak without ever solving for E or B itself (it only reads the field
// the evolver already produced).
type SpectralSink struct {
	// Field selects which field array the FFT samples: 'E', 'B' or 'J'.
	Field byte
	// Component selects which of the field's three components (0=X,
	// 1=Y, 2=Z) is transformed.
	Component int
	// Every is the step stride between FFT evaluations; 0 means every
	// step.
	Every int

	step int
}

func (s *SpectralSink) sample(f *fields.Fields) []float64 {
	var set *fields.Set
	switch s.Field {
	case 'B':
		set = f.B
	case 'J':
		set = f.J
	default:
		set = f.E
	}

	out := make([]float64, len(set.Values))
	for i, v := range set.Values {
		out[i] = v.At(s.Component)
	}
	return out
}

// dominantWavenumber returns the index and amplitude of the largest
// non-DC FFT bin among samples's first half (the second half mirrors the
// first for a real-valued input).
func dominantWavenumber(samples []float64) (k int, amplitude float64) {
	spectrum := make([]complex128, len(samples))
	for i, v := range samples {
		spectrum[i] = complex(v, 0)
	}
	transformed := fft.FFT(spectrum)

	for i := 1; i < len(transformed)/2+1; i++ {
		if amp := cmplx.Abs(transformed[i]); amp > amplitude {
			amplitude = amp
			k = i
		}
	}
	return k, amplitude / math.Max(1, float64(len(samples)))
}

// PostStep returns an orchestrator.HookFunc suitable for Hooks.PostStep.
func (s *SpectralSink) PostStep() orchestrator.HookFunc {
	return func(pop *particlekit.Population, f *fields.Fields, dt float64, g *grid.Grid, policy grid.BoundaryPolicy) {
		defer func() { s.step++ }()

		stride := s.Every
		if stride <= 0 {
			stride = 1
		}
		if s.step%stride != 0 {
			return
		}

		k, amplitude := dominantWavenumber(s.sample(f))
		slog.Info("spectral",
			"step", s.step,
			"field", string(s.Field),
			"dominant_k", k,
			"amplitude", amplitude,
		)
	}
}
