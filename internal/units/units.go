// Package units defines the unit system a simulation runs in: scaling
// factors for length, time, mass, current and temperature, and the
// physical constants derived from them in those units.
package units

// SI fundamental constants, in SI units.
const (
	siC            = 299792458.0
	siEpsilonZero  = 8.8541878128e-12
	siMuZero       = 1.25663706212e-6
	siElectronQ    = 1.602176634e-19
	siElectronMass = 9.1093837015e-31
	siProtonMass   = 1.67262192369e-27
)

// System scales the five base SI dimensions to whatever units a
// simulation is expressed in. The zero value has every scale at 0; the
// SI variable below is the identity system (all scales 1).
type System struct {
	Length      float64
	Time        float64
	Mass        float64
	Current     float64
	Temperature float64
}

// SI is the identity unit system.
var SI = System{Length: 1, Time: 1, Mass: 1, Current: 1, Temperature: 1}

// New builds a unit system from explicit base-dimension scale factors.
func New(length, time, mass, current, temperature float64) System {
	return System{Length: length, Time: time, Mass: mass, Current: current, Temperature: temperature}
}

// C returns the speed of light in this unit system's length/time units.
func (s System) C() float64 {
	return siC * s.Time / s.Length
}

// EpsilonZero returns the vacuum permittivity in this unit system.
func (s System) EpsilonZero() float64 {
	return siEpsilonZero * s.Mass * pow3(s.Length) / pow2(s.Current) / pow4(s.Time)
}

// MuZero returns the vacuum permeability in this unit system.
func (s System) MuZero() float64 {
	return siMuZero * pow2(s.Time) * pow2(s.Current) / s.Mass / s.Length
}

// ElementaryCharge returns the elementary charge in this unit system.
func (s System) ElementaryCharge() float64 {
	return siElectronQ / s.Current / s.Time
}

// ElectronMass returns the electron rest mass in this unit system.
func (s System) ElectronMass() float64 {
	return siElectronMass / s.Mass
}

// ProtonMass returns the proton rest mass in this unit system.
func (s System) ProtonMass() float64 {
	return siProtonMass / s.Mass
}

func pow2(x float64) float64 { return x * x }
func pow3(x float64) float64 { return x * x * x }
func pow4(x float64) float64 { return x * x * x * x }
