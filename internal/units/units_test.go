package units

import (
	"math"
	"testing"
)

func TestSIConstants(t *testing.T) {
	if math.Abs(SI.C()-299792458.0) > 1e-6 {
		t.Errorf("expected SI c = 299792458, got %v", SI.C())
	}
	if math.Abs(SI.EpsilonZero()-8.8541878128e-12) > 1e-20 {
		t.Errorf("expected SI epsilon0 = 8.8541878128e-12, got %v", SI.EpsilonZero())
	}
	if math.Abs(SI.ElementaryCharge()-1.602176634e-19) > 1e-28 {
		t.Errorf("expected SI q_e = 1.602176634e-19, got %v", SI.ElementaryCharge())
	}
}

func TestScaledSystem(t *testing.T) {
	// Double the length unit: c should halve in the new units.
	scaled := New(2, 1, 1, 1, 1)
	if math.Abs(scaled.C()-SI.C()/2) > 1e-6 {
		t.Errorf("expected scaled c = %v, got %v", SI.C()/2, scaled.C())
	}
}

func TestProtonElectronMassRatio(t *testing.T) {
	ratio := SI.ProtonMass() / SI.ElectronMass()
	if math.Abs(ratio-1836.15) > 1 {
		t.Errorf("expected proton/electron mass ratio near 1836, got %v", ratio)
	}
}
