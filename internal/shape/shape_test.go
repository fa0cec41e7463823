package shape

import (
	"math"
	"testing"
)

func sumWeights(w []float64) float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

func TestByOrderRejectsOutOfRange(t *testing.T) {
	if _, err := ByOrder(4); err == nil {
		t.Errorf("expected an error for order 4")
	}
	if _, err := ByOrder(-1); err == nil {
		t.Errorf("expected an error for order -1")
	}
}

func TestWidthMatchesOrderPlusOne(t *testing.T) {
	for order := 0; order <= 3; order++ {
		s, err := ByOrder(order)
		if err != nil {
			t.Fatalf("ByOrder(%d): %v", order, err)
		}
		if s.Width() != order+1 {
			t.Errorf("order %d: expected width %d, got %d", order, order+1, s.Width())
		}
	}
}

func TestStencilWeightsSumToOne(t *testing.T) {
	for order := 0; order <= 3; order++ {
		s, _ := ByOrder(order)
		for _, f := range []float64{0, 0.1, 0.3, 0.5, 0.7, 0.999} {
			_, weights := s.Stencil(f)
			if got := sumWeights(weights); math.Abs(got-1) > 1e-9 {
				t.Errorf("order %d, f=%v: weights sum to %v, want 1", order, f, got)
			}
		}
	}
}

func TestBoxShapeAssignsWhollyToNearestCell(t *testing.T) {
	s, _ := ByOrder(0)
	base, weights := s.Stencil(0.3)
	if base != 0 || weights[0] != 1 {
		t.Errorf("expected NGP to assign fully to base cell 0, got base=%d weights=%v", base, weights)
	}

	base, weights = s.Stencil(0.7)
	if base != 1 || weights[0] != 1 {
		t.Errorf("expected NGP to round up to cell 1, got base=%d weights=%v", base, weights)
	}
}

func TestTentShapeIsLinearInterpolation(t *testing.T) {
	s, _ := ByOrder(1)
	base, weights := s.Stencil(0.3)
	if base != 0 {
		t.Fatalf("expected base 0, got %d", base)
	}
	if math.Abs(weights[0]-0.7) > 1e-9 || math.Abs(weights[1]-0.3) > 1e-9 {
		t.Errorf("expected CIC weights (0.7,0.3), got %v", weights)
	}
}

func TestQuadraticShapeSymmetric(t *testing.T) {
	s, _ := ByOrder(2)
	_, weights := s.Stencil(0)
	if math.Abs(weights[0]-weights[2]) > 1e-9 {
		t.Errorf("expected symmetric outer weights when the particle sits on a grid point, got %v", weights)
	}
}

func TestCubicShapeWidthFour(t *testing.T) {
	s, _ := ByOrder(3)
	_, weights := s.Stencil(0.3)
	if len(weights) != 4 {
		t.Errorf("expected 4 weights, got %d", len(weights))
	}
}
