// Package shape implements particle assignment functions: the weight a
// macro-particle at some fractional position contributes to each nearby
// grid point during gather and deposition. The original system derived
// these symbolically as repeated convolutions of a box function; this
// package uses the closed forms that convolution produces directly
// (the uniform B-spline basis of orders 0-3), skipping the symbolic
// machinery entirely.
package shape

import (
	"fmt"
	"math"
)

// Shape assigns weight to nearby grid points for a one-dimensional
// fractional offset. Implementations are stateless and safe for
// concurrent use.
type Shape interface {
	// Order returns the spline order (0 = nearest grid point, 1 = linear,
	// 2 = quadratic, 3 = cubic).
	Order() int

	// Width returns the number of consecutive grid points with nonzero
	// weight for any fractional offset (Order()+1).
	Width() int

	// Weight evaluates the shape function at a continuous distance x,
	// measured in cells, between a grid point and the particle.
	Weight(x float64) float64

	// Stencil returns the lowest grid-point offset (relative to the
	// particle's own cell) with nonzero weight, and the weight at each of
	// the Width() consecutive offsets starting there, for a particle
	// sitting at fractionalPos in [0,1) within its cell.
	Stencil(fractionalPos float64) (base int, weights []float64)
}

type spline struct {
	order int
}

// ByOrder returns the shape function of the given spline order (0-3).
func ByOrder(order int) (Shape, error) {
	if order < 0 || order > 3 {
		return nil, fmt.Errorf("shape: unsupported spline order %d (must be 0-3)", order)
	}
	return spline{order: order}, nil
}

func (s spline) Order() int { return s.order }
func (s spline) Width() int { return s.order + 1 }

func (s spline) Weight(x float64) float64 {
	switch s.order {
	case 0:
		return box(x)
	case 1:
		return tent(x)
	case 2:
		return quadratic(x)
	default:
		return cubic(x)
	}
}

func (s spline) Stencil(fractionalPos float64) (int, []float64) {
	w := s.Width()
	base := int(math.Ceil(fractionalPos - float64(w)/2))
	weights := make([]float64, w)
	for i := 0; i < w; i++ {
		weights[i] = s.Weight(float64(base+i) - fractionalPos)
	}
	return base, weights
}

// box is the order-0 (nearest grid point) shape: a unit box of width 1,
// covering [-0.5, 0.5) so a particle exactly halfway between two grid
// points still assigns its full weight to one of them.
func box(x float64) float64 {
	if x >= -0.5 && x < 0.5 {
		return 1
	}
	return 0
}

// tent is the order-1 (cloud-in-cell) shape: linear, width 2.
func tent(x float64) float64 {
	ax := math.Abs(x)
	if ax < 1 {
		return 1 - ax
	}
	return 0
}

// quadratic is the order-2 (triangular-shaped-cloud) shape, width 3.
func quadratic(x float64) float64 {
	ax := math.Abs(x)
	switch {
	case ax <= 0.5:
		return 0.75 - ax*ax
	case ax <= 1.5:
		d := 1.5 - ax
		return 0.5 * d * d
	default:
		return 0
	}
}

// cubic is the order-3 uniform cubic B-spline shape, width 4.
func cubic(x float64) float64 {
	ax := math.Abs(x)
	switch {
	case ax <= 1:
		return (4 - 6*ax*ax + 3*ax*ax*ax) / 6
	case ax <= 2:
		d := 2 - ax
		return d * d * d / 6
	default:
		return 0
	}
}
