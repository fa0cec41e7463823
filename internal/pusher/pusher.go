// Package pusher implements the relativistic momentum update for a
// charged macro-particle given the E and B samples gathered at its
// position: Boris, Vay and Higuera-Cary, all built from the same
// half-half electric-kick/magnetic-rotation structure.
package pusher

import (
	"math"

	"relativistic_pic/internal/spatial"
)

// Pusher advances a particle's reduced momentum u by one full timestep
// given the field samples already gathered at its position. dims is the
// number of components u (and E) carry; bDims is the number B carries -
// generally different, since B lives in the complementary subspace of a
// Yee-staggered simulation with fewer than three spatial dimensions.
type Pusher interface {
	Push(u, e, b spatial.Vec3, charge, mass, dt, c float64, dims, bDims int) spatial.Vec3
}

// restrict zeroes any component of v at index >= dims, keeping momentum
// confined to its own subspace after a mixed-dimension cross product
// that may have produced components outside it.
func restrict(v spatial.Vec3, dims int) spatial.Vec3 {
	for i := dims; i < 3; i++ {
		v = v.With(i, 0)
	}
	return v
}

// Boris is the classic Boris rotation pusher: cheapest per step, widely
// used, accurate to second order but with a known velocity-dependent
// rotation error at highly relativistic energies.
type Boris struct{}

func (Boris) Push(u, e, b spatial.Vec3, charge, mass, dt, c float64, dims, bDims int) spatial.Vec3 {
	qdtm := charge * dt / (2 * mass)

	uMinus := u.Add(e.Scale(qdtm))

	tVec := b.Scale(qdtm / math.Sqrt(1+uMinus.SquareNorm2()/(c*c)))

	inner := restrict(spatial.CrossMixed(dims, uMinus, bDims, tVec), dims)
	rotated := restrict(spatial.CrossMixed(dims, uMinus.Add(inner), bDims, tVec.Scale(2/(1+tVec.SquareNorm2()))), dims)
	uPlus := uMinus.Add(rotated)

	return uPlus.Add(e.Scale(qdtm))
}

// Vay is a pusher that conserves the E x B drift velocity exactly in the
// relativistic limit, at the cost of one extra field gather's worth of
// algebra per step.
type Vay struct{}

func (Vay) Push(u, e, b spatial.Vec3, charge, mass, dt, c float64, dims, bDims int) spatial.Vec3 {
	qdtm := charge * dt / (2 * mass)
	gamma := math.Sqrt(1 + u.SquareNorm2()/(c*c))

	uHalf := u.Add(e.Add(restrict(spatial.CrossMixed(dims, u.Scale(1/gamma), bDims, b), dims)).Scale(qdtm))
	uPrime := uHalf.Add(e.Scale(qdtm))

	tau := b.Scale(qdtm)
	uStar := spatial.DotMixed(dims, uPrime, bDims, tau) / c
	sigma := 1 + uPrime.SquareNorm2()/(c*c) - tau.SquareNorm2()

	tVec := tau.Scale(1 / math.Sqrt((sigma+math.Sqrt(sigma*sigma+4*(tau.SquareNorm2()+uStar*uStar)))/2))

	numerator := uPrime.Add(tVec.Scale(spatial.DotMixed(dims, uPrime, bDims, tVec))).Add(restrict(spatial.CrossMixed(dims, uPrime, bDims, tVec), dims))
	return numerator.Scale(1 / (1 + tVec.SquareNorm2()))
}

// HigueraCary is a pusher that preserves the gamma-velocity relation
// exactly, avoiding the systematic energy drift the Boris rotation
// exhibits for fast-rotating, highly relativistic particles.
type HigueraCary struct{}

func (HigueraCary) Push(u, e, b spatial.Vec3, charge, mass, dt, c float64, dims, bDims int) spatial.Vec3 {
	qdtm := charge * dt / (2 * mass)

	uMinus := u.Add(e.Scale(qdtm))

	tau := b.Scale(qdtm)
	uStar := spatial.DotMixed(dims, uMinus, bDims, tau) / c
	sigma := 1 + uMinus.SquareNorm2()/(c*c) - tau.SquareNorm2()

	tVec := tau.Scale(1 / math.Sqrt((sigma+math.Sqrt(sigma*sigma+4*(tau.SquareNorm2()+uStar*uStar)))/2))

	uPlus := uMinus.Add(tVec.Scale(spatial.DotMixed(dims, uMinus, bDims, tVec))).Add(restrict(spatial.CrossMixed(dims, uMinus, bDims, tVec), dims))
	uPlus = uPlus.Scale(1 / (1 + tVec.SquareNorm2()))

	return uPlus.Add(e.Scale(qdtm)).Add(restrict(spatial.CrossMixed(dims, uMinus, bDims, tVec), dims))
}
