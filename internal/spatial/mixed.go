package spatial

// CrossMixed computes a cross product between vectors that live in
// subspaces of possibly different dimension (dimsA, dimsB in {1,2,3}),
// returning a vector whose own dimension is implied by the combination:
//
//   - 1 x 1 -> 1 (always zero; no rotation axis in a line)
//   - 1 x 2, 2 x 1 -> 2 (an in-plane vector times the out-of-plane
//     scalar gives a vector back in the plane)
//   - 2 x 2 -> 1 (two in-plane vectors give an out-of-plane scalar)
//   - otherwise -> 3 (full cross product; only valid if both operands
//     are genuinely 3-dimensional)
//
// Only the components implied by dimsA/dimsB are read from a and b;
// the rest must be zero as per the Vec3 convention.
func CrossMixed(dimsA int, a Vec3, dimsB int, b Vec3) Vec3 {
	switch {
	case dimsA == 1 && dimsB == 1:
		return Vec3{}
	case dimsA == 1 && dimsB == 2:
		// in-plane (from b) x out-of-plane (from a, carried on X) -> in-plane
		return Vec3{X: -a.X * b.Y, Y: a.X * b.X}
	case dimsA == 2 && dimsB == 1:
		return Vec3{X: a.Y * b.X, Y: -a.X * b.X}
	case dimsA == 2 && dimsB == 2:
		return Vec3{X: a.X*b.Y - a.Y*b.X}
	default:
		return a.Cross(b)
	}
}

// DotMixed computes a dot product between vectors living in subspaces
// of possibly different dimension. An in-plane vector dotted with an
// out-of-plane vector is always zero; otherwise this is the ordinary
// dot product.
func DotMixed(dimsA int, a Vec3, dimsB int, b Vec3) float64 {
	if (dimsA == 1 && dimsB == 2) || (dimsA == 2 && dimsB == 1) {
		return 0
	}
	return a.Dot(b)
}

// Sample returns the field value one cell forward (positive) or
// backward (negative) of the evaluation point along a given axis. Grid
// and boundary-policy lookups are supplied by the caller so Curl stays
// independent of any particular grid representation.
type Sample func(axis int, forward bool) Vec3

// Curl computes a finite-difference curl of a field sampled around one
// cell, for a simulation of spatial dimension numDims, where the result
// lives in a subspace of dimension dimsOut (the caller picks dimsOut to
// match whichever field it is differentiating into: a 2-D simulation's
// curl of E, a 2-component in-plane field, yields a 1-component
// out-of-plane result, and vice versa). cellSize holds the grid spacing
// along each axis. Curl in one dimension is always zero; curl in three
// dimensions is the ordinary vector curl.
func Curl(numDims, dimsOut int, cellSize Vec3, f Sample) Vec3 {
	switch numDims {
	case 1:
		return Vec3{}
	case 2:
		if dimsOut == 1 {
			// (rot F)_z = dFy/dx - dFx/dy, averaged over the two half-steps.
			ret := (f(0, true).Y - f(0, false).Y) / cellSize.X
			ret -= (f(1, true).X - f(1, false).X) / cellSize.Y
			return Vec3{X: ret / 2}
		}
		// dimsOut == 2: curl of an out-of-plane (1-D) field back into the plane.
		x := (f(1, true).X - f(1, false).X) / cellSize.Y
		y := -(f(0, true).X - f(0, false).X) / cellSize.X
		return Vec3{X: x / 2, Y: y / 2}
	case 3:
		x := (f(1, true).Z-f(1, false).Z)/cellSize.Y - (f(2, true).Y-f(2, false).Y)/cellSize.Z
		y := (f(2, true).X-f(2, false).X)/cellSize.Z - (f(0, true).Z-f(0, false).Z)/cellSize.X
		z := (f(0, true).Y-f(0, false).Y)/cellSize.X - (f(1, true).X-f(1, false).X)/cellSize.Y
		return Vec3{X: x / 2, Y: y / 2, Z: z / 2}
	default:
		return Vec3{}
	}
}
