package traj

import "math"

// Dim is the number of spatial dimensions a trajectory is fitted over.
const Dim = 3

// Vec is a fixed-dimension spatial vector with value semantics. It is used
// for node positions, velocities and accelerations.
type Vec [Dim]float64

// Add returns a + b.
func (a Vec) Add(b Vec) Vec {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// Sub returns a - b.
func (a Vec) Sub(b Vec) Vec {
	for i := range a {
		a[i] -= b[i]
	}
	return a
}

// Scale returns a scaled by c.
func (a Vec) Scale(c float64) Vec {
	for i := range a {
		a[i] *= c
	}
	return a
}

// Norm returns the Euclidean length of a.
func (a Vec) Norm() float64 {
	var s float64
	for i := range a {
		s += a[i] * a[i]
	}
	return math.Sqrt(s)
}

// IsNaN reports whether any component is NaN.
func (a Vec) IsNaN() bool {
	for i := range a {
		if math.IsNaN(a[i]) {
			return true
		}
	}
	return false
}
