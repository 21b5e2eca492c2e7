package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Element-wise r3.Vec helpers shared by the geometry packages.

// Elem returns a vector with all components set to sides.
func Elem(sides float64) r3.Vec {
	return r3.Vec{X: sides, Y: sides, Z: sides}
}

// EqualWithin compares two vectors component-wise within tol.
func EqualWithin(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

// LTEZero returns true if any vector component is <= 0.
func LTEZero(a r3.Vec) bool {
	return (a.X <= 0) || (a.Y <= 0) || (a.Z <= 0)
}

// IsFinite returns true if all vector components are finite numbers.
func IsFinite(a r3.Vec) bool {
	return !math.IsNaN(a.X) && !math.IsInf(a.X, 0) &&
		!math.IsNaN(a.Y) && !math.IsInf(a.Y, 0) &&
		!math.IsNaN(a.Z) && !math.IsInf(a.Z, 0)
}

// MinElem returns a vector with the minimum components of two vectors.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem returns a vector with the maximum components of two vectors.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// AbsElem returns the component-wise absolute value of a vector.
func AbsElem(a r3.Vec) r3.Vec {
	return r3.Vec{X: math.Abs(a.X), Y: math.Abs(a.Y), Z: math.Abs(a.Z)}
}

// MulElem returns the component-wise product of two vectors.
func MulElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// Max returns the largest vector component.
func Max(a r3.Vec) float64 {
	return math.Max(a.Z, math.Max(a.X, a.Y))
}

// Min returns the smallest vector component.
func Min(a r3.Vec) float64 {
	return math.Min(a.Z, math.Min(a.X, a.Y))
}

// Set is a set of 3D points.
type Set []r3.Vec

// Min returns the minimum components over the set.
func (a Set) Min() r3.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max returns the maximum components over the set.
func (a Set) Max() r3.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}
