package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Element-wise r2.Vec helpers shared by the planar geometry packages.

// EqualWithin compares two vectors component-wise within tol.
func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem returns a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem returns a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

// AbsElem returns the component-wise absolute value of a vector.
func AbsElem(a r2.Vec) r2.Vec {
	return r2.Vec{X: math.Abs(a.X), Y: math.Abs(a.Y)}
}

// Box is a 2d bounding box.
type Box r2.Box

// Extend returns a box enclosing two 2d boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Include enlarges a 2d box to include a point.
func (a Box) Include(v r2.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Size returns the size of a 2d box.
func (a Box) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}

// Center returns the center of a 2d box.
func (a Box) Center() r2.Vec {
	return r2.Add(a.Min, r2.Scale(0.5, a.Size()))
}
