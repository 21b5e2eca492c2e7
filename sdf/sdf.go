// Package sdf implements signed distance fields for the solids handled by
// this module: primitive fields, boolean combinators and spatial operators.
package sdf

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

// SDF2 is the interface to a 2d signed distance function object.
type SDF2 interface {
	Evaluate(p r2.Vec) float64
	Bounds() r2.Box
}

// MinFunc is a minimum functions for SDF blending.
type MinFunc func(a, b float64) float64

// MaxFunc is a maximum functions for SDF blending.
type MaxFunc func(a, b float64) float64

// epsilon below which two floats are considered the same number.
const epsilon = 1e-12
