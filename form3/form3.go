// Package form3 is the parametric primitive factory. Every constructor
// validates its dimensions, builds a signed distance field and extracts it
// into a watertight solid.
package form3

import (
	"fmt"

	"github.com/charmforge/bookcharm/internal/d3"
	"github.com/charmforge/bookcharm/sdf"
	"github.com/charmforge/bookcharm/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultCells is the surface extraction cell count used when a Factory
// does not set one.
const DefaultCells = 200

// Axis selects a coordinate axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String implements fmt.Stringer.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// vec returns the unit vector of the axis scaled by v.
func (a Axis) vec(v float64) r3.Vec {
	switch a {
	case AxisX:
		return r3.Vec{X: v}
	case AxisY:
		return r3.Vec{Y: v}
	default:
		return r3.Vec{Z: v}
	}
}

// component returns the axis component of v.
func (a Axis) component(v r3.Vec) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// Factory builds primitive solids at a fixed surface extraction quality.
// One Factory is shared across a generation run so every primitive and
// boolean fold works at the same resolution and tolerance.
type Factory struct {
	// Cells is the extraction cell count along the longest bounding box
	// axis. Zero means DefaultCells.
	Cells int
}

func (f Factory) cells() int {
	if f.Cells == 0 {
		return DefaultCells
	}
	return f.Cells
}

// Box returns a rectangular prism with the given full extents centered at
// center. Non-positive extents are rejected.
func (f Factory) Box(center, extents r3.Vec) (*solid.Solid, error) {
	if d3.LTEZero(extents) {
		return nil, fmt.Errorf("%w: box extents %v must be positive", solid.ErrInvalidParameter, extents)
	}
	field := sdf.Transform3D(sdf.Box(extents), sdf.Translate3D(center))
	return solid.New("box", field, f.cells())
}

// Cylinder returns a Z axis cylinder centered at center. The distance
// field is exact so segments does not set a facet count directly; it is
// validated against the classic >= 3 contract and bounds the extraction
// resolution so coarse segment requests produce coarse meshes.
func (f Factory) Cylinder(radius, height float64, segments int, center r3.Vec) (*solid.Solid, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: cylinder radius %g <= 0", solid.ErrInvalidParameter, radius)
	}
	if height <= 0 {
		return nil, fmt.Errorf("%w: cylinder height %g <= 0", solid.ErrInvalidParameter, height)
	}
	if segments < 3 {
		return nil, fmt.Errorf("%w: cylinder segments %d < 3", solid.ErrInvalidParameter, segments)
	}
	field := sdf.Transform3D(sdf.Cylinder(height, radius), sdf.Translate3D(center))
	return solid.New("cylinder", field, f.cellsForSegments(segments))
}

// cellsForSegments converts a requested facet count into an extraction
// cell count, clamped to the factory resolution.
func (f Factory) cellsForSegments(segments int) int {
	cells := segments * 2
	if cells < 8 {
		cells = 8
	}
	if cells > f.cells() {
		cells = f.cells()
	}
	return cells
}

// Annulus returns a flat ring with its hole along axis: an outer cylinder
// with a concentric hole. The hole is cut with one boolean difference; the
// inner cylinder overshoots the ring thickness on both sides so the hole
// fully perforates the ring and no coplanar end faces meet. This
// overshoot, sized relative to the smallest feature dimension, is the
// tolerance convention every later boolean fold relies on.
func (f Factory) Annulus(outerRadius, innerRadius, thickness float64, axis Axis, center r3.Vec) (*solid.Solid, error) {
	if outerRadius <= 0 || innerRadius <= 0 {
		return nil, fmt.Errorf("%w: annulus radii (%g, %g) must be positive", solid.ErrInvalidParameter, outerRadius, innerRadius)
	}
	if innerRadius >= outerRadius {
		return nil, fmt.Errorf("%w: annulus inner radius %g >= outer radius %g", solid.ErrInvalidParameter, innerRadius, outerRadius)
	}
	if thickness <= 0 {
		return nil, fmt.Errorf("%w: annulus thickness %g <= 0", solid.ErrInvalidParameter, thickness)
	}
	overshoot := 0.1 * minFloat(thickness, outerRadius-innerRadius)
	place := sdf.Translate3D(center).Mul(sdf.RotateToVector(r3.Vec{Z: 1}, axis.vec(1)))
	outer, err := solid.New("annulus",
		sdf.Transform3D(sdf.Cylinder(thickness, outerRadius), place),
		f.cells())
	if err != nil {
		return nil, err
	}
	hole, err := solid.New("annulus-hole",
		sdf.Transform3D(sdf.Cylinder(thickness+2*overshoot, innerRadius), place),
		f.cells())
	if err != nil {
		return nil, err
	}
	return solid.Combine(outer, hole, solid.Difference, f.cells())
}

// Slabs returns count congruent thin slabs evenly spaced along axis over
// the span, merged into one composite solid. Slab i (1-based) is centered
// at spanStart + i*spacing with spacing = span/(count+1). A zero count
// yields the empty solid.
func (f Factory) Slabs(count int, extents r3.Vec, axis Axis, spanStart, spanEnd float64) (*solid.Solid, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: slab count %d < 0", solid.ErrInvalidParameter, count)
	}
	if count == 0 {
		return solid.Empty("slabs"), nil
	}
	if d3.LTEZero(extents) {
		return nil, fmt.Errorf("%w: slab extents %v must be positive", solid.ErrInvalidParameter, extents)
	}
	span := spanEnd - spanStart
	if span <= 0 {
		return nil, fmt.Errorf("%w: slab span [%g, %g] is empty", solid.ErrInvalidParameter, spanStart, spanEnd)
	}
	spacing := span / float64(count+1)
	if axis.component(extents) >= spacing {
		return nil, fmt.Errorf("%w: slab thickness %g along %s exceeds spacing %g, slabs would overlap",
			solid.ErrInvalidParameter, axis.component(extents), axis, spacing)
	}
	slab := sdf.Box(extents)
	fields := make([]sdf.SDF3, count)
	for i := 1; i <= count; i++ {
		at := axis.vec(spanStart + float64(i)*spacing)
		fields[i-1] = sdf.Transform3D(slab, sdf.Translate3D(at))
	}
	return solid.New("slabs", sdf.Union3D(fields...), f.cells())
}

func minFloat(a, b float64) float64 {
	if a <= b {
		return a
	}
	return b
}
