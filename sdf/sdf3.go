package sdf

import (
	"math"
	"strconv"

	"github.com/charmforge/bookcharm/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D signed distance fields and their combinators.

// box3 is an axis aligned box centered at the origin.
type box3 struct {
	half r3.Vec
	bb   r3.Box
}

// Box returns an SDF3 for an axis aligned box of the given size
// centered at the origin. Box panics on non-positive size components.
func Box(size r3.Vec) SDF3 {
	if d3.LTEZero(size) {
		panic("box size <= 0")
	}
	half := r3.Scale(0.5, size)
	return &box3{
		half: half,
		bb:   r3.Box{Min: r3.Scale(-1, half), Max: half},
	}
}

// Evaluate returns the minimum distance to the box.
func (s *box3) Evaluate(p r3.Vec) float64 {
	d := r3.Sub(d3.AbsElem(p), s.half)
	q := d3.MaxElem(d, r3.Vec{})
	return r3.Norm(q) + math.Min(d3.Max(d), 0)
}

// Bounds returns the bounding box of the box.
func (s *box3) Bounds() r3.Box { return s.bb }

// cylinder3 is a Z axis cylinder centered at the origin.
type cylinder3 struct {
	height float64 // half height
	radius float64
	bb     r3.Box
}

// Cylinder returns an SDF3 for a cylinder along the Z axis centered at the
// origin. Cylinder panics on non-positive height or radius.
func Cylinder(height, radius float64) SDF3 {
	if radius <= 0 {
		panic("cylinder radius <= 0")
	}
	if height <= 0 {
		panic("cylinder height <= 0")
	}
	d := r3.Vec{X: radius, Y: radius, Z: height / 2}
	return &cylinder3{
		height: height / 2,
		radius: radius,
		bb:     r3.Box{Min: r3.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the minimum distance to the cylinder.
func (s *cylinder3) Evaluate(p r3.Vec) float64 {
	d := r2.Vec{
		X: math.Hypot(p.X, p.Y) - s.radius,
		Y: math.Abs(p.Z) - s.height,
	}
	outside := r2.Vec{X: math.Max(d.X, 0), Y: math.Max(d.Y, 0)}
	return math.Min(math.Max(d.X, d.Y), 0) + r2.Norm(outside)
}

// Bounds returns the bounding box of the cylinder.
func (s *cylinder3) Bounds() r3.Box { return s.bb }

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	min MinFunc
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects.
// Union3D panics on an empty argument list or a nil argument SDF3.
func Union3D(sdf ...SDF3) SDF3 {
	if len(sdf) == 0 {
		panic("union requires at least 1 sdf")
	}
	for i, x := range sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
	}
	if len(sdf) == 1 {
		return sdf[0]
	}
	s := union3{
		sdf: sdf,
		min: math.Min,
	}
	bb := d3.Box(sdf[0].Bounds())
	for _, x := range sdf[1:] {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	s.bb = r3.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to the union.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		d = s.min(d, x.Evaluate(p))
	}
	return d
}

// Bounds returns the bounding box of the union.
func (s *union3) Bounds() r3.Box { return s.bb }

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0  SDF3
	s1  SDF3
	max MaxFunc
	bb  r3.Box
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// Difference3D panics if any argument is nil.
func Difference3D(s0, s1 SDF3) SDF3 {
	if s0 == nil || s1 == nil {
		panic("nil argument to Difference3D")
	}
	return &diff3{
		s0:  s0,
		s1:  s1,
		max: math.Max,
		bb:  s0.Bounds(),
	}
}

// Evaluate returns the minimum distance to the difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	return s.max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the difference.
func (s *diff3) Bounds() r3.Box { return s.bb }

// intersection3 is the intersection of two SDF3s.
type intersection3 struct {
	s0  SDF3
	s1  SDF3
	max MaxFunc
	bb  r3.Box
}

// Intersect3D returns the intersection of two SDF3s.
// Intersect3D panics if any argument is nil.
func Intersect3D(s0, s1 SDF3) SDF3 {
	if s0 == nil || s1 == nil {
		panic("nil argument to Intersect3D")
	}
	return &intersection3{
		s0:  s0,
		s1:  s1,
		max: math.Max,
		bb:  s0.Bounds(), // conservative
	}
}

// Evaluate returns the minimum distance to the intersection.
func (s *intersection3) Evaluate(p r3.Vec) float64 {
	return s.max(s.s0.Evaluate(p), s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the intersection.
func (s *intersection3) Bounds() r3.Box { return s.bb }

// transform3 is an SDF3 transformed with a 4x4 transformation matrix.
type transform3 struct {
	sdf     SDF3
	matrix  m44
	inverse m44
	bb      r3.Box
}

// Transform3D applies a transformation matrix to an SDF3.
func Transform3D(sdf SDF3, matrix m44) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	return &transform3{
		sdf:     sdf,
		matrix:  matrix,
		inverse: matrix.Inverse(),
		bb:      matrix.MulBox(sdf.Bounds()),
	}
}

// Evaluate returns the minimum distance to the transformed SDF3.
// Distance is not preserved with non-uniform scaling.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.MulPosition(p))
}

// Bounds returns the bounding box of the transformed SDF3.
func (s *transform3) Bounds() r3.Box { return s.bb }

// scaleUniform3 is an SDF3 scaled uniformly in XYZ directions.
type scaleUniform3 struct {
	sdf     SDF3
	k, invK float64
	bb      r3.Box
}

// ScaleUniform3D uniformly scales an SDF3 on all axes.
// The field remains a true distance after scaling.
func ScaleUniform3D(sdf SDF3, k float64) SDF3 {
	if k <= 0 {
		panic("scale factor <= 0")
	}
	m := Scale3D(d3.Elem(k))
	return &scaleUniform3{
		sdf:  sdf,
		k:    k,
		invK: 1 / k,
		bb:   m.MulBox(sdf.Bounds()),
	}
}

// Evaluate returns the minimum distance to the scaled SDF3.
func (s *scaleUniform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(r3.Scale(s.invK, p)) * s.k
}

// Bounds returns the bounding box of the scaled SDF3.
func (s *scaleUniform3) Bounds() r3.Box { return s.bb }

// extrude3 extrudes an SDF2 along Z into an SDF3.
type extrude3 struct {
	sdf    SDF2
	height float64 // half height
	bb     r3.Box
}

// Extrude3D does a linear extrude of an SDF2 along the Z axis,
// centered about Z=0.
func Extrude3D(sdf SDF2, height float64) SDF3 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	if height <= 0 {
		panic("extrude height <= 0")
	}
	s := extrude3{
		sdf:    sdf,
		height: height / 2,
	}
	bb := sdf.Bounds()
	s.bb = r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: -s.height},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: s.height},
	}
	return &s
}

// Evaluate returns the minimum distance to the extrusion.
func (s *extrude3) Evaluate(p r3.Vec) float64 {
	// intersect the projected 2d field with the Z slab.
	a := s.sdf.Evaluate(r2.Vec{X: p.X, Y: p.Y})
	b := math.Abs(p.Z) - s.height
	return math.Max(a, b)
}

// Bounds returns the bounding box of the extrusion.
func (s *extrude3) Bounds() r3.Box { return s.bb }

// empty3 is an SDF3 with no geometry.
type empty3 struct {
	center r3.Vec
}

// Empty3D returns an SDF3 that contains no points.
func Empty3D() SDF3 { return empty3{} }

// Evaluate returns the distance to the empty field, which is
// the largest representable distance.
func (e empty3) Evaluate(r3.Vec) float64 { return math.MaxFloat64 }

// Bounds returns a degenerate point box.
func (e empty3) Bounds() r3.Box {
	return r3.Box{Min: e.center, Max: e.center}
}
