package sdf

import (
	"math"

	"github.com/charmforge/bookcharm/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// m44 is a 4x4 matrix for 3d affine transformations, row major.
type m44 struct {
	x00, x01, x02, x03 float64
	x10, x11, x12, x13 float64
	x20, x21, x22, x23 float64
	x30, x31, x32, x33 float64
}

// Identity3D returns the identity transformation matrix.
func Identity3D() m44 {
	return m44{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate3D returns a translation matrix.
func Translate3D(v r3.Vec) m44 {
	return m44{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// Scale3D returns a scaling matrix. Scaling is not distance preserving,
// prefer ScaleUniform3D when wrapping an SDF3.
func Scale3D(v r3.Vec) m44 {
	return m44{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateX returns a matrix with rotation of theta radians about the X axis.
func RotateX(theta float64) m44 {
	sin, cos := math.Sincos(theta)
	return m44{
		1, 0, 0, 0,
		0, cos, -sin, 0,
		0, sin, cos, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a matrix with rotation of theta radians about the Y axis.
func RotateY(theta float64) m44 {
	sin, cos := math.Sincos(theta)
	return m44{
		cos, 0, sin, 0,
		0, 1, 0, 0,
		-sin, 0, cos, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a matrix with rotation of theta radians about the Z axis.
func RotateZ(theta float64) m44 {
	sin, cos := math.Sincos(theta)
	return m44{
		cos, -sin, 0, 0,
		sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateToVector returns the rotation matrix that transforms direction a
// onto the same direction as b.
func RotateToVector(a, b r3.Vec) m44 {
	if d3.EqualWithin(a, r3.Vec{}, epsilon) || d3.EqualWithin(b, r3.Vec{}, epsilon) {
		return Identity3D()
	}
	a = r3.Unit(a)
	b = r3.Unit(b)
	if d3.EqualWithin(a, b, epsilon) {
		return Identity3D()
	}
	if d3.EqualWithin(r3.Scale(-1, a), b, epsilon) {
		return Scale3D(d3.Elem(-1))
	}
	// Rodrigues rotation built from the skew matrix of a x b.
	// See https://math.stackexchange.com/questions/180418
	v := r3.Cross(a, b)
	k := 1 / (1 + r3.Dot(a, b))
	return m44{
		1 - k*(v.Z*v.Z+v.Y*v.Y), -v.Z + k*v.X*v.Y, v.Y + k*v.X*v.Z, 0,
		v.Z + k*v.X*v.Y, 1 - k*(v.Z*v.Z+v.X*v.X), -v.X + k*v.Y*v.Z, 0,
		-v.Y + k*v.X*v.Z, v.X + k*v.Y*v.Z, 1 - k*(v.Y*v.Y+v.X*v.X), 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two 4x4 matrices, a then b applied reads b.Mul(a).
func (a m44) Mul(b m44) m44 {
	return m44{
		a.x00*b.x00 + a.x01*b.x10 + a.x02*b.x20 + a.x03*b.x30,
		a.x00*b.x01 + a.x01*b.x11 + a.x02*b.x21 + a.x03*b.x31,
		a.x00*b.x02 + a.x01*b.x12 + a.x02*b.x22 + a.x03*b.x32,
		a.x00*b.x03 + a.x01*b.x13 + a.x02*b.x23 + a.x03*b.x33,
		a.x10*b.x00 + a.x11*b.x10 + a.x12*b.x20 + a.x13*b.x30,
		a.x10*b.x01 + a.x11*b.x11 + a.x12*b.x21 + a.x13*b.x31,
		a.x10*b.x02 + a.x11*b.x12 + a.x12*b.x22 + a.x13*b.x32,
		a.x10*b.x03 + a.x11*b.x13 + a.x12*b.x23 + a.x13*b.x33,
		a.x20*b.x00 + a.x21*b.x10 + a.x22*b.x20 + a.x23*b.x30,
		a.x20*b.x01 + a.x21*b.x11 + a.x22*b.x21 + a.x23*b.x31,
		a.x20*b.x02 + a.x21*b.x12 + a.x22*b.x22 + a.x23*b.x32,
		a.x20*b.x03 + a.x21*b.x13 + a.x22*b.x23 + a.x23*b.x33,
		a.x30*b.x00 + a.x31*b.x10 + a.x32*b.x20 + a.x33*b.x30,
		a.x30*b.x01 + a.x31*b.x11 + a.x32*b.x21 + a.x33*b.x31,
		a.x30*b.x02 + a.x31*b.x12 + a.x32*b.x22 + a.x33*b.x32,
		a.x30*b.x03 + a.x31*b.x13 + a.x32*b.x23 + a.x33*b.x33,
	}
}

// MulPosition multiplies a point by the matrix, applying the translation.
func (a m44) MulPosition(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: a.x00*v.X + a.x01*v.Y + a.x02*v.Z + a.x03,
		Y: a.x10*v.X + a.x11*v.Y + a.x12*v.Z + a.x13,
		Z: a.x20*v.X + a.x21*v.Y + a.x22*v.Z + a.x23,
	}
}

// MulBox rotates/translates a bounding box and returns a new axis aligned
// bounding box enclosing the result.
func (a m44) MulBox(box r3.Box) r3.Box {
	verts := d3.Box(box).Vertices()
	bb := d3.Box{Min: a.MulPosition(verts[0]), Max: a.MulPosition(verts[0])}
	for _, v := range verts[1:] {
		bb = bb.Include(a.MulPosition(v))
	}
	return r3.Box(bb)
}

// Inverse inverts the matrix. The matrix must be an affine transform,
// the projective row is assumed to be (0, 0, 0, 1).
func (a m44) Inverse() m44 {
	// invert the upper left 3x3 by adjugate over determinant.
	det := a.x00*(a.x11*a.x22-a.x12*a.x21) -
		a.x01*(a.x10*a.x22-a.x12*a.x20) +
		a.x02*(a.x10*a.x21-a.x11*a.x20)
	d := 1 / det
	inv := m44{
		x00: (a.x11*a.x22 - a.x12*a.x21) * d,
		x01: (a.x02*a.x21 - a.x01*a.x22) * d,
		x02: (a.x01*a.x12 - a.x02*a.x11) * d,
		x10: (a.x12*a.x20 - a.x10*a.x22) * d,
		x11: (a.x00*a.x22 - a.x02*a.x20) * d,
		x12: (a.x02*a.x10 - a.x00*a.x12) * d,
		x20: (a.x10*a.x21 - a.x11*a.x20) * d,
		x21: (a.x01*a.x20 - a.x00*a.x21) * d,
		x22: (a.x00*a.x11 - a.x01*a.x10) * d,
		x33: 1,
	}
	// -R^-1 * t recovers the inverse translation.
	inv.x03 = -(inv.x00*a.x03 + inv.x01*a.x13 + inv.x02*a.x23)
	inv.x13 = -(inv.x10*a.x03 + inv.x11*a.x13 + inv.x12*a.x23)
	inv.x23 = -(inv.x20*a.x03 + inv.x21*a.x13 + inv.x22*a.x23)
	return inv
}
