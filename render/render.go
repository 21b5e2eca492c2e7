// Package render extracts triangulated surfaces from signed distance
// fields and writes them to mesh formats.
package render

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a 3d triangle defined by its vertices in
// counter-clockwise (outward normal) order.
type Triangle3 [3]r3.Vec

// Normal returns the normal vector of the triangle, not normalized.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Cross(e1, e2)
}

// UnitNormal returns the unit normal vector of the triangle.
func (t Triangle3) UnitNormal() r3.Vec {
	return r3.Unit(t.Normal())
}

// Area returns the triangle surface area.
func (t Triangle3) Area() float64 {
	return 0.5 * r3.Norm(t.Normal())
}

// Degenerate returns true if the triangle has near zero area.
func (t Triangle3) Degenerate(tol float64) bool {
	return t.Area() <= tol
}

// Renderer produces triangles from a model in a streaming fashion.
type Renderer interface {
	// ReadTriangles writes up to len(dst) triangles into dst and returns
	// the number written. It returns io.EOF once the model is exhausted.
	ReadTriangles(dst []Triangle3) (int, error)
}

// RenderAll reads the full contents of a Renderer and returns the slice
// read. It does not return an error on io.EOF.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var err error
	var nt int
	result := make([]Triangle3, 0, 1<<12)
	buf := make([]Triangle3, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		if err != nil {
			break
		}
		result = append(result, buf[:nt]...)
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// triangle3Buffer holds triangles that did not fit a caller's buffer.
type triangle3Buffer struct {
	buf []Triangle3
}

// Read reads from this buffer.
func (b *triangle3Buffer) Read(t []Triangle3) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

// Write appends triangles to this buffer.
func (b *triangle3Buffer) Write(t []Triangle3) int {
	b.buf = append(b.buf, t...)
	return len(t)
}

func (b *triangle3Buffer) Len() int { return len(b.buf) }

func maxInt(a, b int) int {
	if a >= b {
		return a
	}
	return b
}
