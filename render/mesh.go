package render

import (
	"errors"
	"fmt"

	"github.com/charmforge/bookcharm/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh: shared vertex positions plus faces
// referencing them. Faces are wound counter-clockwise seen from outside.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

// IndexTriangles builds an indexed mesh from a triangle soup, merging
// vertices with identical coordinates. Triangles collapsed to a segment or
// point by vertex merging are dropped; on a watertight soup this preserves
// the manifold edge pairing.
func IndexTriangles(tris []Triangle3) *Mesh {
	m := &Mesh{
		Vertices: make([]r3.Vec, 0, len(tris)),
		Faces:    make([][3]int, 0, len(tris)),
	}
	lookup := make(map[r3.Vec]int, len(tris))
	for _, t := range tris {
		var f [3]int
		for i, v := range t {
			idx, ok := lookup[v]
			if !ok {
				idx = len(m.Vertices)
				m.Vertices = append(m.Vertices, v)
				lookup[v] = idx
			}
			f[i] = idx
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		m.Faces = append(m.Faces, f)
	}
	return m
}

// Triangles expands the mesh back into a triangle slice.
func (m *Mesh) Triangles() []Triangle3 {
	tris := make([]Triangle3, len(m.Faces))
	for i, f := range m.Faces {
		tris[i] = Triangle3{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
	}
	return tris
}

// VertexCount returns the number of distinct vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// IsEmpty returns true for a mesh with no faces.
func (m *Mesh) IsEmpty() bool { return m == nil || len(m.Faces) == 0 }

// Bounds returns the axis aligned bounding box of the mesh vertices.
// The zero box is returned for an empty mesh.
func (m *Mesh) Bounds() r3.Box {
	if m == nil || len(m.Vertices) == 0 {
		return r3.Box{}
	}
	bb := d3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		bb = bb.Include(v)
	}
	return r3.Box(bb)
}

// meshEdge is an undirected edge key with ordered vertex indices.
type meshEdge struct {
	a, b int
}

func edgeKey(a, b int) meshEdge {
	if a < b {
		return meshEdge{a, b}
	}
	return meshEdge{b, a}
}

// Manifold reports whether the mesh is a closed oriented 2-manifold:
// every edge is shared by exactly two faces traversing it in opposite
// directions. The error names the first violated edge.
func (m *Mesh) Manifold() error {
	if m.IsEmpty() {
		return errors.New("empty mesh")
	}
	// net counts directed edges: +1 forward, -1 reverse. A closed oriented
	// surface pairs every edge once each way.
	total := make(map[meshEdge]int, 3*len(m.Faces))
	net := make(map[meshEdge]int, 3*len(m.Faces))
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			k := edgeKey(a, b)
			total[k]++
			if a < b {
				net[k]++
			} else {
				net[k]--
			}
		}
	}
	for k, n := range total {
		if n != 2 || net[k] != 0 {
			return fmt.Errorf("edge %d-%d shared by %d faces (winding balance %d), want 2 with opposite winding", k.a, k.b, n, net[k])
		}
	}
	return nil
}

// Volume returns the signed volume enclosed by the mesh via the divergence
// theorem. A consistently outward wound closed mesh yields a positive
// volume.
func (m *Mesh) Volume() float64 {
	var vol float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		vol += r3.Dot(a, r3.Cross(b, c))
	}
	return vol / 6
}

// Centroid returns the center of mass of the uniform density solid bounded
// by the mesh. For a degenerate (near zero volume) mesh it falls back to
// the arithmetic mean of the vertices.
func (m *Mesh) Centroid() r3.Vec {
	var vol float64
	var c r3.Vec
	for _, f := range m.Faces {
		a, b, cc := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		// signed volume of the tetrahedron (origin, a, b, cc) and its
		// centroid contribution.
		v := r3.Dot(a, r3.Cross(b, cc)) / 6
		vol += v
		c = r3.Add(c, r3.Scale(v/4, r3.Add(a, r3.Add(b, cc))))
	}
	if vol*vol < 1e-30 {
		var mean r3.Vec
		for _, v := range m.Vertices {
			mean = r3.Add(mean, v)
		}
		return r3.Scale(1/float64(maxInt(1, len(m.Vertices))), mean)
	}
	return r3.Scale(1/vol, c)
}

// Translated returns a copy of the mesh with all vertices moved by v.
func (m *Mesh) Translated(v r3.Vec) *Mesh {
	out := &Mesh{
		Vertices: make([]r3.Vec, len(m.Vertices)),
		Faces:    append([][3]int(nil), m.Faces...),
	}
	for i, p := range m.Vertices {
		out.Vertices[i] = r3.Add(p, v)
	}
	return out
}

// Scaled returns a copy of the mesh with all vertices scaled uniformly
// about the origin.
func (m *Mesh) Scaled(k float64) *Mesh {
	out := &Mesh{
		Vertices: make([]r3.Vec, len(m.Vertices)),
		Faces:    append([][3]int(nil), m.Faces...),
	}
	for i, p := range m.Vertices {
		out.Vertices[i] = r3.Scale(k, p)
	}
	return out
}
