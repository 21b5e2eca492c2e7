// Package solid defines the solid currency of the generation pipeline: a
// named watertight mesh backed by a signed distance field, the boolean
// fold that combines solids, and the finishing stage.
package solid

import (
	"fmt"

	"github.com/charmforge/bookcharm/internal/d3"
	"github.com/charmforge/bookcharm/render"
	"github.com/charmforge/bookcharm/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mode is a boolean combination mode.
type Mode uint8

const (
	// Union adds the operand's volume to the base.
	Union Mode = iota + 1
	// Difference removes the operand's volume from the base.
	Difference
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Union:
		return "union"
	case Difference:
		return "difference"
	}
	return "unknown"
}

// Solid is a closed triangulated volume: an indexed surface mesh plus the
// signed distance field it was extracted from. The field is what further
// boolean combination uses; the mesh is the exportable artifact and the
// subject of all validation.
type Solid struct {
	name string
	sdf  sdf.SDF3
	mesh *render.Mesh
}

// New extracts the surface of field at the given cell count and returns it
// as a named Solid. The extracted mesh must be a closed oriented manifold;
// a field whose extraction is empty or torn is rejected.
func New(name string, field sdf.SDF3, cells int) (*Solid, error) {
	if field == nil {
		return nil, fmt.Errorf("%w: nil field for solid %q", ErrInvalidParameter, name)
	}
	if cells < 2 {
		return nil, fmt.Errorf("%w: cell count %d < 2", ErrInvalidParameter, cells)
	}
	if !d3.Box(field.Bounds()).IsFinite() {
		return nil, fmt.Errorf("solid %q: non-finite field bounds", name)
	}
	tris, err := render.RenderAll(render.NewOctreeRenderer(field, cells))
	if err != nil {
		return nil, fmt.Errorf("solid %q: %w", name, err)
	}
	mesh := render.IndexTriangles(tris)
	if mesh.IsEmpty() {
		return nil, fmt.Errorf("solid %q: surface extraction produced no faces", name)
	}
	if err := mesh.Manifold(); err != nil {
		return nil, fmt.Errorf("solid %q not manifold: %w", name, err)
	}
	return &Solid{name: name, sdf: field, mesh: mesh}, nil
}

// Empty returns a named Solid with no geometry. It is a valid no-op
// operand for the assembler.
func Empty(name string) *Solid {
	return &Solid{name: name, sdf: sdf.Empty3D(), mesh: &render.Mesh{}}
}

// FromMesh wraps a raw mesh as a Solid with no backing field. Such a solid
// can be inspected and exported but not combined; it exists for tests and
// for importing foreign geometry.
func FromMesh(name string, mesh *render.Mesh) *Solid {
	return &Solid{name: name, mesh: mesh}
}

// Name returns the solid's identifier.
func (s *Solid) Name() string { return s.name }

// Mesh returns the solid's indexed surface mesh.
func (s *Solid) Mesh() *render.Mesh { return s.mesh }

// Field returns the solid's signed distance field, nil for mesh-only
// solids.
func (s *Solid) Field() sdf.SDF3 { return s.sdf }

// IsEmpty returns true for a solid with no faces.
func (s *Solid) IsEmpty() bool { return s == nil || s.mesh.IsEmpty() }

// Bounds returns the bounding box of the solid's mesh.
func (s *Solid) Bounds() r3.Box { return s.mesh.Bounds() }

// Volume returns the volume enclosed by the solid's mesh.
func (s *Solid) Volume() float64 {
	if s.IsEmpty() {
		return 0
	}
	return s.mesh.Volume()
}

// Translated returns a copy of the solid moved by v. Both the mesh and the
// backing field are moved so further boolean combination stays coherent.
func (s *Solid) Translated(v r3.Vec) *Solid {
	out := &Solid{name: s.name, mesh: s.mesh.Translated(v)}
	if s.sdf != nil {
		out.sdf = sdf.Transform3D(s.sdf, sdf.Translate3D(v))
	}
	return out
}
