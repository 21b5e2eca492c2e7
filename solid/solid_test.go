package solid_test

import (
	"errors"
	"math"
	"testing"

	"github.com/charmforge/bookcharm/render"
	"github.com/charmforge/bookcharm/sdf"
	"github.com/charmforge/bookcharm/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

const cells = 80

func boxSolid(t testing.TB, name string, center, extents r3.Vec) *solid.Solid {
	t.Helper()
	field := sdf.Transform3D(sdf.Box(extents), sdf.Translate3D(center))
	s, err := solid.New(name, field, cells)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewValidates(t *testing.T) {
	if _, err := solid.New("nil", nil, cells); !errors.Is(err, solid.ErrInvalidParameter) {
		t.Errorf("nil field: got %v", err)
	}
	if _, err := solid.New("coarse", sdf.Box(r3.Vec{X: 1, Y: 1, Z: 1}), 1); !errors.Is(err, solid.ErrInvalidParameter) {
		t.Errorf("cells below 2: got %v", err)
	}
}

func TestNewProducesWatertightMesh(t *testing.T) {
	s := boxSolid(t, "box", r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	if s.IsEmpty() {
		t.Fatal("box solid is empty")
	}
	if err := s.Mesh().Manifold(); err != nil {
		t.Fatalf("box mesh not watertight: %v", err)
	}
}

func TestUnionVolumeMonotone(t *testing.T) {
	a := boxSolid(t, "a", r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	b := boxSolid(t, "b", r3.Vec{X: 1.5}, r3.Vec{X: 2, Y: 2, Z: 2})
	u, err := solid.Combine(a, b, solid.Union, cells)
	if err != nil {
		t.Fatal(err)
	}
	if err := u.Mesh().Manifold(); err != nil {
		t.Fatalf("union not watertight: %v", err)
	}
	va, vu := a.Volume(), u.Volume()
	if vu < va*(1-0.02) {
		t.Errorf("union volume %g below operand volume %g", vu, va)
	}
	// overlapping unit cubes: 2x2x2 + 2x2x2 - 0.5x2x2 overlap
	want := 8 + 8 - 0.5*2*2.0
	if math.Abs(vu-want)/want > 0.03 {
		t.Errorf("union volume %g, want about %g", vu, want)
	}
}

func TestDifferenceNeverAdds(t *testing.T) {
	base := boxSolid(t, "base", r3.Vec{}, r3.Vec{X: 4, Y: 4, Z: 4})
	cutter := boxSolid(t, "cutter", r3.Vec{X: 2}, r3.Vec{X: 2, Y: 2, Z: 2})
	d, err := solid.Combine(base, cutter, solid.Difference, cells)
	if err != nil {
		t.Fatal(err)
	}
	if d.Volume() > base.Volume()*(1+0.02) {
		t.Errorf("difference volume %g exceeds base volume %g", d.Volume(), base.Volume())
	}
	bb, db := base.Bounds(), d.Bounds()
	slack := 0.05 * r3.Norm(r3.Sub(bb.Max, bb.Min))
	if db.Min.X < bb.Min.X-slack || db.Max.X > bb.Max.X+slack {
		t.Errorf("difference bounds %v escape base bounds %v", db, bb)
	}
}

func TestCombineEmptyOperandIsNoOp(t *testing.T) {
	base := boxSolid(t, "base", r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	got, err := solid.Combine(base, solid.Empty("nothing"), solid.Union, cells)
	if err != nil {
		t.Fatal(err)
	}
	if got != base {
		t.Error("empty operand should return the base unchanged")
	}
	got, err = solid.Combine(base, nil, solid.Difference, cells)
	if err != nil {
		t.Fatal(err)
	}
	if got != base {
		t.Error("nil operand should return the base unchanged")
	}
}

func TestCombineRejectsFieldlessOperand(t *testing.T) {
	base := boxSolid(t, "base", r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	foreign := solid.FromMesh("foreign", base.Mesh())
	_, err := solid.Combine(base, foreign, solid.Union, cells)
	if !errors.Is(err, solid.ErrBooleanOpFailed) {
		t.Errorf("fieldless operand: got %v, want ErrBooleanOpFailed", err)
	}
	// The base must be intact after the failure.
	if base.IsEmpty() || base.Mesh().Manifold() != nil {
		t.Error("failed combine corrupted the base solid")
	}
}

func TestCombineDisjointDifferenceKeepsBase(t *testing.T) {
	base := boxSolid(t, "base", r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	far := boxSolid(t, "far", r3.Vec{X: 10}, r3.Vec{X: 2, Y: 2, Z: 2})
	d, err := solid.Combine(base, far, solid.Difference, cells)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d.Volume()-base.Volume())/base.Volume() > 0.02 {
		t.Errorf("disjoint difference volume %g, want about %g", d.Volume(), base.Volume())
	}
}

func TestFinish(t *testing.T) {
	s := boxSolid(t, "box", r3.Vec{X: 5, Y: -3, Z: 2}, r3.Vec{X: 2, Y: 2, Z: 2})
	f, err := solid.Finish(s, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c := f.Mesh().Centroid(); r3.Norm(c) > 0.05 {
		t.Errorf("finished centroid %v, want origin", c)
	}
	if math.Abs(f.Volume()-s.Volume())/s.Volume() > 1e-9 {
		t.Errorf("finishing at scale 1 changed volume from %g to %g", s.Volume(), f.Volume())
	}

	// Idempotence: finishing again moves nothing.
	f2, err := solid.Finish(f, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c := f2.Mesh().Centroid(); r3.Norm(c) > 0.05 {
		t.Errorf("re-finished centroid %v, want origin", c)
	}

	scaled, err := solid.Finish(s, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := scaled.Volume(), 8*s.Volume(); math.Abs(got-want)/want > 1e-9 {
		t.Errorf("finished at scale 2: volume %g, want %g", got, want)
	}
}

func TestFinishRejects(t *testing.T) {
	s := boxSolid(t, "box", r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	if _, err := solid.Finish(s, 0); !errors.Is(err, solid.ErrInvalidParameter) {
		t.Errorf("zero scale: got %v", err)
	}
	if _, err := solid.Finish(solid.Empty("void"), 1); !errors.Is(err, solid.ErrNoGeometry) {
		t.Errorf("empty solid: got %v", err)
	}
}

func TestTranslated(t *testing.T) {
	s := boxSolid(t, "box", r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2})
	moved := s.Translated(r3.Vec{X: 7})
	if c := moved.Mesh().Centroid(); math.Abs(c.X-7) > 0.05 {
		t.Errorf("translated centroid %v, want X near 7", c)
	}
	// The original is untouched.
	if c := s.Mesh().Centroid(); r3.Norm(c) > 0.05 {
		t.Errorf("translation mutated the source solid, centroid %v", c)
	}
}

func TestFromMesh(t *testing.T) {
	tris := []render.Triangle3{
		{{}, {X: 1}, {Y: 1}},
	}
	s := solid.FromMesh("tri", render.IndexTriangles(tris))
	if s.Field() != nil {
		t.Error("mesh-only solid should have no field")
	}
	if s.IsEmpty() {
		t.Error("mesh-only solid with a face should not be empty")
	}
}
