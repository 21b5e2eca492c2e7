package book

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/charmforge/bookcharm/assemble"
	"github.com/charmforge/bookcharm/form3"
	"github.com/charmforge/bookcharm/solid"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
}

func TestValidateNamesField(t *testing.T) {
	for _, tc := range []struct {
		field string
		mut   func(*Params)
	}{
		{"width", func(p *Params) { p.Width = 0 }},
		{"depth", func(p *Params) { p.Depth = -1 }},
		{"coverThickness", func(p *Params) { p.CoverThickness = p.Depth }},
		{"loopInnerRadius", func(p *Params) { p.LoopInnerRadius = p.LoopOuterRadius }},
		{"textExtrude", func(p *Params) { p.TextExtrude = 0 }},
		{"pageCount", func(p *Params) { p.PageCount = -1 }},
		{"spineSegments", func(p *Params) { p.SpineSegments = 2 }},
	} {
		p := DefaultParams()
		tc.mut(&p)
		err := p.Validate()
		if !errors.Is(err, solid.ErrInvalidParameter) {
			t.Errorf("%s: got %v, want ErrInvalidParameter", tc.field, err)
			continue
		}
		if !strings.Contains(err.Error(), tc.field) {
			t.Errorf("%s: error %q does not name the field", tc.field, err)
		}
	}
}

func TestBuildRejectsInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.Height = 0
	if _, err := Build(p, 1, nil); !errors.Is(err, solid.ErrInvalidParameter) {
		t.Errorf("got %v, want ErrInvalidParameter", err)
	}
}

func TestBuildDefault(t *testing.T) {
	if testing.Short() {
		t.Skip("full charm build is slow")
	}
	p := DefaultParams()
	p.Cells = 150
	art, err := Build(p, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if art.Solid.IsEmpty() {
		t.Fatal("build produced an empty solid")
	}
	if err := art.Solid.Mesh().Manifold(); err != nil {
		t.Fatalf("charm mesh not watertight: %v", err)
	}
	if len(art.Steps) != 4 {
		t.Fatalf("got %d assembly steps, want 4", len(art.Steps))
	}
	for i, st := range art.Steps {
		if st.Outcome != assemble.Succeeded {
			t.Errorf("step %d (%s) did not apply: %v", i, st.Operand, st.Err)
		}
	}

	// Finished: centered on its centroid.
	if c := art.Solid.Mesh().Centroid(); r3.Norm(c) > 0.5 {
		t.Errorf("finished centroid %v, want near the origin", c)
	}
	// The charm contains at least the cover block and tops out above it
	// where the hanging loop sits.
	bodyVol := p.Width * p.Depth * p.Height
	if vol := art.Solid.Volume(); vol < bodyVol || vol > 2*bodyVol {
		t.Errorf("charm volume %g, want between %g and %g", vol, bodyVol, 2*bodyVol)
	}
	size := r3.Sub(art.Solid.Bounds().Max, art.Solid.Bounds().Min)
	if size.Z <= p.Height {
		t.Errorf("charm height %g does not clear the cover height %g, loop missing", size.Z, p.Height)
	}
	if size.X <= p.Width {
		t.Errorf("charm width %g does not clear the cover width %g, spine missing", size.X, p.Width)
	}

	if art.Material != NavyLeather() {
		t.Errorf("material %+v, want the stock navy leather", art.Material)
	}
}

func TestBuildScale(t *testing.T) {
	if testing.Short() {
		t.Skip("full charm build is slow")
	}
	p := DefaultParams()
	p.Cells = 100
	p.PageCount = 0
	p.Text = ""
	unit, err := Build(p, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	half, err := Build(p, 0.5, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := unit.Solid.Volume() / 8
	if vol := half.Solid.Volume(); math.Abs(vol-want)/want > 0.01 {
		t.Errorf("half scale volume %g, want %g", vol, want)
	}
}

func TestEngraveRemovesMaterial(t *testing.T) {
	if testing.Short() {
		t.Skip("full charm build is slow")
	}
	p := DefaultParams()
	p.Cells = 120
	p.PageCount = 0
	raised, err := Build(p, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	p.Engrave = true
	engraved, err := Build(p, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if engraved.Solid.Volume() >= raised.Solid.Volume() {
		t.Errorf("engraved volume %g is not below raised volume %g",
			engraved.Solid.Volume(), raised.Solid.Volume())
	}
}

func TestSplitLines(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []string
	}{
		{"I AM\nWHO\nI AM", []string{"I AM", "WHO", "I AM"}},
		{`I AM\nWHO`, []string{"I AM", "WHO"}},
		{"ONE", []string{"ONE"}},
		{"", []string{""}},
	} {
		if got := splitLines(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitLines(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPagesZeroCount(t *testing.T) {
	p := DefaultParams()
	p.PageCount = 0
	pages, err := p.pages(form3.Factory{Cells: p.Cells})
	if err != nil {
		t.Fatal(err)
	}
	if !pages.IsEmpty() {
		t.Error("zero pages should yield the empty solid")
	}
}
