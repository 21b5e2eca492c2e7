package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmforge/bookcharm/render"
	"github.com/charmforge/bookcharm/sdf"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

// imgDelta is the normalized image comparison tolerance (0 is a perfect
// match, 1 matches anything).
const imgDelta = 0

func TestPreviewDeterminism(t *testing.T) {
	object := sdf.Union3D(
		sdf.Box(r3.Vec{X: 2, Y: 1, Z: 1}),
		sdf.Cylinder(2, 0.5),
	)
	model := extract(t, object, quality).Triangles()

	dir := t.TempDir()
	png1 := filepath.Join(dir, "a.png")
	png2 := filepath.Join(dir, "b.png")
	for _, name := range []string{png1, png2} {
		if err := render.SavePNG(name, model, render.DefaultView, "468966"); err != nil {
			t.Fatal(err)
		}
	}
	b1, err := os.ReadFile(png1)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := os.ReadFile(png2)
	if err != nil {
		t.Fatal(err)
	}
	equal, err := cmpimg.EqualApprox("png", b1, b2, imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("same model rendered two different previews")
	}
}

func TestPreviewEmptyModel(t *testing.T) {
	err := render.SavePNG(filepath.Join(t.TempDir(), "empty.png"), nil, render.DefaultView, "468966")
	if err == nil {
		t.Error("expected error previewing an empty model")
	}
}
