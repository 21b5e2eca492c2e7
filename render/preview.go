package render

import (
	"errors"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// Shaded PNG previews of extracted models, rendered in software.

// ViewConfig controls the preview camera.
type ViewConfig struct {
	// Lookat is the point the camera looks at.
	Lookat r3.Vec
	// Up is the camera up direction.
	Up r3.Vec
	// Eyepos is the camera position.
	Eyepos r3.Vec
	Far    float64
	Near   float64
}

// DefaultView is an isometric-ish view from the positive octant.
var DefaultView = ViewConfig{
	Up:     r3.Vec{Z: 1},
	Eyepos: r3.Vec{X: 3, Y: 3, Z: 3},
	Near:   1,
	Far:    10,
}

// SavePNG rasterizes model triangles with a Phong shader and writes the
// image to outputname. The model is fit to a bi-unit cube before
// rendering, so the view configuration is size independent.
func SavePNG(outputname string, model []Triangle3, view ViewConfig, hexColor string) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	const (
		width, height = 1280, 960 // output size in pixels
		scale         = 2         // supersampling factor
		fovy          = 30        // vertical field of view in degrees
	)
	mesh := fauxgl.NewTriangleMesh(fauxglTriangles(model))
	var (
		eye    = fauxgl.V(view.Eyepos.X, view.Eyepos.Y, view.Eyepos.Z)
		center = fauxgl.V(view.Lookat.X, view.Lookat.Y, view.Lookat.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		color  = fauxgl.HexColor(hexColor)
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample for antialiasing
	image := context.Image()
	image = resize.Resize(width, height, image, resize.Bilinear)
	return fauxgl.SavePNG(outputname, image)
}

func fauxglTriangles(model []Triangle3) []*fauxgl.Triangle {
	tris := make([]*fauxgl.Triangle, len(model))
	for i, t := range model {
		tris[i] = fauxgl.NewTriangleForPoints(
			fauxgl.V(t[0].X, t[0].Y, t[0].Z),
			fauxgl.V(t[1].X, t[1].Y, t[1].Z),
			fauxgl.V(t[2].X, t[2].Y, t[2].Z),
		)
	}
	return tris
}
