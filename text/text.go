// Package text builds extruded label solids from TrueType glyph outlines.
package text

import (
	"fmt"
	"strings"

	"github.com/charmforge/bookcharm/form2"
	"github.com/charmforge/bookcharm/sdf"
	"github.com/charmforge/bookcharm/solid"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// quadSegments is how many line segments approximate one quadratic
// bezier of a glyph outline.
const quadSegments = 8

// lineSpacingFactor sets the baseline to baseline distance of a multi
// line label as a multiple of the line height.
const lineSpacingFactor = 1.6

// Builder turns short strings into raised 3d label solids.
type Builder struct {
	// Cells is the surface extraction cell count. Zero selects the
	// package default used by the primitive factory.
	Cells int
	// Font is the typeface used for glyph outlines. Nil selects the Go
	// regular face.
	Font *truetype.Font
}

func (b Builder) font() (*truetype.Font, error) {
	if b.Font != nil {
		return b.Font, nil
	}
	return truetype.Parse(goregular.TTF)
}

func (b Builder) cells() int {
	if b.Cells == 0 {
		return 200
	}
	return b.Cells
}

// Label builds one solid holding every line of text, extruded by
// extrudeDepth and placed so the mid-depth plane of the extrusion passes
// through faceCenter with the extrusion direction along faceNormal. Each
// line is rendered at lineHeight (cap height in model units) and centered
// horizontally; the line stack is centered vertically on faceCenter.
// A label whose lines contain no drawable glyphs yields the empty solid.
func (b Builder) Label(lines []string, lineHeight, extrudeDepth float64, faceCenter, faceNormal r3.Vec) (*solid.Solid, error) {
	if lineHeight <= 0 {
		return nil, fmt.Errorf("%w: label line height %g <= 0", solid.ErrInvalidParameter, lineHeight)
	}
	if extrudeDepth <= 0 {
		return nil, fmt.Errorf("%w: label extrude depth %g <= 0", solid.ErrInvalidParameter, extrudeDepth)
	}
	if r3.Norm(faceNormal) == 0 {
		return nil, fmt.Errorf("%w: label face normal is the zero vector", solid.ErrInvalidParameter)
	}
	f, err := b.font()
	if err != nil {
		return nil, fmt.Errorf("%w: parse font: %v", solid.ErrInvalidParameter, err)
	}

	var fields []sdf.SDF3
	spacing := lineHeight * lineSpacingFactor
	// Vertical offset of line 0 so the stack is centered on y=0.
	top := float64(len(lines)-1) * spacing / 2
	for i, line := range lines {
		field, err := b.lineField(f, line, lineHeight, extrudeDepth)
		if err != nil {
			return nil, err
		}
		if field == nil {
			continue
		}
		y := top - float64(i)*spacing
		fields = append(fields, sdf.Transform3D(field, sdf.Translate3D(r3.Vec{Y: y})))
	}
	if len(fields) == 0 {
		return solid.Empty("label"), nil
	}
	placed := sdf.Transform3D(sdf.Union3D(fields...),
		sdf.Translate3D(faceCenter).Mul(sdf.RotateToVector(r3.Vec{Z: 1}, faceNormal)))
	return solid.New("label", placed, b.cells())
}

// lineField returns one line of text as an extruded field centered on the
// origin, or nil if the line has no drawable glyphs.
func (b Builder) lineField(f *truetype.Font, line string, lineHeight, extrudeDepth float64) (sdf.SDF3, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	fupe := fixed.Int26_6(f.FUnitsPerEm())
	scale := lineHeight / float64(fupe)

	var loops []form2.Contour
	pen := 0.0
	glyph := truetype.GlyphBuf{}
	for _, r := range line {
		idx := f.Index(r)
		if err := glyph.Load(f, fupe, idx, font.HintingNone); err != nil {
			return nil, fmt.Errorf("%w: load glyph %q: %v", solid.ErrInvalidParameter, r, err)
		}
		loops = append(loops, glyphContours(&glyph, scale, pen)...)
		pen += float64(f.HMetric(fupe, idx).AdvanceWidth) * scale
	}
	if len(loops) == 0 {
		return nil, nil
	}
	// Center the line on the origin using the filled extent.
	bb := loopsBounds(loops)
	off := r2.Scale(-0.5, r2.Add(bb.Min, bb.Max))
	for _, l := range loops {
		for i := range l {
			l[i] = r2.Add(l[i], off)
		}
	}
	flat, err := form2.Contours(loops)
	if err != nil {
		return nil, fmt.Errorf("%w: line %q: %v", solid.ErrInvalidParameter, line, err)
	}
	return sdf.Extrude3D(flat, extrudeDepth), nil
}

// glyphContours flattens one loaded glyph into closed polygonal loops in
// model units, advanced to the pen position.
func glyphContours(g *truetype.GlyphBuf, scale, pen float64) []form2.Contour {
	var loops []form2.Contour
	start := 0
	for _, end := range g.Ends {
		pts := g.Points[start:end]
		start = end
		loop := flattenContour(pts, scale, pen)
		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}

// flattenContour converts one TrueType contour to a polygon. On-curve
// points pass through; off-curve points are quadratic control points, and
// two consecutive off-curve points imply an on-curve midpoint.
func flattenContour(pts []truetype.Point, scale, pen float64) form2.Contour {
	n := len(pts)
	if n == 0 {
		return nil
	}
	at := func(i int) (r2.Vec, bool) {
		p := pts[i%n]
		on := p.Flags&0x01 != 0
		return r2.Vec{X: float64(p.X)*scale + pen, Y: float64(p.Y) * scale}, on
	}
	// Find a starting on-curve point, synthesizing one if the contour
	// opens off-curve.
	var cur r2.Vec
	first := 0
	v0, on0 := at(0)
	if on0 {
		cur = v0
		first = 1
	} else {
		v1, on1 := at(1)
		if on1 {
			cur = v1
			first = 2
		} else {
			cur = r2.Scale(0.5, r2.Add(v0, v1))
			first = 1
		}
	}
	loop := form2.Contour{cur}
	var ctrl *r2.Vec
	// Walk the remaining points once around, wrapping back to the anchor
	// so the final segment closes the loop.
	for i := first; i < first+n; i++ {
		v, on := at(i)
		switch {
		case on && ctrl == nil:
			loop = append(loop, v)
			cur = v
		case on:
			loop = appendQuad(loop, cur, *ctrl, v)
			cur = v
			ctrl = nil
		case ctrl == nil:
			c := v
			ctrl = &c
		default:
			mid := r2.Scale(0.5, r2.Add(*ctrl, v))
			loop = appendQuad(loop, cur, *ctrl, mid)
			cur = mid
			c := v
			ctrl = &c
		}
	}
	if ctrl != nil {
		loop = appendQuad(loop, cur, *ctrl, loop[0])
	}
	// Drop an explicit closing vertex, the contour closes implicitly.
	if len(loop) > 1 && loop[len(loop)-1] == loop[0] {
		loop = loop[:len(loop)-1]
	}
	return loop
}

// appendQuad appends a subdivided quadratic bezier from cur through ctrl
// to end, excluding cur itself.
func appendQuad(loop form2.Contour, cur, ctrl, end r2.Vec) form2.Contour {
	for s := 1; s <= quadSegments; s++ {
		t := float64(s) / quadSegments
		u := 1 - t
		p := r2.Add(r2.Add(
			r2.Scale(u*u, cur),
			r2.Scale(2*u*t, ctrl)),
			r2.Scale(t*t, end))
		loop = append(loop, p)
	}
	return loop
}

func loopsBounds(loops []form2.Contour) r2.Box {
	bb := r2.Box{Min: loops[0][0], Max: loops[0][0]}
	for _, l := range loops {
		for _, v := range l {
			if v.X < bb.Min.X {
				bb.Min.X = v.X
			}
			if v.Y < bb.Min.Y {
				bb.Min.Y = v.Y
			}
			if v.X > bb.Max.X {
				bb.Max.X = v.X
			}
			if v.Y > bb.Max.Y {
				bb.Max.Y = v.Y
			}
		}
	}
	return bb
}
