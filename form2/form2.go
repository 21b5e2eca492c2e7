// Package form2 provides planar fields built from closed contours.
// Its main use is turning glyph outlines into SDF2 shapes for extrusion.
package form2

import (
	"errors"
	"math"

	"github.com/charmforge/bookcharm/internal/d2"
	"github.com/charmforge/bookcharm/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// Contour is a closed loop of 2d vertices. The final vertex connects back
// to the first, an explicit closing vertex is not required.
type Contour []r2.Vec

// contourSet is an SDF2 made of one or more closed contours filled with the
// even-odd rule. Overlapping contours cut holes in each other, which is how
// glyph outlines encode counters such as the hole of an "O".
type contourSet struct {
	loops []Contour
	bb    r2.Box
}

// Contours returns an SDF2 filled with the even-odd rule over the given
// closed loops. Loops with fewer than 3 vertices are rejected.
func Contours(loops []Contour) (sdf.SDF2, error) {
	if len(loops) == 0 {
		return nil, errors.New("contour set requires at least 1 loop")
	}
	for _, l := range loops {
		if len(l) < 3 {
			return nil, errors.New("contour requires at least 3 vertices")
		}
	}
	s := contourSet{loops: loops}
	bb := d2.Box{Min: loops[0][0], Max: loops[0][0]}
	for _, l := range loops {
		for _, v := range l {
			bb = bb.Include(v)
		}
	}
	s.bb = r2.Box(bb)
	return &s, nil
}

// Evaluate returns the signed minimum distance to the filled contour set.
func (s *contourSet) Evaluate(p r2.Vec) float64 {
	dist := math.MaxFloat64
	crossings := 0
	for _, loop := range s.loops {
		n := len(loop)
		for i := 0; i < n; i++ {
			a := loop[i]
			b := loop[(i+1)%n]
			dist = math.Min(dist, segmentDistance(p, a, b))
			// even-odd ray crossing count along +X.
			if (a.Y > p.Y) != (b.Y > p.Y) {
				x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
				if p.X < x {
					crossings++
				}
			}
		}
	}
	if crossings%2 == 1 {
		return -dist
	}
	return dist
}

// Bounds returns the bounding box of the contour set.
func (s *contourSet) Bounds() r2.Box { return s.bb }

// segmentDistance returns the distance from p to the segment ab.
func segmentDistance(p, a, b r2.Vec) float64 {
	pa := r2.Sub(p, a)
	ba := r2.Sub(b, a)
	bb := r2.Dot(ba, ba)
	var h float64
	if bb > 0 {
		h = r2.Dot(pa, ba) / bb
		if h < 0 {
			h = 0
		} else if h > 1 {
			h = 1
		}
	}
	return r2.Norm(r2.Sub(pa, r2.Scale(h, ba)))
}
