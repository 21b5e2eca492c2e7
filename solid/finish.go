package solid

import (
	"fmt"

	"github.com/charmforge/bookcharm/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Finish recenters the solid's origin on its volumetric centroid and
// applies the uniform output unit scale. It is a pure linear transform:
// finishing an already centered solid with scale 1 is a no-op within
// floating tolerance.
func Finish(s *Solid, targetUnitScale float64) (*Solid, error) {
	if targetUnitScale <= 0 {
		return nil, fmt.Errorf("%w: target unit scale %g <= 0", ErrInvalidParameter, targetUnitScale)
	}
	if s.IsEmpty() {
		return nil, fmt.Errorf("finish: %w", ErrNoGeometry)
	}
	centroid := s.mesh.Centroid()
	mesh := s.mesh.Translated(r3.Scale(-1, centroid))
	if targetUnitScale != 1 {
		mesh = mesh.Scaled(targetUnitScale)
	}
	out := &Solid{name: s.name, mesh: mesh}
	if s.sdf != nil {
		field := sdf.Transform3D(s.sdf, sdf.Translate3D(r3.Scale(-1, centroid)))
		if targetUnitScale != 1 {
			field = sdf.ScaleUniform3D(field, targetUnitScale)
		}
		out.sdf = field
	}
	return out, nil
}
