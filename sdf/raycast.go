package sdf

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Raycast3 sphere-traces the field s from the point from along the unit
// direction dir. It returns the first surface collision point, the ray
// parameter t at the collision and the number of steps taken. If no surface
// is hit within maxDist then t is negative.
func Raycast3(s SDF3, from, dir r3.Vec, tol, maxDist float64, maxSteps int) (collision r3.Vec, t float64, steps int) {
	dir = r3.Unit(dir)
	p := from
	for steps < maxSteps {
		steps++
		d := s.Evaluate(p)
		if d < tol {
			return p, t, steps
		}
		t += d
		if t > maxDist {
			break
		}
		p = r3.Add(from, r3.Scale(t, dir))
	}
	return p, -1, steps
}
