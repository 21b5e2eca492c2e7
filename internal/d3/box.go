package d3

import "gonum.org/v1/gonum/spatial/r3"

// Box is a 3d bounding box.
type Box r3.Box

// NewBox creates a 3d box with a given center and size.
func NewBox(center, size r3.Vec) Box {
	half := r3.Scale(0.5, size)
	return Box{Min: r3.Sub(center, half), Max: r3.Add(center, half)}
}

// Extend returns a box enclosing two 3d boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Include enlarges a 3d box to include a point.
func (a Box) Include(v r3.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Translate translates a 3d box.
func (a Box) Translate(v r3.Vec) Box {
	return Box{Min: r3.Add(a.Min, v), Max: r3.Add(a.Max, v)}
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() r3.Vec {
	return r3.Add(a.Min, r3.Scale(0.5, a.Size()))
}

// ScaleAboutCenter returns a new 3d box scaled about the center of a box.
func (a Box) ScaleAboutCenter(k float64) Box {
	return NewBox(a.Center(), r3.Scale(k, a.Size()))
}

// Contains checks if the box contains the given point, bounds included.
func (a Box) Contains(v r3.Vec) bool {
	return a.Min.X <= v.X && a.Min.Y <= v.Y && a.Min.Z <= v.Z &&
		v.X <= a.Max.X && v.Y <= a.Max.Y && v.Z <= a.Max.Z
}

// Intersects returns true if the two boxes overlap or touch.
func (a Box) Intersects(b Box) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y &&
		a.Min.Z <= b.Max.Z && b.Min.Z <= a.Max.Z
}

// IsFinite returns true if both box corners are finite.
func (a Box) IsFinite() bool {
	return IsFinite(a.Min) && IsFinite(a.Max)
}

// Vertices returns the eight corners of the box.
func (a Box) Vertices() Set {
	return Set{
		a.Min,
		{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z},
		a.Max,
		{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z},
	}
}
