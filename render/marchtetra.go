package render

import "gonum.org/v1/gonum/spatial/r3"

// Marching tetrahedra leaf kernel.
//
// Each leaf cell is split into six tetrahedra around the main diagonal
// from corner 0 to corner 6. All faces of the cell are cut by diagonals
// that pass through the projections of those two corners, so the split is
// translation invariant across neighboring cells.

// marchingTetraMaxTriangles is the most triangles a single cell can emit:
// six tetrahedra with at most two triangles each.
const marchingTetraMaxTriangles = 12

// cellTetra indexes the cell corners forming each of the six tetrahedra.
var cellTetra = [6][4]int{
	{0, 1, 2, 6},
	{0, 2, 3, 6},
	{0, 3, 7, 6},
	{0, 7, 4, 6},
	{0, 4, 5, 6},
	{0, 5, 1, 6},
}

// mtToTriangles emits the surface triangles of one leaf cell into dst and
// returns the number written. corners and values hold the cell corner
// positions and field values in marching cubes corner order. A corner is
// inside the solid when its value is negative.
func mtToTriangles(dst []Triangle3, corners [8]r3.Vec, values [8]float64) (n int) {
	for _, tet := range cellTetra {
		var p [4]r3.Vec
		var v [4]float64
		inside := 0
		mask := 0
		for i, ci := range tet {
			p[i] = corners[ci]
			v[i] = values[ci]
			if v[i] < 0 {
				inside++
				mask |= 1 << i
			}
		}
		switch inside {
		case 0, 4:
			// surface does not cross this tetrahedron.
		case 1, 3:
			// One vertex is separated from the other three: one triangle
			// through the three edge crossings around it.
			lone := loneVertex(mask, inside == 1)
			var t Triangle3
			k := 0
			for i := 0; i < 4; i++ {
				if i == lone {
					continue
				}
				t[k] = edgeCrossing(p[lone], p[i], v[lone], v[i])
				k++
			}
			n += emitOriented(dst[n:], t, p, v)
		case 2:
			// Two inside vertices: the crossing section is a quad split
			// into two triangles.
			var in, out [2]int
			ki, ko := 0, 0
			for i := 0; i < 4; i++ {
				if mask&(1<<i) != 0 {
					in[ki] = i
					ki++
				} else {
					out[ko] = i
					ko++
				}
			}
			q0 := edgeCrossing(p[in[0]], p[out[0]], v[in[0]], v[out[0]])
			q1 := edgeCrossing(p[in[0]], p[out[1]], v[in[0]], v[out[1]])
			q2 := edgeCrossing(p[in[1]], p[out[1]], v[in[1]], v[out[1]])
			q3 := edgeCrossing(p[in[1]], p[out[0]], v[in[1]], v[out[0]])
			n += emitOriented(dst[n:], Triangle3{q0, q1, q2}, p, v)
			n += emitOriented(dst[n:], Triangle3{q0, q2, q3}, p, v)
		}
	}
	return n
}

// loneVertex returns the index of the single vertex on its own side of the
// surface. When wantInside is true the lone vertex is the inside one.
func loneVertex(mask int, wantInside bool) int {
	if !wantInside {
		mask = ^mask & 0xf
	}
	for i := 0; i < 4; i++ {
		if mask&(1<<i) != 0 {
			return i
		}
	}
	return 0
}

// edgeCrossing interpolates the surface crossing on the edge ab.
// The values va and vb have opposite signs. Interpolation always runs
// from the negative vertex so neighboring tetrahedra sharing the edge
// compute the bitwise-identical crossing point and vertex indexing can
// merge them.
func edgeCrossing(a, b r3.Vec, va, vb float64) r3.Vec {
	if va > 0 {
		a, b = b, a
		va, vb = vb, va
	}
	t := va / (va - vb)
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// emitOriented writes t into dst with its normal facing away from the
// solid interior. The tetrahedron corners p with field values v give the
// orientation reference.
func emitOriented(dst []Triangle3, t Triangle3, p [4]r3.Vec, v [4]float64) int {
	// reference direction: from the mean of the inside corners toward the
	// mean of the outside corners.
	var cin, cout r3.Vec
	var nin, nout float64
	for i := 0; i < 4; i++ {
		if v[i] < 0 {
			cin = r3.Add(cin, p[i])
			nin++
		} else {
			cout = r3.Add(cout, p[i])
			nout++
		}
	}
	ref := r3.Sub(r3.Scale(1/nout, cout), r3.Scale(1/nin, cin))
	if r3.Dot(t.Normal(), ref) < 0 {
		t[1], t[2] = t[2], t[1]
	}
	dst[0] = t
	return 1
}
