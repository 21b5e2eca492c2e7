package render

import (
	"io"
	"math"

	"github.com/charmforge/bookcharm/internal/d3"
	"github.com/charmforge/bookcharm/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Octree extracts the surface of an SDF3 by sampling it over an octree and
// running marching tetrahedra on the leaf cells. The tetrahedral split of
// every leaf cell is the same six tetrahedra around the cell's main
// diagonal; the split is translation invariant so the diagonals of shared
// cell faces coincide between neighbors and the extracted surface is
// watertight.
type Octree struct {
	dc        distCache
	todo      []cell
	unwritten triangle3Buffer
}

// v3i is an integer lattice coordinate within the octree.
type v3i [3]int

func (a v3i) Add(b v3i) v3i {
	return v3i{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a v3i) AddScalar(b int) v3i {
	return v3i{a[0] + b, a[1] + b, a[2] + b}
}

func (a v3i) ToV3() r3.Vec {
	return r3.Vec{X: float64(a[0]), Y: float64(a[1]), Z: float64(a[2])}
}

// cell is an octree cube: origin lattice coordinate and level.
// The cube side in lattice units is 1 << n.
type cell struct {
	v3i
	n uint
}

// NewOctreeRenderer returns a marching tetrahedra surface extractor over
// octree cell sampling. meshCells is the number of extraction cells along
// the longest axis of the field's bounding box.
func NewOctreeRenderer(s sdf.SDF3, meshCells int) *Octree {
	if meshCells < 2 {
		panic("meshCells must be 2 or larger")
	}
	// Scale the bounding box about the center so the boundaries are not
	// exactly on the object surface.
	bb := d3.Box(s.Bounds()).ScaleAboutCenter(1.01)
	longAxis := d3.Max(bb.Size())
	// The level 0 cube side is half the requested resolution so that leaf
	// cells (level 1) have the requested size.
	resolution := 0.5 * longAxis / float64(meshCells)
	levels := uint(math.Ceil(math.Log2(longAxis/resolution))) + 1

	cells := make([]cell, 1, 1024)
	cells[0] = cell{v3i{0, 0, 0}, levels - 1} // start at the top level
	return &Octree{
		dc:        *newDistCache(s, bb.Min, resolution, levels),
		unwritten: triangle3Buffer{buf: make([]Triangle3, 0, 1024)},
		todo:      cells,
	}
}

// ReadTriangles writes extracted triangles into the argument buffer.
// It returns the number of triangles written and io.EOF once exhausted.
func (oc *Octree) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if oc.unwritten.Len() > 0 {
		n += oc.unwritten.Read(dst[n:])
		if n == len(dst) {
			return n, nil
		}
	}
	if len(oc.todo) == 0 && oc.unwritten.Len() == 0 {
		return n, io.EOF
	}
	n += oc.readTriangles(dst[n:])
	return n, nil
}

func (oc *Octree) readTriangles(dst []Triangle3) (n int) {
	cellsProcessed := 0
	var newCells []cell
	for _, c := range oc.todo {
		if n == len(dst) {
			break
		}
		if n+marchingTetraMaxTriangles > len(dst) {
			// Not enough room in the buffer for a full leaf cell.
			var tmp [marchingTetraMaxTriangles]Triangle3
			nt, cells := oc.processCell(tmp[:], c)
			oc.unwritten.Write(tmp[:nt])
			newCells = append(newCells, cells...)
			cellsProcessed++
			break
		}
		nt, cells := oc.processCell(dst[n:], c)
		newCells = append(newCells, cells...)
		cellsProcessed++
		n += nt
	}
	oc.todo = append(oc.todo, newCells...)
	oc.todo = oc.todo[cellsProcessed:]
	return n
}

// processCell triangulates a leaf cell or splits an inner cell into its
// non-empty children.
func (oc *Octree) processCell(dst []Triangle3, c cell) (nt int, newCells []cell) {
	if c.n == 1 {
		// Leaf cell at the required resolution. Corner order follows the
		// usual marching cubes numbering: bottom ring then top ring.
		var corners [8]r3.Vec
		var values [8]float64
		corners[0], values[0] = oc.dc.Evaluate(c.Add(v3i{0, 0, 0}))
		corners[1], values[1] = oc.dc.Evaluate(c.Add(v3i{2, 0, 0}))
		corners[2], values[2] = oc.dc.Evaluate(c.Add(v3i{2, 2, 0}))
		corners[3], values[3] = oc.dc.Evaluate(c.Add(v3i{0, 2, 0}))
		corners[4], values[4] = oc.dc.Evaluate(c.Add(v3i{0, 0, 2}))
		corners[5], values[5] = oc.dc.Evaluate(c.Add(v3i{2, 0, 2}))
		corners[6], values[6] = oc.dc.Evaluate(c.Add(v3i{2, 2, 2}))
		corners[7], values[7] = oc.dc.Evaluate(c.Add(v3i{0, 2, 2}))
		nt = mtToTriangles(dst, corners, values)
		return nt, nil
	}
	n := c.n - 1
	s := 1 << n
	subCells := [8]cell{
		{c.Add(v3i{0, 0, 0}), n},
		{c.Add(v3i{s, 0, 0}), n},
		{c.Add(v3i{s, s, 0}), n},
		{c.Add(v3i{0, s, 0}), n},
		{c.Add(v3i{0, 0, s}), n},
		{c.Add(v3i{s, 0, s}), n},
		{c.Add(v3i{s, s, s}), n},
		{c.Add(v3i{0, s, s}), n},
	}
	for _, candidate := range subCells {
		if !oc.dc.IsEmpty(&candidate) {
			newCells = append(newCells, candidate)
		}
	}
	return 0, newCells
}

// distCache caches field evaluations at lattice coordinates so shared cell
// corners are evaluated once. Identical corner values also guarantee that
// the interpolated crossing points of shared edges match bit for bit,
// which keeps the extracted mesh stitched.
type distCache struct {
	cache      map[v3i]float64
	origin     r3.Vec
	resolution float64
	hdiag      []float64 // lookup table of cube half diagonals per level
	s          sdf.SDF3
}

func newDistCache(s sdf.SDF3, origin r3.Vec, resolution float64, levels uint) *distCache {
	if levels >= 64 {
		panic("octree levels must be less than the word size")
	}
	dc := distCache{
		cache:      make(map[v3i]float64),
		origin:     origin,
		resolution: resolution,
		hdiag:      make([]float64, levels),
		s:          s,
	}
	for i := range dc.hdiag {
		side := float64(uint(1)<<uint(i)) * resolution
		dc.hdiag[i] = 0.5 * math.Sqrt(3*side*side)
	}
	return &dc
}

// Evaluate returns the lattice point position and its cached field value.
func (dc *distCache) Evaluate(vi v3i) (r3.Vec, float64) {
	v := r3.Add(dc.origin, r3.Scale(dc.resolution, vi.ToV3()))
	if dist, ok := dc.cache[vi]; ok {
		return v, dist
	}
	dist := dc.s.Evaluate(v)
	if dist == 0 {
		// Push exact surface hits to the outside so edge crossings land
		// strictly inside lattice edges.
		dist = dc.resolution * 1e-12
	}
	dc.cache[vi] = dist
	return v, dist
}

// IsEmpty returns true if the cell provably contains no surface.
func (dc *distCache) IsEmpty(c *cell) bool {
	s := 1 << (c.n - 1) // half side
	_, d := dc.Evaluate(c.AddScalar(s))
	return math.Abs(d) >= dc.hdiag[c.n]
}
