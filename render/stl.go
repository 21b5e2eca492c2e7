package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
)

// Binary STL output.

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8
	Count uint32
}

// stlTriangle is the on-disk triangle record: 50 bytes.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // attribute byte count
}

const stlTriangleSize = 50

// WriteSTL writes model triangles to a writer in binary STL format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	header := stlHeader{Count: uint32(len(model))}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	bw := bufio.NewWriterSize(w, stlTriangleSize*1024)
	var d stlTriangle
	for _, t := range model {
		if err := d.set(t); err != nil {
			return err
		}
		var b [stlTriangleSize]byte
		d.put(b[:])
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// CreateSTL renders a model as an STL file using a Renderer.
func CreateSTL(path string, r Renderer) error {
	model, err := RenderAll(r)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := WriteSTL(file, model); err != nil {
		return err
	}
	return file.Close()
}

// set fills the record from a triangle, rejecting non-finite float32
// coordinates or normals.
func (d *stlTriangle) set(t Triangle3) error {
	n := t.UnitNormal()
	d.Normal = [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
	d.Vertex1 = [3]float32{float32(t[0].X), float32(t[0].Y), float32(t[0].Z)}
	d.Vertex2 = [3]float32{float32(t[1].X), float32(t[1].Y), float32(t[1].Z)}
	d.Vertex3 = [3]float32{float32(t[2].X), float32(t[2].Y), float32(t[2].Z)}
	if nanOrInf(d.Normal) || nanOrInf(d.Vertex1) || nanOrInf(d.Vertex2) || nanOrInf(d.Vertex3) {
		return errors.New("non-finite STL triangle")
	}
	return nil
}

func (d *stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need at least 50 bytes to write STL triangle")
	}
	put3F32(b[0:], d.Normal)
	put3F32(b[12:], d.Vertex1)
	put3F32(b[24:], d.Vertex2)
	put3F32(b[36:], d.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func put3F32(b []byte, f [3]float32) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func nanOrInf(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}
