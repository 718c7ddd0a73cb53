package export

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pdok/terrain/mesh"
)

// ASCIISTL writes the closed solid as a text STL for 3D printing.
// The facet normals are the axis directions pointing out of the side the facet belongs to.
type ASCIISTL struct {
	// Solid is the name after "solid" and "endsolid"
	Solid string
}

func (ASCIISTL) Name() string   { return "stl-ascii" }
func (ASCIISTL) Suffix() string { return ".ascii.stl" }

func (s ASCIISTL) Export(w io.Writer, m *mesh.Model) error {
	t := &textWriter{w: w}
	t.printf("solid %s\n", s.Solid)
	err := m.EachTriangle(func(tr mesh.Triangle) error {
		n := tr.Side.Normal()
		t.printf("facet normal %d %d %d\nouter loop\n", int(n[0]), int(n[1]), int(n[2]))
		for _, p := range tr.V {
			x, y := xy(p)
			t.printf("vertex %d %d %s\n", x, y, height(tr.Side, p[2]))
		}
		t.print("endloop\nendfacet\n")
		return t.err
	})
	if err != nil {
		return err
	}
	t.printf("endsolid %s\n", s.Solid)
	return t.err
}

const (
	stlHeaderSize = 80
	// StlRecordSize is the size of one triangle: normal, 3 vertices, attribute byte count
	StlRecordSize = 12*4 + 2
)

type stlRecord struct {
	Normal    [3]float32
	Vertices  [9]float32
	Attribute uint16
}

// BinarySTL writes the closed solid as a little-endian binary STL:
// 80 byte empty header, uint32 triangle count, 50 bytes per triangle.
type BinarySTL struct{}

func (BinarySTL) Name() string   { return "stl-binary" }
func (BinarySTL) Suffix() string { return ".binary.stl" }

// BinarySTLSize is the exact file size for a number of triangles
func BinarySTLSize(triangles int) int64 {
	return stlHeaderSize + 4 + StlRecordSize*int64(triangles)
}

func (BinarySTL) Export(w io.Writer, m *mesh.Model) error {
	if _, err := w.Write(make([]byte, stlHeaderSize)); err != nil {
		return err
	}
	count := m.TriangleCount()
	if err := binary.Write(w, binary.LittleEndian, uint32(count)); err != nil {
		return err
	}
	var written int
	err := m.EachTriangle(func(tr mesh.Triangle) error {
		var r stlRecord
		for k, c := range tr.Side.Normal() {
			r.Normal[k] = float32(c)
		}
		for k, p := range tr.V {
			r.Vertices[3*k] = float32(p[0])
			r.Vertices[3*k+1] = float32(p[1])
			r.Vertices[3*k+2] = float32(p[2])
		}
		written++
		return binary.Write(w, binary.LittleEndian, &r)
	})
	if err != nil {
		return err
	}
	if written != count {
		return fmt.Errorf("wrote %d triangles, announced %d", written, count)
	}
	return nil
}
