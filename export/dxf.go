package export

import (
	"io"

	"github.com/go-spatial/geom"

	"github.com/pdok/terrain/mesh"
)

const dxfHeader = "0\nSECTION\n2\nHEADER\n" +
	"9\n$ACADVER\n1\nAC1006\n" +
	"9\n$INSBASE\n10\n0.0\n20\n0.0\n30\n0.0\n" +
	"9\n$INSUNITS\n70\n6\n" +
	"9\n$EXTMIN\n10\n0.0\n20\n0.0\n" +
	"9\n$EXTMAX\n10\n%f\n20\n%f\n" +
	"9\n$LIMMIN\n10\n0.0\n20\n0.0\n" +
	"9\n$LIMMAX\n10\n%f\n20\n%f\n" +
	"0\nENDSEC\n" +
	"0\nSECTION\n2\nENTITIES\n"

const dxfFooter = "0\nENDSEC\n0\nEOF\n"

// DXF writes the hull of the solid as 3DFACE entities (AutoCAD R12 ASCII DXF, units meters).
// The faces still have to be turned into a solid in the CAD program.
type DXF struct{}

func (DXF) Name() string   { return "dxf" }
func (DXF) Suffix() string { return ".dxf" }

func (DXF) Export(w io.Writer, m *mesh.Model) error {
	t := &textWriter{w: w}
	x, y := m.Size()
	t.printf(dxfHeader, float64(x), float64(y), float64(x), float64(y))

	err := m.EachCell(func(c mesh.Cell) error {
		for _, tr := range c.Top() {
			// 3DFACE has four corners, a triangle repeats its third
			dxfFace(t, mesh.Top, [4]geom.PointZ{tr.V[0], tr.V[1], tr.V[2], tr.V[2]})
		}
		return t.err
	})
	if err != nil {
		return err
	}
	bottom := m.BottomQuad()
	dxfFace(t, bottom.Side, bottom.V)
	err = m.EachWall(func(q mesh.Quad) error {
		dxfFace(t, q.Side, q.V)
		return t.err
	})
	if err != nil {
		return err
	}
	t.print(dxfFooter)
	return t.err
}

func dxfFace(t *textWriter, side mesh.Side, v [4]geom.PointZ) {
	t.print("0\n3DFACE\n")
	for k, p := range v {
		x, y := xy(p)
		t.printf("1%d\n%d\n2%d\n%d\n3%d\n%s\n", k, x, k, y, k, height(side, p[2]))
	}
}
