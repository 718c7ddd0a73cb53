package export

import (
	"io"
	"log"

	"github.com/go-spatial/geom"

	"github.com/pdok/terrain/intgeom"
	"github.com/pdok/terrain/mapslicehelp"
	"github.com/pdok/terrain/mesh"
)

// MaxNetNodes is the largest number of nodes per direction a 3dnetz may have
const MaxNetNodes = 256

// scrIntro sets up the drawing editor (German command names):
// undo off, coordinate input over object snap, units meters, view from the south-west,
// wireframe display and a zoom on the volume of the model.
func scrIntro(t *textWriter, m *mesh.Model) {
	dx, dy := m.BBoxSize()
	t.print("Zurück S K\n" +
		"OSnapCoord 1\n" +
		"_InsUnits 6\n" +
		"APunkt -1,-2,2\n" +
		"-Vis A Drahtmodell\n")
	t.printf("Zoom F 0,0,%f %d,%d,%f\n", m.Floor(), dx, dy, m.Top())
}

// scrExit turns undo back on and zooms to the extents
func scrExit(t *textWriter) {
	t.print("Zurück A\nZoom G\n")
}

// Boxes is a CAD script with one box per grid point, from the floor to the height of the point
type Boxes struct{}

func (Boxes) Name() string   { return "scr-boxes" }
func (Boxes) Suffix() string { return ".boxes.scr" }

func (Boxes) Export(w io.Writer, m *mesh.Model) error {
	t := &textWriter{w: w}
	scrIntro(t, m)
	s := m.Stride()
	err := m.Each(func(i, j int, h float64) error {
		x, y := m.Local(i, j)
		t.printf("Quader %d,%d,%.2f %d,%d,%.2f\n", x, y, m.Floor(), x+s, y+s, h)
		return t.err
	})
	if err != nil {
		return err
	}
	scrExit(t)
	return t.err
}

// Prisms is a CAD script with two triangular prisms per cell. Each prism is extruded from the floor
// to the highest of its corners and then cut off by the plane through its three terrain points.
type Prisms struct{}

func (Prisms) Name() string   { return "scr-prisms" }
func (Prisms) Suffix() string { return ".prisms.scr" }

func (Prisms) Export(w io.Writer, m *mesh.Model) error {
	t := &textWriter{w: w}
	scrIntro(t, m)
	err := m.EachCell(func(c mesh.Cell) error {
		// (x,y), (x+s,y), (x+s,y+s) and (x,y), (x,y+s), (x+s,y+s)
		prism(t, m.Floor(), [3]geom.PointZ{c.C[0], c.C[1], c.C[3]})
		prism(t, m.Floor(), [3]geom.PointZ{c.C[0], c.C[2], c.C[3]})
		return t.err
	})
	if err != nil {
		return err
	}
	scrExit(t)
	return t.err
}

func prism(t *textWriter, floor float64, v [3]geom.PointZ) {
	x1, y1 := xy(v[0])
	x2, y2 := xy(v[1])
	x3, y3 := xy(v[2])
	t.printf("3DPoly %d,%d,%.2f %d,%d,%.2f %d,%d,%.2f S\n", x1, y1, floor, x2, y2, floor, x3, y3, floor)
	top := mesh.Triangle{Side: mesh.Top, V: v}.MaxHeight()
	t.printf("_extrude L  %f\n", top-floor)
	t.printf("Kappen L   %d,%d,%f %d,%d,%f %d,%d,%f %d,%d,%f\n",
		x1, y1, v[0][2], x2, y2, v[1][2], x3, y3, v[2][2], x1, y1, floor)
}

// Net is a CAD script with the terrain as one 3dnetz, four 3dnetz strips as walls and one bottom face.
// A net has at most MaxNodes nodes per direction, larger grids are thinned out.
type Net struct {
	MaxNodes int64
}

func (Net) Name() string   { return "scr-mesh" }
func (Net) Suffix() string { return ".mesh.scr" }

// NetDecimation returns the smallest n >= 1 for which a net over size x by y meters
// at a node distance of stride*n has at most maxNodes nodes in both directions.
func NetDecimation(x, y, stride intgeom.M, maxNodes int64) int {
	n := 1
	for x/(stride*intgeom.M(n))+1 > maxNodes || y/(stride*intgeom.M(n))+1 > maxNodes {
		n++
	}
	return n
}

func (net Net) Export(w io.Writer, m *mesh.Model) error {
	t := &textWriter{w: w}
	scrIntro(t, m)

	maxNodes := net.MaxNodes
	if maxNodes < 2 {
		maxNodes = MaxNetNodes
	}
	sx, sy := m.Size()
	n := NetDecimation(sx, sy, m.Stride(), maxNodes)
	if n > 1 {
		log.Printf("  using only every %d. point in each direction", n)
	}
	nx, ny := m.Cells()
	var is, js []int
	for i := 0; i <= nx; i += n {
		is = append(is, i)
	}
	for j := 0; j <= ny; j += n {
		js = append(js, j)
	}
	floor := m.Floor()
	node := func(i, j int, h float64) {
		x, y := m.Local(i, j)
		t.printf("%d,%d,%f\n", x, y, h)
	}

	// terrain
	t.printf("3dnetz %d %d\n", len(is), len(js))
	for _, i := range is {
		for _, j := range js {
			node(i, j, m.Height(i, j))
		}
	}
	// walls: south, north, west, east
	lastI, lastJ := *mapslicehelp.LastElement(is), *mapslicehelp.LastElement(js)
	for _, j := range []int{0, lastJ} {
		t.printf("3dnetz %d 2\n", len(is))
		for _, i := range is {
			node(i, j, floor)
			node(i, j, m.Height(i, j))
		}
	}
	for _, i := range []int{0, lastI} {
		t.printf("3dnetz %d 2\n", len(js))
		for _, j := range js {
			node(i, j, floor)
			node(i, j, m.Height(i, j))
		}
	}
	// bottom
	x, y := m.Local(lastI, lastJ)
	t.print("3dfläche\n")
	t.printf("0,0,%f 0,%d,%f %d,%d,%f %d,0,%f \n", floor, y, floor, x, y, floor, x, floor)

	scrExit(t)
	return t.err
}

// Faces is a CAD script with the same faces as the DXF, entered as 3dfläche commands:
// two triangles per cell on top, one quad for the bottom and one quad per boundary cell for the walls.
type Faces struct{}

func (Faces) Name() string   { return "scr-faces" }
func (Faces) Suffix() string { return ".faces.scr" }

func (Faces) Export(w io.Writer, m *mesh.Model) error {
	t := &textWriter{w: w}
	scrIntro(t, m)
	err := m.EachCell(func(c mesh.Cell) error {
		for _, tr := range c.Top() {
			t.print("3dfläche\n")
			for _, p := range tr.V {
				x, y := xy(p)
				t.printf("%d,%d,%s\n", x, y, height(tr.Side, p[2]))
			}
			// a blank line ends the command after three corners
			t.print("\n\n")
		}
		return t.err
	})
	if err != nil {
		return err
	}
	quad := func(q mesh.Quad) error {
		t.print("3dfläche\n")
		for _, p := range q.V {
			x, y := xy(p)
			t.printf("%d,%d,%s\n", x, y, height(q.Side, p[2]))
		}
		t.print("\n")
		return t.err
	}
	if err = quad(m.BottomQuad()); err != nil {
		return err
	}
	if err = m.EachWall(quad); err != nil {
		return err
	}
	scrExit(t)
	return t.err
}
