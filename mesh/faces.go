package mesh

import (
	"github.com/go-spatial/geom"
)

// Side is the face of the solid a triangle or quad belongs to
type Side int

const (
	Top Side = iota
	Bottom
	West
	East
	South
	North
)

// Sides in stream order
var Sides = []Side{Top, Bottom, West, East, South, North}

// Walls in stream order
var Walls = []Side{West, East, South, North}

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case West:
		return "west"
	case East:
		return "east"
	case South:
		return "south"
	case North:
		return "north"
	}
	return "unknown"
}

// Normal is the outward axis-aligned unit vector of the side.
// The top is sloped, but gets (0, 0, 1) all the same.
func (s Side) Normal() [3]float64 {
	switch s {
	case Top:
		return [3]float64{0, 0, 1}
	case Bottom:
		return [3]float64{0, 0, -1}
	case West:
		return [3]float64{-1, 0, 0}
	case East:
		return [3]float64{1, 0, 0}
	case South:
		return [3]float64{0, -1, 0}
	case North:
		return [3]float64{0, 1, 0}
	}
	return [3]float64{}
}

type Triangle struct {
	Side Side
	V    [3]geom.PointZ
}

type Quad struct {
	Side Side
	V    [4]geom.PointZ
}

// Split returns the two triangles of a wall or bottom quad, wound to face outward
func (q Quad) Split() [2]Triangle {
	switch q.Side {
	case West, North:
		return [2]Triangle{
			{Side: q.Side, V: [3]geom.PointZ{q.V[0], q.V[2], q.V[3]}},
			{Side: q.Side, V: [3]geom.PointZ{q.V[0], q.V[1], q.V[2]}},
		}
	default:
		return [2]Triangle{
			{Side: q.Side, V: [3]geom.PointZ{q.V[0], q.V[1], q.V[2]}},
			{Side: q.Side, V: [3]geom.PointZ{q.V[0], q.V[2], q.V[3]}},
		}
	}
}

// Cell is the square between nodes (I, J) and (I+1, J+1).
// C holds its corners at terrain height: (x,y), (x+s,y), (x,y+s), (x+s,y+s).
type Cell struct {
	I, J int
	C    [4]geom.PointZ
}

// Top returns the two terrain triangles: corner 1-4-2 and corner 1-3-4
func (c Cell) Top() [2]Triangle {
	return [2]Triangle{
		{Side: Top, V: [3]geom.PointZ{c.C[0], c.C[3], c.C[1]}},
		{Side: Top, V: [3]geom.PointZ{c.C[0], c.C[2], c.C[3]}},
	}
}

// Bottom returns the same split at height floor, mirrored
func (c Cell) Bottom(floor float64) [2]Triangle {
	var b [4]geom.PointZ
	for k, p := range c.C {
		b[k] = geom.PointZ{p[0], p[1], floor}
	}
	return [2]Triangle{
		{Side: Bottom, V: [3]geom.PointZ{b[0], b[1], b[3]}},
		{Side: Bottom, V: [3]geom.PointZ{b[0], b[3], b[2]}},
	}
}

// MaxHeight of the corners in the triangle
func (t Triangle) MaxHeight() float64 {
	return max(t.V[0][2], t.V[1][2], t.V[2][2])
}

// EachCell calls fn for every cell: x outer, y inner
func (m *Model) EachCell(fn func(c Cell) error) error {
	for i := 0; i < m.nx; i++ {
		for j := 0; j < m.ny; j++ {
			c := Cell{I: i, J: j, C: [4]geom.PointZ{
				m.Vertex(i, j),
				m.Vertex(i+1, j),
				m.Vertex(i, j+1),
				m.Vertex(i+1, j+1),
			}}
			if err := fn(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// BottomQuad is the whole bottom as one quad: (0,0), (X,0), (X,Y), (0,Y) at the floor
func (m *Model) BottomQuad() Quad {
	return Quad{Side: Bottom, V: [4]geom.PointZ{
		m.Base(0, 0),
		m.Base(m.nx, 0),
		m.Base(m.nx, m.ny),
		m.Base(0, m.ny),
	}}
}

// EachWallQuad calls fn for every boundary cell of the wall, one quad per cell.
// The quads run from the floor to the terrain heights of the boundary nodes.
func (m *Model) EachWallQuad(side Side, fn func(q Quad) error) error {
	var quads []Quad
	switch side {
	case West:
		for j := 0; j < m.ny; j++ {
			quads = append(quads, Quad{Side: West, V: [4]geom.PointZ{
				m.Base(0, j), m.Base(0, j+1), m.Vertex(0, j+1), m.Vertex(0, j),
			}})
		}
	case East:
		for j := 0; j < m.ny; j++ {
			quads = append(quads, Quad{Side: East, V: [4]geom.PointZ{
				m.Base(m.nx, j), m.Vertex(m.nx, j), m.Vertex(m.nx, j+1), m.Base(m.nx, j+1),
			}})
		}
	case South:
		for i := 0; i < m.nx; i++ {
			quads = append(quads, Quad{Side: South, V: [4]geom.PointZ{
				m.Base(i, 0), m.Vertex(i, 0), m.Vertex(i+1, 0), m.Base(i+1, 0),
			}})
		}
	case North:
		for i := 0; i < m.nx; i++ {
			quads = append(quads, Quad{Side: North, V: [4]geom.PointZ{
				m.Base(i, m.ny), m.Base(i+1, m.ny), m.Vertex(i+1, m.ny), m.Vertex(i, m.ny),
			}})
		}
	}
	for _, q := range quads {
		if err := fn(q); err != nil {
			return err
		}
	}
	return nil
}

// EachWall calls fn for every wall quad: west, east, south, north
func (m *Model) EachWall(fn func(q Quad) error) error {
	for _, side := range Walls {
		if err := m.EachWallQuad(side, fn); err != nil {
			return err
		}
	}
	return nil
}

// EachTriangle streams the closed solid: all top triangles, all bottom triangles, then the walls
// west, east, south and north. The number of triangles is TriangleCount.
func (m *Model) EachTriangle(fn func(t Triangle) error) error {
	err := m.EachCell(func(c Cell) error {
		for _, t := range c.Top() {
			if err := fn(t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	err = m.EachCell(func(c Cell) error {
		for _, t := range c.Bottom(m.floor) {
			if err := fn(t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return m.EachWall(func(q Quad) error {
		for _, t := range q.Split() {
			if err := fn(t); err != nil {
				return err
			}
		}
		return nil
	})
}
