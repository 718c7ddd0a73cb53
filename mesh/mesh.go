// Package mesh turns a complete elevation grid into the faces of a closed solid:
// the terrain on top, a flat bottom at the model floor and four vertical walls.
//
// All geometry is in the local frame of the model. The origin is the lower left corner of the box,
// x and y are whole meters, z is the absolute height.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-spatial/geom"

	"github.com/pdok/terrain/elevation"
	"github.com/pdok/terrain/intgeom"
	"github.com/pdok/terrain/resample"
)

var ErrEmptyModel = errors.New("box is smaller than one cell")

// Model is the frozen input of every exporter. Nothing changes it after NewModel.
type Model struct {
	grid   *elevation.Grid
	bbox   intgeom.Extent // as projected
	extent intgeom.Extent // max corner snapped to the stride
	stride intgeom.M
	nx, ny int // cells
	floor  float64
	top    float64
}

// NewModel checks that every node of the grid has a height and derives the model bounds.
func NewModel(grid *elevation.Grid, bbox intgeom.Extent) (*Model, error) {
	if err := grid.Complete(); err != nil {
		return nil, err
	}
	nodesX, nodesY := grid.Nodes()
	if nodesX < 2 || nodesY < 2 {
		return nil, fmt.Errorf("%w: %d x %d nodes at stride %d", ErrEmptyModel, nodesX, nodesY, grid.Stride())
	}
	return &Model{
		grid:   grid,
		bbox:   bbox,
		extent: grid.Extent(),
		stride: grid.Stride(),
		nx:     nodesX - 1,
		ny:     nodesY - 1,
		floor:  resample.ModelFloor(grid.MinHeight()),
		top:    grid.MaxHeight(),
	}, nil
}

func (m *Model) Grid() *elevation.Grid { return m.grid }

// Origin is the absolute position of the local (0, 0)
func (m *Model) Origin() intgeom.Point { return m.extent.Min() }

// Extent is the absolute, snapped extent of the nodes
func (m *Model) Extent() intgeom.Extent { return m.extent }

// BBox is the absolute extent as projected, before snapping
func (m *Model) BBox() intgeom.Extent { return m.bbox }

func (m *Model) Stride() intgeom.M { return m.stride }

// Cells returns the number of cells along x and y
func (m *Model) Cells() (nx, ny int) { return m.nx, m.ny }

// Floor is the height of the bottom (minh)
func (m *Model) Floor() float64 { return m.floor }

// Top is the highest height of the grid (maxh)
func (m *Model) Top() float64 { return m.top }

// Size is the local snapped extent: the position of the east and north walls
func (m *Model) Size() (x, y intgeom.M) {
	return m.extent.XSpan(), m.extent.YSpan()
}

// BBoxSize is the local extent of the unsnapped box
func (m *Model) BBoxSize() (x, y intgeom.M) {
	return m.bbox.XSpan(), m.bbox.YSpan()
}

// LocalExtent is the footprint of the solid in the local frame
func (m *Model) LocalExtent() *geom.Extent {
	x, y := m.Size()
	return intgeom.Extent{0, 0, x, y}.ToGeomExtent()
}

// Height of node (i, j). The grid is complete, so every node in range has one.
func (m *Model) Height(i, j int) float64 {
	h, ok := m.grid.At(i, j)
	if !ok {
		panic(fmt.Sprintf("no height at node %d,%d of a complete grid", i, j))
	}
	return h
}

// Local is the local position of node (i, j)
func (m *Model) Local(i, j int) (x, y intgeom.M) {
	return intgeom.M(i) * m.stride, intgeom.M(j) * m.stride
}

// Vertex is node (i, j) at its terrain height
func (m *Model) Vertex(i, j int) geom.PointZ {
	x, y := m.Local(i, j)
	return geom.PointZ{intgeom.ToGeomOrd(x), intgeom.ToGeomOrd(y), m.Height(i, j)}
}

// Base is node (i, j) at the floor
func (m *Model) Base(i, j int) geom.PointZ {
	x, y := m.Local(i, j)
	return geom.PointZ{intgeom.ToGeomOrd(x), intgeom.ToGeomOrd(y), m.floor}
}

// Each calls fn for every node: x outer, y inner, both ascending
func (m *Model) Each(fn func(i, j int, h float64) error) error {
	for i := 0; i <= m.nx; i++ {
		for j := 0; j <= m.ny; j++ {
			if err := fn(i, j, m.Height(i, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// TriangleCount is the number of triangles of a closed solid over nx by ny cells:
// 2 per cell on top, 2 per cell at the bottom and 2 per boundary cell on each wall.
func TriangleCount(nx, ny int) int {
	return 4*nx*ny + 4*nx + 4*ny
}

// TriangleCount of this model
func (m *Model) TriangleCount() int {
	return TriangleCount(m.nx, m.ny)
}
