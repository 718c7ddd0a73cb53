package mesh

import (
	"fmt"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/terrain/elevation"
	"github.com/pdok/terrain/intgeom"
	"github.com/pdok/terrain/resample"
)

const (
	originX = 32368000
	originY = 5700000
)

// oneCell is the worked example: four nodes 10 m apart
func oneCell(t *testing.T) *Model {
	t.Helper()
	bbox := intgeom.Extent{originX, originY, originX + 14, originY + 12}
	points := []elevation.Point{
		{Key: elevation.Key{X: originX, Y: originY}, H: 10.00},
		{Key: elevation.Key{X: originX + 10, Y: originY}, H: 10.50},
		{Key: elevation.Key{X: originX, Y: originY + 10}, H: 9.80},
		{Key: elevation.Key{X: originX + 10, Y: originY + 10}, H: 10.20},
	}
	grid := elevation.NewGrid(resample.SnapExtent(bbox, 10), 10, points)
	m, err := NewModel(grid, bbox)
	require.NoError(t, err)
	return m
}

// slope builds a complete nx by ny cell model with h = 100 + i + 2j
func slope(t *testing.T, nx, ny int, stride intgeom.M) *Model {
	t.Helper()
	bbox := intgeom.Extent{originX, originY, originX + intgeom.M(nx)*stride, originY + intgeom.M(ny)*stride}
	var points []elevation.Point
	for i := 0; i <= nx; i++ {
		for j := 0; j <= ny; j++ {
			points = append(points, elevation.Point{
				Key: elevation.Key{X: originX + intgeom.M(i)*stride, Y: originY + intgeom.M(j)*stride},
				H:   float64(100 + i + 2*j),
			})
		}
	}
	m, err := NewModel(elevation.NewGrid(bbox, stride, points), bbox)
	require.NoError(t, err)
	return m
}

func collect(t *testing.T, m *Model) []Triangle {
	t.Helper()
	var triangles []Triangle
	require.NoError(t, m.EachTriangle(func(tr Triangle) error {
		triangles = append(triangles, tr)
		return nil
	}))
	return triangles
}

func TestTriangleCount(t *testing.T) {
	assert.Equal(t, 12, TriangleCount(1, 1))
	assert.Equal(t, 4*2*3+4*2+4*3, TriangleCount(2, 3))
	assert.Equal(t, 0, TriangleCount(0, 0))
}

func TestNewModel_oneCell(t *testing.T) {
	m := oneCell(t)

	nx, ny := m.Cells()
	assert.Equal(t, 1, nx)
	assert.Equal(t, 1, ny)
	assert.Equal(t, intgeom.Point{originX, originY}, m.Origin())
	assert.Equal(t, intgeom.Extent{originX, originY, originX + 10, originY + 10}, m.Extent())
	bx, by := m.BBoxSize()
	assert.Equal(t, intgeom.M(14), bx)
	assert.Equal(t, intgeom.M(12), by)
	assert.Equal(t, &geom.Extent{0, 0, 10, 10}, m.LocalExtent())
	assert.Equal(t, -10.0, m.Floor())
	assert.Equal(t, 10.5, m.Top())
	assert.Less(t, m.Floor(), m.Grid().MinHeight())

	triangles := collect(t, m)
	require.Len(t, triangles, 12)
	assert.Equal(t, m.TriangleCount(), len(triangles))

	perSide := map[Side]int{}
	for _, tr := range triangles {
		perSide[tr.Side]++
	}
	for _, side := range Sides {
		assert.Equal(t, 2, perSide[side], side.String())
	}

	// local frame, top split 1-4-2 and 1-3-4
	assert.Equal(t, [3]geom.PointZ{{0, 0, 10}, {10, 10, 10.2}, {10, 0, 10.5}}, triangles[0].V)
	assert.Equal(t, [3]geom.PointZ{{0, 0, 10}, {0, 10, 9.8}, {10, 10, 10.2}}, triangles[1].V)
	assert.Equal(t, [3]geom.PointZ{{0, 0, -10}, {10, 0, -10}, {10, 10, -10}}, triangles[2].V)
	assert.Equal(t, [3]geom.PointZ{{0, 0, -10}, {10, 10, -10}, {0, 10, -10}}, triangles[3].V)
	// the first wall is the west wall
	assert.Equal(t, West, triangles[4].Side)
	assert.Equal(t, [3]geom.PointZ{{0, 0, -10}, {0, 10, 9.8}, {0, 0, 10}}, triangles[4].V)
	assert.Equal(t, North, triangles[11].Side)
}

func TestNewModel_errors(t *testing.T) {
	bbox := intgeom.Extent{0, 0, 10, 10}
	incomplete := elevation.NewGrid(bbox, 10, []elevation.Point{{Key: elevation.Key{X: 0, Y: 0}, H: 1}})
	_, err := NewModel(incomplete, bbox)
	require.ErrorIs(t, err, elevation.ErrIncompleteGrid)

	line := intgeom.Extent{0, 0, 10, 5}
	flat := elevation.NewGrid(resample.SnapExtent(line, 10), 10, []elevation.Point{
		{Key: elevation.Key{X: 0, Y: 0}, H: 1},
		{Key: elevation.Key{X: 10, Y: 0}, H: 1},
	})
	_, err = NewModel(flat, line)
	require.ErrorIs(t, err, ErrEmptyModel)
}

func TestEachTriangle_count(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {2, 3}, {5, 1}, {7, 4}} {
		t.Run(fmt.Sprintf("%dx%d", size[0], size[1]), func(t *testing.T) {
			m := slope(t, size[0], size[1], 5)
			assert.Len(t, collect(t, m), TriangleCount(size[0], size[1]))
		})
	}
}

type edge [2]geom.PointZ

func newEdge(a, b geom.PointZ) edge {
	for k := range a {
		if a[k] != b[k] {
			if a[k] > b[k] {
				a, b = b, a
			}
			break
		}
	}
	return edge{a, b}
}

func TestEachTriangle_closed(t *testing.T) {
	m := slope(t, 3, 2, 10)
	edges := map[edge]int{}
	for _, tr := range collect(t, m) {
		for k := range tr.V {
			edges[newEdge(tr.V[k], tr.V[(k+1)%3])]++
		}
	}
	for e, n := range edges {
		assert.Equalf(t, 2, n, "edge %v", e)
	}
}

func TestEachTriangle_bounds(t *testing.T) {
	m := slope(t, 4, 3, 5)
	x, y := m.Size()
	require.NoError(t, m.EachTriangle(func(tr Triangle) error {
		for _, v := range tr.V {
			assert.True(t, v[0] >= 0 && v[0] <= float64(x))
			assert.True(t, v[1] >= 0 && v[1] <= float64(y))
			assert.GreaterOrEqual(t, v[2], m.Floor())
			assert.LessOrEqual(t, v[2], m.Top())
			switch tr.Side {
			case Bottom:
				assert.Equal(t, m.Floor(), v[2])
			case West:
				assert.Zero(t, v[0])
			case East:
				assert.Equal(t, float64(x), v[0])
			case South:
				assert.Zero(t, v[1])
			case North:
				assert.Equal(t, float64(y), v[1])
			}
		}
		return nil
	}))
}

func TestEachWallQuad(t *testing.T) {
	m := slope(t, 3, 2, 10)
	counts := map[Side]int{}
	require.NoError(t, m.EachWall(func(q Quad) error {
		counts[q.Side]++
		return nil
	}))
	assert.Equal(t, map[Side]int{West: 2, East: 2, South: 3, North: 3}, counts)

	var east []Quad
	require.NoError(t, m.EachWallQuad(East, func(q Quad) error {
		east = append(east, q)
		return nil
	}))
	require.Len(t, east, 2)
	assert.Equal(t, [4]geom.PointZ{{30, 0, 90}, {30, 0, 103}, {30, 10, 105}, {30, 10, 90}}, east[0].V)
}

func TestBottomQuad(t *testing.T) {
	m := slope(t, 3, 2, 10)
	assert.Equal(t, [4]geom.PointZ{{0, 0, 90}, {30, 0, 90}, {30, 20, 90}, {0, 20, 90}}, m.BottomQuad().V)
}

func TestSide_Normal(t *testing.T) {
	for _, side := range Sides {
		n := side.Normal()
		assert.Equal(t, 1.0, n[0]*n[0]+n[1]*n[1]+n[2]*n[2], side.String())
	}
	assert.Equal(t, [3]float64{0, 0, -1}, Bottom.Normal())
	assert.Equal(t, [3]float64{-1, 0, 0}, West.Normal())
}
