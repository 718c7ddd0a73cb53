// Package elevation holds the resampled height grid of a model and reads it from DGM1 XYZ tiles.
package elevation

import (
	"errors"
	"fmt"
	"math"

	"github.com/pdok/terrain/intgeom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrIncompleteGrid = errors.New("elevation grid is incomplete")

// Key is the absolute (zone-prefixed easting, northing) position of a grid node
type Key struct {
	X intgeom.M
	Y intgeom.M
}

func (k Key) Point() intgeom.Point {
	return intgeom.Point{k.X, k.Y}
}

// Grid is a dense, stride-aligned height grid. Nodes without a source point hold NaN.
// Only the loader writes to it, after loading it is read-only.
type Grid struct {
	extent  intgeom.Extent // of the nodes, max edge on the stride grid
	stride  intgeom.M
	nx, ny  int
	heights []float64 // x-major: index = i*ny + j
	count   int
	minH    float64
	maxH    float64
}

// newGrid allocates an empty grid. The extent's max corner must be snapped to the stride.
func newGrid(extent intgeom.Extent, stride intgeom.M) *Grid {
	nx := int(extent.XSpan()/stride) + 1
	ny := int(extent.YSpan()/stride) + 1
	heights := make([]float64, nx*ny)
	for i := range heights {
		heights[i] = math.NaN()
	}
	return &Grid{
		extent:  extent,
		stride:  stride,
		nx:      nx,
		ny:      ny,
		heights: heights,
		minH:    math.Inf(1),
		maxH:    math.Inf(-1),
	}
}

// NewGrid builds a grid over the extent (max corner on the stride) from retained points.
// Points that are not grid nodes are ignored.
func NewGrid(extent intgeom.Extent, stride intgeom.M, points []Point) *Grid {
	g := newGrid(extent, stride)
	for _, p := range points {
		g.set(p.Key, p.H)
	}
	return g
}

// index of the node at k, false if k is outside the grid or not on the stride
func (g *Grid) index(k Key) (int, bool) {
	if !g.extent.ContainsPoint(k.Point()) {
		return 0, false
	}
	dx := k.X - g.extent.MinX()
	dy := k.Y - g.extent.MinY()
	if dx%g.stride != 0 || dy%g.stride != 0 {
		return 0, false
	}
	return int(dx/g.stride)*g.ny + int(dy/g.stride), true
}

// set stores a height and updates the observed min/max. Returns false for keys that are not grid nodes.
func (g *Grid) set(k Key, h float64) bool {
	i, ok := g.index(k)
	if !ok {
		return false
	}
	if math.IsNaN(g.heights[i]) {
		g.count++
	}
	g.heights[i] = h
	g.minH = math.Min(g.minH, h)
	g.maxH = math.Max(g.maxH, h)
	return true
}

// Height at the absolute position k
func (g *Grid) Height(k Key) (float64, bool) {
	i, ok := g.index(k)
	if !ok || math.IsNaN(g.heights[i]) {
		return 0, false
	}
	return g.heights[i], true
}

// At returns the height of node (i, j), counted from the lower left corner
func (g *Grid) At(i, j int) (float64, bool) {
	if i < 0 || j < 0 || i >= g.nx || j >= g.ny {
		return 0, false
	}
	h := g.heights[i*g.ny+j]
	return h, !math.IsNaN(h)
}

// KeyAt is the absolute position of node (i, j)
func (g *Grid) KeyAt(i, j int) Key {
	return Key{
		X: g.extent.MinX() + intgeom.M(i)*g.stride,
		Y: g.extent.MinY() + intgeom.M(j)*g.stride,
	}
}

// Extent of the grid nodes
func (g *Grid) Extent() intgeom.Extent { return g.extent }

func (g *Grid) Stride() intgeom.M { return g.stride }

// Nodes returns the number of nodes along x and y
func (g *Grid) Nodes() (nx, ny int) { return g.nx, g.ny }

// Len is the number of nodes that have a height
func (g *Grid) Len() int { return g.count }

// MinHeight is the lowest retained height, +Inf for an empty grid
func (g *Grid) MinHeight() float64 { return g.minH }

// MaxHeight is the highest retained height, -Inf for an empty grid
func (g *Grid) MaxHeight() float64 { return g.maxH }

// Each calls fn for every node with a height; x outer, y inner, both ascending
func (g *Grid) Each(fn func(k Key, h float64)) {
	for i := 0; i < g.nx; i++ {
		for j := 0; j < g.ny; j++ {
			h := g.heights[i*g.ny+j]
			if math.IsNaN(h) {
				continue
			}
			fn(g.KeyAt(i, j), h)
		}
	}
}

// Complete returns ErrIncompleteGrid if any node has no height
func (g *Grid) Complete() error {
	total := g.nx * g.ny
	if g.count == total {
		return nil
	}
	for i := 0; i < g.nx; i++ {
		for j := 0; j < g.ny; j++ {
			if math.IsNaN(g.heights[i*g.ny+j]) {
				k := g.KeyAt(i, j)
				return fmt.Errorf("%w: %d of %d nodes have no height, first at %d,%d",
					ErrIncompleteGrid, total-g.count, total, k.X, k.Y)
			}
		}
	}
	return nil
}

// Summary describes the retained heights
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

func (g *Grid) Summary() Summary {
	heights := make([]float64, 0, g.count)
	for _, h := range g.heights {
		if !math.IsNaN(h) {
			heights = append(heights, h)
		}
	}
	if len(heights) == 0 {
		return Summary{Min: g.minH, Max: g.maxH}
	}
	mean, std := stat.MeanStdDev(heights, nil)
	if len(heights) < 2 {
		std = 0
	}
	return Summary{
		Count:  len(heights),
		Min:    floats.Min(heights),
		Max:    floats.Max(heights),
		Mean:   mean,
		StdDev: std,
	}
}
