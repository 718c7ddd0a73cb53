package export

import (
	"io"

	"github.com/pdok/terrain/mesh"
)

// XYZ dumps the retained grid points with their absolute coordinates, in the source tile format
type XYZ struct{}

func (XYZ) Name() string   { return "xyz" }
func (XYZ) Suffix() string { return ".xyz" }

func (XYZ) Export(w io.Writer, m *mesh.Model) error {
	t := &textWriter{w: w}
	grid := m.Grid()
	err := m.Each(func(i, j int, h float64) error {
		k := grid.KeyAt(i, j)
		t.printf("%d %d %.2f\n", k.X, k.Y, h)
		return t.err
	})
	if err != nil {
		return err
	}
	return t.err
}
