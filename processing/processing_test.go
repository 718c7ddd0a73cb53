package processing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/terrain/elevation"
	"github.com/pdok/terrain/intgeom"
	"github.com/pdok/terrain/mesh"
)

type countTarget struct{}

func (countTarget) Name() string   { return "count" }
func (countTarget) Suffix() string { return ".count.txt" }

func (countTarget) Export(w io.Writer, m *mesh.Model) error {
	_, err := fmt.Fprintf(w, "%d\n", m.TriangleCount())
	return err
}

var errBroken = errors.New("broken")

type brokenTarget struct{}

func (brokenTarget) Name() string   { return "broken" }
func (brokenTarget) Suffix() string { return ".broken" }

func (brokenTarget) Export(w io.Writer, _ *mesh.Model) error {
	_, _ = io.WriteString(w, "half")
	return errBroken
}

type fileTarget struct{}

func (fileTarget) Name() string   { return "file" }
func (fileTarget) Suffix() string { return ".file" }

func (fileTarget) ExportFile(path string, _ *mesh.Model) error {
	return os.WriteFile(path, []byte("file\n"), 0o600)
}

type nothingTarget struct{}

func (nothingTarget) Name() string   { return "nothing" }
func (nothingTarget) Suffix() string { return ".nothing" }

func testModel(t *testing.T) *mesh.Model {
	t.Helper()
	bbox := intgeom.Extent{0, 0, 2, 1}
	var points []elevation.Point
	for x := intgeom.M(0); x <= 2; x++ {
		for y := intgeom.M(0); y <= 1; y++ {
			points = append(points, elevation.Point{Key: elevation.Key{X: x, Y: y}, H: 1})
		}
	}
	m, err := mesh.NewModel(elevation.NewGrid(bbox, 1, points), bbox)
	require.NoError(t, err)
	return m
}

func TestExport(t *testing.T) {
	base := filepath.Join(t.TempDir(), "model")
	targets := []Target{brokenTarget{}, countTarget{}, nothingTarget{}, fileTarget{}}

	results, err := Export(testModel(t), base, targets)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBroken)
	assert.ErrorContains(t, err, "broken: broken")
	assert.ErrorContains(t, err, "nothing cannot export")

	require.Len(t, results, 4)
	assert.ErrorIs(t, results[0].Err, errBroken)
	assert.NoError(t, results[1].Err)
	assert.Error(t, results[2].Err)
	assert.NoError(t, results[3].Err)

	// the broken target did not stop the others
	content, err := os.ReadFile(base + ".count.txt")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\n", mesh.TriangleCount(2, 1)), string(content))
	assert.Equal(t, base+".count.txt", results[1].Path)

	content, err = os.ReadFile(base + ".file")
	require.NoError(t, err)
	assert.Equal(t, "file\n", string(content))
}

func TestExport_unwritable(t *testing.T) {
	base := filepath.Join(t.TempDir(), "missing", "model")
	_, err := Export(testModel(t), base, []Target{countTarget{}})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExport_nothing(t *testing.T) {
	results, err := Export(testModel(t), filepath.Join(t.TempDir(), "model"), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
