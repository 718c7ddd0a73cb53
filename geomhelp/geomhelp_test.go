package geomhelp

import (
	"strings"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/stretchr/testify/assert"

	"github.com/pdok/terrain/intgeom"
)

func TestFootprint(t *testing.T) {
	got := Footprint(intgeom.Extent{0, 0, 10, 20})
	want := geom.Polygon{{{0, 0}, {10, 0}, {10, 20}, {0, 20}, {0, 0}}}
	assert.Equal(t, want, got)
}

func TestWktMustEncode(t *testing.T) {
	p := geom.Point{1, 2}
	assert.Equal(t, "POINT (1 2)", WktMustEncode(p, 0))

	footprint := Footprint(intgeom.Extent{32394052, 5688261, 32394684, 5688776})
	full := WktMustEncode(footprint, 0)
	assert.True(t, strings.HasPrefix(full, "POLYGON (("))
	short := WktMustEncode(footprint, 20)
	assert.Len(t, short, 20)
	assert.True(t, strings.HasSuffix(short, "..."))
}
