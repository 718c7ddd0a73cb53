// Package geomhelp formats geometries for the run log.
package geomhelp

import (
	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/muesli/reflow/truncate"

	"github.com/pdok/terrain/intgeom"
)

// Footprint is the closed ring of an extent as a polygon, counter clockwise from the lower left corner
func Footprint(e intgeom.Extent) geom.Polygon {
	vertices := e.Vertices()
	ring := make([][2]float64, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, intgeom.Point(v).ToGeomPoint())
	}
	ring = append(ring, ring[0])
	return geom.Polygon{ring}
}

// WktMustEncode encodes g as WKT. Longer results than maxLen are cut off with "...", 0 means no limit.
func WktMustEncode(g geom.Geometry, maxLen uint) string {
	if maxLen == 0 {
		return wkt.MustEncode(g)
	}
	return truncate.StringWithTail(wkt.MustEncode(g), maxLen, "...")
}
