package intgeom

import (
	"github.com/go-spatial/geom"
)

// Point describes a simple 2D point in whole meters
type Point [2]int64

func (p Point) ToGeomPoint() geom.Point {
	return geom.Point{
		ToGeomOrd(p[0]),
		ToGeomOrd(p[1]),
	}
}

// X is the x coordinate (easting) of a point in the projection
func (p Point) X() int64 { return p[0] }

// Y is the y coordinate (northing) of a point in the projection
func (p Point) Y() int64 { return p[1] }

