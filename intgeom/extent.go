package intgeom

import (
	"github.com/go-spatial/geom"
)

// Extent represents the minx, miny, maxx and maxy.
// Both the min and the max edges are inclusive.
type Extent [4]int64

// NewExtent returns the extent spanned by two opposite corners, given in any order.
func NewExtent(a, b Point) Extent {
	return Extent{
		min(a.X(), b.X()),
		min(a.Y(), b.Y()),
		max(a.X(), b.X()),
		max(a.Y(), b.Y()),
	}
}

func (e Extent) ToGeomExtent() *geom.Extent {
	return &geom.Extent{
		ToGeomOrd(e[0]),
		ToGeomOrd(e[1]),
		ToGeomOrd(e[2]),
		ToGeomOrd(e[3]),
	}
}

/* ========================= ATTRIBUTES ========================= */

// Vertices return the vertices of the Bounding Box. The vertices are ordered in the following manner.
// (minx,miny), (maxx,miny), (maxx,maxy), (minx,maxy)
func (e Extent) Vertices() [][2]int64 {
	return [][2]int64{
		{e.MinX(), e.MinY()},
		{e.MaxX(), e.MinY()},
		{e.MaxX(), e.MaxY()},
		{e.MinX(), e.MaxY()},
	}
}

// Min is the south-west (lower left) corner.
func (e Extent) Min() Point {
	return Point{e[0], e[1]}
}

// Max is the north-east (upper right) corner.
func (e Extent) Max() Point {
	return Point{e[2], e[3]}
}

// MaxX is the larger of the x values.
func (e Extent) MaxX() int64 {
	return e[2]
}

// MinX  is the smaller of the x values.
func (e Extent) MinX() int64 {
	return e[0]
}

// MaxY is the larger of the y values.
func (e Extent) MaxY() int64 {
	return e[3]
}

// MinY is the smaller of the y values.
func (e Extent) MinY() int64 {
	return e[1]
}

// XSpan is the distance of the Extent in X
func (e Extent) XSpan() int64 {
	return e[2] - e[0]
}

// YSpan is the distance of the Extent in Y
func (e Extent) YSpan() int64 {
	return e[3] - e[1]
}

// Area in square meters
func (e Extent) Area() int64 {
	return e.XSpan() * e.YSpan()
}

// ContainsPoint reports whether pt lies within the extent, edges included.
func (e Extent) ContainsPoint(pt Point) bool {
	return e.MinX() <= pt.X() && pt.X() <= e.MaxX() && e.MinY() <= pt.Y() && pt.Y() <= e.MaxY()
}

// Intersects reports whether two (inclusive) extents share at least one point.
func (e Extent) Intersects(o Extent) bool {
	return e.MinX() <= o.MaxX() && o.MinX() <= e.MaxX() && e.MinY() <= o.MaxY() && o.MinY() <= e.MaxY()
}

