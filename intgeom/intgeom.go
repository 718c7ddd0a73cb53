// Package intgeom resembles github.com/go-spatial/geom but uses int64s internally.
//
// Projected DGM coordinates are whole meters (the source grid has a 1 m resolution
// and the model grid is always a whole multiple of that), so every ordinate
// from the projection onwards is kept as an integer number of meters.
// This avoids floating point errors in the modulo arithmetic for tile and stride alignment.
// Heights are not part of this package, they stay float64.
package intgeom

// M is short for meters.
// Shortened for readability in long lines (in other packages it will also be prefixed with intgeom.)
type M = int64

// ToGeomOrd turns an ordinate represented as an integer into a floating point
func ToGeomOrd(o M) float64 {
	return float64(o)
}

// FromGeomOrd truncates a floating point ordinate towards zero, as the source data convention does
func FromGeomOrd(o float64) M {
	return M(o)
}

