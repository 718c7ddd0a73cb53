// Package resample holds the horizontal and vertical resolution of a model
// and the derived working bounds.
package resample

import (
	"fmt"
	"math"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/pdok/terrain/intgeom"
	"github.com/pdok/terrain/mathhelp"
)

const (
	// DefaultTargetPoints is roughly how many grid points a first model of an area should have
	DefaultTargetPoints = 1000

	// floorPad is the minimal distance between the lowest terrain point and the bottom of the model
	floorPad = 10
)

// Params are the resampling parameters of a run
type Params struct {
	// Horizontal distance between grid points in meters. The source data has 1 m.
	Stride intgeom.M `default:"1" validate:"min=1"`
	// Vertical resolution in centimeters. The source data has 1 cm.
	VQuantum int64 `default:"1" validate:"min=1"`
}

// NewParams applies the defaults for zero values and validates the result
func NewParams(stride intgeom.M, vQuantum int64) (Params, error) {
	p := Params{Stride: stride, VQuantum: vQuantum}
	if err := defaults.Set(&p); err != nil {
		return p, err
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (p Params) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid resampling parameters: %w", err)
	}
	return nil
}

// Quantize rounds a height in meters to the nearest multiple of VQuantum centimeters.
// Heights are untouched for a quantum of 1 cm, the source resolution.
func (p Params) Quantize(h float64) float64 {
	if p.VQuantum == 1 {
		return h
	}
	q := float64(p.VQuantum)
	return mathhelp.RoundHalfEven(math.RoundToEven(h*100/q)*q/100, 2)
}

// Aligned reports whether v lies on the stride grid that starts at origin
func (p Params) Aligned(v, origin intgeom.M) bool {
	return mathhelp.EuclidianMod(v-origin, p.Stride) == 0
}

// SnapMax rounds max down so that (max - min) is a multiple of stride
func SnapMax(max, min, stride intgeom.M) intgeom.M {
	return max - mathhelp.EuclidianMod(max-min, stride)
}

// SnapExtent returns the working extent: same min corner, max corner snapped down to the stride grid,
// so every cell of the grid has four corners.
func SnapExtent(bbox intgeom.Extent, stride intgeom.M) intgeom.Extent {
	return intgeom.Extent{
		bbox.MinX(),
		bbox.MinY(),
		SnapMax(bbox.MaxX(), bbox.MinX(), stride),
		SnapMax(bbox.MaxY(), bbox.MinY(), stride),
	}
}

// SuggestStride suggests a stride giving about targetPoints grid points on the area (m²). Advisory only.
func SuggestStride(area int64, targetPoints int64) intgeom.M {
	if targetPoints < 1 {
		targetPoints = DefaultTargetPoints
	}
	return max(1, intgeom.M(math.Sqrt(float64(area)/float64(targetPoints))))
}

// PointCount is the number of grid points the box would get at the stride, as announced with a suggestion
func PointCount(bbox intgeom.Extent, stride intgeom.M) int64 {
	return (bbox.XSpan() / stride) * (bbox.YSpan() / stride)
}

// ModelFloor is the height of the bottom of the solid: at least 10 m below the lowest point, on a multiple of 10 m
func ModelFloor(minHeight float64) float64 {
	return floorPad*math.Floor(minHeight/floorPad) - floorPad
}
