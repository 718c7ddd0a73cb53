// Package pipeline runs a complete conversion: from two geodetic corners and a directory of DGM1 tiles
// to the model files.
package pipeline

import (
	"fmt"
	"slices"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/pdok/terrain/export"
	"github.com/pdok/terrain/export/gpkg"
	"github.com/pdok/terrain/resample"
)

// GpkgFormat is the optional GeoPackage point layer
const GpkgFormat = "gpkg"

// Config is everything a run needs. The front end (CLI, config file) fills it, Run validates it.
type Config struct {
	// Base name of the outputs, e.g. "out/bochum" gives out/bochum.dxf, out/bochum.log, ...
	BaseName string `validate:"required"`
	// Directory with the unpacked XYZ tiles
	SourceDir string `validate:"required"`
	// Two opposite corners as "lat,lon" in decimal degrees
	Corner1 string `validate:"required"`
	Corner2 string `validate:"required"`

	// Horizontal resolution in meters
	Stride int64 `default:"1" validate:"min=1"`
	// Vertical resolution in centimeters
	VQuantum int64 `default:"1" validate:"min=1"`

	// Catalog of the download archives, only read when tiles are missing
	CatalogPath string `default:"Gelaendekatalog.csv"`
	// Formats to write, all built-in formats when empty
	Formats []string `validate:"dive,oneof=xyz dxf scr-boxes scr-prisms scr-mesh scr-faces stl-ascii stl-binary gpkg"`
	// Fail instead of using the points before a malformed line of a tile
	RejectPartialTiles bool
	// Points per transaction in the GeoPackage
	GpkgPageSize int `default:"1000" validate:"min=1"`
}

// SetDefaults is called by defaults.Set after the struct tags are applied
func (c *Config) SetDefaults() {
	if len(c.Formats) == 0 {
		c.Formats = slices.Clone(export.Formats)
	}
}

// AllFormats are the names that can be used in Config.Formats, in the order the outputs are written
func AllFormats() []string {
	return append(slices.Clone(export.Formats), GpkgFormat)
}

// Prepare applies the defaults and validates the config
func (c *Config) Prepare() error {
	if err := defaults.Set(c); err != nil {
		return err
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Params are the resampling parameters of the config
func (c *Config) Params() (resample.Params, error) {
	return resample.NewParams(c.Stride, c.VQuantum)
}

func (c *Config) gpkgTarget(zone int) gpkg.Target {
	return gpkg.Target{Zone: zone, Table: gpkg.DefaultTable, PageSize: c.GpkgPageSize}
}
