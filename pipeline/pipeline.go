package pipeline

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/pdok/terrain/elevation"
	"github.com/pdok/terrain/export"
	"github.com/pdok/terrain/geomhelp"
	"github.com/pdok/terrain/intgeom"
	"github.com/pdok/terrain/mapslicehelp"
	"github.com/pdok/terrain/mesh"
	"github.com/pdok/terrain/processing"
	"github.com/pdok/terrain/resample"
	"github.com/pdok/terrain/runlog"
	"github.com/pdok/terrain/tiles"
	"github.com/pdok/terrain/utm"
)

// Report sums up a run
type Report struct {
	Zone    int
	BBox    intgeom.Extent
	Extent  intgeom.Extent
	Tiles   []elevation.TileResult
	Summary elevation.Summary
	Floor   float64
	Outputs []processing.Result
}

// Partial returns the tiles of which only the first part could be read
func (r *Report) Partial() []tiles.ID {
	var partial []tiles.ID
	for _, t := range r.Tiles {
		if t.Partial() {
			partial = append(partial, t.Tile)
		}
	}
	return partial
}

// Project parses the corners and returns the grid extent and zone of the box
func Project(corner1, corner2 string) (utm.BoundingBox, intgeom.Extent, int, error) {
	c1, err := utm.ParseLatLon(corner1)
	if err != nil {
		return utm.BoundingBox{}, intgeom.Extent{}, 0, err
	}
	c2, err := utm.ParseLatLon(corner2)
	if err != nil {
		return utm.BoundingBox{}, intgeom.Extent{}, 0, err
	}
	bb := utm.NewBoundingBox(c1, c2)
	extent, zone, err := utm.ProjectBoundingBox(bb)
	return bb, extent, zone, err
}

// Suggestion is a stride for a first, coarse model of a box
type Suggestion struct {
	Stride intgeom.M
	Points int64
}

// Suggest returns a stride giving about resample.DefaultTargetPoints points on the box
func Suggest(corner1, corner2 string) (Suggestion, error) {
	_, bbox, _, err := Project(corner1, corner2)
	if err != nil {
		return Suggestion{}, err
	}
	stride := resample.SuggestStride(bbox.Area(), resample.DefaultTargetPoints)
	return Suggestion{Stride: stride, Points: resample.PointCount(bbox, stride)}, nil
}

// Run converts the box of the config into the configured formats.
// Invalid input, missing tiles and an incomplete grid stop the run before anything is written.
// A failing format does not stop the others, the failures are returned together at the end.
func Run(cfg Config) (*Report, error) {
	if err := cfg.Prepare(); err != nil {
		return nil, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}

	bb, bbox, zone, err := Project(cfg.Corner1, cfg.Corner2)
	if err != nil {
		return nil, err
	}

	runLog, err := runlog.Open(cfg.BaseName + ".log")
	if err != nil {
		return nil, fmt.Errorf("could not open run log: %w", err)
	}
	defer runLog.Close()
	runLog.Record("base name: %s", cfg.BaseName)
	log.Printf("source directory: %s", cfg.SourceDir)

	report := &Report{Zone: zone, BBox: bbox}
	runLog.Record("geodetic corners: %v %v", bb.SW, bb.NE)
	log.Printf("UTM coordinates: %d,%d %d,%d in zone %d", bbox.MinX(), bbox.MinY(), bbox.MaxX(), bbox.MaxY(), zone)
	log.Printf("  extent east-west: %d m", bbox.XSpan())
	log.Printf("  extent north-south: %d m", bbox.YSpan())
	log.Printf("  area: %d m²", bbox.Area())
	runLog.Record("footprint: %s", geomhelp.WktMustEncode(geomhelp.Footprint(bbox), 200))

	ids, err := inventory(bbox, cfg)
	if err != nil {
		return report, err
	}
	log.Printf("all %d required tiles are present", len(ids))

	runLog.Record("horizontal resolution [m]: %d", params.Stride)
	runLog.Record("vertical resolution [cm]: %d", params.VQuantum)
	runLog.Record("formats: %s", strings.Join(mapslicehelp.SortedKeys(mapslicehelp.AsKeys(cfg.Formats)), " "))
	runLog.Record("catalog: %s", cfg.CatalogPath)
	runLog.Record("reject partial tiles: %t", cfg.RejectPartialTiles)
	report.Extent = resample.SnapExtent(bbox, params.Stride)
	log.Printf("distance of the points: %d m", params.Stride)
	log.Printf("  extent east-west: %d m", report.Extent.XSpan())
	log.Printf("  extent north-south: %d m", report.Extent.YSpan())
	log.Printf("  area: %d m² or %.3f km²", report.Extent.Area(), float64(report.Extent.Area())/1e6)

	policy := elevation.AcceptPartialTiles
	if cfg.RejectPartialTiles {
		policy = elevation.RejectPartialTiles
	}
	grid, results, err := elevation.Load(ids, cfg.SourceDir, bbox, params, policy)
	report.Tiles = results
	if err != nil {
		return report, err
	}
	if partial := report.Partial(); len(partial) > 0 {
		log.Printf("%d tile(s) could only be read partially", len(partial))
	}
	report.Summary = grid.Summary()
	log.Printf("highest height found: %.2f m", report.Summary.Max)
	log.Printf("lowest height found: %.2f m", report.Summary.Min)
	log.Printf("mean height: %.2f m, standard deviation %.2f m over %d points",
		report.Summary.Mean, report.Summary.StdDev, report.Summary.Count)

	model, err := mesh.NewModel(grid, bbox)
	if err != nil {
		return report, err
	}
	report.Floor = model.Floor()
	log.Printf("setting the bottom to %.2f m", model.Floor())
	log.Printf("model height: %.2f m", model.Top()-model.Floor())
	nx, ny := model.Cells()
	log.Printf("%d x %d cells, %d triangles", nx, ny, model.TriangleCount())
	if sx, sy := model.Size(); cfg.selected(export.Net{}.Name()) {
		if n := export.NetDecimation(sx, sy, model.Stride(), export.MaxNetNodes); n > 1 {
			runLog.Record("mesh decimation: every %d. point", n)
		}
	}

	targets, err := cfg.targets(zone)
	if err != nil {
		return report, err
	}
	report.Outputs, err = processing.Export(model, cfg.BaseName, targets)
	if err != nil {
		return report, err
	}
	log.Printf("run completed successfully")
	return report, nil
}

// inventory returns the tiles of the box, or a *tiles.MissingDataError naming the archives to download
func inventory(bbox intgeom.Extent, cfg Config) ([]tiles.ID, error) {
	log.Printf("checking the completeness of the elevation data")
	ids, err := tiles.Inventory(bbox, cfg.SourceDir, nil)
	var missing *tiles.MissingDataError
	if !errors.As(err, &missing) {
		return ids, err
	}
	for _, id := range missing.Missing {
		log.Printf("  XYZ file %s is missing", id.Filename())
	}
	catalog, catalogErr := tiles.LoadCatalog(cfg.CatalogPath)
	if catalogErr != nil {
		log.Printf("  cannot look up the archives: %v", catalogErr)
		return nil, missing
	}
	log.Printf("  looking up %d tile(s) in %d catalog entries", len(missing.Missing), catalog.Len())
	missing.Archives = catalog.ResolveAll(missing.Missing)
	return nil, missing
}

func (c *Config) selected(format string) bool {
	_, ok := mapslicehelp.AsKeys(c.Formats)[format]
	return ok
}

// targets in the order of AllFormats, each selected format once
func (c *Config) targets(zone int) ([]processing.Target, error) {
	selected := mapslicehelp.AsKeys(c.Formats)
	var targets []processing.Target
	for _, name := range AllFormats() {
		if _, ok := selected[name]; !ok {
			continue
		}
		if name == GpkgFormat {
			targets = append(targets, c.gpkgTarget(zone))
			continue
		}
		target, err := export.New(name, filepath.Base(c.BaseName))
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}
