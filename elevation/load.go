package elevation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pdok/terrain/intgeom"
	"github.com/pdok/terrain/resample"
	"github.com/pdok/terrain/tiles"
)

var ErrPartialTile = errors.New("tile could not be read completely")

// Policy decides what happens with the points of a tile that has a malformed line
type Policy int

const (
	// AcceptPartialTiles keeps the points read before the malformed line and skips the rest of that tile
	AcceptPartialTiles Policy = iota
	// RejectPartialTiles fails the load on the first malformed line
	RejectPartialTiles
)

// Point is a retained source point
type Point struct {
	Key
	H float64
}

// TileParseWarning is a line of a tile that is not "<easting> <northing> <height>".
// The remainder of that tile is skipped.
type TileParseWarning struct {
	Tile   tiles.ID
	LineNo int
	Line   string
	Err    error
}

func (w *TileParseWarning) Error() string {
	return fmt.Sprintf("wrong format in %s line %d %q: %v", w.Tile.Filename(), w.LineNo, w.Line, w.Err)
}

func (w *TileParseWarning) Unwrap() error {
	return w.Err
}

// TileResult is the outcome of reading one tile: Ok when Warning is nil, partial otherwise
type TileResult struct {
	Tile    tiles.ID
	Points  []Point
	Lines   int
	Warning *TileParseWarning
}

func (r TileResult) Partial() bool {
	return r.Warning != nil
}

// Load reads the tiles and returns the height grid for the stride-snapped box.
// A partial tile is either accepted or fails the load, depending on the policy.
func Load(ids []tiles.ID, sourceDir string, bbox intgeom.Extent, params resample.Params, policy Policy) (*Grid, []TileResult, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}
	grid := newGrid(resample.SnapExtent(bbox, params.Stride), params.Stride)
	results := make([]TileResult, 0, len(ids))
	for _, id := range ids {
		log.Printf("using XYZ file %s", id.Filename())
		result, err := readTileFile(tiles.Path(sourceDir, id), id, bbox, params)
		if err != nil {
			return nil, results, err
		}
		results = append(results, result)
		if result.Partial() {
			if policy == RejectPartialTiles {
				return nil, results, fmt.Errorf("%w: %w", ErrPartialTile, result.Warning)
			}
			log.Printf("  %v, skipping the rest of the file", result.Warning)
		}
		for _, p := range result.Points {
			grid.set(p.Key, p.H)
		}
		log.Printf("  %d lines, %d points retained", result.Lines, len(result.Points))
	}
	return grid, results, nil
}

func readTileFile(path string, id tiles.ID, bbox intgeom.Extent, params resample.Params) (TileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return TileResult{Tile: id}, fmt.Errorf("could not open tile: %w", err)
	}
	defer f.Close()
	return ReadTile(f, id, bbox, params)
}

// ReadTile reads the points of one tile that lie in the box and on the stride grid, heights quantized.
// A malformed line ends the reading of the tile, the points before it are kept in the result.
// Only I/O errors are returned as error.
func ReadTile(r io.Reader, id tiles.ID, bbox intgeom.Extent, params resample.Params) (TileResult, error) {
	result := TileResult{Tile: id}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		result.Lines++
		line := scanner.Text()
		// e.g. "32372000.00 5706000.00   61.32"
		x, y, h, err := parseLine(line)
		if err != nil {
			result.Warning = &TileParseWarning{Tile: id, LineNo: result.Lines, Line: line, Err: err}
			return result, nil
		}
		k := Key{X: x, Y: y}
		if !bbox.ContainsPoint(k.Point()) {
			continue
		}
		if !params.Aligned(x, bbox.MinX()) || !params.Aligned(y, bbox.MinY()) {
			continue
		}
		result.Points = append(result.Points, Point{Key: k, H: params.Quantize(h)})
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("could not read %s: %w", id.Filename(), err)
	}
	return result, nil
}

func parseLine(line string) (x, y intgeom.M, h float64, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	var values [3]float64
	for i, field := range fields {
		values[i], err = strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, 0, 0, err
		}
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			return 0, 0, 0, fmt.Errorf("field %d is not finite: %q", i+1, field)
		}
	}
	return intgeom.FromGeomOrd(values[0]), intgeom.FromGeomOrd(values[1]), values[2], nil
}
