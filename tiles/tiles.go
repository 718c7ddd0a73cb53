// Package tiles knows the DGM1 tiling: which 2x2 km tiles cover a box, which of them are present
// in the source directory and in which download archives the missing ones can be found.
package tiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdok/terrain/intgeom"
	"github.com/pdok/terrain/mathhelp"
)

const (
	// Size of a tile in meters, in both directions
	Size intgeom.M = 2000

	// e.g. dgm1_32368_5700_2_nw.xyz holds eastings 32368000 to 32369999 and northings 5700000 to 5701999
	filenameFormat = "dgm1_%d_%d_2_nw.xyz"
)

// ID identifies a tile by its lower left corner (zone-prefixed easting, northing) in meters
type ID struct {
	E intgeom.M
	N intgeom.M
}

// FromPoint returns the tile containing p
func FromPoint(p intgeom.Point) ID {
	return ID{
		E: mathhelp.FloorMultiple(p.X(), Size),
		N: mathhelp.FloorMultiple(p.Y(), Size),
	}
}

// Filename is the name of the XYZ file in the source directory (coordinates in kilometers)
func (id ID) Filename() string {
	return fmt.Sprintf(filenameFormat, id.E/1000, id.N/1000)
}

func (id ID) String() string {
	return id.Filename()
}

// Extent of the tile footprint, edges inclusive
func (id ID) Extent() intgeom.Extent {
	return intgeom.Extent{id.E, id.N, id.E + Size - 1, id.N + Size - 1}
}

// Required returns every tile whose footprint intersects the box, the tile containing the max corner included.
// Ordered by easting first, then northing.
func Required(bbox intgeom.Extent) []ID {
	lowerLeft := FromPoint(bbox.Min())
	upperRight := FromPoint(bbox.Max())
	ids := make([]ID, 0, ((upperRight.E-lowerLeft.E)/Size+1)*((upperRight.N-lowerLeft.N)/Size+1))
	for e := lowerLeft.E; e <= upperRight.E; e += Size {
		for n := lowerLeft.N; n <= upperRight.N; n += Size {
			ids = append(ids, ID{E: e, N: n})
		}
	}
	return ids
}

// Path of the tile's file in sourceDir
func Path(sourceDir string, id ID) string {
	return filepath.Join(sourceDir, id.Filename())
}

// CheckPresence returns the tiles that have no regular file in sourceDir.
// Errors other than "does not exist" (e.g. permissions) are returned as such.
func CheckPresence(ids []ID, sourceDir string) ([]ID, error) {
	var missing []ID
	for _, id := range ids {
		info, err := os.Stat(Path(sourceDir, id))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, id)
		case err != nil:
			return nil, fmt.Errorf("could not check tile %s: %w", id, err)
		case !info.Mode().IsRegular():
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// MissingDataError means not all required tiles are present. Processing never continues with partial coverage.
type MissingDataError struct {
	Missing  []ID
	Archives []string
}

func (e *MissingDataError) Error() string {
	names := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		names[i] = id.Filename()
	}
	msg := fmt.Sprintf("%d required tile(s) missing: %s", len(e.Missing), strings.Join(names, ", "))
	if len(e.Archives) > 0 {
		msg += fmt.Sprintf("; they can be found in: %s", strings.Join(e.Archives, ", "))
	}
	return msg
}

// Inventory returns the tiles needed for bbox, or a *MissingDataError if any of them is absent from sourceDir.
// The catalog is only used for the diagnostics and may be nil.
func Inventory(bbox intgeom.Extent, sourceDir string, catalog *Catalog) ([]ID, error) {
	required := Required(bbox)
	missing, err := CheckPresence(required, sourceDir)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		var archives []string
		if catalog != nil {
			archives = catalog.ResolveAll(missing)
		}
		return nil, &MissingDataError{Missing: missing, Archives: archives}
	}
	return required, nil
}
