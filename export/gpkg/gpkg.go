// Package gpkg writes the grid of a model as a point layer in a GeoPackage, for a look at the selection in a GIS.
package gpkg

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/gpkg"

	"github.com/pdok/terrain/mesh"
	"github.com/pdok/terrain/utm"
)

const (
	DefaultTable    = "terrain_points"
	DefaultPageSize = 1000

	geometryColumn = "geom"
)

// Target writes one point per grid node with its height, in ETRS89 / UTM (EPSG:258zz)
type Target struct {
	// Zone of the grid eastings, the zone digits are stripped from the coordinates
	Zone     int
	Table    string
	PageSize int
}

func (Target) Name() string   { return "gpkg" }
func (Target) Suffix() string { return ".gpkg" }

// SRS returns the ETRS89 / UTM spatial reference system of a zone
func SRS(zone int) gpkg.SpatialReferenceSystem {
	name := fmt.Sprintf("ETRS89 / UTM zone %dN", zone)
	return gpkg.SpatialReferenceSystem{
		Name:                   name,
		ID:                     25800 + zone,
		Organization:           "EPSG",
		OrganizationCoordsysID: 25800 + zone,
		Definition: fmt.Sprintf(`PROJCS["%s",GEOGCS["ETRS89",DATUM["European_Terrestrial_Reference_System_1989",`+
			`SPHEROID["GRS 1980",6378137,298.257222101]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]],`+
			`PROJECTION["Transverse_Mercator"],PARAMETER["latitude_of_origin",0],PARAMETER["central_meridian",%d],`+
			`PARAMETER["scale_factor",0.9996],PARAMETER["false_easting",500000],PARAMETER["false_northing",0],UNIT["metre",1]]`,
			name, 6*zone-183),
		Description: name,
	}
}

type row struct {
	easting, northing int64
	height            float64
	point             geom.Point
}

// ExportFile replaces the GeoPackage at path by a new one with a single point table
func (t Target) ExportFile(path string, m *mesh.Model) error {
	if t.Zone < 1 || t.Zone > 60 {
		return fmt.Errorf("invalid UTM zone %d", t.Zone)
	}
	table := t.Table
	if table == "" {
		table = DefaultTable
	}
	pageSize := t.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	handle, err := gpkg.Open(path)
	if err != nil {
		return fmt.Errorf("error opening GeoPackage: %w", err)
	}
	defer handle.Close()

	srs := SRS(t.Zone)
	if err = handle.UpdateSRS(srs); err != nil {
		return err
	}
	if err = buildTable(handle, table, srs); err != nil {
		return err
	}

	grid := m.Grid()
	var rows []row
	var ext *geom.Extent
	var count int
	err = m.Each(func(i, j int, h float64) error {
		k := grid.KeyAt(i, j)
		easting, err := utm.FromGridEasting(k.X, t.Zone)
		if err != nil {
			return err
		}
		p := geom.Point{float64(easting), float64(k.Y)}
		rows = append(rows, row{easting: easting, northing: k.Y, height: h, point: p})
		if ext == nil {
			ext = geom.NewExtent(p)
		} else {
			ext.AddPoints(p)
		}
		if len(rows)%pageSize == 0 {
			if err := writeRows(handle, table, srs, rows); err != nil {
				return err
			}
			count += len(rows)
			rows = rows[:0]
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err = writeRows(handle, table, srs, rows); err != nil {
		return err
	}
	count += len(rows)
	log.Printf("  %d points in table %s", count, table)

	if ext != nil {
		if err = handle.UpdateGeometryExtent(table, ext); err != nil {
			return fmt.Errorf("failed to update extent: %w", err)
		}
	}
	return nil
}

// createSQL creates the point table. The height is a column, the geometry is 2D.
func createSQL(table string) string {
	columns := []string{
		`fid INTEGER PRIMARY KEY AUTOINCREMENT`,
		`easting INTEGER NOT NULL`,
		`northing INTEGER NOT NULL`,
		`height REAL NOT NULL`,
		geometryColumn + ` POINT`,
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%v"(%s);`, table, strings.Join(columns, `, `))
}

func insertSQL(table string) string {
	return `INSERT INTO "` + table + `"(easting,northing,height,` + geometryColumn + `) VALUES(?,?,?,?)`
}

// buildTable creates the table with the necessary gpkg_ information
func buildTable(h *gpkg.Handle, table string, srs gpkg.SpatialReferenceSystem) error {
	if _, err := h.Exec(createSQL(table)); err != nil {
		return fmt.Errorf("error building table in GeoPackage: %w", err)
	}
	err := h.AddGeometryTable(gpkg.TableDescription{
		Name:          table,
		ShortName:     table,
		Description:   "terrain grid points",
		GeometryField: geometryColumn,
		GeometryType:  gpkg.Point,
		SRS:           int32(srs.ID),
		Z:             gpkg.Prohibited,
		M:             gpkg.Prohibited,
	})
	if err != nil {
		return fmt.Errorf("error adding geometry table in GeoPackage: %w", err)
	}
	return nil
}

// writeRows inserts one page of rows in a transaction
func writeRows(h *gpkg.Handle, table string, srs gpkg.SpatialReferenceSystem, rows []row) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := h.Begin()
	if err != nil {
		return fmt.Errorf("could not start a transaction: %w", err)
	}
	stmt, err := tx.Prepare(insertSQL(table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("could not prepare a statement: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		sb, err := gpkg.NewBinary(int32(srs.ID), r.point)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("could not create a binary geometry: %w", err)
		}
		if _, err = stmt.Exec(r.easting, r.northing, r.height, sb); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("could not insert point %d,%d: %w", r.easting, r.northing, err)
		}
	}
	return tx.Commit()
}
