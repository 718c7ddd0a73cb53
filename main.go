package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/muesli/reflow/wordwrap"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"

	"github.com/pdok/terrain/pipeline"
	"github.com/pdok/terrain/tiles"
)

const CONFIG string = `config`
const BASENAME string = `basename`
const SOURCE string = `sourceDir`
const CORNER1 string = `corner1`
const CORNER2 string = `corner2`
const STRIDE string = `stride`
const VQUANTUM string = `vquantum`
const CATALOG string = `catalog`
const FORMATS string = `formats`
const REJECTPARTIAL string = `rejectPartialTiles`
const PAGESIZE string = `pagesize`
const SUGGEST string = `suggest`

const downloadPage = "https://www.opengeodata.nrw.de/produkte/geobasis/dgm/dgm1/"

const hintWidth = 72

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "terrain"
	app.Usage = "Turns DGM1 elevation tiles into 3D terrain models (STL, DXF, CAD scripts)"
	app.Version = versioninfo.Short()

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     CONFIG,
			Usage:    "YAML file with values for any of the other flags",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(CONFIG)},
		},
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:     BASENAME,
			Aliases:  []string{"n"},
			Usage:    "Base name of the output files. Existing files with this name and the format suffixes are overwritten. E.g. out/hattingen",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(BASENAME)},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:     SOURCE,
			Aliases:  []string{"s"},
			Usage:    "Directory with the unpacked DGM1 XYZ files",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(SOURCE)},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:     CORNER1,
			Aliases:  []string{"a"},
			Usage:    `Corner of the box as latitude,longitude in decimal degrees. E.g.: 51.335757,7.479087`,
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(CORNER1)},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:     CORNER2,
			Aliases:  []string{"b"},
			Usage:    `Opposite corner of the box as latitude,longitude in decimal degrees`,
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(CORNER2)},
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:     STRIDE,
			Aliases:  []string{"k"},
			Usage:    "Horizontal resolution in meters. Tip: start with about 1000 points (see --suggest) and refine in later runs",
			Value:    1,
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(STRIDE)},
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:     VQUANTUM,
			Aliases:  []string{"q"},
			Usage:    "Vertical resolution in centimeters. 100 or more gives the terraced look of architectural models",
			Value:    1,
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(VQUANTUM)},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:     CATALOG,
			Aliases:  []string{"c"},
			Usage:    "Catalog of the download archives and the XYZ files they contain, used to name the archives of missing tiles",
			Value:    "Gelaendekatalog.csv",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(CATALOG)},
		}),
		altsrc.NewStringSliceFlag(&cli.StringSliceFlag{
			Name:     FORMATS,
			Aliases:  []string{"f"},
			Usage:    "Formats to write, all but gpkg by default. One or more of: " + strings.Join(pipeline.AllFormats(), ", "),
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(FORMATS)},
		}),
		altsrc.NewBoolFlag(&cli.BoolFlag{
			Name:     REJECTPARTIAL,
			Usage:    "Stop when an XYZ file has a malformed line, instead of using the points before it",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(REJECTPARTIAL)},
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:     PAGESIZE,
			Aliases:  []string{"p"},
			Usage:    "Page Size, how many points are written per transaction to the GeoPackage",
			Value:    1000,
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(PAGESIZE)},
		}),
		&cli.BoolFlag{
			Name:     SUGGEST,
			Usage:    "Only suggest a horizontal resolution for the box, without reading any tiles",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(SUGGEST)},
		},
	}
	app.Flags = flags
	app.Before = altsrc.InitInputSourceWithContext(flags, altsrc.NewYamlSourceFromFlagFunc(CONFIG))

	app.Action = func(c *cli.Context) error {
		if c.Bool(SUGGEST) {
			suggestion, err := pipeline.Suggest(c.String(CORNER1), c.String(CORNER2))
			if err != nil {
				return err
			}
			log.Printf("with a resolution of %d m you would get about %d points", suggestion.Stride, suggestion.Points)
			return nil
		}

		cfg := pipeline.Config{
			BaseName:           c.String(BASENAME),
			SourceDir:          c.String(SOURCE),
			Corner1:            c.String(CORNER1),
			Corner2:            c.String(CORNER2),
			Stride:             int64(c.Int(STRIDE)),
			VQuantum:           int64(c.Int(VQUANTUM)),
			CatalogPath:        c.String(CATALOG),
			Formats:            splitFormats(c.StringSlice(FORMATS)),
			RejectPartialTiles: c.Bool(REJECTPARTIAL),
			GpkgPageSize:       c.Int(PAGESIZE),
		}
		log.Println("=== start ===")
		_, err := pipeline.Run(cfg)
		var missing *tiles.MissingDataError
		if errors.As(err, &missing) {
			fmt.Fprintln(os.Stderr, missingDataHint(missing, cfg.SourceDir))
		}
		if err != nil {
			return err
		}
		log.Println("=== done ===")
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// splitFormats allows both -f xyz -f dxf and -f xyz,dxf
func splitFormats(values []string) []string {
	var formats []string
	for _, v := range values {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				formats = append(formats, f)
			}
		}
	}
	return formats
}

// missingDataHint tells the user which archives to download and where to put their contents
func missingDataHint(missing *tiles.MissingDataError, sourceDir string) string {
	var sb strings.Builder
	sb.WriteString(wordwrap.String(fmt.Sprintf(
		"Please download the missing ZIP archives first and unpack the XYZ files they contain into %s.", sourceDir),
		hintWidth))
	sb.WriteString("\n\n")
	if len(missing.Archives) > 0 {
		sb.WriteString("The missing tiles can be found in these archives:\n\n")
		sb.WriteString(strings.Join(missing.Archives, "\n"))
	} else {
		names := make([]string, len(missing.Missing))
		for i, id := range missing.Missing {
			names[i] = id.Filename()
		}
		sb.WriteString(wordwrap.String(
			"None of the missing tiles is listed in the catalog. Look for these files on the download page:", hintWidth))
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(names, "\n"))
	}
	sb.WriteString("\n\nDownload page:\n" + downloadPage)
	return sb.String()
}
