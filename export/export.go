// Package export holds the text and binary encodings of a model.
//
// Every format reads the same frozen mesh.Model. Coordinates are written in the local frame of the model
// (lower left corner at 0,0), except for the XYZ dump which keeps the absolute grid coordinates.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-spatial/geom"

	"github.com/pdok/terrain/intgeom"
	"github.com/pdok/terrain/mathhelp"
	"github.com/pdok/terrain/mesh"
	"github.com/pdok/terrain/processing"
)

var ErrUnknownFormat = errors.New("unknown format")

// Formats are the names of the built-in formats, in the order they are written
var Formats = []string{
	XYZ{}.Name(),
	DXF{}.Name(),
	Boxes{}.Name(),
	Prisms{}.Name(),
	Net{}.Name(),
	Faces{}.Name(),
	ASCIISTL{}.Name(),
	BinarySTL{}.Name(),
}

// New returns the target for a format name. The base name is used as solid name in the ASCII STL.
func New(name string, base string) (processing.StreamTarget, error) {
	switch name {
	case XYZ{}.Name():
		return XYZ{}, nil
	case DXF{}.Name():
		return DXF{}, nil
	case Boxes{}.Name():
		return Boxes{}, nil
	case Prisms{}.Name():
		return Prisms{}, nil
	case Net{}.Name():
		return Net{MaxNodes: MaxNetNodes}, nil
	case Faces{}.Name():
		return Faces{}, nil
	case ASCIISTL{}.Name():
		return ASCIISTL{Solid: base + ASCIISTL{}.Suffix()}, nil
	case BinarySTL{}.Name():
		return BinarySTL{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// textWriter keeps the first write error, so a format can be written without checking every line
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, a ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, a...)
}

func (t *textWriter) print(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}

// xy returns the local position of a vertex in whole meters
func xy(p geom.PointZ) (intgeom.M, intgeom.M) {
	return intgeom.FromGeomOrd(p[0]), intgeom.FromGeomOrd(p[1])
}

// height formats a z value: terrain heights as short as possible, floor and walls with 2 decimals
func height(side mesh.Side, z float64) string {
	if side == mesh.Top {
		return mathhelp.ShortFloat(z)
	}
	return strconv.FormatFloat(z, 'f', 2, 64)
}
