package processing

import (
	"io"

	"github.com/pdok/terrain/mesh"
)

// Target is one output format of a model
type Target interface {
	// Name as used on the command line, e.g. "stl-binary"
	Name() string
	// Suffix appended to the base name, e.g. ".binary.stl"
	Suffix() string
}

// StreamTarget encodes a model into a byte stream
type StreamTarget interface {
	Target
	Export(w io.Writer, m *mesh.Model) error
}

// FileTarget needs the file itself, e.g. for a database
type FileTarget interface {
	Target
	ExportFile(path string, m *mesh.Model) error
}
