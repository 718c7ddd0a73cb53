// Package processing takes care of the logistics around writing a model to its Targets.
// Not the export formats themselves.
package processing

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/pdok/terrain/mesh"
)

// Result of one target
type Result struct {
	Target Target
	Path   string
	Err    error
}

// Export writes the model to every target, one after another.
// A failing target does not stop the others, all failures are joined in the returned error.
func Export(m *mesh.Model, base string, targets []Target) ([]Result, error) {
	results := make([]Result, 0, len(targets))
	var errs []error
	for _, target := range targets {
		path := base + target.Suffix()
		log.Printf("writing %s: %s", target.Name(), path)
		err := exportTarget(m, path, target)
		if err != nil {
			log.Printf("  failed: %v", err)
			errs = append(errs, fmt.Errorf("%s: %w", target.Name(), err))
		}
		results = append(results, Result{Target: target, Path: path, Err: err})
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Printf("    targets: %d", len(results))
	if failed > 0 {
		log.Printf("     failed: %d", failed)
	}
	return results, errors.Join(errs...)
}

func exportTarget(m *mesh.Model, path string, target Target) error {
	switch t := target.(type) {
	case FileTarget:
		return t.ExportFile(path, m)
	case StreamTarget:
		return writeFile(path, func(w *bufio.Writer) error {
			return t.Export(w, m)
		})
	default:
		return fmt.Errorf("target %s cannot export", target.Name())
	}
}

// writeFile creates (or truncates) the file at path and hands a buffered writer to write
func writeFile(path string, write func(w *bufio.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	w := bufio.NewWriter(f)
	if err = write(w); err != nil {
		return err
	}
	return w.Flush()
}
