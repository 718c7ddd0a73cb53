package tiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdok/terrain/mapslicehelp"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Catalog maps the download archives (ZIP files) to the XYZ tiles they contain.
// Text format, one archive per line: the archive name followed by the contained filenames, whitespace separated.
type Catalog struct {
	// filename -> archives containing it, in catalog order
	archivesByFile map[string]*orderedmap.OrderedMap[string, struct{}]
	archives       int
}

func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCatalog(f)
}

func ParseCatalog(r io.Reader) (*Catalog, error) {
	c := Catalog{archivesByFile: make(map[string]*orderedmap.OrderedMap[string, struct{}])}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024) // some archives list thousands of tiles
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		archive := fields[0]
		c.archives++
		for _, filename := range fields[1:] {
			archives, ok := c.archivesByFile[filename]
			if !ok {
				archives = orderedmap.New[string, struct{}]()
				c.archivesByFile[filename] = archives
			}
			mapslicehelp.AppendUnique(archives, archive)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read catalog: %w", err)
	}
	return &c, nil
}

// Len is the number of archive records
func (c *Catalog) Len() int {
	return c.archives
}

// Resolve returns the archives containing the tile
func (c *Catalog) Resolve(id ID) []string {
	archives, ok := c.archivesByFile[id.Filename()]
	if !ok {
		return nil
	}
	return mapslicehelp.OrderedMapKeys(archives)
}

// ResolveAll returns the archives containing any of the tiles, each archive once
func (c *Catalog) ResolveAll(ids []ID) []string {
	all := orderedmap.New[string, struct{}]()
	for _, id := range ids {
		for _, archive := range c.Resolve(id) {
			mapslicehelp.AppendUnique(all, archive)
		}
	}
	return mapslicehelp.OrderedMapKeys(all)
}
