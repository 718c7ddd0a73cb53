package tiles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pdok/terrain/intgeom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Filename(t *testing.T) {
	assert.Equal(t, "dgm1_32368_5700_2_nw.xyz", ID{E: 32368000, N: 5700000}.Filename())
	assert.Equal(t, ID{E: 32368000, N: 5700000}, FromPoint(intgeom.Point{32369999, 5701999}))
	assert.Equal(t, ID{E: 32370000, N: 5702000}, FromPoint(intgeom.Point{32370000, 5702000}))
}

func TestRequired(t *testing.T) {
	tests := []struct {
		name string
		bbox intgeom.Extent
		want []ID
	}{
		{
			name: "inside one tile",
			bbox: intgeom.Extent{32368500, 5700500, 32369500, 5701500},
			want: []ID{{E: 32368000, N: 5700000}},
		},
		{
			name: "tiny box on a tile corner",
			bbox: intgeom.Extent{32369999, 5701999, 32370000, 5702000},
			want: []ID{
				{E: 32368000, N: 5700000},
				{E: 32368000, N: 5702000},
				{E: 32370000, N: 5700000},
				{E: 32370000, N: 5702000},
			},
		},
		{
			name: "wide box with max on a tile edge",
			bbox: intgeom.Extent{32367000, 5699000, 32372500, 5700000},
			want: []ID{
				{E: 32366000, N: 5698000},
				{E: 32366000, N: 5700000},
				{E: 32368000, N: 5698000},
				{E: 32368000, N: 5700000},
				{E: 32370000, N: 5698000},
				{E: 32370000, N: 5700000},
				{E: 32372000, N: 5698000},
				{E: 32372000, N: 5700000},
			},
		},
		{
			name: "aligned box",
			bbox: intgeom.Extent{32368000, 5700000, 32369999, 5701999},
			want: []ID{{E: 32368000, N: 5700000}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Required(tt.bbox)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Required() mismatch (-want +got):\n%s", diff)
			}
			// exactly the tiles intersecting the box, found by brute force around it
			var intersecting []ID
			for e := tt.bbox.MinX() - 2*Size; e <= tt.bbox.MaxX()+2*Size; e += Size {
				for n := tt.bbox.MinY() - 2*Size; n <= tt.bbox.MaxY()+2*Size; n += Size {
					id := FromPoint(intgeom.Point{e, n})
					if id.Extent().Intersects(tt.bbox) {
						intersecting = append(intersecting, id)
					}
				}
			}
			assert.ElementsMatch(t, intersecting, got)
		})
	}
}

func touch(t *testing.T, dir string, ids ...ID) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id.Filename()), []byte("32368000.00 5700000.00 61.32\n"), 0o600))
	}
}

func TestCheckPresence(t *testing.T) {
	dir := t.TempDir()
	present := ID{E: 32368000, N: 5700000}
	absent := ID{E: 32370000, N: 5700000}
	dirNotFile := ID{E: 32372000, N: 5700000}
	touch(t, dir, present)
	require.NoError(t, os.Mkdir(filepath.Join(dir, dirNotFile.Filename()), 0o700))

	missing, err := CheckPresence([]ID{present, absent, dirNotFile}, dir)
	require.NoError(t, err)
	assert.Equal(t, []ID{absent, dirNotFile}, missing)
}

func TestInventory(t *testing.T) {
	dir := t.TempDir()
	bbox := intgeom.Extent{32369000, 5701000, 32370500, 5701500}
	touch(t, dir, ID{E: 32368000, N: 5700000})

	catalog, err := ParseCatalog(stringsReader(
		"Hattingen.zip dgm1_32368_5700_2_nw.xyz dgm1_32370_5700_2_nw.xyz\n" +
			"Sprockhoevel.zip dgm1_32370_5700_2_nw.xyz dgm1_32372_5700_2_nw.xyz\n"))
	require.NoError(t, err)

	_, err = Inventory(bbox, dir, catalog)
	var missingErr *MissingDataError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []ID{{E: 32370000, N: 5700000}}, missingErr.Missing)
	assert.Equal(t, []string{"Hattingen.zip", "Sprockhoevel.zip"}, missingErr.Archives)
	assert.Contains(t, err.Error(), "dgm1_32370_5700_2_nw.xyz")
	assert.Contains(t, err.Error(), "Sprockhoevel.zip")

	touch(t, dir, ID{E: 32370000, N: 5700000})
	got, err := Inventory(bbox, dir, nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
