package utm

import (
	"math"
	"testing"

	"github.com/pdok/terrain/intgeom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name         string
		lat, lon     float64
		want         Point
		wantGridEast int64
	}{
		{
			name: "hattingen",
			lat:  51.335757, lon: 7.479087,
			want:         Point{Zone: 32, Easting: 394052, Northing: 5688261},
			wantGridEast: 32394052,
		},
		{
			name: "bochum",
			lat:  51.48, lon: 7.22,
			want:         Point{Zone: 32, Easting: 376395, Northing: 5704707},
			wantGridEast: 32376395,
		},
		{
			name: "west of the 6th meridian",
			lat:  52.0, lon: 5.99,
			want:         Point{Zone: 31, Easting: 705242, Northing: 5765259},
			wantGridEast: 31705242,
		},
		{
			name: "equator on central meridian",
			lat:  0, lon: 3,
			want:         Point{Zone: 31, Easting: 500000, Northing: 0},
			wantGridEast: 31500000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project(tt.lat, tt.lon)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantGridEast, got.GridEasting())

			again, err := Project(tt.lat, tt.lon)
			require.NoError(t, err)
			assert.Equal(t, got, again, "projection should be deterministic")
		})
	}
}

func Test_project(t *testing.T) {
	northing, easting, zone := project(51.335757, 7.479087)
	assert.InDelta(t, 5688261.501399065, northing, 1e-6)
	assert.InDelta(t, 394052.9538950792, easting, 1e-6)
	assert.Equal(t, 32, zone)
}

func TestProject_invalid(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{name: "nan", lat: math.NaN(), lon: 7},
		{name: "inf", lat: 51, lon: math.Inf(1)},
		{name: "latitude out of range", lat: 91, lon: 7},
		{name: "longitude out of range", lat: 51, lon: -181},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Project(tt.lat, tt.lon)
			require.ErrorIs(t, err, ErrInvalidCoordinate)
		})
	}
}

func TestParseLatLon(t *testing.T) {
	got, err := ParseLatLon("51.335757,7.479087")
	require.NoError(t, err)
	assert.Equal(t, LatLon{Lat: 51.335757, Lon: 7.479087}, got)

	got, err = ParseLatLon(" 51.3 , 7.4 ")
	require.NoError(t, err)
	assert.Equal(t, LatLon{Lat: 51.3, Lon: 7.4}, got)

	for _, s := range []string{"", "51.3", "51.3;7.4", "a,b", "51.3,7.4,1", "NaN,7"} {
		_, err = ParseLatLon(s)
		assert.ErrorIsf(t, err, ErrInvalidCoordinate, "input %q", s)
	}
}

func TestNewBoundingBox(t *testing.T) {
	a := LatLon{Lat: 51.3405, Lon: 7.4790}
	b := LatLon{Lat: 51.3357, Lon: 7.4880}
	want := BoundingBox{SW: LatLon{Lat: 51.3357, Lon: 7.4790}, NE: LatLon{Lat: 51.3405, Lon: 7.4880}}
	assert.Equal(t, want, NewBoundingBox(a, b))
	assert.Equal(t, want, NewBoundingBox(b, a))
}

func TestProjectBoundingBox(t *testing.T) {
	bb := NewBoundingBox(LatLon{Lat: 51.3405, Lon: 7.488}, LatLon{Lat: 51.335757, Lon: 7.479087})
	extent, zone, err := ProjectBoundingBox(bb)
	require.NoError(t, err)
	assert.Equal(t, 32, zone)
	assert.Equal(t, intgeom.Extent{32394052, 5688261, 32394684, 5688776}, extent)

	_, _, err = ProjectBoundingBox(NewBoundingBox(LatLon{Lat: 52, Lon: 5.99}, LatLon{Lat: 52.01, Lon: 6.01}))
	require.ErrorIs(t, err, ErrZoneMismatch)
}

func TestFromGridEasting(t *testing.T) {
	e, err := FromGridEasting(32394052, 32)
	require.NoError(t, err)
	assert.Equal(t, int64(394052), e)

	p := Point{Zone: 31, Easting: 705242, Northing: 5765259}
	e, err = FromGridEasting(p.GridEasting(), p.Zone)
	require.NoError(t, err)
	assert.Equal(t, p.Easting, e)

	_, err = FromGridEasting(32394052, 31)
	require.ErrorIs(t, err, ErrInvalidCoordinate)
	_, err = FromGridEasting(32, 32)
	require.ErrorIs(t, err, ErrInvalidCoordinate)
}
