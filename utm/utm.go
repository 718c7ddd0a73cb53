// Package utm converts WGS84 latitude/longitude into the zone-prefixed UTM coordinates
// used to name and fill the DGM1 tiles.
//
// The conversion is the closed-form series from
// A. Schödlbauer, Rechenformeln und Rechenbeispiele zur Landesvermessung, Teil 2.
// The constants are fixed on purpose: tile names derived from earlier runs must stay reproducible.
package utm

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pdok/terrain/intgeom"
	"github.com/pdok/terrain/mathhelp"
)

// WGS84 derived constants
const (
	// radius reduction (scale factor on the central meridian)
	mH = 0.9996
	// c = a²/b
	c = 6399593.626005325
	// eq = (a²-b²)/b²
	eq = 0.006739496819936062

	// meridian arc polynomial
	e0 = 6367449.145759811
	e2 = -16038.508797800609
	e4 = 16.83262765753934
	e6 = -0.021980907677118407

	falseEasting = 500000
	zoneOffset   = 30
	zoneWidthDeg = 6
)

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrZoneMismatch      = errors.New("corners lie in different UTM zones")
)

// LatLon is a geodetic position in decimal degrees
type LatLon struct {
	Lat float64
	Lon float64
}

func (ll LatLon) String() string {
	return strconv.FormatFloat(ll.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(ll.Lon, 'f', -1, 64)
}

// Validate returns ErrInvalidCoordinate for anything that is not a finite degree value on earth
func (ll LatLon) Validate() error {
	if math.IsNaN(ll.Lat) || math.IsInf(ll.Lat, 0) || math.IsNaN(ll.Lon) || math.IsInf(ll.Lon, 0) {
		return fmt.Errorf("%w: %v is not finite", ErrInvalidCoordinate, ll)
	}
	if !mathhelp.BetweenInc(ll.Lat, -90, 90) || !mathhelp.BetweenInc(ll.Lon, -180, 180) {
		return fmt.Errorf("%w: %v is out of range", ErrInvalidCoordinate, ll)
	}
	return nil
}

// ParseLatLon parses "lat,lon", e.g. "51.335757,7.479087" (as copied from a map or GPS device)
func ParseLatLon(s string) (LatLon, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return LatLon{}, fmt.Errorf("%w: %q is not two comma separated numbers", ErrInvalidCoordinate, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return LatLon{}, fmt.Errorf("%w: latitude %q: %v", ErrInvalidCoordinate, parts[0], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return LatLon{}, fmt.Errorf("%w: longitude %q: %v", ErrInvalidCoordinate, parts[1], err)
	}
	ll := LatLon{Lat: lat, Lon: lon}
	return ll, ll.Validate()
}

// BoundingBox is always south-west / north-east, regardless of the order of the input corners
type BoundingBox struct {
	SW LatLon
	NE LatLon
}

func NewBoundingBox(a, b LatLon) BoundingBox {
	return BoundingBox{
		SW: LatLon{Lat: min(a.Lat, b.Lat), Lon: min(a.Lon, b.Lon)},
		NE: LatLon{Lat: max(a.Lat, b.Lat), Lon: max(a.Lon, b.Lon)},
	}
}

// Point is a projected position. Easting and Northing are truncated to whole meters.
type Point struct {
	Zone     int
	Easting  int64
	Northing int64
}

// GridEasting is the easting as used in the DGM1 tiles: the zone digits followed by the easting digits.
// E.g. zone 32, easting 368123 -> 32368123
func (p Point) GridEasting() int64 {
	prefixed, err := strconv.ParseInt(strconv.Itoa(p.Zone)+strconv.FormatInt(p.Easting, 10), 10, 64)
	if err != nil {
		// only for negative eastings, which the series cannot produce within a zone
		panic(fmt.Errorf("cannot prefix easting %d with zone %d: %w", p.Easting, p.Zone, err))
	}
	return prefixed
}

// GridPoint is the point as used in the DGM1 tiles
func (p Point) GridPoint() intgeom.Point {
	return intgeom.Point{p.GridEasting(), p.Northing}
}

// Project converts latitude and longitude (decimal degrees) to UTM
func Project(lat, lon float64) (Point, error) {
	if err := (LatLon{Lat: lat, Lon: lon}).Validate(); err != nil {
		return Point{}, err
	}
	northing, easting, zone := project(lat, lon)
	return Point{
		Zone:     zone,
		Easting:  intgeom.FromGeomOrd(easting),
		Northing: intgeom.FromGeomOrd(northing),
	}, nil
}

func project(lat, lon float64) (northing, easting float64, zone int) {
	b := radians(lat)
	l := radians(lon)
	tB := math.Tan(b)
	cB := math.Cos(b)

	arc := e0*b + e2*math.Sin(2*b) + e4*math.Sin(4*b) + e6*math.Sin(6*b)
	x0 := mH * arc

	centralMeridian := 3 + zoneWidthDeg*math.Floor(lon/zoneWidthDeg)
	zone = zoneOffset + int((3+centralMeridian)/zoneWidthDeg)

	dl := l - radians(centralMeridian)

	etaq := eq * cB * cB
	nq := c / math.Sqrt(1+etaq)

	x2 := mH / 2 * nq * tB * math.Pow(cB, 2)
	x4 := mH / 24 * nq * tB * math.Pow(cB, 4) * (5 - tB*tB + 9*etaq)
	x6 := mH / 720 * nq * tB * math.Pow(cB, 6) * (61 - 58*tB*tB + math.Pow(tB, 4))

	northing = x0 + x2*math.Pow(dl, 2) + x4*math.Pow(dl, 4) + x6*math.Pow(dl, 6)

	y1 := mH * nq * cB
	y3 := mH / 6 * nq * math.Pow(cB, 3) * (1 - tB*tB + etaq)
	y5 := mH / 120 * nq * math.Pow(cB, 5) * (5 - 18*tB*tB + math.Pow(tB, 4) + etaq*(14-58*tB*tB))

	easting = y1*dl + y3*math.Pow(dl, 3) + y5*math.Pow(dl, 5) + falseEasting
	return northing, easting, zone
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ProjectBoundingBox projects both corners and returns the DGM1 grid extent.
// Corners in different zones are refused, the zone-prefixed eastings would not be comparable.
func ProjectBoundingBox(bb BoundingBox) (intgeom.Extent, int, error) {
	sw, err := Project(bb.SW.Lat, bb.SW.Lon)
	if err != nil {
		return intgeom.Extent{}, 0, err
	}
	ne, err := Project(bb.NE.Lat, bb.NE.Lon)
	if err != nil {
		return intgeom.Extent{}, 0, err
	}
	if sw.Zone != ne.Zone {
		return intgeom.Extent{}, 0, fmt.Errorf("%w: %d and %d", ErrZoneMismatch, sw.Zone, ne.Zone)
	}
	return intgeom.NewExtent(sw.GridPoint(), ne.GridPoint()), sw.Zone, nil
}

// FromGridEasting strips the zone digits from a DGM1 grid easting, the reverse of Point.GridEasting
func FromGridEasting(gridEasting int64, zone int) (int64, error) {
	digits := strconv.FormatInt(gridEasting, 10)
	prefix := strconv.Itoa(zone)
	if !strings.HasPrefix(digits, prefix) || len(digits) == len(prefix) {
		return 0, fmt.Errorf("%w: grid easting %d is not in zone %d", ErrInvalidCoordinate, gridEasting, zone)
	}
	return strconv.ParseInt(digits[len(prefix):], 10, 64)
}
