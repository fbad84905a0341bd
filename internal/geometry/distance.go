package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const metersPerMile = 1609.344

// Point is a WGS84 coordinate.
type Point struct {
	Latitude  float64
	Longitude float64
}

// NewPoint returns a point when both coordinates are known.
func NewPoint(lat, lon *float64) (Point, bool) {
	if lat == nil || lon == nil {
		return Point{}, false
	}
	return Point{Latitude: *lat, Longitude: *lon}, true
}

func (p Point) orb() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// DistanceMiles returns the great-circle distance between two points.
func DistanceMiles(a, b Point) float64 {
	return geo.DistanceHaversine(a.orb(), b.orb()) / metersPerMile
}

// Within reports whether p lies within radiusMiles of center. The bound
// check avoids the haversine for points clearly outside.
func Within(center, p Point, radiusMiles float64) bool {
	bound := geo.NewBoundAroundPoint(center.orb(), radiusMiles*metersPerMile)
	if !bound.Contains(p.orb()) {
		return false
	}
	return DistanceMiles(center, p) <= radiusMiles
}
