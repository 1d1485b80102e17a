package domain

import "math"

// Mean earth radius used for great-circle distances.
const earthRadiusMeters = 6371008.8

// SearchRegion scopes a candidate search: a circle centered between the anchors.
type SearchRegion struct {
	Center       Coordinates
	RadiusMeters float64
}

// NewSearchRegion derives the search circle for a pair of anchors.
// Identical anchors produce a zero radius; callers reject that case at anchor acceptance.
func NewSearchRegion(a, b Coordinates) SearchRegion {
	return SearchRegion{
		Center:       Midpoint(a, b),
		RadiusMeters: SearchRadiusMeters(a, b),
	}
}

// Midpoint returns the point halfway along the great-circle path between a and b.
func Midpoint(a, b Coordinates) Coordinates {
	lat1 := toRadians(a.Lat)
	lon1 := toRadians(a.Lon)
	lat2 := toRadians(b.Lat)
	dLon := toRadians(b.Lon) - lon1

	x := math.Cos(lat2) * math.Cos(dLon)
	y := math.Cos(lat2) * math.Sin(dLon)

	lat3 := math.Atan2(
		math.Sin(lat1)+math.Sin(lat2),
		math.Sqrt((math.Cos(lat1)+x)*(math.Cos(lat1)+x)+y*y),
	)
	lon3 := lon1 + math.Atan2(y, math.Cos(lat1)+x)

	return Coordinates{
		Lat: toDegrees(lat3),
		Lon: normalizeLongitude(toDegrees(lon3)),
	}
}

// DistanceMeters is the haversine great-circle distance between a and b.
func DistanceMeters(a, b Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := lat2 - lat1
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// SearchRadiusMeters is half the great-circle distance between the anchors.
func SearchRadiusMeters(a, b Coordinates) float64 {
	return DistanceMeters(a, b) / 2
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

func normalizeLongitude(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
