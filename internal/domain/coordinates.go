package domain

import "strconv"

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// String renders coordinates as "lat,lng" for external API compatibility.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// Bounds is the smallest lat/lon box containing a set of coordinates.
type Bounds struct {
	NorthEast Coordinates
	SouthWest Coordinates
}

// BoundsOf returns the bounding box of points. The zero Bounds is returned for an empty slice.
func BoundsOf(points []Coordinates) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	b := Bounds{NorthEast: points[0], SouthWest: points[0]}
	for _, p := range points[1:] {
		b.NorthEast.Lat = max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lon = max(b.NorthEast.Lon, p.Lon)
		b.SouthWest.Lat = min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lon = min(b.SouthWest.Lon, p.Lon)
	}
	return b
}
