package model

import "math"

// Location is an immutable (longitude, latitude) pair in decimal degrees.
type Location struct {
	Lon float64
	Lat float64
}

// Valid reports whether both coordinates are finite numbers.
func (l Location) Valid() bool {
	return !math.IsNaN(l.Lon) && !math.IsInf(l.Lon, 0) &&
		!math.IsNaN(l.Lat) && !math.IsInf(l.Lat, 0)
}
