package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
)

// HaversineDistance calculates the great-circle distance between two points
// in meters using the Haversine formula
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// MetersPerDegree returns the local metre lengths of one degree of latitude
// and longitude at the given latitude. Used for the equirectangular
// projection the hex lattice is laid out on.
func MetersPerDegree(lat float64) (latMeters, lonMeters float64) {
	latMeters = EarthRadiusMeters * math.Pi / 180
	lonMeters = latMeters * math.Cos(lat*math.Pi/180)
	return latMeters, lonMeters
}
