package utils

import "math"

// earthRadiusMeters is the mean Earth radius used for spherical distance.
const earthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance in meters between two
// (longitude, latitude) points.
func HaversineMeters(lon1, lat1, lon2, lat2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// RoundKm converts meters to kilometers rounded to 2 decimal places.
func RoundKm(meters float64) float64 {
	return math.Round(meters/1000*100) / 100
}
