// Package geo computes great-circle distances and bearings on a spherical earth.
//
// Inputs are decimal degrees. Nothing here checks ranges: out-of-range or NaN
// coordinates produce mathematically defined but meaningless results. Callers
// that accept untrusted input should run ValidateCoordinate first.
package geo

import "math"

// EarthRadiusKm is the mean earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// CalculateDistance returns the haversine distance between two points in kilometers.
func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// CalculateBearing returns the initial compass bearing from point 1 to point 2,
// normalized into [0, 360).
func CalculateBearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := degreesToRadians(lat1)
	phi2 := degreesToRadians(lat2)
	dLon := degreesToRadians(lon2 - lon1)

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180 / math.Pi
	deg = math.Mod(deg+360, 360)
	// Mod can return 360 for inputs a hair below zero.
	if deg >= 360 {
		deg = 0
	}
	return deg
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
