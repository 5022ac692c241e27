package services

import (
	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/geo"
)

// BuildLegs describes each hop of an ordered route with its distance,
// initial bearing, and running total.
func BuildLegs(route []domain.MaintenanceMapItem) []domain.RouteLeg {
	if len(route) < 2 {
		return []domain.RouteLeg{}
	}

	legs := make([]domain.RouteLeg, 0, len(route)-1)
	cumulative := 0.0
	for i := 0; i < len(route)-1; i++ {
		from := route[i]
		to := route[i+1]

		km := geo.CalculateDistance(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
		cumulative += km

		legs = append(legs, domain.RouteLeg{
			FromDeviceID: from.DeviceID,
			ToDeviceID:   to.DeviceID,
			DistanceKm:   km,
			BearingDeg:   geo.CalculateBearing(from.Latitude, from.Longitude, to.Latitude, to.Longitude),
			CumulativeKm: cumulative,
		})
	}

	return legs
}

// TotalDistanceKm sums the distance of all legs.
func TotalDistanceKm(legs []domain.RouteLeg) float64 {
	total := 0.0
	for _, l := range legs {
		total += l.DistanceKm
	}
	return total
}
