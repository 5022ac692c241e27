package services

import (
	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/geo"
)

// DefaultCorridorBufferKm is the detour budget used when a caller does not supply one.
const DefaultCorridorBufferKm = 10.0

// Devices at or below this criticality are never suggested as detours.
const minSuggestionCriticality = 10.0

// FindDevicesAlongRoute returns devices outside the route that can be visited
// with a small detour from some leg of it.
//
// bufferKm is a budget on added travel distance, not a corridor width: a
// candidate C on leg A→B qualifies when dist(A,C)+dist(C,B)-dist(A,B) <= bufferKm.
// Only devices with criticality above 10 are suggested. Results are unique by
// DeviceID, exclude every device on the route, and are ordered by discovery
// (leg order, then candidate order).
func FindDevicesAlongRoute(
	route []domain.MaintenanceMapItem,
	allDevices []domain.MaintenanceMapItem,
	bufferKm float64,
) []domain.MaintenanceMapItem {
	if len(route) < 2 {
		return []domain.MaintenanceMapItem{}
	}

	onRoute := make(map[string]struct{}, len(route))
	for _, d := range route {
		onRoute[d.DeviceID] = struct{}{}
	}

	suggested := make(map[string]struct{})
	out := []domain.MaintenanceMapItem{}

	for i := 0; i < len(route)-1; i++ {
		start := route[i]
		end := route[i+1]
		distAB := geo.CalculateDistance(start.Latitude, start.Longitude, end.Latitude, end.Longitude)

		for _, candidate := range allDevices {
			if _, ok := onRoute[candidate.DeviceID]; ok {
				continue
			}
			if _, ok := suggested[candidate.DeviceID]; ok {
				continue
			}

			if !isNearLeg(start, end, candidate, distAB, bufferKm) {
				continue
			}
			if CalculateCriticalityScore(candidate) <= minSuggestionCriticality {
				continue
			}

			suggested[candidate.DeviceID] = struct{}{}
			out = append(out, candidate)
		}
	}

	return out
}

// isNearLeg reports whether visiting candidate between start and end adds at
// most bufferKm to the leg.
func isNearLeg(start, end, candidate domain.MaintenanceMapItem, distAB, bufferKm float64) bool {
	distAC := geo.CalculateDistance(start.Latitude, start.Longitude, candidate.Latitude, candidate.Longitude)
	distCB := geo.CalculateDistance(candidate.Latitude, candidate.Longitude, end.Latitude, end.Longitude)

	reach := distAB + bufferKm
	if distAC > reach && distCB > reach {
		return false
	}

	// Spherical rounding can push the detour slightly below zero.
	detour := (distAC + distCB) - distAB
	if detour < 0 {
		detour = 0
	}
	return detour <= bufferKm
}
