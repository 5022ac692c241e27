package services

import (
	"log"
	"math"

	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/geo"
)

// OptimizeRoute orders devices for a maintenance visit using a weighted
// nearest-neighbor heuristic.
//
// At each step the next stop is the unvisited device maximizing
//
//	distScore*wDistance + criticality*wCriticality + sameAirQloud*100*wAirQloud
//
// where distScore = 100/(km+1). The route starts at prefs.StartDevice when it
// is part of devices (matched by DeviceID), otherwise at the most critical
// device. Ties go to the candidate seen first, so the output is fully
// determined by input order. Weights are used as given.
//
// The input slice is never modified; for fewer than two devices it is
// returned as is.
func OptimizeRoute(
	devices []domain.MaintenanceMapItem,
	prefs domain.RouteOptimizationPreferences,
) []domain.MaintenanceMapItem {
	if len(devices) <= 1 {
		return devices
	}

	remaining := make([]domain.MaintenanceMapItem, len(devices))
	copy(remaining, devices)

	startIdx := -1
	if prefs.StartDevice != nil {
		startIdx = indexOfDevice(remaining, prefs.StartDevice.DeviceID)
	}
	if startIdx < 0 {
		startIdx = mostCriticalIndex(remaining)
	}

	route := make([]domain.MaintenanceMapItem, 0, len(devices))
	current := remaining[startIdx]
	route = append(route, current)
	remaining = removeAt(remaining, startIdx)

	for len(remaining) > 0 {
		bestIdx := -1
		bestScore := math.Inf(-1)

		// Strict comparison keeps the earliest candidate on ties.
		for i, candidate := range remaining {
			score := candidateScore(current, candidate, prefs)
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		// Only reachable with NaN scores (e.g. NaN coordinates or weights).
		if bestIdx < 0 {
			log.Printf("optimize route: no candidate selected from=%s remaining=%d", current.DeviceID, len(remaining))
			break
		}

		current = remaining[bestIdx]
		route = append(route, current)
		remaining = removeAt(remaining, bestIdx)
	}

	return route
}

// candidateScore is the composite desirability of moving from current to candidate.
func candidateScore(current, candidate domain.MaintenanceMapItem, prefs domain.RouteOptimizationPreferences) float64 {
	km := geo.CalculateDistance(current.Latitude, current.Longitude, candidate.Latitude, candidate.Longitude)
	distScore := 100 / (km + 1)

	criticality := CalculateCriticalityScore(candidate)

	sameAirQloud := 0.0
	if current.SharesAirQloud(candidate) {
		sameAirQloud = 1
	}

	return distScore*prefs.WeightDistance +
		criticality*prefs.WeightCriticality +
		sameAirQloud*100*prefs.WeightAirQloud
}

// mostCriticalIndex returns the first device with the maximal criticality score.
func mostCriticalIndex(devices []domain.MaintenanceMapItem) int {
	best := 0
	bestScore := CalculateCriticalityScore(devices[0])
	for i := 1; i < len(devices); i++ {
		if s := CalculateCriticalityScore(devices[i]); s > bestScore {
			best = i
			bestScore = s
		}
	}
	return best
}

func indexOfDevice(devices []domain.MaintenanceMapItem, deviceID string) int {
	for i, d := range devices {
		if d.DeviceID == deviceID {
			return i
		}
	}
	return -1
}

// removeAt deletes index i while preserving the order of the remaining items.
func removeAt(devices []domain.MaintenanceMapItem, i int) []domain.MaintenanceMapItem {
	return append(devices[:i], devices[i+1:]...)
}
