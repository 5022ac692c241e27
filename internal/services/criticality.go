package services

import (
	"math"

	"maintenance-route-service/internal/domain"
)

// Fixed scoring policy. These are deliberately not configurable: changing
// them shifts every downstream route and suggestion.
const (
	uptimeWeight     = 0.5
	errorWeight      = 0.5
	errorScaleFactor = 2.0
	maxScore         = 100.0
	hoursPerDay      = 24.0
)

// CalculateCriticalityScore folds uptime and error margin into a 0-100 urgency score.
//
// Lower uptime and higher error margin both raise the score. Uptime is
// measured in hours per day; error margin is a percentage that saturates the
// error contribution at 50.
func CalculateCriticalityScore(device domain.MaintenanceMapItem) float64 {
	uptimePercent := device.AvgUptime / hoursPerDay * 100
	uptimeScore := math.Max(0, maxScore-uptimePercent)

	errorScore := math.Min(maxScore, device.AvgErrorMargin*errorScaleFactor)

	score := uptimeScore*uptimeWeight + errorScore*errorWeight
	return math.Max(0, math.Min(maxScore, score))
}
