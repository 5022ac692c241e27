package services

import (
	"slices"

	"maintenance-route-service/internal/domain"
)

// RankDevices scores every device and orders them most critical first.
// Devices with equal scores keep their input order.
func RankDevices(devices []domain.MaintenanceMapItem) []domain.ScoredDevice {
	scored := make([]domain.ScoredDevice, 0, len(devices))
	for _, d := range devices {
		scored = append(scored, domain.ScoredDevice{Device: d, Criticality: CalculateCriticalityScore(d)})
	}

	slices.SortStableFunc(scored, func(a, b domain.ScoredDevice) int {
		if a.Criticality > b.Criticality {
			return -1
		}
		if a.Criticality < b.Criticality {
			return 1
		}
		return 0
	})

	return scored
}

// FilterDevices keeps devices matching every non-zero criterion of the filter,
// preserving input order.
func FilterDevices(devices []domain.MaintenanceMapItem, filter domain.DeviceFilter) []domain.MaintenanceMapItem {
	var ids map[string]struct{}
	if len(filter.DeviceIDs) > 0 {
		ids = make(map[string]struct{}, len(filter.DeviceIDs))
		for _, id := range filter.DeviceIDs {
			ids[id] = struct{}{}
		}
	}

	out := make([]domain.MaintenanceMapItem, 0, len(devices))
	for _, d := range devices {
		if filter.AirQloud != "" && !d.InAirQloud(filter.AirQloud) {
			continue
		}
		if ids != nil {
			if _, ok := ids[d.DeviceID]; !ok {
				continue
			}
		}
		if filter.MinCriticality > 0 && CalculateCriticalityScore(d) < filter.MinCriticality {
			continue
		}
		out = append(out, d)
	}

	return out
}
