package services

import (
	"slices"
	"testing"

	"maintenance-route-service/internal/domain"
)

func TestRankDevicesMostCriticalFirst(t *testing.T) {
	devices := []domain.MaintenanceMapItem{
		device("healthy", 0, 0, 24, 0),
		device("offline", 0, 0, 0, 0),
		device("noisy", 0, 0, 24, 50),
		device("broken", 0, 0, 0, 50),
	}

	ranked := RankDevices(devices)

	got := make([]string, 0, len(ranked))
	for _, r := range ranked {
		got = append(got, r.Device.DeviceID)
	}
	// offline and noisy both score 50 and keep input order.
	want := []string{"broken", "offline", "noisy", "healthy"}
	if !slices.Equal(got, want) {
		t.Fatalf("ranking = %v, want %v", got, want)
	}
	if ranked[0].Criticality != 100 {
		t.Fatalf("top criticality = %v, want 100", ranked[0].Criticality)
	}
}

func TestFilterDevices(t *testing.T) {
	devices := []domain.MaintenanceMapItem{
		device("d1", 0, 0, 24, 0, "kampala"),
		device("d2", 0, 0, 0, 50, "kampala"),
		device("d3", 0, 0, 0, 50, "jinja"),
		device("d4", 0, 0, 12, 0, "kampala", "jinja"),
	}

	cases := []struct {
		name   string
		filter domain.DeviceFilter
		want   []string
	}{
		{"no filter", domain.DeviceFilter{}, []string{"d1", "d2", "d3", "d4"}},
		{"airqloud", domain.DeviceFilter{AirQloud: "jinja"}, []string{"d3", "d4"}},
		{"ids", domain.DeviceFilter{DeviceIDs: []string{"d4", "d1"}}, []string{"d1", "d4"}},
		{"min criticality", domain.DeviceFilter{MinCriticality: 25}, []string{"d2", "d3", "d4"}},
		{"combined", domain.DeviceFilter{AirQloud: "kampala", MinCriticality: 30}, []string{"d2"}},
	}

	for _, tc := range cases {
		got := routeIDs(FilterDevices(devices, tc.filter))
		if !slices.Equal(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
