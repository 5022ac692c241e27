package services

import (
	"math"
	"testing"

	"maintenance-route-service/internal/domain"
)

func TestCalculateCriticalityScoreKnownValues(t *testing.T) {
	cases := []struct {
		name   string
		uptime float64
		errPct float64
		want   float64
	}{
		{"healthy", 24, 0, 0},
		{"offline", 0, 0, 50},
		{"offline and noisy", 0, 50, 100},
		{"half uptime", 12, 20, 45},
		{"error saturates", 24, 80, 50},
		{"uptime above scale", 30, 0, 0},
	}

	for _, tc := range cases {
		got := CalculateCriticalityScore(domain.MaintenanceMapItem{AvgUptime: tc.uptime, AvgErrorMargin: tc.errPct})
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: score = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCalculateCriticalityScoreBounds(t *testing.T) {
	for uptime := 0.0; uptime <= 24; uptime += 1.5 {
		for errPct := 0.0; errPct <= 120; errPct += 7.5 {
			s := CalculateCriticalityScore(domain.MaintenanceMapItem{AvgUptime: uptime, AvgErrorMargin: errPct})
			if s < 0 || s > 100 {
				t.Fatalf("uptime=%v error=%v: score = %v, want [0,100]", uptime, errPct, s)
			}
		}
	}
}

func TestCalculateCriticalityScoreMonotonic(t *testing.T) {
	for errPct := 0.0; errPct <= 60; errPct += 5 {
		prev := -1.0
		// Decreasing uptime never lowers the score.
		for uptime := 24.0; uptime >= 0; uptime -= 0.5 {
			s := CalculateCriticalityScore(domain.MaintenanceMapItem{AvgUptime: uptime, AvgErrorMargin: errPct})
			if s < prev {
				t.Fatalf("error=%v uptime=%v: score %v dropped below %v", errPct, uptime, s, prev)
			}
			prev = s
		}
	}

	for uptime := 0.0; uptime <= 24; uptime += 2 {
		prev := -1.0
		for errPct := 0.0; errPct <= 80; errPct += 2.5 {
			s := CalculateCriticalityScore(domain.MaintenanceMapItem{AvgUptime: uptime, AvgErrorMargin: errPct})
			if s < prev {
				t.Fatalf("uptime=%v error=%v: score %v dropped below %v", uptime, errPct, s, prev)
			}
			prev = s
		}
	}
}
