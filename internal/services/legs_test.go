package services

import (
	"math"
	"testing"

	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/geo"
)

func TestBuildLegs(t *testing.T) {
	route := []domain.MaintenanceMapItem{
		device("A", 0, 0, 24, 0),
		device("B", 0, 1, 24, 0),
		device("C", 1, 1, 24, 0),
	}

	legs := BuildLegs(route)
	if len(legs) != 2 {
		t.Fatalf("legs = %d, want 2", len(legs))
	}

	if legs[0].FromDeviceID != "A" || legs[0].ToDeviceID != "B" {
		t.Fatalf("leg 0 = %s->%s, want A->B", legs[0].FromDeviceID, legs[0].ToDeviceID)
	}
	if math.Abs(legs[0].BearingDeg-90) > 1e-9 {
		t.Fatalf("leg 0 bearing = %v, want 90", legs[0].BearingDeg)
	}
	if math.Abs(legs[1].BearingDeg) > 1e-9 {
		t.Fatalf("leg 1 bearing = %v, want 0", legs[1].BearingDeg)
	}

	wantFirst := geo.CalculateDistance(0, 0, 0, 1)
	if math.Abs(legs[0].DistanceKm-wantFirst) > 1e-9 {
		t.Fatalf("leg 0 distance = %v, want %v", legs[0].DistanceKm, wantFirst)
	}
	if math.Abs(legs[1].CumulativeKm-(legs[0].DistanceKm+legs[1].DistanceKm)) > 1e-9 {
		t.Fatalf("cumulative = %v, want sum of legs", legs[1].CumulativeKm)
	}
	if math.Abs(TotalDistanceKm(legs)-legs[1].CumulativeKm) > 1e-9 {
		t.Fatalf("total = %v, want %v", TotalDistanceKm(legs), legs[1].CumulativeKm)
	}
}

func TestBuildLegsShortRoute(t *testing.T) {
	if legs := BuildLegs(nil); len(legs) != 0 {
		t.Fatalf("legs = %v, want empty", legs)
	}
	if legs := BuildLegs([]domain.MaintenanceMapItem{device("A", 0, 0, 24, 0)}); len(legs) != 0 {
		t.Fatalf("legs = %v, want empty", legs)
	}
	if total := TotalDistanceKm(nil); total != 0 {
		t.Fatalf("total = %v, want 0", total)
	}
}
