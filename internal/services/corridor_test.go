package services

import (
	"testing"

	"maintenance-route-service/internal/domain"
)

func TestFindDevicesAlongRouteColinearCritical(t *testing.T) {
	a := device("A", 0, 0, 24, 0)
	b := device("B", 0, 2, 24, 0)
	d := device("D", 0, 1, 12, 20)
	e := device("E", 0, 1, 24, 0)

	got := FindDevicesAlongRoute([]domain.MaintenanceMapItem{a, b}, []domain.MaintenanceMapItem{a, b, d, e}, 5)
	if len(got) != 1 || got[0].DeviceID != "D" {
		t.Fatalf("suggestions = %v, want [D]", routeIDs(got))
	}
}

func TestFindDevicesAlongRouteShortRoute(t *testing.T) {
	a := device("A", 0, 0, 24, 0)
	d := device("D", 0, 0.01, 0, 50)

	if got := FindDevicesAlongRoute([]domain.MaintenanceMapItem{a}, []domain.MaintenanceMapItem{a, d}, 10); len(got) != 0 {
		t.Fatalf("single-stop route: suggestions = %v, want empty", routeIDs(got))
	}
	if got := FindDevicesAlongRoute(nil, []domain.MaintenanceMapItem{a, d}, 10); len(got) != 0 {
		t.Fatalf("empty route: suggestions = %v, want empty", routeIDs(got))
	}
}

func TestFindDevicesAlongRouteExcludesRoute(t *testing.T) {
	route := []domain.MaintenanceMapItem{
		device("A", 0, 0, 0, 50),
		device("B", 0, 0.5, 0, 50),
		device("C", 0, 1, 0, 50),
	}
	pool := append([]domain.MaintenanceMapItem{}, route...)
	pool = append(pool,
		device("X", 0, 0.25, 0, 50),
		device("Y", 0.01, 0.75, 0, 50),
	)

	got := FindDevicesAlongRoute(route, pool, 10)
	onRoute := map[string]bool{"A": true, "B": true, "C": true}
	for _, d := range got {
		if onRoute[d.DeviceID] {
			t.Fatalf("suggestions contain route device %q", d.DeviceID)
		}
	}
	if len(got) != 2 {
		t.Fatalf("suggestions = %v, want [X Y]", routeIDs(got))
	}
}

func TestFindDevicesAlongRouteRespectsDetourBudget(t *testing.T) {
	a := device("A", 0, 0, 24, 0)
	b := device("B", 0, 1, 24, 0)
	// About 55 km north of the leg midpoint; the detour adds ~46 km.
	off := device("O", 0.5, 0.5, 0, 50)

	if got := FindDevicesAlongRoute([]domain.MaintenanceMapItem{a, b}, []domain.MaintenanceMapItem{off}, 5); len(got) != 0 {
		t.Fatalf("buffer 5: suggestions = %v, want empty", routeIDs(got))
	}
	if got := FindDevicesAlongRoute([]domain.MaintenanceMapItem{a, b}, []domain.MaintenanceMapItem{off}, 50); len(got) != 1 {
		t.Fatalf("buffer 50: suggestions = %v, want [O]", routeIDs(got))
	}
}

func TestFindDevicesAlongRouteUniqueAcrossLegs(t *testing.T) {
	route := []domain.MaintenanceMapItem{
		device("A", 0, 0, 24, 0),
		device("B", 0, 0.1, 24, 0),
		device("C", 0, 0.2, 24, 0),
	}
	// Sits at B, so it is within budget of both legs.
	shared := device("S", 0, 0.1, 0, 50)
	dup := shared

	got := FindDevicesAlongRoute(route, []domain.MaintenanceMapItem{shared, dup}, 10)
	if len(got) != 1 || got[0].DeviceID != "S" {
		t.Fatalf("suggestions = %v, want [S]", routeIDs(got))
	}
}

func TestFindDevicesAlongRouteTinyBufferColinear(t *testing.T) {
	a := device("A", 0, 0, 24, 0)
	b := device("B", 0, 2, 24, 0)
	mid := device("M", 0, 1, 0, 50)

	got := FindDevicesAlongRoute([]domain.MaintenanceMapItem{a, b}, []domain.MaintenanceMapItem{mid}, 1e-6)
	if len(got) != 1 {
		t.Fatalf("suggestions = %v, want [M]", routeIDs(got))
	}
}
