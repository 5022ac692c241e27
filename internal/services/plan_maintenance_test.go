package services

import (
	"context"
	"errors"
	"slices"
	"testing"

	"maintenance-route-service/internal/domain"
)

type stubSource struct {
	devices []domain.MaintenanceMapItem
	err     error
	filters []domain.DeviceFilter
}

func (s *stubSource) ListDevices(_ context.Context, filter domain.DeviceFilter) ([]domain.MaintenanceMapItem, error) {
	s.filters = append(s.filters, filter)
	if s.err != nil {
		return nil, s.err
	}
	return FilterDevices(s.devices, filter), nil
}

type stubPlans struct {
	saved []*domain.MaintenancePlan
	err   error
}

func (s *stubPlans) SavePlan(_ context.Context, plan *domain.MaintenancePlan) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, plan)
	return nil
}

func (s *stubPlans) GetPlan(_ context.Context, id string) (*domain.MaintenancePlan, error) {
	for _, p := range s.saved {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrPlanNotFound
}

func (s *stubPlans) ListPlans(_ context.Context, _ int) ([]*domain.MaintenancePlan, error) {
	return s.saved, nil
}

type stubEvents struct {
	events []domain.PlanEvent
	err    error
}

func (s *stubEvents) Publish(_ context.Context, evt domain.PlanEvent) error {
	s.events = append(s.events, evt)
	return s.err
}

func planDevices() []domain.MaintenanceMapItem {
	return []domain.MaintenanceMapItem{
		device("A", 0, 0, 24, 0, "kampala"),
		device("B", 0, 1, 24, 0, "kampala"),
		device("C", 0, 2, 0, 50, "kampala"),
		device("D", 0, 1.5, 12, 20, "jinja"),
	}
}

func TestPlanMaintenance(t *testing.T) {
	source := &stubSource{devices: planDevices()}
	plans := &stubPlans{}
	events := &stubEvents{}

	req := PlanMaintenanceRequest{
		Filter:         domain.DeviceFilter{AirQloud: "kampala"},
		WeightDistance: 1,
		StartDeviceID:  "A",
		BufferKm:       5,
	}

	plan, err := PlanMaintenance(context.Background(), req, source, plans, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := routeIDs(plan.Route); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Fatalf("route = %v, want [A B C]", got)
	}
	if len(plan.Legs) != 2 {
		t.Fatalf("legs = %d, want 2", len(plan.Legs))
	}
	if plan.TotalDistanceKm <= 0 {
		t.Fatalf("total distance = %v, want > 0", plan.TotalDistanceKm)
	}
	if plan.ID == "" {
		t.Fatalf("plan id is empty")
	}
	// D is filtered out of the pool by airqloud, so nothing to suggest.
	if len(plan.Suggestions) != 0 {
		t.Fatalf("suggestions = %v, want empty", routeIDs(plan.Suggestions))
	}

	if len(plans.saved) != 1 || plans.saved[0].ID != plan.ID {
		t.Fatalf("plan was not saved")
	}
	if len(events.events) != 1 {
		t.Fatalf("events = %d, want 1", len(events.events))
	}
	evt := events.events[0]
	if evt.Type != domain.PlanCreatedEvent || evt.PlanID != plan.ID || evt.Stops != 3 {
		t.Fatalf("event = %+v", evt)
	}
}

func TestPlanMaintenanceMaxStopsFeedsSuggestions(t *testing.T) {
	source := &stubSource{devices: planDevices()}
	plans := &stubPlans{}

	req := PlanMaintenanceRequest{
		WeightDistance: 1,
		StartDeviceID:  "A",
		BufferKm:       5,
		MaxStops:       2,
	}

	plan, err := PlanMaintenance(context.Background(), req, source, plans, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Route) != 2 {
		t.Fatalf("route length = %d, want 2", len(plan.Route))
	}
	for _, s := range plan.Suggestions {
		if s.DeviceID == plan.Route[0].DeviceID || s.DeviceID == plan.Route[1].DeviceID {
			t.Fatalf("suggestion %q is on the route", s.DeviceID)
		}
	}
}

func TestPlanMaintenanceNoDevices(t *testing.T) {
	source := &stubSource{}
	_, err := PlanMaintenance(context.Background(), PlanMaintenanceRequest{}, source, &stubPlans{}, nil)
	if !errors.Is(err, domain.ErrNoDevices) {
		t.Fatalf("err = %v, want ErrNoDevices", err)
	}
}

func TestPlanMaintenanceUnknownStart(t *testing.T) {
	source := &stubSource{devices: planDevices()}
	_, err := PlanMaintenance(context.Background(), PlanMaintenanceRequest{StartDeviceID: "nope"}, source, &stubPlans{}, nil)
	if !errors.Is(err, domain.ErrUnknownDevice) {
		t.Fatalf("err = %v, want ErrUnknownDevice", err)
	}
}

func TestPlanMaintenanceSourceError(t *testing.T) {
	boom := errors.New("boom")
	source := &stubSource{err: boom}
	_, err := PlanMaintenance(context.Background(), PlanMaintenanceRequest{}, source, &stubPlans{}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestPlanMaintenanceSaveErrorSkipsPublish(t *testing.T) {
	source := &stubSource{devices: planDevices()}
	plans := &stubPlans{err: errors.New("db down")}
	events := &stubEvents{}

	if _, err := PlanMaintenance(context.Background(), PlanMaintenanceRequest{WeightDistance: 1}, source, plans, events); err == nil {
		t.Fatalf("expected error")
	}
	if len(events.events) != 0 {
		t.Fatalf("events = %d, want 0", len(events.events))
	}
}

func TestPlanMaintenancePublishErrorIsNotFatal(t *testing.T) {
	source := &stubSource{devices: planDevices()}
	events := &stubEvents{err: errors.New("broker down")}

	plan, err := PlanMaintenance(context.Background(), PlanMaintenanceRequest{WeightCriticality: 1}, source, &stubPlans{}, events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Route[0].DeviceID != "C" {
		t.Fatalf("first stop = %q, want C", plan.Route[0].DeviceID)
	}
}

func TestPlanMaintenanceRejectsNegativeInputs(t *testing.T) {
	source := &stubSource{devices: planDevices()}
	if _, err := PlanMaintenance(context.Background(), PlanMaintenanceRequest{BufferKm: -1}, source, &stubPlans{}, nil); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest for negative buffer", err)
	}
	if _, err := PlanMaintenance(context.Background(), PlanMaintenanceRequest{MaxStops: -1}, source, &stubPlans{}, nil); err == nil {
		t.Fatalf("expected error for negative max stops")
	}
	if len(source.filters) != 0 {
		t.Fatalf("source should not be queried for invalid requests")
	}
}
