package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/platform/obs"
	"maintenance-route-service/internal/ports"
)

type PlanMaintenanceRequest struct {
	Filter            domain.DeviceFilter
	WeightDistance    float64
	WeightCriticality float64
	WeightAirQloud    float64
	StartDeviceID     string
	BufferKm          float64
	// MaxStops caps the optimized route; 0 means no cap. Devices cut from the
	// route stay eligible as detour suggestions.
	MaxStops int
}

// PlanMaintenance builds, stores, and announces a maintenance plan.
//
// Devices come from source, are ordered by OptimizeRoute, and the remaining
// pool is searched for detour suggestions along the route. The plan is saved
// before the event is published; a failed publish is logged and does not
// fail the request.
func PlanMaintenance(
	ctx context.Context,
	req PlanMaintenanceRequest,
	source ports.DeviceSource,
	plans ports.PlanRepository,
	events ports.EventPublisher,
) (_ *domain.MaintenancePlan, err error) {
	defer obs.Time(ctx, "plan.PlanMaintenance")(&err)

	if req.MaxStops < 0 {
		return nil, fmt.Errorf("plan maintenance: max stops must be >= 0, got %d: %w", req.MaxStops, domain.ErrInvalidRequest)
	}
	if req.BufferKm < 0 {
		return nil, fmt.Errorf("plan maintenance: buffer km must be >= 0, got %v: %w", req.BufferKm, domain.ErrInvalidRequest)
	}

	devices, err := source.ListDevices(ctx, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("plan maintenance: list devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("plan maintenance: %w", domain.ErrNoDevices)
	}

	prefs := domain.RouteOptimizationPreferences{
		WeightDistance:    req.WeightDistance,
		WeightCriticality: req.WeightCriticality,
		WeightAirQloud:    req.WeightAirQloud,
	}
	if req.StartDeviceID != "" {
		start, err := FindDevice(devices, req.StartDeviceID)
		if err != nil {
			return nil, fmt.Errorf("plan maintenance: start device: %w", err)
		}
		prefs.StartDevice = &start
	}

	route := OptimizeRoute(devices, prefs)
	if req.MaxStops > 0 && len(route) > req.MaxStops {
		route = route[:req.MaxStops]
	}

	suggestions := FindDevicesAlongRoute(route, devices, req.BufferKm)
	legs := BuildLegs(route)

	plan := &domain.MaintenancePlan{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		Preferences:     prefs,
		BufferKm:        req.BufferKm,
		Route:           route,
		Legs:            legs,
		Suggestions:     suggestions,
		TotalDistanceKm: TotalDistanceKm(legs),
	}

	if err := plans.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("plan maintenance: save plan %s: %w", plan.ID, err)
	}

	obs.PlansCreated.Inc()
	obs.RouteStops.Observe(float64(len(plan.Route)))
	obs.RouteDistanceKm.Observe(plan.TotalDistanceKm)
	obs.SuggestionsFound.Observe(float64(len(plan.Suggestions)))

	if events != nil {
		if err := events.Publish(ctx, NewPlanCreatedEvent(plan)); err != nil {
			log.Printf("req_id=%s plan_id=%s publish plan event failed: %v", obs.RequestID(ctx), plan.ID, err)
		}
	}

	return plan, nil
}

// NewPlanCreatedEvent summarizes a stored plan for downstream consumers.
func NewPlanCreatedEvent(plan *domain.MaintenancePlan) domain.PlanEvent {
	ids := make([]string, 0, len(plan.Route))
	for _, d := range plan.Route {
		ids = append(ids, d.DeviceID)
	}

	return domain.PlanEvent{
		Type:        domain.PlanCreatedEvent,
		PlanID:      plan.ID,
		OccurredAt:  plan.CreatedAt,
		Stops:       len(plan.Route),
		Suggestions: len(plan.Suggestions),
		DistanceKm:  plan.TotalDistanceKm,
		DeviceIDs:   ids,
	}
}

// FindDevice returns the device with the given id, or domain.ErrUnknownDevice.
func FindDevice(devices []domain.MaintenanceMapItem, deviceID string) (domain.MaintenanceMapItem, error) {
	if i := indexOfDevice(devices, deviceID); i >= 0 {
		return devices[i], nil
	}
	return domain.MaintenanceMapItem{}, fmt.Errorf("device_id=%q: %w", deviceID, domain.ErrUnknownDevice)
}
