package dto

import (
	"time"

	"maintenance-route-service/internal/domain"
)

type PlanRequest struct {
	AirQloud       string      `json:"airqloud"`
	DeviceIDs      []string    `json:"device_ids"`
	MinCriticality float64     `json:"min_criticality"`
	Weights        *WeightsDTO `json:"weights"`
	StartDeviceID  string      `json:"start_device_id"`
	BufferKm       *float64    `json:"buffer_km"`
	MaxStops       *int        `json:"max_stops"`
}

type AppliedWeightsDTO struct {
	Distance    float64 `json:"distance"`
	Criticality float64 `json:"criticality"`
	AirQloud    float64 `json:"airqloud"`
}

type PlanResponse struct {
	ID              string            `json:"id"`
	CreatedAt       time.Time         `json:"created_at"`
	Weights         AppliedWeightsDTO `json:"weights"`
	StartDeviceID   string            `json:"start_device_id,omitempty"`
	BufferKm        float64           `json:"buffer_km"`
	Route           []DeviceDTO       `json:"route"`
	Legs            []LegDTO          `json:"legs"`
	Path            [][]float64       `json:"path"`
	Suggestions     []DeviceDTO       `json:"suggestions"`
	TotalDistanceKm float64           `json:"total_distance_km"`
}

type ListPlanResponse struct {
	Plans []PlanResponse `json:"plans"`
}

func FromPlan(p *domain.MaintenancePlan) PlanResponse {
	res := PlanResponse{
		ID:        p.ID,
		CreatedAt: p.CreatedAt,
		Weights: AppliedWeightsDTO{
			Distance:    p.Preferences.WeightDistance,
			Criticality: p.Preferences.WeightCriticality,
			AirQloud:    p.Preferences.WeightAirQloud,
		},
		BufferKm:        p.BufferKm,
		Route:           FromDevices(p.Route),
		Legs:            FromLegs(p.Legs),
		Path:            RoutePath(p.Route),
		Suggestions:     FromDevices(p.Suggestions),
		TotalDistanceKm: p.TotalDistanceKm,
	}
	if p.Preferences.StartDevice != nil {
		res.StartDeviceID = p.Preferences.StartDevice.DeviceID
	}
	return res
}
