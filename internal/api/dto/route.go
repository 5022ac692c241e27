package dto

import "maintenance-route-service/internal/domain"

// Weights left nil fall back to the server defaults.
type WeightsDTO struct {
	Distance    *float64 `json:"distance"`
	Criticality *float64 `json:"criticality"`
	AirQloud    *float64 `json:"airqloud"`
}

// OptimizeRouteRequest orders either the inline devices or, when none are
// given, the devices selected from the device source by airqloud and ids.
type OptimizeRouteRequest struct {
	Devices       []DeviceDTO `json:"devices"`
	DeviceIDs     []string    `json:"device_ids"`
	AirQloud      string      `json:"airqloud"`
	Weights       *WeightsDTO `json:"weights"`
	StartDeviceID string      `json:"start_device_id"`
}

type LegDTO struct {
	FromDeviceID string  `json:"from_device_id"`
	ToDeviceID   string  `json:"to_device_id"`
	DistanceKm   float64 `json:"distance_km"`
	BearingDeg   float64 `json:"bearing_deg"`
	CumulativeKm float64 `json:"cumulative_km"`
}

type RouteResponse struct {
	Route           []DeviceDTO `json:"route"`
	Legs            []LegDTO    `json:"legs"`
	Path            [][]float64 `json:"path"`
	TotalDistanceKm float64     `json:"total_distance_km"`
}

// SuggestionsRequest takes the route either inline or as ids resolved
// against the device source. Candidates default to the device source.
type SuggestionsRequest struct {
	Route      []DeviceDTO `json:"route"`
	RouteIDs   []string    `json:"route_ids"`
	Candidates []DeviceDTO `json:"candidates"`
	AirQloud   string      `json:"airqloud"`
	BufferKm   *float64    `json:"buffer_km"`
}

type SuggestionsResponse struct {
	BufferKm    float64     `json:"buffer_km"`
	Suggestions []DeviceDTO `json:"suggestions"`
}

func FromLegs(legs []domain.RouteLeg) []LegDTO {
	out := make([]LegDTO, 0, len(legs))
	for _, l := range legs {
		out = append(out, LegDTO(l))
	}
	return out
}

// RoutePath returns the stops as GeoJSON LineString coordinates ([lon, lat]).
func RoutePath(route []domain.MaintenanceMapItem) [][]float64 {
	path := make([][]float64, 0, len(route))
	for _, d := range route {
		path = append(path, d.Coordinates().CoordsToList())
	}
	return path
}
