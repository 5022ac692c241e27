package domain

import "time"

// Represents a single leg between two consecutive stops of a maintenance route.
type RouteLeg struct {
	FromDeviceID string
	ToDeviceID   string
	DistanceKm   float64
	BearingDeg   float64
	CumulativeKm float64
}

// Represents the planned maintenance visit for one field team.
// A MaintenancePlan is the output of the planner: the ordered route, the
// legs between consecutive stops, and off-route devices worth a detour.
// It is immutable planning data once saved.
type MaintenancePlan struct {
	ID              string
	CreatedAt       time.Time
	Preferences     RouteOptimizationPreferences
	BufferKm        float64
	Route           []MaintenanceMapItem
	Legs            []RouteLeg
	Suggestions     []MaintenanceMapItem
	TotalDistanceKm float64
}

// Event emitted after a plan has been stored.
type PlanEvent struct {
	Type        string    `json:"type"`
	PlanID      string    `json:"plan_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Stops       int       `json:"stops"`
	Suggestions int       `json:"suggestions"`
	DistanceKm  float64   `json:"distance_km"`
	DeviceIDs   []string  `json:"device_ids"`
}

const PlanCreatedEvent = "plan.created"
