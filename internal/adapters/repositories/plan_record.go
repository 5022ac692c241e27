package repositories

import (
	"time"

	"maintenance-route-service/internal/domain"
)

// planRecord is the JSONB body stored for a maintenance plan.
type planRecord struct {
	ID              string       `json:"id"`
	CreatedAt       time.Time    `json:"created_at"`
	Preferences     prefsRecord  `json:"preferences"`
	BufferKm        float64      `json:"buffer_km"`
	Route           []DeviceSeed `json:"route"`
	Legs            []legRecord  `json:"legs"`
	Suggestions     []DeviceSeed `json:"suggestions"`
	TotalDistanceKm float64      `json:"total_distance_km"`
}

type prefsRecord struct {
	WeightDistance    float64 `json:"weight_distance"`
	WeightCriticality float64 `json:"weight_criticality"`
	WeightAirQloud    float64 `json:"weight_airqloud"`
	StartDeviceID     string  `json:"start_device_id,omitempty"`
}

type legRecord struct {
	FromDeviceID string  `json:"from_device_id"`
	ToDeviceID   string  `json:"to_device_id"`
	DistanceKm   float64 `json:"distance_km"`
	BearingDeg   float64 `json:"bearing_deg"`
	CumulativeKm float64 `json:"cumulative_km"`
}

func toPlanRecord(p *domain.MaintenancePlan) planRecord {
	rec := planRecord{
		ID:        p.ID,
		CreatedAt: p.CreatedAt,
		Preferences: prefsRecord{
			WeightDistance:    p.Preferences.WeightDistance,
			WeightCriticality: p.Preferences.WeightCriticality,
			WeightAirQloud:    p.Preferences.WeightAirQloud,
		},
		BufferKm:        p.BufferKm,
		Route:           toDeviceSeeds(p.Route),
		Legs:            make([]legRecord, 0, len(p.Legs)),
		Suggestions:     toDeviceSeeds(p.Suggestions),
		TotalDistanceKm: p.TotalDistanceKm,
	}
	if p.Preferences.StartDevice != nil {
		rec.Preferences.StartDeviceID = p.Preferences.StartDevice.DeviceID
	}
	for _, l := range p.Legs {
		rec.Legs = append(rec.Legs, legRecord(l))
	}
	return rec
}

func (r planRecord) toDomain() *domain.MaintenancePlan {
	plan := &domain.MaintenancePlan{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Preferences: domain.RouteOptimizationPreferences{
			WeightDistance:    r.Preferences.WeightDistance,
			WeightCriticality: r.Preferences.WeightCriticality,
			WeightAirQloud:    r.Preferences.WeightAirQloud,
		},
		BufferKm:        r.BufferKm,
		Route:           fromDeviceSeeds(r.Route),
		Legs:            make([]domain.RouteLeg, 0, len(r.Legs)),
		Suggestions:     fromDeviceSeeds(r.Suggestions),
		TotalDistanceKm: r.TotalDistanceKm,
	}

	if id := r.Preferences.StartDeviceID; id != "" {
		for i := range plan.Route {
			if plan.Route[i].DeviceID == id {
				start := plan.Route[i]
				plan.Preferences.StartDevice = &start
				break
			}
		}
	}
	for _, l := range r.Legs {
		plan.Legs = append(plan.Legs, domain.RouteLeg(l))
	}
	return plan
}

func toDeviceSeeds(devices []domain.MaintenanceMapItem) []DeviceSeed {
	out := make([]DeviceSeed, 0, len(devices))
	for _, d := range devices {
		s := DeviceSeed{
			DeviceID:       d.DeviceID,
			DeviceName:     d.DeviceName,
			Latitude:       d.Latitude,
			Longitude:      d.Longitude,
			LastActive:     d.LastActive,
			AvgUptime:      d.AvgUptime,
			AvgErrorMargin: d.AvgErrorMargin,
			AirQlouds:      d.AirQlouds,
		}
		if d.Site != nil {
			s.Site = &SiteSeed{
				ID:        d.Site.ID,
				Name:      d.Site.Name,
				District:  d.Site.District,
				Country:   d.Site.Country,
				Latitude:  d.Site.Latitude,
				Longitude: d.Site.Longitude,
			}
		}
		out = append(out, s)
	}
	return out
}

func fromDeviceSeeds(seeds []DeviceSeed) []domain.MaintenanceMapItem {
	out := make([]domain.MaintenanceMapItem, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, s.toDomain())
	}
	return out
}
