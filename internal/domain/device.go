package domain

import "time"

// Represents one monitoring device eligible for a maintenance visit.
// Items are read-only snapshots supplied by a DeviceSource; planning code
// never mutates or persists them.
type MaintenanceMapItem struct {
	DeviceID       string
	DeviceName     string
	Latitude       float64
	Longitude      float64
	LastActive     *time.Time
	AvgUptime      float64 // hours per 24 the device reported data
	AvgErrorMargin float64 // percent
	AirQlouds      []string
	Site           *Site
}

// Site the device is deployed at. Carried through, not used for planning.
type Site struct {
	ID        string
	Name      string
	District  string
	Country   string
	Latitude  float64
	Longitude float64
}

func (d MaintenanceMapItem) Coordinates() Coordinates {
	return Coordinates{Lat: d.Latitude, Lon: d.Longitude}
}

// SharesAirQloud reports whether both devices belong to at least one common AirQloud.
func (d MaintenanceMapItem) SharesAirQloud(other MaintenanceMapItem) bool {
	if len(d.AirQlouds) == 0 || len(other.AirQlouds) == 0 {
		return false
	}

	groups := make(map[string]struct{}, len(d.AirQlouds))
	for _, g := range d.AirQlouds {
		groups[g] = struct{}{}
	}
	for _, g := range other.AirQlouds {
		if _, ok := groups[g]; ok {
			return true
		}
	}
	return false
}

// InAirQloud reports whether the device is a member of the given AirQloud.
func (d MaintenanceMapItem) InAirQloud(id string) bool {
	for _, g := range d.AirQlouds {
		if g == id {
			return true
		}
	}
	return false
}

// Device paired with its computed criticality score.
type ScoredDevice struct {
	Device      MaintenanceMapItem
	Criticality float64
}

// Narrows a device pool before planning. Zero values disable each criterion.
type DeviceFilter struct {
	AirQloud       string
	DeviceIDs      []string
	MinCriticality float64
}
