package dto

import (
	"time"

	"maintenance-route-service/internal/domain"
)

type SiteDTO struct {
	ID        string  `json:"_id"`
	Name      string  `json:"name"`
	District  string  `json:"district,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DeviceDTO is the wire form of a maintenance map item. Criticality is
// only set on responses.
type DeviceDTO struct {
	DeviceID       string     `json:"device_id"`
	DeviceName     string     `json:"device_name"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	LastActive     *time.Time `json:"last_active,omitempty"`
	AvgUptime      float64    `json:"avg_uptime"`
	AvgErrorMargin float64    `json:"avg_error_margin"`
	AirQlouds      []string   `json:"airqlouds"`
	Site           *SiteDTO   `json:"site,omitempty"`
	Criticality    *float64   `json:"criticality,omitempty"`
}

type ListDevicesResponse struct {
	Devices []DeviceDTO `json:"devices"`
}

func FromDevice(d domain.MaintenanceMapItem) DeviceDTO {
	out := DeviceDTO{
		DeviceID:       d.DeviceID,
		DeviceName:     d.DeviceName,
		Latitude:       d.Latitude,
		Longitude:      d.Longitude,
		LastActive:     d.LastActive,
		AvgUptime:      d.AvgUptime,
		AvgErrorMargin: d.AvgErrorMargin,
		AirQlouds:      d.AirQlouds,
	}
	if out.AirQlouds == nil {
		out.AirQlouds = []string{}
	}
	if d.Site != nil {
		out.Site = &SiteDTO{
			ID:        d.Site.ID,
			Name:      d.Site.Name,
			District:  d.Site.District,
			Country:   d.Site.Country,
			Latitude:  d.Site.Latitude,
			Longitude: d.Site.Longitude,
		}
	}
	return out
}

func FromScored(s domain.ScoredDevice) DeviceDTO {
	out := FromDevice(s.Device)
	score := s.Criticality
	out.Criticality = &score
	return out
}

func FromDevices(devices []domain.MaintenanceMapItem) []DeviceDTO {
	out := make([]DeviceDTO, 0, len(devices))
	for _, d := range devices {
		out = append(out, FromDevice(d))
	}
	return out
}

func (d DeviceDTO) ToDomain() domain.MaintenanceMapItem {
	item := domain.MaintenanceMapItem{
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
		item.Site = &domain.Site{
			ID:        d.Site.ID,
			Name:      d.Site.Name,
			District:  d.Site.District,
			Country:   d.Site.Country,
			Latitude:  d.Site.Latitude,
			Longitude: d.Site.Longitude,
		}
	}
	return item
}
