package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/geo"
)

// Initialize the Postgres database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDevicesQuery := `
	CREATE TABLE IF NOT EXISTS devices (
		device_id TEXT PRIMARY KEY,
		device_name TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		last_active TIMESTAMPTZ NULL,
		avg_uptime DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_error_margin DOUBLE PRECISION NOT NULL DEFAULT 0,
		airqlouds JSONB NOT NULL DEFAULT '[]'::jsonb,
		site_id TEXT NULL,
		site_name TEXT NULL,
		site_district TEXT NULL,
		site_country TEXT NULL,
		site_latitude DOUBLE PRECISION NULL,
		site_longitude DOUBLE PRECISION NULL
	);
	`

	createPlansQuery := `
	CREATE TABLE IF NOT EXISTS maintenance_plans (
		plan_id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		stops INTEGER NOT NULL,
		total_distance_km DOUBLE PRECISION NOT NULL,
		body JSONB NOT NULL
	);
	`

	createAirQloudIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_devices_airqlouds
	ON devices USING GIN (airqlouds);
	`

	createPlansIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_maintenance_plans_created_at
	ON maintenance_plans(created_at DESC);
	`

	statements := []string{
		createDevicesQuery,
		createPlansQuery,
		createAirQloudIndexQuery,
		createPlansIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type SiteSeed struct {
	ID        string  `json:"_id"`
	Name      string  `json:"name"`
	District  string  `json:"district"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type DeviceSeed struct {
	DeviceID       string     `json:"device_id"`
	DeviceName     string     `json:"device_name"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	LastActive     *time.Time `json:"last_active"`
	AvgUptime      float64    `json:"avg_uptime"`
	AvgErrorMargin float64    `json:"avg_error_margin"`
	AirQlouds      []string   `json:"airqlouds"`
	Site           *SiteSeed  `json:"site"`
}

// LoadDeviceSeeds reads and validates device snapshots from a JSON file.
func LoadDeviceSeeds(jsonPath string) ([]domain.MaintenanceMapItem, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load device seeds: read %q: %w", jsonPath, err)
	}

	var data []DeviceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load device seeds: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(data))
	devices := make([]domain.MaintenanceMapItem, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.DeviceID)
		if id == "" {
			return nil, fmt.Errorf("load device seeds: item at index %d: device_id cannot be empty", i+1)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("load device seeds: duplicate device_id %q at index %d", id, i+1)
		}
		seen[id] = struct{}{}

		if err := geo.ValidateCoordinate(item.Latitude, item.Longitude); err != nil {
			return nil, fmt.Errorf("load device seeds: device_id=%q: %w", id, err)
		}

		item.DeviceID = id
		devices = append(devices, item.toDomain())
	}

	return devices, nil
}

func (s DeviceSeed) toDomain() domain.MaintenanceMapItem {
	d := domain.MaintenanceMapItem{
		DeviceID:       s.DeviceID,
		DeviceName:     s.DeviceName,
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		LastActive:     s.LastActive,
		AvgUptime:      s.AvgUptime,
		AvgErrorMargin: s.AvgErrorMargin,
		AirQlouds:      s.AirQlouds,
	}
	if s.Site != nil {
		d.Site = &domain.Site{
			ID:        s.Site.ID,
			Name:      s.Site.Name,
			District:  s.Site.District,
			Country:   s.Site.Country,
			Latitude:  s.Site.Latitude,
			Longitude: s.Site.Longitude,
		}
	}
	return d
}

// Populate the devices table from a JSON seed file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	if db == nil {
		return errors.New("seed devices: DB is nil")
	}

	devices, err := LoadDeviceSeeds(jsonPath)
	if err != nil {
		return fmt.Errorf("seed devices: %w", err)
	}

	if err := NewPostgresDeviceRepository(db).UpsertDevices(ctx, devices); err != nil {
		return fmt.Errorf("seed devices: %w", err)
	}

	return nil
}
