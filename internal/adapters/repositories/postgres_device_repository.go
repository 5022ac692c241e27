package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/platform/obs"
	"maintenance-route-service/internal/services"
)

// Postgres-backed implementation of the DeviceSource port.
type PostgresDeviceRepository struct{ DB *sql.DB }

func NewPostgresDeviceRepository(db *sql.DB) *PostgresDeviceRepository {
	return &PostgresDeviceRepository{DB: db}
}

// Return devices matching the filter ordered by device_id.
// AirQloud and id criteria run in SQL; the criticality threshold is applied in process.
func (p *PostgresDeviceRepository) ListDevices(
	ctx context.Context,
	filter domain.DeviceFilter,
) (_ []domain.MaintenanceMapItem, err error) {
	defer obs.Time(ctx, "devices.postgres.ListDevices")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres device repository: DB is nil")
	}

	query, args := buildListDevicesQuery(filter)

	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list devices: query devices table: %w", err)
	}
	defer rows.Close()

	devices := make([]domain.MaintenanceMapItem, 0, 64)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("list devices: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list devices: row iteration: %w", err)
	}

	if filter.MinCriticality > 0 {
		devices = services.FilterDevices(devices, domain.DeviceFilter{MinCriticality: filter.MinCriticality})
	}

	return devices, nil
}

func buildListDevicesQuery(filter domain.DeviceFilter) (string, []any) {
	var (
		where []string
		args  []any
	)

	if filter.AirQloud != "" {
		args = append(args, filter.AirQloud)
		where = append(where, fmt.Sprintf("airqlouds ? $%d", len(args)))
	}
	if len(filter.DeviceIDs) > 0 {
		args = append(args, filter.DeviceIDs)
		where = append(where, fmt.Sprintf("device_id = ANY($%d::text[])", len(args)))
	}

	var b strings.Builder
	b.WriteString(`
	SELECT
		device_id, device_name, latitude, longitude, last_active,
		avg_uptime, avg_error_margin, airqlouds,
		site_id, site_name, site_district, site_country, site_latitude, site_longitude
	FROM devices`)
	if len(where) > 0 {
		b.WriteString("\n\tWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString("\n\tORDER BY device_id;")

	return b.String(), args
}

func scanDevice(rows *sql.Rows) (domain.MaintenanceMapItem, error) {
	var (
		d            domain.MaintenanceMapItem
		lastActive   sql.NullTime
		groups       []byte
		siteID       sql.NullString
		siteName     sql.NullString
		siteDistrict sql.NullString
		siteCountry  sql.NullString
		siteLat      sql.NullFloat64
		siteLon      sql.NullFloat64
	)

	if err := rows.Scan(
		&d.DeviceID, &d.DeviceName, &d.Latitude, &d.Longitude, &lastActive,
		&d.AvgUptime, &d.AvgErrorMargin, &groups,
		&siteID, &siteName, &siteDistrict, &siteCountry, &siteLat, &siteLon,
	); err != nil {
		return domain.MaintenanceMapItem{}, fmt.Errorf("scan row: %w", err)
	}

	if lastActive.Valid {
		t := lastActive.Time.UTC()
		d.LastActive = &t
	}

	if len(groups) > 0 {
		if err := json.Unmarshal(groups, &d.AirQlouds); err != nil {
			return domain.MaintenanceMapItem{}, fmt.Errorf("decode airqlouds device_id=%q: %w", d.DeviceID, err)
		}
	}

	if siteID.Valid {
		d.Site = &domain.Site{
			ID:        siteID.String,
			Name:      siteName.String,
			District:  siteDistrict.String,
			Country:   siteCountry.String,
			Latitude:  siteLat.Float64,
			Longitude: siteLon.Float64,
		}
	}

	return d, nil
}

const upsertDeviceQuery = `
	INSERT INTO devices (
		device_id, device_name, latitude, longitude, last_active,
		avg_uptime, avg_error_margin, airqlouds,
		site_id, site_name, site_district, site_country, site_latitude, site_longitude
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (device_id) DO UPDATE
	SET device_name = EXCLUDED.device_name,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		last_active = EXCLUDED.last_active,
		avg_uptime = EXCLUDED.avg_uptime,
		avg_error_margin = EXCLUDED.avg_error_margin,
		airqlouds = EXCLUDED.airqlouds,
		site_id = EXCLUDED.site_id,
		site_name = EXCLUDED.site_name,
		site_district = EXCLUDED.site_district,
		site_country = EXCLUDED.site_country,
		site_latitude = EXCLUDED.site_latitude,
		site_longitude = EXCLUDED.site_longitude;
	`

// deviceArgs flattens a device into upsertDeviceQuery parameters.
func deviceArgs(d domain.MaintenanceMapItem) ([]any, error) {
	groups := d.AirQlouds
	if groups == nil {
		groups = []string{}
	}
	payload, err := json.Marshal(groups)
	if err != nil {
		return nil, fmt.Errorf("encode airqlouds device_id=%q: %w", d.DeviceID, err)
	}

	var lastActive sql.NullTime
	if d.LastActive != nil {
		lastActive = sql.NullTime{Time: d.LastActive.UTC(), Valid: true}
	}

	var siteID, siteName, siteDistrict, siteCountry sql.NullString
	var siteLat, siteLon sql.NullFloat64
	if d.Site != nil {
		siteID = sql.NullString{String: d.Site.ID, Valid: true}
		siteName = sql.NullString{String: d.Site.Name, Valid: true}
		siteDistrict = sql.NullString{String: d.Site.District, Valid: true}
		siteCountry = sql.NullString{String: d.Site.Country, Valid: true}
		siteLat = sql.NullFloat64{Float64: d.Site.Latitude, Valid: true}
		siteLon = sql.NullFloat64{Float64: d.Site.Longitude, Valid: true}
	}

	return []any{
		d.DeviceID, d.DeviceName, d.Latitude, d.Longitude, lastActive,
		d.AvgUptime, d.AvgErrorMargin, string(payload),
		siteID, siteName, siteDistrict, siteCountry, siteLat, siteLon,
	}, nil
}

// UpsertDevices stores device snapshots in a single transaction.
func (p *PostgresDeviceRepository) UpsertDevices(ctx context.Context, devices []domain.MaintenanceMapItem) error {
	if p.DB == nil {
		return errors.New("postgres device repository: DB is nil")
	}
	if len(devices) == 0 {
		return nil
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert devices: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertDeviceQuery)
	if err != nil {
		return fmt.Errorf("upsert devices: prepare: %w", err)
	}
	defer stmt.Close()

	for _, d := range devices {
		args, err := deviceArgs(d)
		if err != nil {
			return fmt.Errorf("upsert devices: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("upsert devices: device_id=%q: %w", d.DeviceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert devices: commit tx: %w", err)
	}

	return nil
}
