package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/geo"
	"maintenance-route-service/internal/platform/obs"
	"maintenance-route-service/internal/services"
)

const devicesPath = "/devices/maintenance"

// Client reads device maintenance snapshots from the upstream device
// platform API. It implements ports.DeviceSource and is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
	token   string
	backoff time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.session = hc }
}

// WithBackoff sets the initial retry delay.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

func NewClient(baseURL, token string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("platform client: base url is empty")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("platform client: invalid base url %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		session: &http.Client{Timeout: timeout},
		baseURL: baseURL,
		token:   token,
		backoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type devicesResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Devices []deviceJSON `json:"devices"`
}

type deviceJSON struct {
	DeviceID       string     `json:"device_id"`
	DeviceName     string     `json:"device_name"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	LastActive     *time.Time `json:"last_active"`
	AvgUptime      float64    `json:"avg_uptime"`
	AvgErrorMargin float64    `json:"avg_error_margin"`
	AirQlouds      []string   `json:"airqlouds"`
	Site           *siteJSON  `json:"site"`
}

type siteJSON struct {
	ID        string  `json:"_id"`
	Name      string  `json:"name"`
	District  string  `json:"district"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ListDevices fetches the maintenance snapshot. The airqloud criterion is
// forwarded upstream; every criterion is also applied locally.
// Devices with invalid coordinates are skipped.
func (c *Client) ListDevices(
	ctx context.Context,
	filter domain.DeviceFilter,
) (_ []domain.MaintenanceMapItem, err error) {
	defer obs.Time(ctx, "devices.platform.ListDevices")(&err)

	endpoint := c.baseURL + devicesPath
	if filter.AirQloud != "" {
		endpoint += "?" + url.Values{"airqloud": {filter.AirQloud}}.Encode()
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint)
	})
	if err != nil {
		return nil, fmt.Errorf("platform list devices: %w", err)
	}
	defer resp.Body.Close()

	var body devicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("platform list devices: decode response: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("platform list devices: upstream reported failure: %s", body.Message)
	}

	devices := make([]domain.MaintenanceMapItem, 0, len(body.Devices))
	for _, d := range body.Devices {
		if strings.TrimSpace(d.DeviceID) == "" {
			continue
		}
		if err := geo.ValidateCoordinate(d.Latitude, d.Longitude); err != nil {
			continue
		}
		devices = append(devices, d.toDomain())
	}

	return services.FilterDevices(devices, filter), nil
}

func (d deviceJSON) toDomain() domain.MaintenanceMapItem {
	item := domain.MaintenanceMapItem{
		DeviceID:       strings.TrimSpace(d.DeviceID),
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
