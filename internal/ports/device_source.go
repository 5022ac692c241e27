package ports

import (
	"context"

	"maintenance-route-service/internal/domain"
)

// Port: a boundary for retrieving maintenance candidates from a data source.
type DeviceSource interface {
	// Return devices matching the filter, in a stable source-defined order.
	ListDevices(ctx context.Context, filter domain.DeviceFilter) ([]domain.MaintenanceMapItem, error)
}
