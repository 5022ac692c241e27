package repositories

import (
	"context"
	"fmt"

	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/services"
)

// In-memory DeviceSource over a fixed snapshot, used for local runs and tests.
type MemoryDeviceRepository struct {
	devices []domain.MaintenanceMapItem
}

func NewMemoryDeviceRepository(devices []domain.MaintenanceMapItem) *MemoryDeviceRepository {
	cp := make([]domain.MaintenanceMapItem, len(devices))
	copy(cp, devices)
	return &MemoryDeviceRepository{devices: cp}
}

// NewMemoryDeviceRepositoryFromJSON loads the snapshot from a seed file.
func NewMemoryDeviceRepositoryFromJSON(jsonPath string) (*MemoryDeviceRepository, error) {
	devices, err := LoadDeviceSeeds(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("memory device repository: %w", err)
	}
	return &MemoryDeviceRepository{devices: devices}, nil
}

func (m *MemoryDeviceRepository) ListDevices(_ context.Context, filter domain.DeviceFilter) ([]domain.MaintenanceMapItem, error) {
	return services.FilterDevices(m.devices, filter), nil
}
