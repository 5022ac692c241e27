package geo

import (
	"fmt"
	"math"

	"maintenance-route-service/internal/domain"
)

// ValidateCoordinate rejects latitude/longitude pairs outside WGS84 ranges or NaN.
// The distance functions never call it; it guards input boundaries.
func ValidateCoordinate(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return fmt.Errorf("validate coordinate lat=%v lon=%v: %w", lat, lon, domain.ErrInvalidCoordinate)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("validate coordinate: latitude %v out of range [-90, 90]: %w", lat, domain.ErrInvalidCoordinate)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("validate coordinate: longitude %v out of range [-180, 180]: %w", lon, domain.ErrInvalidCoordinate)
	}
	return nil
}
