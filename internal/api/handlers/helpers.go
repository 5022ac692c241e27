package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"maintenance-route-service/internal/api/dto"
	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/geo"
	"maintenance-route-service/internal/platform/obs"
	"maintenance-route-service/internal/services"
)

const maxBodyBytes = 1 << 20

// Defaults are applied to request fields the client leaves out.
type Defaults struct {
	WeightDistance    float64
	WeightCriticality float64
	WeightAirQloud    float64
	BufferKm          float64
	MaxStops          int
}

func (d Defaults) bufferKm() float64 {
	if d.BufferKm > 0 {
		return d.BufferKm
	}
	return services.DefaultCorridorBufferKm
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("req_id=%s encode failed: method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps domain errors to status codes. Anything unmapped
// is logged and reported as 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrPlanNotFound):
		writeError(w, r, http.StatusNotFound, "plan not found")
	case errors.Is(err, domain.ErrUnknownDevice),
		errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoDevices):
		writeError(w, r, http.StatusUnprocessableEntity, "no devices available for planning")
	default:
		log.Printf("req_id=%s %s failed: %v", obs.RequestID(r.Context()), op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// inlineDevices converts request devices, checking ids and coordinates.
func inlineDevices(in []dto.DeviceDTO) ([]domain.MaintenanceMapItem, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.MaintenanceMapItem, 0, len(in))
	for i, d := range in {
		id := strings.TrimSpace(d.DeviceID)
		if id == "" {
			return nil, fmt.Errorf("device at index %d: device_id is required: %w", i, domain.ErrInvalidRequest)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate device_id %q: %w", id, domain.ErrInvalidRequest)
		}
		seen[id] = struct{}{}

		if err := geo.ValidateCoordinate(d.Latitude, d.Longitude); err != nil {
			return nil, fmt.Errorf("device_id=%q: %w", id, err)
		}

		d.DeviceID = id
		out = append(out, d.ToDomain())
	}
	return out, nil
}

// resolveWeights overlays request weights on the defaults. Negative weights are rejected.
func resolveWeights(in *dto.WeightsDTO, def Defaults) (domain.RouteOptimizationPreferences, error) {
	prefs := domain.RouteOptimizationPreferences{
		WeightDistance:    def.WeightDistance,
		WeightCriticality: def.WeightCriticality,
		WeightAirQloud:    def.WeightAirQloud,
	}
	if in != nil {
		if in.Distance != nil {
			prefs.WeightDistance = *in.Distance
		}
		if in.Criticality != nil {
			prefs.WeightCriticality = *in.Criticality
		}
		if in.AirQloud != nil {
			prefs.WeightAirQloud = *in.AirQloud
		}
	}

	if prefs.WeightDistance < 0 || prefs.WeightCriticality < 0 || prefs.WeightAirQloud < 0 {
		return prefs, fmt.Errorf("weights must be >= 0: %w", domain.ErrInvalidRequest)
	}
	return prefs, nil
}
