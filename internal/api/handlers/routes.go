package handlers

import (
	"net/http"
	"strings"

	"maintenance-route-service/internal/api/dto"
	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/ports"
	"maintenance-route-service/internal/services"
)

type RouteHandler struct {
	Source   ports.DeviceSource
	Defaults Defaults
}

// Optimize orders devices into a maintenance route.
// Inline devices win over device_ids/airqloud lookups against the source.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	prefs, err := resolveWeights(req.Weights, h.Defaults)
	if err != nil {
		writeServiceError(w, r, "optimize route", err)
		return
	}

	var devices []domain.MaintenanceMapItem
	if len(req.Devices) > 0 {
		devices, err = inlineDevices(req.Devices)
	} else {
		devices, err = h.Source.ListDevices(r.Context(), domain.DeviceFilter{
			AirQloud:  strings.TrimSpace(req.AirQloud),
			DeviceIDs: req.DeviceIDs,
		})
	}
	if err != nil {
		writeServiceError(w, r, "optimize route", err)
		return
	}

	if id := strings.TrimSpace(req.StartDeviceID); id != "" {
		start, err := services.FindDevice(devices, id)
		if err != nil {
			writeServiceError(w, r, "optimize route", err)
			return
		}
		prefs.StartDevice = &start
	}

	route := services.OptimizeRoute(devices, prefs)
	legs := services.BuildLegs(route)

	writeJSON(w, r, http.StatusOK, dto.RouteResponse{
		Route:           dto.FromDevices(route),
		Legs:            dto.FromLegs(legs),
		Path:            dto.RoutePath(route),
		TotalDistanceKm: services.TotalDistanceKm(legs),
	})
}

// Suggestions lists off-route devices reachable within the detour budget.
func (h *RouteHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req dto.SuggestionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	bufferKm := h.Defaults.bufferKm()
	if req.BufferKm != nil {
		if *req.BufferKm < 0 {
			writeError(w, r, http.StatusBadRequest, "buffer_km must be >= 0")
			return
		}
		bufferKm = *req.BufferKm
	}

	var (
		candidates []domain.MaintenanceMapItem
		err        error
	)
	if len(req.Candidates) > 0 {
		candidates, err = inlineDevices(req.Candidates)
	} else {
		candidates, err = h.Source.ListDevices(r.Context(), domain.DeviceFilter{AirQloud: strings.TrimSpace(req.AirQloud)})
	}
	if err != nil {
		writeServiceError(w, r, "route suggestions", err)
		return
	}

	var route []domain.MaintenanceMapItem
	switch {
	case len(req.Route) > 0:
		route, err = inlineDevices(req.Route)
	case len(req.RouteIDs) > 0:
		route, err = h.resolveRoute(r, req.RouteIDs, candidates)
	}
	if err != nil {
		writeServiceError(w, r, "route suggestions", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SuggestionsResponse{
		BufferKm:    bufferKm,
		Suggestions: dto.FromDevices(services.FindDevicesAlongRoute(route, candidates, bufferKm)),
	})
}

// resolveRoute maps ids to devices in the given order. Ids missing from the
// candidate pool are looked up in the source directly.
func (h *RouteHandler) resolveRoute(
	r *http.Request,
	ids []string,
	candidates []domain.MaintenanceMapItem,
) ([]domain.MaintenanceMapItem, error) {
	route := make([]domain.MaintenanceMapItem, 0, len(ids))
	var missing []string
	for _, id := range ids {
		if _, err := services.FindDevice(candidates, id); err != nil {
			missing = append(missing, id)
		}
	}

	pool := candidates
	if len(missing) > 0 {
		extra, err := h.Source.ListDevices(r.Context(), domain.DeviceFilter{DeviceIDs: missing})
		if err != nil {
			return nil, err
		}
		pool = append(append([]domain.MaintenanceMapItem{}, candidates...), extra...)
	}

	for _, id := range ids {
		d, err := services.FindDevice(pool, id)
		if err != nil {
			return nil, err
		}
		route = append(route, d)
	}
	return route, nil
}
