package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"maintenance-route-service/internal/api/dto"
	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/ports"
	"maintenance-route-service/internal/services"
)

type DeviceHandler struct {
	Source ports.DeviceSource
}

// List returns devices ranked by criticality, most critical first.
// Query: airqloud, min_criticality.
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.DeviceFilter{AirQloud: strings.TrimSpace(q.Get("airqloud"))}
	if raw := strings.TrimSpace(q.Get("min_criticality")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 100 {
			writeError(w, r, http.StatusBadRequest, "min_criticality must be a number between 0 and 100")
			return
		}
		filter.MinCriticality = v
	}

	devices, err := h.Source.ListDevices(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, "list devices", err)
		return
	}

	ranked := services.RankDevices(devices)
	res := dto.ListDevicesResponse{Devices: make([]dto.DeviceDTO, 0, len(ranked))}
	for _, s := range ranked {
		res.Devices = append(res.Devices, dto.FromScored(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}
