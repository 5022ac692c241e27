package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"maintenance-route-service/internal/api/dto"
	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/ports"
	"maintenance-route-service/internal/services"
)

const (
	defaultPlanListLimit = 20
	maxPlanListLimit     = 100
)

type PlanHandler struct {
	Source   ports.DeviceSource
	Plans    ports.PlanRepository
	Events   ports.EventPublisher
	Defaults Defaults
}

// Create builds, stores, and announces a maintenance plan.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	prefs, err := resolveWeights(req.Weights, h.Defaults)
	if err != nil {
		writeServiceError(w, r, "create plan", err)
		return
	}
	if req.MinCriticality < 0 || req.MinCriticality > 100 {
		writeError(w, r, http.StatusBadRequest, "min_criticality must be between 0 and 100")
		return
	}

	svcReq := services.PlanMaintenanceRequest{
		Filter: domain.DeviceFilter{
			AirQloud:       strings.TrimSpace(req.AirQloud),
			DeviceIDs:      req.DeviceIDs,
			MinCriticality: req.MinCriticality,
		},
		WeightDistance:    prefs.WeightDistance,
		WeightCriticality: prefs.WeightCriticality,
		WeightAirQloud:    prefs.WeightAirQloud,
		StartDeviceID:     strings.TrimSpace(req.StartDeviceID),
		BufferKm:          h.Defaults.bufferKm(),
		MaxStops:          h.Defaults.MaxStops,
	}
	if req.BufferKm != nil {
		svcReq.BufferKm = *req.BufferKm
	}
	if req.MaxStops != nil {
		svcReq.MaxStops = *req.MaxStops
	}

	plan, err := services.PlanMaintenance(r.Context(), svcReq, h.Source, h.Plans, h.Events)
	if err != nil {
		writeServiceError(w, r, "create plan", err)
		return
	}

	w.Header().Set("Location", "/plans/"+plan.ID)
	writeJSON(w, r, http.StatusCreated, dto.FromPlan(plan))
}

// Get returns one stored plan by id.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	plan, err := h.Plans.GetPlan(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromPlan(plan))
}

// List returns the most recent plans. Query: limit (1..100, default 20).
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultPlanListLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxPlanListLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = v
	}

	plans, err := h.Plans.ListPlans(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, "list plans", err)
		return
	}

	res := dto.ListPlanResponse{Plans: make([]dto.PlanResponse, 0, len(plans))}
	for _, p := range plans {
		res.Plans = append(res.Plans, dto.FromPlan(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}
