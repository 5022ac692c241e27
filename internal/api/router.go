package api

import (
	"log"
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"maintenance-route-service/internal/api/handlers"
	"maintenance-route-service/internal/config"
	"maintenance-route-service/internal/platform/obs"
	"maintenance-route-service/internal/ports"
)

// Dependencies the API needs. Events may be nil.
type Deps struct {
	Devices   ports.DeviceSource
	Plans     ports.PlanRepository
	Events    ports.EventPublisher
	Defaults  handlers.Defaults
	RateLimit config.RateLimitConfig
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	r := mux.NewRouter()

	deviceHandler := &handlers.DeviceHandler{Source: deps.Devices}
	routeHandler := &handlers.RouteHandler{Source: deps.Devices, Defaults: deps.Defaults}
	planHandler := &handlers.PlanHandler{
		Source:   deps.Devices,
		Plans:    deps.Plans,
		Events:   deps.Events,
		Defaults: deps.Defaults,
	}

	r.Use(metricsMiddleware)
	if deps.RateLimit.Enabled {
		r.Use(newClientLimiter(deps.RateLimit.RequestsPerMinute, deps.RateLimit.Burst).middleware)
	}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.HandleFunc("/devices", deviceHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/routes/optimize", routeHandler.Optimize).Methods(http.MethodPost)
	r.HandleFunc("/routes/suggestions", routeHandler.Suggestions).Methods(http.MethodPost)
	r.HandleFunc("/plans", planHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/plans", planHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/plans/{id}", planHandler.Get).Methods(http.MethodGet)

	var h http.Handler = r
	h = loggingMiddleware(h)
	h = requestIDMiddleware(h)
	h = gorillahandlers.CORS(
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
		gorillahandlers.ExposedHeaders([]string{"X-Request-ID", "Location"}),
	)(h)
	h = gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(log.Default()),
		gorillahandlers.PrintRecoveryStack(false),
	)(h)

	return h
}
