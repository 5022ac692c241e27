package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry served on /metrics.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)

	// OperationDuration is fed by Time for every instrumented operation.
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "operation_duration_seconds",
			Help:    "Duration of internal operations in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"op", "outcome"},
	)

	PlansCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "maintenance_plans_created_total", Help: "Maintenance plans computed and stored."},
	)
	RouteStops = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "maintenance_route_stops", Help: "Stops per optimized route.", Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250}},
	)
	RouteDistanceKm = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "maintenance_route_distance_km", Help: "Total distance per optimized route in km.", Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}},
	)
	SuggestionsFound = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "maintenance_route_suggestions", Help: "Detour suggestions per plan.", Buckets: []float64{0, 1, 2, 5, 10, 25, 50}},
	)

	// DeviceCacheLookups counts device snapshot cache results by outcome (hit, miss, error).
	DeviceCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "device_cache_lookups_total", Help: "Device snapshot cache lookups by result."},
		[]string{"result"},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "plan_events_published_total", Help: "Plan events published by type and status."},
		[]string{"type", "status"},
	)
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "http_rate_limited_total", Help: "Requests rejected by the rate limiter."},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(
			HTTPRequests,
			HTTPDuration,
			OperationDuration,
			PlansCreated,
			RouteStops,
			RouteDistanceKm,
			SuggestionsFound,
			DeviceCacheLookups,
			EventsPublished,
			RateLimited,
		)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
