package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetscope",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fleetscope",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fleetscope",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Aggregation metrics
	aggregationUnitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetscope",
			Subsystem: "aggregation",
			Name:      "units_total",
			Help:      "Total number of (account, region) units processed",
		},
		[]string{"kind", "status"},
	)

	aggregationUnitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fleetscope",
			Subsystem: "aggregation",
			Name:      "unit_duration_seconds",
			Help:      "Duration of one (account, region) listing unit in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	// Federation metrics
	federationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetscope",
			Subsystem: "federation",
			Name:      "requests_total",
			Help:      "Total number of role-assumption requests",
		},
		[]string{"status"},
	)

	// Account metrics
	linkedAccounts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "fleetscope",
			Subsystem: "accounts",
			Name:      "linked_count",
			Help:      "Number of linked accounts by verification state",
		},
		[]string{"state"},
	)

	verificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fleetscope",
			Subsystem: "accounts",
			Name:      "verifications_total",
			Help:      "Total number of account verification attempts",
		},
		[]string{"outcome"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAggregationUnit records one processed (account, region) unit
func RecordAggregationUnit(kind, status string, duration time.Duration) {
	aggregationUnitsTotal.WithLabelValues(kind, status).Inc()
	aggregationUnitDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordFederationRequest records a role-assumption attempt
func RecordFederationRequest(status string) {
	federationRequestsTotal.WithLabelValues(status).Inc()
}

// SetLinkedAccounts sets the gauge for linked accounts by state
func SetLinkedAccounts(state string, count float64) {
	linkedAccounts.WithLabelValues(state).Set(count)
}

// RecordVerification records an account verification attempt
func RecordVerification(outcome string) {
	verificationsTotal.WithLabelValues(outcome).Inc()
}
