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
			Namespace: "planbill",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "planbill",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "planbill",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Plan registry metrics
	planMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planbill",
			Subsystem: "plan",
			Name:      "mutations_total",
			Help:      "Total number of plan create/update operations",
		},
		[]string{"operation"},
	)

	prorationCalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planbill",
			Subsystem: "plan",
			Name:      "proration_calculations_total",
			Help:      "Total number of prorated upgrade price calculations",
		},
		[]string{"status"},
	)

	// Subscription lifecycle metrics
	subscriptionActivationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "planbill",
			Subsystem: "subscription",
			Name:      "activations_total",
			Help:      "Total number of subscription activations",
		},
	)

	ordersIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planbill",
			Subsystem: "billing",
			Name:      "orders_issued_total",
			Help:      "Total number of orders issued",
		},
		[]string{"source"},
	)

	authFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "planbill",
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Total number of rejected requests at the auth gates",
		},
		[]string{"gate"},
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

// RecordPlanMutation records a plan create or update
func RecordPlanMutation(operation string) {
	planMutationsTotal.WithLabelValues(operation).Inc()
}

// RecordProration records the outcome of a proration calculation
func RecordProration(status string) {
	prorationCalculationsTotal.WithLabelValues(status).Inc()
}

// RecordActivation records a subscription activation
func RecordActivation() {
	subscriptionActivationsTotal.Inc()
}

// RecordOrderIssued records an issued order, labeled by its source
// ("activation" or "renewal")
func RecordOrderIssued(source string) {
	ordersIssuedTotal.WithLabelValues(source).Inc()
}

// RecordAuthFailure records a request rejected by an auth gate
func RecordAuthFailure(gate string) {
	authFailuresTotal.WithLabelValues(gate).Inc()
}
