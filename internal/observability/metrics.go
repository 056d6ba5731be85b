package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the site.
type Metrics struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	rosterGenerations  prometheus.Counter
	chartRenders       *prometheus.CounterVec
	contactSubmissions *prometheus.CounterVec
}

// NewMetrics initialises the registry with HTTP and dashboard metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "brightsteps_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brightsteps_http_request_duration_seconds",
		Help:    "HTTP request duration by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	generations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "brightsteps_roster_generations_total",
		Help: "Synthetic rosters generated.",
	})
	renders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "brightsteps_chart_renders_total",
		Help: "Chart option payloads rendered by chart kind.",
	}, []string{"kind"})
	contacts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "brightsteps_contact_submissions_total",
		Help: "Contact form submissions by outcome.",
	}, []string{"outcome"})
	registry.MustRegister(requests, duration, generations, renders, contacts)
	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:      requests,
		requestDuration:    duration,
		rosterGenerations:  generations,
		chartRenders:       renders,
		contactSubmissions: contacts,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// RosterGenerated counts one generated roster.
func (m *Metrics) RosterGenerated() {
	if m == nil {
		return
	}
	m.rosterGenerations.Inc()
}

// ChartRendered counts one rendered chart of the given kind.
func (m *Metrics) ChartRendered(kind string) {
	if m == nil {
		return
	}
	m.chartRenders.WithLabelValues(kind).Inc()
}

// ContactSubmitted counts one contact form submission.
func (m *Metrics) ContactSubmitted(outcome string) {
	if m == nil {
		return
	}
	m.contactSubmissions.WithLabelValues(outcome).Inc()
}

// Registerer exposes the registry for custom metrics.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
