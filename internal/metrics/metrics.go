package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
	ordersTotal prometheus.Counter
	gapsTotal   prometheus.Counter
	jobsActive  prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballast_runs_total",
			Help: "Total number of backtest runs",
		},
		[]string{"mode", "status"},
	)
	r.runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ballast_run_duration_seconds",
			Help:    "Backtest run duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)
	r.ordersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ballast_orders_generated_total",
			Help: "Total number of orders emitted by runs",
		},
	)
	r.gapsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ballast_data_gaps_total",
			Help: "Total number of held-position data gaps skipped during runs",
		},
	)
	r.jobsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ballast_jobs_active",
			Help: "Number of backtest jobs currently tracked by the server",
		},
	)

	reg.MustRegister(r.runsTotal)
	reg.MustRegister(r.runDuration)
	reg.MustRegister(r.ordersTotal)
	reg.MustRegister(r.gapsTotal)
	reg.MustRegister(r.jobsActive)

	return r
}

// Handler exposes the registry for scraping.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordRun records a completed or failed backtest run.
func (r *Registry) RecordRun(mode, status string, duration float64) {
	r.runsTotal.WithLabelValues(mode, status).Inc()
	r.runDuration.Observe(duration)
}

// AddOrders adds to the emitted-order counter.
func (r *Registry) AddOrders(n int) {
	r.ordersTotal.Add(float64(n))
}

// AddGaps adds to the data-gap counter.
func (r *Registry) AddGaps(n int) {
	r.gapsTotal.Add(float64(n))
}

// SetJobsActive sets the number of jobs held by the server job store.
func (r *Registry) SetJobsActive(count int) {
	r.jobsActive.Set(float64(count))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
