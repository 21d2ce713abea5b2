package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/bankbalance/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Balance metrics
	BalancesCreated    prometheus.Counter
	SeedRuns           *prometheus.CounterVec
	SeededRecords      *prometheus.CounterVec
	LatestCacheLookups *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Balance metrics
		BalancesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankbalance_balances_created_total",
			Help: "Total number of balances registered by users",
		}),
		SeedRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbalance_seed_runs_total",
				Help: "Total number of completed seed runs by mode",
			},
			[]string{"mode"},
		),
		SeededRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbalance_seeded_records_total",
				Help: "Total number of reference records written by seed runs",
			},
			[]string{"mode"},
		),
		LatestCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbalance_latest_cache_lookups_total",
				Help: "Latest balance cache lookups by result",
			},
			[]string{"result"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankbalance_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankbalance_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bankbalance_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankbalance_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// BalanceCreated implements usecase.Recorder.
func (m *Metrics) BalanceCreated() {
	m.BalancesCreated.Inc()
}

// SeedCompleted implements usecase.Recorder.
func (m *Metrics) SeedCompleted(mode domain.UpsertMode, records int) {
	m.SeedRuns.WithLabelValues(mode.String()).Inc()
	m.SeededRecords.WithLabelValues(mode.String()).Add(float64(records))
}

// LatestCacheLookup implements usecase.Recorder.
func (m *Metrics) LatestCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.LatestCacheLookups.WithLabelValues(result).Inc()
}
