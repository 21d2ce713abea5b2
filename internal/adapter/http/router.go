package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/bankbalance/internal/adapter/http/handler"
	"github.com/iho/bankbalance/internal/adapter/http/middleware"
	"github.com/iho/bankbalance/internal/infrastructure/metrics"
	"github.com/iho/bankbalance/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BalanceHandler   *handler.BalanceHandler
	SeedHandler      *handler.SeedHandler
	ReferenceHandler *handler.ReferenceHandler
	CurrencyHandler  *handler.CurrencyHandler
	HealthHandler    *handler.HealthHandler

	Logger           *zerolog.Logger          // Optional: defaults to the global logger
	Metrics          *metrics.Metrics         // Optional: enables HTTP metrics
	MetricsHandler   http.Handler             // Optional: serves /metrics, defaults to promhttp.Handler()
	RateLimiter      *middleware.RateLimiter  // Optional
	IdempotencyStore usecase.IdempotencyStore // Optional
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewHTTPMetrics(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Balances
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.BalanceHandler.Create)
			r.Get("/", cfg.BalanceHandler.List)
			r.Get("/latest", cfg.BalanceHandler.Latest)
		})

		// Seeding
		r.Route("/seed", func(r chi.Router) {
			r.Post("/", cfg.SeedHandler.Run)
			r.Get("/", cfg.SeedHandler.Describe)
		})

		// Reference data
		r.Route("/reference", func(r chi.Router) {
			r.Get("/companies", cfg.ReferenceHandler.Companies)
			r.Get("/resellers", cfg.ReferenceHandler.Resellers)
			r.Get("/banks", cfg.ReferenceHandler.Banks)
			r.Get("/branches", cfg.ReferenceHandler.Branches)
			r.Get("/accounts", cfg.ReferenceHandler.Accounts)
		})
		r.Post("/selection", cfg.ReferenceHandler.Selection)

		// Currency codec
		r.Route("/currency", func(r chi.Router) {
			r.Post("/format", cfg.CurrencyHandler.Format)
			r.Post("/parse", cfg.CurrencyHandler.Parse)
		})
	})

	return r
}
