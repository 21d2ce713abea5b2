package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bankbalance/internal/adapter/http"
	"github.com/iho/bankbalance/internal/adapter/http/handler"
	"github.com/iho/bankbalance/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/bankbalance/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankbalance/internal/adapter/repository/redis"
	"github.com/iho/bankbalance/internal/adapter/repository/retry"
	sqliteRepo "github.com/iho/bankbalance/internal/adapter/repository/sqlite"
	"github.com/iho/bankbalance/internal/domain"
	"github.com/iho/bankbalance/internal/infrastructure/config"
	"github.com/iho/bankbalance/internal/infrastructure/logger"
	"github.com/iho/bankbalance/internal/infrastructure/metrics"
	"github.com/iho/bankbalance/internal/infrastructure/postgres"
	"github.com/iho/bankbalance/internal/infrastructure/redis"
	"github.com/iho/bankbalance/internal/reference"
	"github.com/iho/bankbalance/internal/usecase"
)

const limiterCleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := newApp(ctx, cfg, reg, appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("driver", cfg.DatabaseDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// app is the wired HTTP service and the resources it holds.
type app struct {
	handler http.Handler
	closers []func()
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// storage is one BalanceRepository backend with its transaction manager.
type storage struct {
	repo      usecase.BalanceRepository
	txManager usecase.TransactionManager
	retryable retry.Classifier
	ping      func(ctx context.Context) error
	close     func()
}

func newApp(ctx context.Context, cfg *config.Config, reg *prometheus.Registry, appLogger zerolog.Logger) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.Close()
		return nil, err
	}

	// Reference dataset
	records, err := loadReference(cfg.ReferenceDataPath)
	if err != nil {
		return fail(err)
	}
	index := reference.NewIndex(records)
	log.Info().Int("records", index.Len()).Msg("reference dataset loaded")

	// Storage
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	a.closers = append(a.closers, store.close)

	checks := []handler.HealthCheck{{Name: "database", Ping: store.ping}}

	// Redis (optional)
	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisEnabled() {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fail(fmt.Errorf("failed to connect to redis: %w", err))
		}
		a.closers = append(a.closers, func() { redisClient.Close() })
		log.Info().Msg("connected to redis")

		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks = append(checks, handler.HealthCheck{Name: "redis", Ping: redis.Ping(redisClient)})
	} else {
		log.Info().Msg("redis disabled; latest-record cache and idempotency keys are off")
	}

	m := metrics.New(reg)

	// Initialize use cases
	retrier := retry.New(store.retryable, retry.WithLogger(appLogger))
	seedUC := usecase.NewSeedUseCase(store.txManager, store.repo, retrier, index, m)
	balanceUC := usecase.NewBalanceUseCase(usecase.BalanceUseCaseConfig{
		Repo:     store.repo,
		Seeder:   seedUC,
		Cache:    cache,
		CacheTTL: cfg.LatestCacheTTL,
		Recorder: m,
	})

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, middleware.WithRejectCounter(m.RateLimitHits))
		limiter.StartCleanup(ctx, limiterCleanupInterval)
	}

	// Create router
	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BalanceHandler:   handler.NewBalanceHandler(balanceUC),
		SeedHandler:      handler.NewSeedHandler(balanceUC),
		ReferenceHandler: handler.NewReferenceHandler(index),
		CurrencyHandler:  handler.NewCurrencyHandler(),
		HealthHandler:    handler.NewHealthHandler(checks...),
		Logger:           &appLogger,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		RateLimiter:      limiter,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	})

	return a, nil
}

func loadReference(path string) ([]domain.ReferenceRecord, error) {
	if path == "" {
		return reference.LoadDefault()
	}
	return reference.LoadFile(path)
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Info().Msg("connected to postgres")

		return &storage{
			repo:      postgresRepo.NewBalanceRepository(pool),
			txManager: postgresRepo.NewTxManager(pool),
			retryable: postgresRepo.IsRetryable,
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqliteRepo.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite database")

		return &storage{
			repo:      sqliteRepo.NewBalanceRepository(db),
			txManager: sqliteRepo.NewTxManager(db),
			retryable: sqliteRepo.IsRetryable,
			ping:      db.PingContext,
			close:     func() { db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
