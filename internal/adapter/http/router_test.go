package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/iho/bankbalance/internal/adapter/http/handler"
	apimiddleware "github.com/iho/bankbalance/internal/adapter/http/middleware"
	"github.com/iho/bankbalance/internal/domain"
	"github.com/iho/bankbalance/internal/infrastructure/metrics"
	"github.com/iho/bankbalance/internal/reference"
	"github.com/iho/bankbalance/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"company":"1","reseller":"2","bank_code":"033","bank_name":"Santander","branch":"0001","account":"12345","balance":"R$ 10,00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !store.checkCalled || !store.updateCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = m
		cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/reference/companies", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `bankbalance_http_requests_total{method="GET",path="/api/v1/reference/companies",status="200"} 1`) {
		t.Fatalf("expected request counter in metrics output, got:\n%s", rec.Body.String())
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/",
		"GET /api/v1/accounts/latest",
		"POST /api/v1/seed/",
		"GET /api/v1/seed/",
		"GET /api/v1/reference/companies",
		"GET /api/v1/reference/resellers",
		"GET /api/v1/reference/banks",
		"GET /api/v1/reference/branches",
		"GET /api/v1/reference/accounts",
		"POST /api/v1/selection",
		"POST /api/v1/currency/format",
		"POST /api/v1/currency/parse",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		BalanceHandler: handler.NewBalanceHandler(stubBalanceService{}),
		SeedHandler:    handler.NewSeedHandler(stubSeedService{}),
		ReferenceHandler: handler.NewReferenceHandler(reference.NewIndex([]domain.ReferenceRecord{
			{RootKey: "R1", Company: "1", Reseller: "2", BankCode: "033", BankName: "Santander", Branch: "0001", Account: "12345"},
		})),
		CurrencyHandler: handler.NewCurrencyHandler(),
		HealthHandler:   handler.NewHealthHandler(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubBalanceService struct{}

func (stubBalanceService) CreateBalance(ctx context.Context, input usecase.CreateBalanceInput) (*domain.BalanceRecord, error) {
	return &domain.BalanceRecord{ID: 1, Balance: input.Balance, CreatedAt: time.Now()}, nil
}

func (stubBalanceService) ListBalances(ctx context.Context, input usecase.ListBalancesInput) ([]*domain.BalanceRecord, error) {
	return []*domain.BalanceRecord{}, nil
}

func (stubBalanceService) LatestBalance(ctx context.Context) (*domain.BalanceRecord, error) {
	return &domain.BalanceRecord{ID: 1, Balance: decimal.Zero}, nil
}

type stubSeedService struct{}

func (stubSeedService) Seed(ctx context.Context) (*usecase.SeedResult, error) {
	return &usecase.SeedResult{RecordsProcessed: 1, Timestamp: time.Now()}, nil
}

func (stubSeedService) DescribeSeed() usecase.SeedInfo {
	return usecase.SeedInfo{Records: 1}
}

type stubIdempotencyStore struct {
	checkCalled  bool
	updateCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.updateCalled = true
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
