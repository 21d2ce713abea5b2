package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimiter_LimitsPerIP(t *testing.T) {
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_rate_limit_hits_total"})
	rl := NewRateLimiter(0.0001, 2, WithRejectCounter(rejected))
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, requestFrom("10.0.0.1:5000"))
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, float64(1), testutil.ToFloat64(rejected))

	// Same host on another port shares the bucket; another host does not.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, requestFrom("10.0.0.1:6000"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, requestFrom("10.0.0.2:5000"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiter_CleanupResetsBuckets(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), requestFrom("10.0.0.1:5000"))
	assert.Equal(t, 1, rl.size())

	rl.CleanupLimiters()
	assert.Equal(t, 0, rl.size())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, requestFrom("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiter_StartCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.getLimiter("10.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl.StartCleanup(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return rl.size() == 0 }, time.Second, 5*time.Millisecond)
}

func TestGetIP(t *testing.T) {
	assert.Equal(t, "192.0.2.1", getIP(requestFrom("192.0.2.1:1234")))
	assert.Equal(t, "192.0.2.1", getIP(requestFrom("192.0.2.1")))
}
