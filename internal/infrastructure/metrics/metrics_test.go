package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankbalance/internal/domain"
	"github.com/iho/bankbalance/internal/usecase"
)

var _ usecase.Recorder = (*Metrics)(nil)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)
	require.NotNil(t, m.HTTPRequests)
	require.NotNil(t, m.BalancesCreated)

	m.BalanceCreated()
	m.HTTPRequests.WithLabelValues("GET", "/health", "200").Inc()
	m.SeedCompleted(domain.UpsertKeep, 3)
	m.LatestCacheLookup(true)

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, metricFamilies)
}

func TestNewTwiceOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestRecorder(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.BalanceCreated()
	m.BalanceCreated()
	m.SeedCompleted(domain.UpsertRefresh, 21)
	m.SeedCompleted(domain.UpsertKeep, 21)
	m.SeedCompleted(domain.UpsertKeep, 21)
	m.LatestCacheLookup(true)
	m.LatestCacheLookup(false)
	m.LatestCacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BalancesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeedRuns.WithLabelValues("refresh")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SeedRuns.WithLabelValues("keep")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.SeededRecords.WithLabelValues("keep")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LatestCacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LatestCacheLookups.WithLabelValues("miss")))
}
