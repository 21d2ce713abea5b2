package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankbalance/internal/adapter/http/dto"
	"github.com/iho/bankbalance/internal/usecase"
)

type seedServiceStub struct {
	result  *usecase.SeedResult
	err     error
	records int
	calls   int
}

func (s *seedServiceStub) Seed(ctx context.Context) (*usecase.SeedResult, error) {
	s.calls++
	return s.result, s.err
}

func (s *seedServiceStub) DescribeSeed() usecase.SeedInfo {
	return usecase.SeedInfo{Records: s.records}
}

func TestSeedHandler_Run(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	stub := &seedServiceStub{result: &usecase.SeedResult{RecordsProcessed: 12, Timestamp: ts}}
	handler := NewSeedHandler(stub)

	rec := httptest.NewRecorder()
	handler.Run(rec, httptest.NewRequest(http.MethodPost, "/api/v1/seed", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.calls)

	var resp dto.SeedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.RecordsProcessed)
	assert.True(t, ts.Equal(resp.Timestamp))
	assert.NotEmpty(t, resp.Message)
}

func TestSeedHandler_RunFailure(t *testing.T) {
	handler := NewSeedHandler(&seedServiceStub{err: errors.New("tx aborted")})

	rec := httptest.NewRecorder()
	handler.Run(rec, httptest.NewRequest(http.MethodPost, "/api/v1/seed", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "tx aborted")
}

func TestSeedHandler_Describe(t *testing.T) {
	stub := &seedServiceStub{records: 30}
	handler := NewSeedHandler(stub)

	rec := httptest.NewRecorder()
	handler.Describe(rec, httptest.NewRequest(http.MethodGet, "/api/v1/seed", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, stub.calls, "describe must not seed")

	var resp dto.SeedInfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 30, resp.Records)
	assert.Contains(t, resp.Usage, "POST")
}
