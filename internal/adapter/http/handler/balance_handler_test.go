package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankbalance/internal/adapter/http/dto"
	"github.com/iho/bankbalance/internal/domain"
	"github.com/iho/bankbalance/internal/usecase"
)

type balanceServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateBalanceInput) (*domain.BalanceRecord, error)
	listFn   func(ctx context.Context, input usecase.ListBalancesInput) ([]*domain.BalanceRecord, error)
	latestFn func(ctx context.Context) (*domain.BalanceRecord, error)
}

func (s *balanceServiceStub) CreateBalance(ctx context.Context, input usecase.CreateBalanceInput) (*domain.BalanceRecord, error) {
	return s.createFn(ctx, input)
}

func (s *balanceServiceStub) ListBalances(ctx context.Context, input usecase.ListBalancesInput) ([]*domain.BalanceRecord, error) {
	return s.listFn(ctx, input)
}

func (s *balanceServiceStub) LatestBalance(ctx context.Context) (*domain.BalanceRecord, error) {
	return s.latestFn(ctx)
}

func sampleRecord() *domain.BalanceRecord {
	return &domain.BalanceRecord{
		ID:        7,
		RootKey:   "CNP1700000000000",
		Company:   "1",
		Reseller:  "2",
		BankCode:  "033",
		BankName:  "Santander",
		Branch:    "0001",
		Account:   "12345",
		Balance:   decimal.RequireFromString("-1234.56"),
		SourceIP:  "203.0.113.9",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBalanceHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateBalanceInput
	handler := NewBalanceHandler(&balanceServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateBalanceInput) (*domain.BalanceRecord, error) {
			captured = input
			return sampleRecord(), nil
		},
	})

	body := `{"company":"1","reseller":"2","bank_code":"033","bank_name":"Santander","branch":"0001","account":"12345","balance":"-1234.56"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(body))
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.SourceIP != "203.0.113.9" {
		t.Fatalf("expected source IP from X-Forwarded-For, got %q", captured.SourceIP)
	}
	if !captured.Balance.Equal(decimal.RequireFromString("-1234.56")) {
		t.Fatalf("expected balance -1234.56, got %s", captured.Balance)
	}
	if captured.RootKey != "" {
		t.Fatalf("expected empty root key to be passed through, got %q", captured.RootKey)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 7 || resp.BalanceDisplay != "-R$ 1.234,56" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestBalanceHandler_Create_DisplayTextBalance(t *testing.T) {
	var captured usecase.CreateBalanceInput
	handler := NewBalanceHandler(&balanceServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateBalanceInput) (*domain.BalanceRecord, error) {
			captured = input
			return sampleRecord(), nil
		},
	})

	payload, _ := json.Marshal(map[string]any{
		"company": "1", "reseller": "2", "bank_code": "033", "bank_name": "Santander",
		"branch": "0001", "account": "12345", "balance": "R$ 1.000,50",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !captured.Balance.Equal(decimal.RequireFromString("1000.50")) {
		t.Fatalf("expected balance 1000.50, got %s", captured.Balance)
	}
	if captured.SourceIP != "unknown" {
		t.Fatalf("expected unknown source IP, got %q", captured.SourceIP)
	}
}

func TestBalanceHandler_Create_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"company":`},
		{"missing balance", `{"company":"1","reseller":"2","bank_code":"033","bank_name":"Santander","branch":"0001","account":"12345"}`},
		{"null balance", `{"company":"1","balance":null}`},
		{"boolean balance", `{"company":"1","balance":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBalanceHandler(&balanceServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateBalanceInput) (*domain.BalanceRecord, error) {
					t.Fatal("CreateBalance should not be called for invalid payload")
					return nil, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestBalanceHandler_Create_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid record", domain.ErrInvalidBalanceRecord, http.StatusBadRequest},
		{"duplicate", domain.ErrDuplicateBalance, http.StatusConflict},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBalanceHandler(&balanceServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateBalanceInput) (*domain.BalanceRecord, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(`{"company":"1","balance":10}`))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if tt.status == http.StatusInternalServerError && strings.Contains(rec.Body.String(), "connection refused") {
				t.Fatalf("internal error details leaked: %s", rec.Body.String())
			}
		})
	}
}

func TestBalanceHandler_List(t *testing.T) {
	var captured usecase.ListBalancesInput
	handler := NewBalanceHandler(&balanceServiceStub{
		listFn: func(ctx context.Context, input usecase.ListBalancesInput) ([]*domain.BalanceRecord, error) {
			captured = input
			return []*domain.BalanceRecord{sampleRecord()}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts?limit=5&offset=10", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("unexpected pagination %+v", captured)
	}

	var resp dto.ListBalancesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Balances) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestBalanceHandler_List_DefaultsAndEmpty(t *testing.T) {
	var captured usecase.ListBalancesInput
	handler := NewBalanceHandler(&balanceServiceStub{
		listFn: func(ctx context.Context, input usecase.ListBalancesInput) ([]*domain.BalanceRecord, error) {
			captured = input
			return []*domain.BalanceRecord{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if captured.Limit != domain.DefaultPageSize || captured.Offset != 0 {
		t.Fatalf("expected default pagination, got %+v", captured)
	}
	if !strings.Contains(rec.Body.String(), `"balances":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestBalanceHandler_List_Failure(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		listFn: func(ctx context.Context, input usecase.ListBalancesInput) ([]*domain.BalanceRecord, error) {
			return nil, errors.New("seed failed")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestBalanceHandler_Latest(t *testing.T) {
	tests := []struct {
		name   string
		record *domain.BalanceRecord
		err    error
		status int
	}{
		{"found", sampleRecord(), nil, http.StatusOK},
		{"empty store", nil, domain.ErrBalanceNotFound, http.StatusNotFound},
		{"failure", nil, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBalanceHandler(&balanceServiceStub{
				latestFn: func(ctx context.Context) (*domain.BalanceRecord, error) {
					return tt.record, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/latest", nil)
			rec := httptest.NewRecorder()

			handler.Latest(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}
