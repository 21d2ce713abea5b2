package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/iho/bankbalance/internal/adapter/http/dto"
	"github.com/iho/bankbalance/internal/adapter/http/middleware"
	"github.com/iho/bankbalance/internal/domain"
)

// apiError is a non-2xx answer from the API.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

// apiClient talks to the HTTP API, retrying transport failures and 5xx/429 answers.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

func newAPIClient(baseURL string, timeout time.Duration, maxRetries uint64) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, in, out any, headers map[string]string) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	operation := func() error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 300 {
			apiErr := &apiError{Status: resp.StatusCode, Message: errorMessage(data)}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		if out != nil {
			if err := json.Unmarshal(data, out); err != nil {
				return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
			}
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	return backoff.Retry(operation, policy)
}

func errorMessage(data []byte) string {
	var e dto.ErrorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		if e.Message != "" {
			return e.Error + ": " + e.Message
		}
		return e.Error
	}
	return strings.TrimSpace(string(data))
}

// LatestBalance implements poller.Fetcher.
func (c *apiClient) LatestBalance(ctx context.Context) (*domain.BalanceRecord, error) {
	var resp dto.BalanceResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/accounts/latest", nil, &resp, nil); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, domain.ErrBalanceNotFound
		}
		return nil, err
	}
	return resp.ToDomain(), nil
}

func (c *apiClient) Seed(ctx context.Context) (*dto.SeedResponse, error) {
	var resp dto.SeedResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/seed", nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) Select(ctx context.Context, req dto.SelectionRequest) (*dto.SelectionResponse, error) {
	var resp dto.SelectionResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/selection", req, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) CreateBalance(ctx context.Context, req dto.CreateBalanceRequest, idempotencyKey string) (*dto.BalanceResponse, error) {
	var resp dto.BalanceResponse
	headers := map[string]string{middleware.IdempotencyKeyHeader: idempotencyKey}
	if err := c.do(ctx, http.MethodPost, "/api/v1/accounts", req, &resp, headers); err != nil {
		return nil, err
	}
	return &resp, nil
}
