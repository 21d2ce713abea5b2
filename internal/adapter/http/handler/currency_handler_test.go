package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankbalance/internal/adapter/http/dto"
	"github.com/iho/bankbalance/internal/currency"
)

func TestCurrencyHandler_Format(t *testing.T) {
	tests := []struct {
		input    string
		display  string
		negative bool
	}{
		{"123456", "R$ 1.234,56", false},
		{"-5000", "-R$ 50,00", true},
		{"-", "-R$ 0,00", true},
		{"", "R$ 0,00", false},
	}

	h := NewCurrencyHandler()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			payload, _ := json.Marshal(dto.FormatCurrencyRequest{Input: tt.input})
			rec := httptest.NewRecorder()
			h.Format(rec, httptest.NewRequest(http.MethodPost, "/api/v1/currency/format", strings.NewReader(string(payload))))

			require.Equal(t, http.StatusOK, rec.Code)
			var resp dto.FormatCurrencyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.display, resp.Display)
			assert.Equal(t, tt.negative, resp.Negative)
			if tt.negative {
				assert.Equal(t, currency.ToneNegative, resp.Tone)
			} else {
				assert.Equal(t, currency.ToneNonNegative, resp.Tone)
			}
		})
	}
}

func TestCurrencyHandler_Parse(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCurrencyHandler().Parse(rec, httptest.NewRequest(http.MethodPost, "/api/v1/currency/parse",
		strings.NewReader(`{"display":"-R$ 1.234,56"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ParseCurrencyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Value.Equal(decimal.RequireFromString("-1234.56")), "got %s", resp.Value)
}

func TestCurrencyHandler_InvalidBody(t *testing.T) {
	h := NewCurrencyHandler()

	rec := httptest.NewRecorder()
	h.Format(rec, httptest.NewRequest(http.MethodPost, "/api/v1/currency/format", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Parse(rec, httptest.NewRequest(http.MethodPost, "/api/v1/currency/parse", strings.NewReader("[")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
