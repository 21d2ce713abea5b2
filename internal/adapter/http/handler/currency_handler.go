package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/bankbalance/internal/adapter/http/dto"
	"github.com/iho/bankbalance/internal/currency"
)

// CurrencyHandler exposes the balance text codec.
type CurrencyHandler struct{}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler() *CurrencyHandler {
	return &CurrencyHandler{}
}

// Format converts raw keystrokes into display text.
func (h *CurrencyHandler) Format(w http.ResponseWriter, r *http.Request) {
	var req dto.FormatCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	display := currency.Format(req.Input)
	writeJSON(w, http.StatusOK, dto.FormatCurrencyResponse{
		Display:  display,
		Negative: currency.IsNegative(display),
		Tone:     currency.Classify(display),
	})
}

// Parse converts display text into a value.
func (h *CurrencyHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req dto.ParseCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ParseCurrencyResponse{Value: currency.Parse(req.Display)})
}
