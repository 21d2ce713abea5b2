package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/bankbalance/internal/adapter/http/dto"
	"github.com/iho/bankbalance/internal/domain"
	"github.com/iho/bankbalance/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	CreateBalance(ctx context.Context, input usecase.CreateBalanceInput) (*domain.BalanceRecord, error)
	ListBalances(ctx context.Context, input usecase.ListBalancesInput) ([]*domain.BalanceRecord, error)
	LatestBalance(ctx context.Context) (*domain.BalanceRecord, error)
}

// BalanceHandler handles balance-related HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Create registers a balance.
func (h *BalanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if !req.Balance.Present {
		writeError(w, http.StatusBadRequest, "invalid request body", "balance is required")
		return
	}

	record, err := h.balanceUC.CreateBalance(r.Context(), req.ToUseCaseInput(SourceIP(r)))
	if err != nil {
		writeDomainError(w, r, err, "failed to create balance")
		return
	}

	writeJSON(w, http.StatusCreated, dto.BalanceFromDomain(record))
}

// List lists balances newest first.
func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", domain.DefaultPageSize)
	offset := parseIntQuery(r, "offset", 0)

	records, err := h.balanceUC.ListBalances(r.Context(), usecase.ListBalancesInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeDomainError(w, r, err, "failed to list balances")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBalancesResponse{
		Balances: dto.BalancesFromDomain(records),
		Total:    int64(len(records)),
	})
}

// Latest returns the most recent balance.
func (h *BalanceHandler) Latest(w http.ResponseWriter, r *http.Request) {
	record, err := h.balanceUC.LatestBalance(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "failed to get latest balance")
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(record))
}
