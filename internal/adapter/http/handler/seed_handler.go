package handler

import (
	"context"
	"net/http"

	"github.com/iho/bankbalance/internal/adapter/http/dto"
	"github.com/iho/bankbalance/internal/usecase"
)

// SeedService defines the behavior needed by SeedHandler.
type SeedService interface {
	Seed(ctx context.Context) (*usecase.SeedResult, error)
	DescribeSeed() usecase.SeedInfo
}

// SeedHandler handles manual seeding.
type SeedHandler struct {
	seedUC SeedService
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(seedUC SeedService) *SeedHandler {
	return &SeedHandler{seedUC: seedUC}
}

// Run writes the reference dataset, refreshing descriptive fields of existing rows.
func (h *SeedHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.seedUC.Seed(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "failed to run seed")
		return
	}

	writeJSON(w, http.StatusOK, dto.SeedResultToResponse(result))
}

// Describe explains how to use the seed endpoint.
func (h *SeedHandler) Describe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.SeedInfoResponse{
		Message: "manual seed endpoint for the reference dataset",
		Usage:   "POST /api/v1/seed to run the seed",
		Records: h.seedUC.DescribeSeed().Records,
	})
}
