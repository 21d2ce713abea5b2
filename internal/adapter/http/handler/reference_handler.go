package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/bankbalance/internal/adapter/http/dto"
	"github.com/iho/bankbalance/internal/currency"
	"github.com/iho/bankbalance/internal/domain"
	"github.com/iho/bankbalance/internal/reference"
)

// ReferenceCatalog defines the reference queries needed by ReferenceHandler.
type ReferenceCatalog interface {
	Companies() []domain.Option
	Resellers() []domain.Option
	BanksFor(company, reseller string) []domain.BankOption
	BranchesFor(company, reseller, bankCode string) []domain.Option
	AccountsFor(company, reseller, bankCode, branch string) []domain.Option
	Select(state domain.SelectionState, field domain.Field, value string) domain.SelectionState
	OptionsFor(state domain.SelectionState) reference.SelectionOptions
}

// ReferenceHandler serves cascading option lists and selection transitions.
type ReferenceHandler struct {
	catalog ReferenceCatalog
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(catalog ReferenceCatalog) *ReferenceHandler {
	return &ReferenceHandler{catalog: catalog}
}

// Companies lists companies.
func (h *ReferenceHandler) Companies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.OptionsResponse[dto.OptionResponse]{
		Options: dto.OptionsFromDomain(h.catalog.Companies()),
	})
}

// Resellers lists resellers.
func (h *ReferenceHandler) Resellers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.OptionsResponse[dto.OptionResponse]{
		Options: dto.OptionsFromDomain(h.catalog.Resellers()),
	})
}

// Banks lists banks for ?company&reseller.
func (h *ReferenceHandler) Banks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, dto.OptionsResponse[dto.BankOptionResponse]{
		Options: dto.BankOptionsFromDomain(h.catalog.BanksFor(q.Get("company"), q.Get("reseller"))),
	})
}

// Branches lists branches for ?company&reseller&bank_code.
func (h *ReferenceHandler) Branches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, dto.OptionsResponse[dto.OptionResponse]{
		Options: dto.OptionsFromDomain(h.catalog.BranchesFor(q.Get("company"), q.Get("reseller"), q.Get("bank_code"))),
	})
}

// Accounts lists accounts for ?company&reseller&bank_code, narrowed by an optional branch.
func (h *ReferenceHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, dto.OptionsResponse[dto.OptionResponse]{
		Options: dto.OptionsFromDomain(h.catalog.AccountsFor(q.Get("company"), q.Get("reseller"), q.Get("bank_code"), q.Get("branch"))),
	})
}

// Selection applies one field change and returns the new state with its options.
// Balance keystrokes are normalized to display text.
func (h *ReferenceHandler) Selection(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	state := req.State.ToDomain()
	if req.Field != "" {
		field, ok := domain.ParseField(req.Field)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid field", req.Field)
			return
		}

		value := req.Value
		if field == domain.FieldBalance {
			value = currency.Format(value)
		}
		state = h.catalog.Select(state, field, value)
	}

	resp := dto.SelectionResponse{
		State:    dto.SelectionStateFromDomain(state),
		Options:  dto.SelectionOptionsFromReference(h.catalog.OptionsFor(state)),
		Complete: true,
	}
	if err := state.Complete(); err != nil {
		resp.Complete = false
		resp.Missing = err.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}
