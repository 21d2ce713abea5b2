package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankbalance/internal/currency"
	"github.com/iho/bankbalance/internal/domain"
	"github.com/iho/bankbalance/internal/reference"
	"github.com/iho/bankbalance/internal/usecase"
)

// BalanceResponse represents a balance record in API responses.
type BalanceResponse struct {
	ID             int64           `json:"id"`
	RootKey        string          `json:"root_key"`
	Company        string          `json:"company"`
	Reseller       string          `json:"reseller"`
	BankCode       string          `json:"bank_code"`
	BankName       string          `json:"bank_name"`
	Branch         string          `json:"branch"`
	Account        string          `json:"account"`
	Balance        decimal.Decimal `json:"balance"`
	BalanceDisplay string          `json:"balance_display"`
	Tone           currency.Tone   `json:"tone"`
	SourceIP       string          `json:"source_ip"`
	CreatedAt      time.Time       `json:"created_at"`
}

// BalanceFromDomain converts a domain record to a response.
func BalanceFromDomain(b *domain.BalanceRecord) *BalanceResponse {
	display := currency.FormatAmount(b.Balance)

	return &BalanceResponse{
		ID:             b.ID,
		RootKey:        b.RootKey,
		Company:        b.Company,
		Reseller:       b.Reseller,
		BankCode:       b.BankCode,
		BankName:       b.BankName,
		Branch:         b.Branch,
		Account:        b.Account,
		Balance:        b.Balance,
		BalanceDisplay: display,
		Tone:           currency.Classify(display),
		SourceIP:       b.SourceIP,
		CreatedAt:      b.CreatedAt,
	}
}

// ToDomain converts a response back into a domain record.
func (b *BalanceResponse) ToDomain() *domain.BalanceRecord {
	return &domain.BalanceRecord{
		ID:        b.ID,
		RootKey:   b.RootKey,
		Company:   b.Company,
		Reseller:  b.Reseller,
		BankCode:  b.BankCode,
		BankName:  b.BankName,
		Branch:    b.Branch,
		Account:   b.Account,
		Balance:   b.Balance,
		SourceIP:  b.SourceIP,
		CreatedAt: b.CreatedAt,
	}
}

// BalancesFromDomain converts domain records to responses.
func BalancesFromDomain(records []*domain.BalanceRecord) []*BalanceResponse {
	result := make([]*BalanceResponse, len(records))
	for i, r := range records {
		result[i] = BalanceFromDomain(r)
	}
	return result
}

// ListBalancesResponse represents a page of balances, newest first.
type ListBalancesResponse struct {
	Balances []*BalanceResponse `json:"balances"`
	Total    int64              `json:"total"`
}

// SeedResponse reports a completed seed run.
type SeedResponse struct {
	Message          string    `json:"message"`
	RecordsProcessed int       `json:"records_processed"`
	Timestamp        time.Time `json:"timestamp"`
}

// SeedResultToResponse converts a seed result.
func SeedResultToResponse(r *usecase.SeedResult) *SeedResponse {
	return &SeedResponse{
		Message:          "seed completed successfully",
		RecordsProcessed: r.RecordsProcessed,
		Timestamp:        r.Timestamp,
	}
}

// SeedInfoResponse describes the seed endpoint.
type SeedInfoResponse struct {
	Message string `json:"message"`
	Usage   string `json:"usage"`
	Records int    `json:"records"`
}

// OptionResponse is one selectable value.
type OptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// BankOptionResponse is one selectable bank.
type BankOptionResponse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionsResponse wraps a list of options.
type OptionsResponse[T any] struct {
	Options []T `json:"options"`
}

// OptionsFromDomain converts domain options.
func OptionsFromDomain(options []domain.Option) []OptionResponse {
	result := make([]OptionResponse, len(options))
	for i, o := range options {
		result[i] = OptionResponse{Value: o.Value, Label: o.Label}
	}
	return result
}

// BankOptionsFromDomain converts domain bank options.
func BankOptionsFromDomain(options []domain.BankOption) []BankOptionResponse {
	result := make([]BankOptionResponse, len(options))
	for i, o := range options {
		result[i] = BankOptionResponse{Code: o.Code, Name: o.Name, Value: o.Value, Label: o.Label}
	}
	return result
}

// SelectionOptionsResponse holds the choices for every selection step.
type SelectionOptionsResponse struct {
	Companies []OptionResponse     `json:"companies"`
	Resellers []OptionResponse     `json:"resellers"`
	Banks     []BankOptionResponse `json:"banks"`
	Branches  []OptionResponse     `json:"branches"`
	Accounts  []OptionResponse     `json:"accounts"`
}

// SelectionOptionsFromReference converts reference options.
func SelectionOptionsFromReference(o reference.SelectionOptions) SelectionOptionsResponse {
	return SelectionOptionsResponse{
		Companies: OptionsFromDomain(o.Companies),
		Resellers: OptionsFromDomain(o.Resellers),
		Banks:     BankOptionsFromDomain(o.Banks),
		Branches:  OptionsFromDomain(o.Branches),
		Accounts:  OptionsFromDomain(o.Accounts),
	}
}

// SelectionResponse is the state after a selection change plus its options.
type SelectionResponse struct {
	State    SelectionStateDTO        `json:"state"`
	Options  SelectionOptionsResponse `json:"options"`
	Complete bool                     `json:"complete"`
	Missing  string                   `json:"missing,omitempty"`
}

// FormatCurrencyResponse is canonical display text.
type FormatCurrencyResponse struct {
	Display  string        `json:"display"`
	Negative bool          `json:"negative"`
	Tone     currency.Tone `json:"tone"`
}

// ParseCurrencyResponse is the value behind display text.
type ParseCurrencyResponse struct {
	Value decimal.Decimal `json:"value"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
