package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/bankbalance/internal/currency"
	"github.com/iho/bankbalance/internal/domain"
	"github.com/iho/bankbalance/internal/usecase"
)

// BalanceValue accepts a JSON number, a decimal string or BRL display text.
type BalanceValue struct {
	Amount  decimal.Decimal
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *BalanceValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = BalanceValue{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		if amount, err := decimal.NewFromString(strings.TrimSpace(text)); err == nil {
			*v = BalanceValue{Amount: amount, Present: true}
			return nil
		}
		*v = BalanceValue{Amount: currency.Parse(text), Present: true}
		return nil
	}

	amount, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}
	*v = BalanceValue{Amount: amount, Present: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v BalanceValue) MarshalJSON() ([]byte, error) {
	if !v.Present {
		return []byte("null"), nil
	}
	return []byte(v.Amount.String()), nil
}

// NewBalanceValue wraps an amount.
func NewBalanceValue(amount decimal.Decimal) BalanceValue {
	return BalanceValue{Amount: amount, Present: true}
}

// CreateBalanceRequest represents a request to register a balance.
type CreateBalanceRequest struct {
	RootKey  string       `json:"root_key,omitempty"`
	Company  string       `json:"company"`
	Reseller string       `json:"reseller"`
	BankCode string       `json:"bank_code"`
	BankName string       `json:"bank_name"`
	Branch   string       `json:"branch"`
	Account  string       `json:"account"`
	Balance  BalanceValue `json:"balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBalanceRequest) ToUseCaseInput(sourceIP string) usecase.CreateBalanceInput {
	return usecase.CreateBalanceInput{
		RootKey:  strings.TrimSpace(r.RootKey),
		Company:  r.Company,
		Reseller: r.Reseller,
		BankCode: r.BankCode,
		BankName: r.BankName,
		Branch:   r.Branch,
		Account:  r.Account,
		Balance:  r.Balance.Amount,
		SourceIP: sourceIP,
	}
}

// SelectionStateDTO mirrors domain.SelectionState on the wire.
type SelectionStateDTO struct {
	Company     string `json:"company"`
	Reseller    string `json:"reseller"`
	BankCode    string `json:"bank_code"`
	BankName    string `json:"bank_name"`
	Branch      string `json:"branch"`
	Account     string `json:"account"`
	BalanceText string `json:"balance_text"`
}

// ToDomain converts to a domain selection state.
func (s SelectionStateDTO) ToDomain() domain.SelectionState {
	return domain.SelectionState{
		Company:     s.Company,
		Reseller:    s.Reseller,
		BankCode:    s.BankCode,
		BankName:    s.BankName,
		Branch:      s.Branch,
		Account:     s.Account,
		BalanceText: s.BalanceText,
	}
}

// SelectionStateFromDomain converts a domain selection state.
func SelectionStateFromDomain(s domain.SelectionState) SelectionStateDTO {
	return SelectionStateDTO{
		Company:     s.Company,
		Reseller:    s.Reseller,
		BankCode:    s.BankCode,
		BankName:    s.BankName,
		Branch:      s.Branch,
		Account:     s.Account,
		BalanceText: s.BalanceText,
	}
}

// SelectionRequest applies one field change to a selection.
type SelectionRequest struct {
	State SelectionStateDTO `json:"state"`
	Field string            `json:"field"`
	Value string            `json:"value"`
}

// FormatCurrencyRequest carries raw balance keystrokes.
type FormatCurrencyRequest struct {
	Input string `json:"input"`
}

// ParseCurrencyRequest carries display text to convert.
type ParseCurrencyRequest struct {
	Display string `json:"display"`
}
