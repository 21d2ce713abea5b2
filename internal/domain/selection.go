package domain

import "fmt"

// Field names a SelectionState field.
type Field string

const (
	FieldCompany  Field = "company"
	FieldReseller Field = "reseller"
	FieldBankCode Field = "bank_code"
	FieldBankName Field = "bank_name"
	FieldBranch   Field = "branch"
	FieldAccount  Field = "account"
	FieldBalance  Field = "balance"
)

// SelectionState is the form state of one balance submission in progress.
//
// The fields form a dependency chain company/reseller -> bank -> branch -> account:
// changing an upstream field clears everything below it.
type SelectionState struct {
	Company     string
	Reseller    string
	BankCode    string
	BankName    string
	Branch      string
	Account     string
	BalanceText string
}

// ApplySelection returns state with field set to value and every dependent field cleared.
// Setting a field to its current value changes nothing. Unknown fields are ignored.
func ApplySelection(state SelectionState, field Field, value string) SelectionState {
	next := state

	switch field {
	case FieldCompany:
		if state.Company == value {
			return state
		}
		next.Company = value
		next.clearBank()
	case FieldReseller:
		if state.Reseller == value {
			return state
		}
		next.Reseller = value
		next.clearBank()
	case FieldBankCode:
		if state.BankCode == value {
			return state
		}
		next.BankCode = value
		next.clearBranch()
	case FieldBankName:
		next.BankName = value
	case FieldBranch:
		if state.Branch == value {
			return state
		}
		next.Branch = value
		next.Account = ""
	case FieldAccount:
		next.Account = value
	case FieldBalance:
		next.BalanceText = value
	}

	return next
}

func (s *SelectionState) clearBank() {
	s.BankCode = ""
	s.BankName = ""
	s.clearBranch()
}

func (s *SelectionState) clearBranch() {
	s.Branch = ""
	s.Account = ""
}

// Complete reports the first missing field of a state that is about to be submitted.
func (s SelectionState) Complete() error {
	required := []struct {
		field Field
		value string
	}{
		{FieldCompany, s.Company},
		{FieldReseller, s.Reseller},
		{FieldBankCode, s.BankCode},
		{FieldBankName, s.BankName},
		{FieldBranch, s.Branch},
		{FieldAccount, s.Account},
		{FieldBalance, s.BalanceText},
	}

	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrIncompleteSelection, f.field)
		}
	}

	return nil
}

// ParseField maps a wire name to a Field.
func ParseField(name string) (Field, bool) {
	switch f := Field(name); f {
	case FieldCompany, FieldReseller, FieldBankCode, FieldBankName, FieldBranch, FieldAccount, FieldBalance:
		return f, true
	}
	return "", false
}
