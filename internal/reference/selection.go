package reference

import (
	"github.com/iho/bankbalance/internal/domain"
)

// SelectionOptions holds the choices available at every step of a selection.
type SelectionOptions struct {
	Companies []domain.Option
	Resellers []domain.Option
	Banks     []domain.BankOption
	Branches  []domain.Option
	Accounts  []domain.Option
}

// Select applies a field change to state. Picking a bank also fills in its name.
func (idx *Index) Select(state domain.SelectionState, field domain.Field, value string) domain.SelectionState {
	next := domain.ApplySelection(state, field, value)

	if field == domain.FieldBankCode && next.BankCode != state.BankCode {
		name, _ := idx.BankName(next.Company, next.Reseller, next.BankCode)
		next = domain.ApplySelection(next, domain.FieldBankName, name)
	}

	return next
}

// OptionsFor returns the valid choices for each field given the upstream values in state.
func (idx *Index) OptionsFor(state domain.SelectionState) SelectionOptions {
	return SelectionOptions{
		Companies: idx.Companies(),
		Resellers: idx.Resellers(),
		Banks:     idx.BanksFor(state.Company, state.Reseller),
		Branches:  idx.BranchesFor(state.Company, state.Reseller, state.BankCode),
		Accounts:  idx.AccountsFor(state.Company, state.Reseller, state.BankCode, state.Branch),
	}
}
