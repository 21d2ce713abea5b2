package domain

import "fmt"

// ReferenceRecord is one row of the static company/reseller/bank/branch/account dataset.
type ReferenceRecord struct {
	RootKey  string
	Company  string
	Reseller string
	BankCode string
	BankName string
	Branch   string
	Account  string
}

// Validate checks that the fields used as filter keys are present.
func (r ReferenceRecord) Validate() error {
	switch {
	case r.Company == "":
		return fmt.Errorf("%w: company is empty", ErrInvalidReferenceRecord)
	case r.Reseller == "":
		return fmt.Errorf("%w: reseller is empty", ErrInvalidReferenceRecord)
	case r.BankCode == "":
		return fmt.Errorf("%w: bank code is empty", ErrInvalidReferenceRecord)
	case r.Branch == "":
		return fmt.Errorf("%w: branch is empty", ErrInvalidReferenceRecord)
	case r.Account == "":
		return fmt.Errorf("%w: account is empty", ErrInvalidReferenceRecord)
	}
	return nil
}

// Option is a selectable value with its display label.
type Option struct {
	Value string
	Label string
}

// BankOption is a selectable bank. Value is always the bank code.
type BankOption struct {
	Code  string
	Name  string
	Value string
	Label string
}
