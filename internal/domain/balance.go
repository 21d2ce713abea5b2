package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Source IPs recorded for rows written by the seeding paths.
const (
	SourceIPSeed       = "seed"
	SourceIPManualSeed = "manual-seed"
	SourceIPUnknown    = "unknown"
)

// BalanceRecord is a persisted balance for one company/reseller/bank/branch/account.
// ID and CreatedAt are assigned by the store.
type BalanceRecord struct {
	ID        int64
	RootKey   string
	Company   string
	Reseller  string
	BankCode  string
	BankName  string
	Branch    string
	Account   string
	Balance   decimal.Decimal
	SourceIP  string
	CreatedAt time.Time
}

// Validate checks the descriptive fields of a record before it is written.
func (b *BalanceRecord) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"root key", b.RootKey},
		{"company", b.Company},
		{"reseller", b.Reseller},
		{"bank code", b.BankCode},
		{"bank name", b.BankName},
		{"branch", b.Branch},
		{"account", b.Account},
	}

	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidBalanceRecord, f.name)
		}
	}

	return nil
}

// SeedRecord builds the zero-balance row written for a reference record during seeding.
func SeedRecord(ref ReferenceRecord, sourceIP string) *BalanceRecord {
	return &BalanceRecord{
		RootKey:  ref.RootKey,
		Company:  ref.Company,
		Reseller: ref.Reseller,
		BankCode: ref.BankCode,
		BankName: ref.BankName,
		Branch:   ref.Branch,
		Account:  ref.Account,
		Balance:  decimal.Zero,
		SourceIP: sourceIP,
	}
}

// UpsertMode selects what an upsert does when the unique key already exists.
type UpsertMode int

const (
	// UpsertKeep leaves an existing row untouched.
	UpsertKeep UpsertMode = iota
	// UpsertRefresh rewrites company, reseller and bank name on an existing row.
	UpsertRefresh
)

func (m UpsertMode) String() string {
	switch m {
	case UpsertKeep:
		return "keep"
	case UpsertRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}
