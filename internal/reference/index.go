// Package reference answers cascading company -> reseller -> bank -> branch -> account
// queries over the static reference dataset.
package reference

import (
	"github.com/iho/bankbalance/internal/domain"
)

// Index is an immutable view over the reference dataset. It is safe for concurrent use.
type Index struct {
	records []domain.ReferenceRecord
}

// NewIndex creates an Index over a copy of records, keeping their order.
func NewIndex(records []domain.ReferenceRecord) *Index {
	return &Index{records: append([]domain.ReferenceRecord(nil), records...)}
}

// Records returns a copy of the dataset.
func (idx *Index) Records() []domain.ReferenceRecord {
	return append([]domain.ReferenceRecord(nil), idx.records...)
}

// Len returns the number of reference records.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Companies lists distinct companies in first-seen order.
func (idx *Index) Companies() []domain.Option {
	return idx.project(all, func(r domain.ReferenceRecord) string { return r.Company }, func(v string) string {
		return "Empresa " + v
	})
}

// Resellers lists distinct resellers in first-seen order.
func (idx *Index) Resellers() []domain.Option {
	return idx.project(all, func(r domain.ReferenceRecord) string { return r.Reseller }, func(v string) string {
		return "Revenda " + v
	})
}

// BanksFor lists the banks of a company/reseller pair. When two records share a bank code
// the first one's name is used.
func (idx *Index) BanksFor(company, reseller string) []domain.BankOption {
	banks := []domain.BankOption{}
	if company == "" || reseller == "" {
		return banks
	}

	seen := make(map[string]struct{})
	for _, r := range idx.records {
		if r.Company != company || r.Reseller != reseller {
			continue
		}
		if _, ok := seen[r.BankCode]; ok {
			continue
		}
		seen[r.BankCode] = struct{}{}

		banks = append(banks, domain.BankOption{
			Code:  r.BankCode,
			Name:  r.BankName,
			Value: r.BankCode,
			Label: r.BankCode + " - " + r.BankName,
		})
	}

	return banks
}

// BankName returns the name of the first record matching company, reseller and bank code.
func (idx *Index) BankName(company, reseller, bankCode string) (string, bool) {
	if company == "" || reseller == "" || bankCode == "" {
		return "", false
	}

	for _, r := range idx.records {
		if r.Company == company && r.Reseller == reseller && r.BankCode == bankCode {
			return r.BankName, true
		}
	}

	return "", false
}

// BranchesFor lists the branches of a bank under a company/reseller pair.
func (idx *Index) BranchesFor(company, reseller, bankCode string) []domain.Option {
	if company == "" || reseller == "" || bankCode == "" {
		return []domain.Option{}
	}

	match := func(r domain.ReferenceRecord) bool {
		return r.Company == company && r.Reseller == reseller && r.BankCode == bankCode
	}

	return idx.project(match, func(r domain.ReferenceRecord) string { return r.Branch }, plain)
}

// AccountsFor lists accounts of a bank. An empty branch returns the accounts of every
// branch of that bank.
func (idx *Index) AccountsFor(company, reseller, bankCode, branch string) []domain.Option {
	if company == "" || reseller == "" || bankCode == "" {
		return []domain.Option{}
	}

	match := func(r domain.ReferenceRecord) bool {
		if r.Company != company || r.Reseller != reseller || r.BankCode != bankCode {
			return false
		}
		return branch == "" || r.Branch == branch
	}

	return idx.project(match, func(r domain.ReferenceRecord) string { return r.Account }, plain)
}

// project filters records and returns the distinct values of one field in first-seen order.
func (idx *Index) project(
	match func(domain.ReferenceRecord) bool,
	field func(domain.ReferenceRecord) string,
	label func(string) string,
) []domain.Option {
	options := []domain.Option{}
	seen := make(map[string]struct{})

	for _, r := range idx.records {
		if !match(r) {
			continue
		}

		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}

		options = append(options, domain.Option{Value: v, Label: label(v)})
	}

	return options
}

func all(domain.ReferenceRecord) bool { return true }

func plain(v string) string { return v }
