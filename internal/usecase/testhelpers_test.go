package usecase_test

import (
	"context"

	"github.com/iho/bankbalance/internal/domain"
)

// passthroughRetrier runs the operation exactly once.
type passthroughRetrier struct{}

func (passthroughRetrier) Retry(_ context.Context, operation func() error) error {
	return operation()
}

type staticSource []domain.ReferenceRecord

func (s staticSource) Records() []domain.ReferenceRecord { return append([]domain.ReferenceRecord(nil), s...) }
func (s staticSource) Len() int                          { return len(s) }

func sampleReferences() staticSource {
	return staticSource{
		{RootKey: "R1", Company: "1", Reseller: "2", BankCode: "033", BankName: "Santander", Branch: "0001", Account: "12345"},
		{RootKey: "R2", Company: "1", Reseller: "2", BankCode: "341", BankName: "Itaú", Branch: "8123", Account: "9917"},
	}
}
