package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/bankbalance/internal/domain"
	"github.com/iho/bankbalance/internal/infrastructure/postgres/generated"
	"github.com/iho/bankbalance/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	queries *generated.Queries
}

// NewBalanceRepository creates a new BalanceRepository. db is usually a *pgxpool.Pool.
func NewBalanceRepository(db generated.DBTX) *BalanceRepository {
	return &BalanceRepository{queries: generated.New(db)}
}

// Create inserts a user-submitted balance.
func (r *BalanceRepository) Create(ctx context.Context, record *domain.BalanceRecord) error {
	row, err := r.queries.CreateBalance(ctx, generated.CreateBalanceParams{
		RootKey:  record.RootKey,
		Company:  record.Company,
		Reseller: record.Reseller,
		BankCode: record.BankCode,
		BankName: record.BankName,
		Branch:   record.Branch,
		Account:  record.Account,
		Balance:  decimalToNumeric(record.Balance),
		SourceIp: record.SourceIP,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBalance
		}
		return err
	}

	record.ID = row.ID
	record.Balance = numericToDecimal(row.Balance)
	record.CreatedAt = row.CreatedAt.Time

	return nil
}

// Upsert writes a seed row inside tx.
func (r *BalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, record *domain.BalanceRecord, mode domain.UpsertMode) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}
	queries := r.queries.WithTx(pgxTx)

	switch mode {
	case domain.UpsertKeep:
		return queries.UpsertBalanceKeep(ctx, generated.UpsertBalanceKeepParams{
			RootKey:  record.RootKey,
			Company:  record.Company,
			Reseller: record.Reseller,
			BankCode: record.BankCode,
			BankName: record.BankName,
			Branch:   record.Branch,
			Account:  record.Account,
			Balance:  decimalToNumeric(record.Balance),
			SourceIp: record.SourceIP,
		})
	case domain.UpsertRefresh:
		return queries.UpsertBalanceRefresh(ctx, generated.UpsertBalanceRefreshParams{
			RootKey:  record.RootKey,
			Company:  record.Company,
			Reseller: record.Reseller,
			BankCode: record.BankCode,
			BankName: record.BankName,
			Branch:   record.Branch,
			Account:  record.Account,
			Balance:  decimalToNumeric(record.Balance),
			SourceIp: record.SourceIP,
		})
	default:
		return fmt.Errorf("postgres: unknown upsert mode %d", mode)
	}
}

// List returns balances newest first.
func (r *BalanceRepository) List(ctx context.Context, limit, offset int) ([]*domain.BalanceRecord, error) {
	rows, err := r.queries.ListBalances(ctx, generated.ListBalancesParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	records := make([]*domain.BalanceRecord, len(rows))
	for i, row := range rows {
		records[i] = rowToBalance(row)
	}

	return records, nil
}

// Latest returns the newest balance.
func (r *BalanceRepository) Latest(ctx context.Context) (*domain.BalanceRecord, error) {
	row, err := r.queries.LatestBalance(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBalanceNotFound
		}

		return nil, err
	}

	return rowToBalance(row), nil
}

// Count returns the number of stored balances.
func (r *BalanceRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountBalances(ctx)
}

func rowToBalance(row generated.BankBalance) *domain.BalanceRecord {
	return &domain.BalanceRecord{
		ID:        row.ID,
		RootKey:   row.RootKey,
		Company:   row.Company,
		Reseller:  row.Reseller,
		BankCode:  row.BankCode,
		BankName:  row.BankName,
		Branch:    row.Branch,
		Account:   row.Account,
		Balance:   numericToDecimal(row.Balance),
		SourceIP:  row.SourceIp,
		CreatedAt: timestamptzToTime(row.CreatedAt),
	}
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timestamptzToTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return ts.Time.UTC()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}
