package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankbalance/internal/domain"
	"github.com/iho/bankbalance/internal/usecase"
)

const (
	insertColumns = `root_key, company, reseller, bank_code, bank_name, branch, account, balance, source_ip, created_at`
	selectColumns = `id, ` + insertColumns

	createBalance = `INSERT INTO bank_balances (` + insertColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	upsertBalanceKeep = createBalance + `
ON CONFLICT (root_key, bank_code, branch, account) DO NOTHING`

	upsertBalanceRefresh = createBalance + `
ON CONFLICT (root_key, bank_code, branch, account) DO UPDATE
SET company = excluded.company,
    reseller = excluded.reseller,
    bank_name = excluded.bank_name`

	listBalances = `SELECT ` + selectColumns + ` FROM bank_balances
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

	latestBalance = `SELECT ` + selectColumns + ` FROM bank_balances
ORDER BY created_at DESC, id DESC
LIMIT 1`

	countBalances = `SELECT COUNT(*) FROM bank_balances`
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(db *sql.DB) *BalanceRepository {
	return &BalanceRepository{db: db, now: time.Now}
}

// Create inserts a user-submitted balance.
func (r *BalanceRepository) Create(ctx context.Context, record *domain.BalanceRecord) error {
	createdAt := r.now().UTC()
	record.Balance = record.Balance.Round(2)

	res, err := r.db.ExecContext(ctx, createBalance, r.args(record, createdAt)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBalance
		}
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}

	record.ID = id
	record.CreatedAt = createdAt

	return nil
}

// Upsert writes a seed row inside tx.
func (r *BalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, record *domain.BalanceRecord, mode domain.UpsertMode) error {
	sqlTx, ok := tx.(*Tx)
	if !ok {
		return fmt.Errorf("sqlite: unexpected transaction type %T", tx)
	}

	var query string
	switch mode {
	case domain.UpsertKeep:
		query = upsertBalanceKeep
	case domain.UpsertRefresh:
		query = upsertBalanceRefresh
	default:
		return fmt.Errorf("sqlite: unknown upsert mode %d", mode)
	}

	return r.exec(ctx, sqlTx.SQLTx(), query, r.args(record, r.now().UTC()))
}

// List returns balances newest first.
func (r *BalanceRepository) List(ctx context.Context, limit, offset int) ([]*domain.BalanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, listBalances, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*domain.BalanceRecord{}
	for rows.Next() {
		record, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Latest returns the newest balance.
func (r *BalanceRepository) Latest(ctx context.Context) (*domain.BalanceRecord, error) {
	record, err := scanBalance(r.db.QueryRowContext(ctx, latestBalance))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBalanceNotFound
		}
		return nil, err
	}

	return record, nil
}

// Count returns the number of stored balances.
func (r *BalanceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, countBalances).Scan(&count)
	return count, err
}

func (r *BalanceRepository) exec(ctx context.Context, db execer, query string, args []any) error {
	_, err := db.ExecContext(ctx, query, args...)
	return err
}

func (r *BalanceRepository) args(record *domain.BalanceRecord, createdAt time.Time) []any {
	return []any{
		record.RootKey,
		record.Company,
		record.Reseller,
		record.BankCode,
		record.BankName,
		record.Branch,
		record.Account,
		record.Balance.StringFixed(2),
		record.SourceIP,
		createdAt.UnixNano(),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBalance(s scanner) (*domain.BalanceRecord, error) {
	var (
		record    domain.BalanceRecord
		balance   string
		createdAt int64
	)

	err := s.Scan(
		&record.ID,
		&record.RootKey,
		&record.Company,
		&record.Reseller,
		&record.BankCode,
		&record.BankName,
		&record.Branch,
		&record.Account,
		&balance,
		&record.SourceIP,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("invalid stored balance %q: %w", balance, err)
	}
	record.CreatedAt = time.Unix(0, createdAt).UTC()

	return &record, nil
}
