package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/bankbalance/internal/domain"
)

// SeedUseCase writes the reference dataset into the balance store.
type SeedUseCase struct {
	txManager TransactionManager
	repo      BalanceRepository
	retrier   Retrier
	source    ReferenceSource
	recorder  Recorder
	now       func() time.Time
}

// NewSeedUseCase creates a new SeedUseCase. A nil recorder disables metrics.
func NewSeedUseCase(txManager TransactionManager, repo BalanceRepository, retrier Retrier, source ReferenceSource, recorder Recorder) *SeedUseCase {
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &SeedUseCase{
		txManager: txManager,
		repo:      repo,
		retrier:   retrier,
		source:    source,
		recorder:  recorder,
		now:       time.Now,
	}
}

// SeedResult describes a completed seeding run.
type SeedResult struct {
	RecordsProcessed int
	Timestamp        time.Time
}

// SeedInfo describes the dataset available for seeding.
type SeedInfo struct {
	Records int
}

// Describe returns the size of the dataset.
func (uc *SeedUseCase) Describe() SeedInfo {
	return SeedInfo{Records: uc.source.Len()}
}

// Seed upserts every reference record with a zero balance in a single transaction.
// Either all records are written or none are.
func (uc *SeedUseCase) Seed(ctx context.Context, mode domain.UpsertMode, sourceIP string) (*SeedResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultSeedTimeout)
	defer cancel()

	records := uc.source.Records()

	err := uc.retrier.Retry(ctx, func() error {
		return uc.seedOnce(ctx, records, mode, sourceIP)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.SeedCompleted(mode, len(records))
	log.Info().
		Int("records", len(records)).
		Stringer("mode", mode).
		Str("source_ip", sourceIP).
		Msg("reference dataset seeded")

	return &SeedResult{
		RecordsProcessed: len(records),
		Timestamp:        uc.now().UTC(),
	}, nil
}

// SeedIfEmpty seeds with UpsertKeep when the store holds no records.
func (uc *SeedUseCase) SeedIfEmpty(ctx context.Context) (bool, error) {
	count, err := uc.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count balances: %w", err)
	}

	if count > 0 {
		return false, nil
	}

	log.Info().Msg("empty balance store detected, seeding")
	if _, err := uc.Seed(ctx, domain.UpsertKeep, domain.SourceIPSeed); err != nil {
		return false, err
	}

	return true, nil
}

func (uc *SeedUseCase) seedOnce(ctx context.Context, records []domain.ReferenceRecord, mode domain.UpsertMode, sourceIP string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, ref := range records {
		if err := uc.repo.Upsert(ctx, tx, domain.SeedRecord(ref, sourceIP), mode); err != nil {
			return fmt.Errorf("failed to seed %s/%s/%s/%s: %w", ref.RootKey, ref.BankCode, ref.Branch, ref.Account, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	return nil
}
