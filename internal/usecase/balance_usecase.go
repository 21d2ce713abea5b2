package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/bankbalance/internal/domain"
)

// BalanceUseCase handles balance registration and lookup.
type BalanceUseCase struct {
	repo     BalanceRepository
	seeder   *SeedUseCase
	rootKeys RootKeyGenerator
	cache    Cache
	cacheTTL time.Duration
	recorder Recorder
}

// BalanceUseCaseConfig holds BalanceUseCase dependencies.
type BalanceUseCaseConfig struct {
	Repo     BalanceRepository
	Seeder   *SeedUseCase
	RootKeys RootKeyGenerator
	Cache    Cache         // Optional: caches the newest record
	CacheTTL time.Duration // Defaults to DefaultLatestCacheTTL
	Recorder Recorder      // Optional
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(cfg BalanceUseCaseConfig) *BalanceUseCase {
	if cfg.RootKeys == nil {
		cfg.RootKeys = NewTimestampRootKeyGenerator()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultLatestCacheTTL
	}
	if cfg.Recorder == nil {
		cfg.Recorder = noopRecorder{}
	}

	return &BalanceUseCase{
		repo:     cfg.Repo,
		seeder:   cfg.Seeder,
		rootKeys: cfg.RootKeys,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		recorder: cfg.Recorder,
	}
}

// CreateBalanceInput represents input for registering a balance.
type CreateBalanceInput struct {
	RootKey  string // Generated when empty
	Company  string
	Reseller string
	BankCode string
	BankName string
	Branch   string
	Account  string
	Balance  decimal.Decimal
	SourceIP string
}

// CreateBalance registers a balance submitted by a user.
func (uc *BalanceUseCase) CreateBalance(ctx context.Context, input CreateBalanceInput) (*domain.BalanceRecord, error) {
	record := &domain.BalanceRecord{
		RootKey:  input.RootKey,
		Company:  input.Company,
		Reseller: input.Reseller,
		BankCode: input.BankCode,
		BankName: input.BankName,
		Branch:   input.Branch,
		Account:  input.Account,
		Balance:  input.Balance,
		SourceIP: input.SourceIP,
	}

	if record.RootKey == "" {
		record.RootKey = uc.rootKeys.Generate()
	}
	if record.SourceIP == "" {
		record.SourceIP = domain.SourceIPUnknown
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create balance: %w", err)
	}

	uc.invalidateLatest(ctx)
	uc.recorder.BalanceCreated()

	return record, nil
}

// ListBalancesInput represents input for listing balances.
type ListBalancesInput struct {
	Limit  int
	Offset int
}

// ListBalances lists balances newest first, seeding the store first if it is empty.
func (uc *BalanceUseCase) ListBalances(ctx context.Context, input ListBalancesInput) ([]*domain.BalanceRecord, error) {
	if err := uc.seedIfEmpty(ctx); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.repo.List(ctx, limit, offset)
}

// LatestBalance returns the most recently created record.
func (uc *BalanceUseCase) LatestBalance(ctx context.Context) (*domain.BalanceRecord, error) {
	if record, ok := uc.cachedLatest(ctx); ok {
		return record, nil
	}

	if err := uc.seedIfEmpty(ctx); err != nil {
		return nil, err
	}

	record, err := uc.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}

	uc.storeLatest(ctx, record)

	return record, nil
}

// Seed refreshes descriptive fields from the reference dataset and fills in missing rows.
func (uc *BalanceUseCase) Seed(ctx context.Context) (*SeedResult, error) {
	result, err := uc.seeder.Seed(ctx, domain.UpsertRefresh, domain.SourceIPManualSeed)
	if err != nil {
		return nil, err
	}

	uc.invalidateLatest(ctx)

	return result, nil
}

// DescribeSeed describes the dataset a seed would write.
func (uc *BalanceUseCase) DescribeSeed() SeedInfo {
	return uc.seeder.Describe()
}

func (uc *BalanceUseCase) seedIfEmpty(ctx context.Context) error {
	seeded, err := uc.seeder.SeedIfEmpty(ctx)
	if err != nil {
		return err
	}
	if seeded {
		uc.invalidateLatest(ctx)
	}
	return nil
}

func (uc *BalanceUseCase) cachedLatest(ctx context.Context) (*domain.BalanceRecord, bool) {
	if uc.cache == nil {
		return nil, false
	}

	raw, err := uc.cache.Get(ctx, latestCacheKey)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Warn().Err(err).Msg("latest balance cache read failed")
		}
		uc.recorder.LatestCacheLookup(false)
		return nil, false
	}

	var record domain.BalanceRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		log.Warn().Err(err).Msg("discarding undecodable cached balance")
		uc.recorder.LatestCacheLookup(false)
		return nil, false
	}

	uc.recorder.LatestCacheLookup(true)
	return &record, true
}

func (uc *BalanceUseCase) storeLatest(ctx context.Context, record *domain.BalanceRecord) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, latestCacheKey, string(raw), uc.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("latest balance cache write failed")
	}
}

func (uc *BalanceUseCase) invalidateLatest(ctx context.Context) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, latestCacheKey); err != nil {
		log.Warn().Err(err).Msg("latest balance cache invalidation failed")
	}
}
