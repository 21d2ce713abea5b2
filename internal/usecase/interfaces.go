package usecase

import (
	"context"
	"time"

	"github.com/iho/bankbalance/internal/domain"
)

// BalanceRepository defines data access for balance records.
type BalanceRepository interface {
	// Create inserts a record and fills in its ID and CreatedAt.
	Create(ctx context.Context, record *domain.BalanceRecord) error
	// Upsert inserts a record inside tx or, on a unique key conflict, applies mode.
	Upsert(ctx context.Context, tx Transaction, record *domain.BalanceRecord, mode domain.UpsertMode) error
	// List returns records newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.BalanceRecord, error)
	Latest(ctx context.Context) (*domain.BalanceRecord, error)
	Count(ctx context.Context) (int64, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation while it fails with a transient store error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// RootKeyGenerator generates root keys for user-submitted balances.
type RootKeyGenerator interface {
	Generate() string
}

// ReferenceSource provides the reference dataset used for seeding.
type ReferenceSource interface {
	Records() []domain.ReferenceRecord
	Len() int
}

// Cache defines caching operations. Get returns domain.ErrCacheMiss for absent keys.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}

// Recorder receives domain metrics.
type Recorder interface {
	BalanceCreated()
	SeedCompleted(mode domain.UpsertMode, records int)
	LatestCacheLookup(hit bool)
}

type noopRecorder struct{}

func (noopRecorder) BalanceCreated() {}
func (noopRecorder) SeedCompleted(domain.UpsertMode, int) {}
func (noopRecorder) LatestCacheLookup(bool) {}
