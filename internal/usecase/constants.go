package usecase

import "time"

const (
	// DefaultSeedTimeout bounds a whole seeding transaction.
	DefaultSeedTimeout = 30 * time.Second

	// DefaultLatestCacheTTL is how long the newest record is served from cache.
	DefaultLatestCacheTTL = 5 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPendingMarker is the stored value of a key whose first request is in flight.
	IdempotencyPendingMarker = "processing"

	latestCacheKey = "balances:latest"
)
