package domain

import "errors"

var (
	// Balance errors
	ErrBalanceNotFound      = errors.New("balance record not found")
	ErrDuplicateBalance     = errors.New("balance record already exists for root key, bank, branch and account")
	ErrInvalidBalanceRecord = errors.New("invalid balance record")

	// Reference data errors
	ErrInvalidReferenceRecord = errors.New("invalid reference record")
	ErrIncompleteSelection    = errors.New("selection is incomplete")

	// Cache errors
	ErrCacheMiss = errors.New("cache miss")
)
