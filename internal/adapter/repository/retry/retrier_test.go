package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func fastRetrier(opts ...Option) *Retrier {
	base := []Option{
		WithIntervals(time.Millisecond, 2*time.Millisecond),
		WithMaxElapsedTime(time.Second),
		WithLogger(zerolog.Nop()),
	}
	return New(isTransient, append(base, opts...)...)
}

func TestRetrierRetriesOnRetryableError(t *testing.T) {
	r := fastRetrier(WithMaxRetries(2))

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := fastRetrier()
	attempts := 0
	permanentErr := errors.New("permanent")

	err := r.Retry(context.Background(), func() error {
		attempts++
		return permanentErr
	})

	assert.ErrorIs(t, err, permanentErr)
	assert.Equal(t, 1, attempts)
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := fastRetrier(WithMaxRetries(2))
	attempts := 0

	err := r.Retry(context.Background(), func() error {
		attempts++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, attempts)
}

func TestRetrierNilClassifierNeverRetries(t *testing.T) {
	r := New(nil, WithLogger(zerolog.Nop()))
	attempts := 0

	err := r.Retry(context.Background(), func() error {
		attempts++
		return errTransient
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetrierHonoursCancelledContext(t *testing.T) {
	r := fastRetrier(WithMaxRetries(100), WithIntervals(50*time.Millisecond, 50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := r.Retry(ctx, func() error {
		attempts++
		return errTransient
	})

	assert.Error(t, err)
	assert.LessOrEqual(t, attempts, 1)
}
