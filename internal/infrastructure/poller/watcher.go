package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/bankbalance/internal/domain"
)

// DefaultInterval is the time between polls.
const DefaultInterval = 10 * time.Second

// Fetcher loads the newest balance record.
type Fetcher interface {
	LatestBalance(ctx context.Context) (*domain.BalanceRecord, error)
}

// Notifier receives every non-empty poll outcome.
type Notifier interface {
	Notify(ctx context.Context, event Event, record *domain.BalanceRecord)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event Event, record *domain.BalanceRecord)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, event Event, record *domain.BalanceRecord) {
	f(ctx, event, record)
}

// Config for Watcher.
type Config struct {
	Fetcher  Fetcher
	Notifier Notifier
	Interval time.Duration   // Defaults to DefaultInterval
	Logger   *zerolog.Logger // Defaults to the global logger
}

// Watcher polls a Fetcher on a fixed interval.
type Watcher struct {
	fetcher  Fetcher
	notifier Notifier
	interval time.Duration
	logger   *zerolog.Logger

	mu          sync.Mutex
	state       PollState
	submissions uint64
}

// NewWatcher creates a new Watcher.
func NewWatcher(cfg Config) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = &log.Logger
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NotifierFunc(func(context.Context, Event, *domain.BalanceRecord) {})
	}

	return &Watcher{
		fetcher:  cfg.Fetcher,
		notifier: cfg.Notifier,
		interval: cfg.Interval,
		logger:   cfg.Logger,
	}
}

// Start polls immediately and then on every tick until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info().Dur("interval", w.interval).Msg("balance watcher started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("balance watcher shutting down")
			return ctx.Err()
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll fetches once and reconciles. Fetch errors are logged and leave state unchanged.
// A submission marked while the fetch is in flight stays pending for the next poll.
func (w *Watcher) Poll(ctx context.Context) Event {
	w.mu.Lock()
	state, submissions := w.state, w.submissions
	w.mu.Unlock()

	latest, err := w.fetcher.LatestBalance(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrBalanceNotFound) {
			return EventNone
		}
		w.logger.Error().Err(err).Msg("failed to fetch latest balance")
		return EventNone
	}

	w.mu.Lock()
	next, event := Reconcile(state, latest)
	if w.submissions != submissions {
		next = next.Submitted()
	}
	w.state = next
	w.mu.Unlock()

	if event != EventNone {
		w.notifier.Notify(ctx, event, latest)
	}

	return event
}

// MarkSubmitted records a local submission so its echo is not reported as foreign.
func (w *Watcher) MarkSubmitted() {
	w.mu.Lock()
	w.state = w.state.Submitted()
	w.submissions++
	w.mu.Unlock()
}

// State returns a snapshot of the current state.
func (w *Watcher) State() PollState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}
