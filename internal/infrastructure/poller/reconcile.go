// Package poller watches the newest balance record and tells local
// submissions apart from updates made elsewhere.
package poller

import (
	"time"

	"github.com/iho/bankbalance/internal/domain"
)

// Event classifies the outcome of one poll.
type Event int

const (
	// EventNone means nothing changed, or the store was empty.
	EventNone Event = iota
	// EventInitial is the first record observed.
	EventInitial
	// EventOwnEcho is the first record observed after a local submission.
	EventOwnEcho
	// EventForeignUpdate is a new record created by someone else.
	EventForeignUpdate
)

func (e Event) String() string {
	switch e {
	case EventInitial:
		return "initial"
	case EventOwnEcho:
		return "own_echo"
	case EventForeignUpdate:
		return "foreign_update"
	default:
		return "none"
	}
}

// PollState is what a watcher remembers between polls.
type PollState struct {
	LastID          int64
	LastAt          time.Time
	AwaitingOwnEcho bool
	Seen            bool
}

// Submitted returns s with the own-echo flag raised.
func (s PollState) Submitted() PollState {
	s.AwaitingOwnEcho = true
	return s
}

// Reconcile folds the latest record into state. A nil latest leaves state untouched.
func Reconcile(state PollState, latest *domain.BalanceRecord) (PollState, Event) {
	if latest == nil {
		return state, EventNone
	}

	var event Event
	switch {
	case !state.Seen:
		event = EventInitial
	case state.AwaitingOwnEcho:
		event = EventOwnEcho
	case latest.ID != state.LastID:
		event = EventForeignUpdate
	default:
		event = EventNone
	}

	return PollState{
		LastID: latest.ID,
		LastAt: latest.CreatedAt,
		Seen:   true,
	}, event
}
