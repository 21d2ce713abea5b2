package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iho/bankbalance/internal/domain"
)

func record(id int64) *domain.BalanceRecord {
	return &domain.BalanceRecord{ID: id, CreatedAt: time.Unix(id, 0).UTC()}
}

func TestReconcile(t *testing.T) {
	seen := PollState{LastID: 5, LastAt: time.Unix(5, 0).UTC(), Seen: true}

	tests := []struct {
		name      string
		state     PollState
		latest    *domain.BalanceRecord
		wantEvent Event
		wantState PollState
	}{
		{
			name:      "empty store keeps state",
			state:     seen.Submitted(),
			latest:    nil,
			wantEvent: EventNone,
			wantState: seen.Submitted(),
		},
		{
			name:      "first record",
			state:     PollState{},
			latest:    record(5),
			wantEvent: EventInitial,
			wantState: seen,
		},
		{
			name:      "first record with id zero still counts as seen",
			state:     PollState{},
			latest:    record(0),
			wantEvent: EventInitial,
			wantState: PollState{LastID: 0, LastAt: time.Unix(0, 0).UTC(), Seen: true},
		},
		{
			name:      "unchanged",
			state:     seen,
			latest:    record(5),
			wantEvent: EventNone,
			wantState: seen,
		},
		{
			name:      "foreign update",
			state:     seen,
			latest:    record(6),
			wantEvent: EventForeignUpdate,
			wantState: PollState{LastID: 6, LastAt: time.Unix(6, 0).UTC(), Seen: true},
		},
		{
			name:      "own echo suppresses notification and clears flag",
			state:     seen.Submitted(),
			latest:    record(6),
			wantEvent: EventOwnEcho,
			wantState: PollState{LastID: 6, LastAt: time.Unix(6, 0).UTC(), Seen: true},
		},
		{
			name:      "flag cleared even when id did not move",
			state:     seen.Submitted(),
			latest:    record(5),
			wantEvent: EventOwnEcho,
			wantState: seen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotState, gotEvent := Reconcile(tt.state, tt.latest)
			assert.Equal(t, tt.wantEvent, gotEvent)
			assert.Equal(t, tt.wantState, gotState)
		})
	}
}

func TestReconcile_SubmitThenForeignSequence(t *testing.T) {
	var state PollState
	var events []Event

	for _, step := range []struct {
		submit bool
		id     int64
	}{
		{false, 1},
		{true, 2},
		{false, 2},
		{false, 3},
	} {
		if step.submit {
			state = state.Submitted()
		}
		var ev Event
		state, ev = Reconcile(state, record(step.id))
		events = append(events, ev)
	}

	assert.Equal(t, []Event{EventInitial, EventOwnEcho, EventNone, EventForeignUpdate}, events)
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "none", EventNone.String())
	assert.Equal(t, "initial", EventInitial.String())
	assert.Equal(t, "own_echo", EventOwnEcho.String())
	assert.Equal(t, "foreign_update", EventForeignUpdate.String())
}
