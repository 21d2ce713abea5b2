package poller

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/bankbalance/internal/currency"
	"github.com/iho/bankbalance/internal/domain"
)

// UpdateTimeLayout renders timestamps as dd/mm/yyyy hh:mm:ss.
const UpdateTimeLayout = "02/01/2006 15:04:05"

// LogNotifier writes poll outcomes to a logger.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the event. Foreign updates are logged at warn level.
func (n *LogNotifier) Notify(_ context.Context, event Event, record *domain.BalanceRecord) {
	e := n.logger.Info()
	msg := "latest manual update"
	if event == EventForeignUpdate {
		e = n.logger.Warn()
		msg = "new update detected from another user"
	}

	e.Stringer("event", event).
		Int64("id", record.ID).
		Str("company", record.Company).
		Str("bank", record.BankName).
		Str("branch", record.Branch).
		Str("account", record.Account).
		Str("balance", currency.FormatAmount(record.Balance)).
		Str("updated_at", record.CreatedAt.Local().Format(UpdateTimeLayout)).
		Msg(msg)
}
