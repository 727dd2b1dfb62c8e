// Package worker consumes round-up transfer events and keeps an audit
// ledger of what has been moved into savings goals.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"roundup/internal/amqp"
	applog "roundup/internal/log"
)

// LedgerWorker accumulates transfer events into per-currency and
// per-goal running totals. Delivery is at-least-once, so events are
// deduplicated by transfer UID.
type LedgerWorker struct {
	mu         sync.Mutex
	byCurrency map[string]int64
	byGoal     map[string]int64
	seen       map[string]struct{}
	processed  int64
}

func NewLedgerWorker() *LedgerWorker {
	return &LedgerWorker{
		byCurrency: make(map[string]int64),
		byGoal:     make(map[string]int64),
		seen:       make(map[string]struct{}),
	}
}

// HandleTransferRecorded processes a single transfer event from AMQP.
func (w *LedgerWorker) HandleTransferRecorded(ctx context.Context, msg *amqp.TransferRecordedMessage) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("validate transfer event: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, dup := w.seen[msg.TransferUID]; dup {
		slog.InfoContext(ctx, "Skipping duplicate transfer event",
			applog.FieldTransferUID, msg.TransferUID)
		return nil
	}
	w.seen[msg.TransferUID] = struct{}{}

	w.byCurrency[msg.Currency] += msg.MinorUnits
	w.byGoal[msg.GoalUID] += msg.MinorUnits
	w.processed++

	slog.InfoContext(ctx, "Recorded round-up transfer",
		applog.FieldTransferUID, msg.TransferUID,
		applog.FieldGoalUID, msg.GoalUID,
		applog.FieldAccountUID, msg.AccountUID,
		applog.FieldMinorUnits, msg.MinorUnits,
		applog.FieldCurrency, msg.Currency,
		"currency_total", w.byCurrency[msg.Currency],
		"timestamp", msg.Timestamp)

	return nil
}

// Totals returns a copy of the per-currency running totals.
func (w *LedgerWorker) Totals() map[string]int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	totals := make(map[string]int64, len(w.byCurrency))
	for currency, units := range w.byCurrency {
		totals[currency] = units
	}
	return totals
}

// GoalTotal returns the accumulated minor units for one savings goal.
func (w *LedgerWorker) GoalTotal(goalUID string) int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.byGoal[goalUID]
}

// Processed returns the number of distinct transfer events handled.
func (w *LedgerWorker) Processed() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.processed
}
