package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"roundup/internal/amqp"
	"roundup/internal/bank"
	"roundup/internal/core"
	applog "roundup/internal/log"
)

// GoalOrchestrator finds or creates the round-up savings goal and
// performs top-up transfers into it. The resolved goal uid is memoized
// for the session, whether found or newly created.
type GoalOrchestrator struct {
	gateway bank.Gateway
	events  *amqp.Client // optional, nil when eventing is disabled

	// newTransferUID produces the idempotency token for one transfer.
	// Injectable so tests can observe or pin the generated ids.
	newTransferUID func() string

	mu      sync.Mutex
	goalUID string
}

func NewGoalOrchestrator(gateway bank.Gateway, events *amqp.Client) *GoalOrchestrator {
	return &GoalOrchestrator{
		gateway:        gateway,
		events:         events,
		newTransferUID: uuid.NewString,
	}
}

// UpdateRoundUpGoal transfers amount minor units of currency into the
// account's round-up savings goal, creating the goal first if the
// account has none. A failure at any step aborts the remaining steps.
//
// Every call generates a fresh transfer uid, including retries of the
// same logical amount: a retry is a new transfer as far as the gateway
// is concerned.
func (o *GoalOrchestrator) UpdateRoundUpGoal(ctx context.Context, account core.Account, currency string, amount int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	goalUID := o.goalUID
	if goalUID == "" {
		entities, err := o.gateway.GetSavingsGoals(ctx, account.UID)
		if err != nil {
			return &core.GatewayError{Op: "get savings goals", Err: err}
		}
		for _, goal := range bank.MapSavingsGoals(entities) {
			if goal.Name == core.RoundUpGoalName {
				goalUID = goal.UID
				break
			}
		}
	}

	if goalUID == "" {
		created, err := o.gateway.CreateSavingsGoal(ctx, account.UID, core.RoundUpGoalName, currency)
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrGoalCreation, err)
		}
		if (created.Success != nil && !*created.Success) || created.SavingsGoalUID == nil {
			return core.ErrGoalCreation
		}
		goalUID = *created.SavingsGoalUID
		slog.InfoContext(ctx, "Created round up savings goal", applog.FieldGoalUID, goalUID, applog.FieldCurrency, currency)
	}
	o.goalUID = goalUID

	transferUID := o.newTransferUID()
	result, err := o.gateway.AddMoneyToGoal(ctx, account.UID, goalUID, transferUID, amount, currency)
	if err != nil {
		return &core.GatewayError{Op: "add money to goal", Err: err}
	}
	if result.Success != nil && !*result.Success {
		return core.ErrTopUpFailed
	}

	slog.InfoContext(ctx, "Added round up to savings goal",
		applog.FieldGoalUID, goalUID,
		applog.FieldTransferUID, transferUID,
		applog.FieldMinorUnits, amount,
		applog.FieldCurrency, currency)

	o.publishTransferRecorded(ctx, transferUID, goalUID, account.UID, amount, currency)
	return nil
}

// publishTransferRecorded emits the audit event for a completed
// transfer. Publishing is best-effort: the top-up already happened, so
// a publish failure is logged and never surfaced to the caller.
func (o *GoalOrchestrator) publishTransferRecorded(ctx context.Context, transferUID, goalUID, accountUID string, amount int64, currency string) {
	if o.events == nil {
		return
	}
	msg := amqp.NewTransferRecordedMessage(transferUID, goalUID, accountUID, amount, currency)
	if err := o.events.PublishTransferRecorded(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transfer recorded event",
			applog.FieldError, err,
			applog.FieldTransferUID, transferUID)
	}
}
