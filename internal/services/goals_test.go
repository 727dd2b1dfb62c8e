package services

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"roundup/internal/bank"
	"roundup/internal/core"
)

var testAccount = core.Account{UID: "acc-main", CategoryUID: "cat-1", Type: core.AccountTypePrimary}

func newOrchestrator(gateway bank.Gateway) *GoalOrchestrator {
	o := NewGoalOrchestrator(gateway, nil)
	n := 0
	o.newTransferUID = func() string {
		n++
		return "transfer-" + string(rune('a'+n-1))
	}
	return o
}

func TestGoalOrchestrator_ExistingGoal(t *testing.T) {
	gateway := &fakeGateway{
		goals: []bank.SavingsGoalEntity{
			goalEntity("goal-other", "Holiday"),
			goalEntity("goal-roundup", core.RoundUpGoalName),
		},
		transferResult: bank.TransferResult{Success: boolPtr(true)},
	}
	o := newOrchestrator(gateway)

	if err := o.UpdateRoundUpGoal(context.Background(), testAccount, "GBP", 143); err != nil {
		t.Fatalf("UpdateRoundUpGoal returned error: %v", err)
	}

	want := []string{"goals", "transfer"}
	if !reflect.DeepEqual(gateway.calls, want) {
		t.Errorf("gateway calls = %v, want %v (no create for existing goal)", gateway.calls, want)
	}
}

func TestGoalOrchestrator_CreatesMissingGoal(t *testing.T) {
	gateway := &fakeGateway{
		goals:          []bank.SavingsGoalEntity{goalEntity("goal-other", "Holiday")},
		createResult:   bank.CreateGoalResult{SavingsGoalUID: strPtr("goal-new"), Success: boolPtr(true)},
		transferResult: bank.TransferResult{Success: boolPtr(true)},
	}
	o := newOrchestrator(gateway)

	if err := o.UpdateRoundUpGoal(context.Background(), testAccount, "GBP", 143); err != nil {
		t.Fatalf("UpdateRoundUpGoal returned error: %v", err)
	}

	want := []string{"goals", "create", "transfer"}
	if !reflect.DeepEqual(gateway.calls, want) {
		t.Errorf("gateway calls = %v, want %v", gateway.calls, want)
	}
}

func TestGoalOrchestrator_CreationFailures(t *testing.T) {
	tests := []struct {
		name         string
		createResult bank.CreateGoalResult
		createErr    error
	}{
		{
			name:      "transport error",
			createErr: errors.New("connection reset"),
		},
		{
			name:         "non-success response",
			createResult: bank.CreateGoalResult{SavingsGoalUID: strPtr("goal-new"), Success: boolPtr(false)},
		},
		{
			name:         "missing goal uid",
			createResult: bank.CreateGoalResult{Success: boolPtr(true)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &fakeGateway{
				createResult: tt.createResult,
				createErr:    tt.createErr,
			}
			o := newOrchestrator(gateway)

			err := o.UpdateRoundUpGoal(context.Background(), testAccount, "GBP", 143)
			if !errors.Is(err, core.ErrGoalCreation) {
				t.Fatalf("expected ErrGoalCreation, got %v", err)
			}
			// Creation failure aborts the orchestration before any transfer.
			if got := gateway.callCount("transfer"); got != 0 {
				t.Errorf("transfer attempted %d times after failed creation, want 0", got)
			}
		})
	}
}

func TestGoalOrchestrator_CachesGoalAcrossCalls(t *testing.T) {
	gateway := &fakeGateway{
		goals:          []bank.SavingsGoalEntity{goalEntity("goal-roundup", core.RoundUpGoalName)},
		transferResult: bank.TransferResult{Success: boolPtr(true)},
	}
	o := newOrchestrator(gateway)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := o.UpdateRoundUpGoal(ctx, testAccount, "GBP", 100); err != nil {
			t.Fatalf("call %d returned error: %v", i, err)
		}
	}

	if got := o.goalUID; got != "goal-roundup" {
		t.Errorf("cached goal uid = %q, want goal-roundup", got)
	}
	if got := gateway.callCount("goals"); got != 1 {
		t.Errorf("goal list fetched %d times, want 1", got)
	}
	if got := gateway.callCount("transfer"); got != 3 {
		t.Errorf("transfers = %d, want 3", got)
	}

	// Every transfer carries a fresh idempotency token.
	seen := make(map[string]bool)
	for _, uid := range gateway.transferUIDs {
		if seen[uid] {
			t.Errorf("transfer uid %q reused across calls", uid)
		}
		seen[uid] = true
	}
}

func TestGoalOrchestrator_CachesCreatedGoal(t *testing.T) {
	gateway := &fakeGateway{
		createResult:   bank.CreateGoalResult{SavingsGoalUID: strPtr("goal-new"), Success: boolPtr(true)},
		transferResult: bank.TransferResult{Success: boolPtr(true)},
	}
	o := newOrchestrator(gateway)
	ctx := context.Background()

	if err := o.UpdateRoundUpGoal(ctx, testAccount, "GBP", 100); err != nil {
		t.Fatalf("first call returned error: %v", err)
	}
	if err := o.UpdateRoundUpGoal(ctx, testAccount, "GBP", 50); err != nil {
		t.Fatalf("second call returned error: %v", err)
	}

	// The created goal is cached too: the second round-up goes straight
	// to the transfer without another lookup or creation.
	want := []string{"goals", "create", "transfer", "transfer"}
	if !reflect.DeepEqual(gateway.calls, want) {
		t.Errorf("gateway calls = %v, want %v", gateway.calls, want)
	}
}

func TestGoalOrchestrator_TopUpFailures(t *testing.T) {
	t.Run("non-success response", func(t *testing.T) {
		gateway := &fakeGateway{
			goals:          []bank.SavingsGoalEntity{goalEntity("goal-roundup", core.RoundUpGoalName)},
			transferResult: bank.TransferResult{Success: boolPtr(false)},
		}
		o := newOrchestrator(gateway)

		err := o.UpdateRoundUpGoal(context.Background(), testAccount, "GBP", 143)
		if !errors.Is(err, core.ErrTopUpFailed) {
			t.Errorf("expected ErrTopUpFailed, got %v", err)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		gateway := &fakeGateway{
			goals:       []bank.SavingsGoalEntity{goalEntity("goal-roundup", core.RoundUpGoalName)},
			transferErr: errors.New("connection reset"),
		}
		o := newOrchestrator(gateway)

		err := o.UpdateRoundUpGoal(context.Background(), testAccount, "GBP", 143)
		var gwErr *core.GatewayError
		if !errors.As(err, &gwErr) {
			t.Errorf("expected GatewayError, got %v", err)
		}
	})
}

func TestGoalOrchestrator_GoalListFailure(t *testing.T) {
	gateway := &fakeGateway{goalsErr: errors.New("connection reset")}
	o := newOrchestrator(gateway)

	err := o.UpdateRoundUpGoal(context.Background(), testAccount, "GBP", 143)
	var gwErr *core.GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if gateway.callCount("create") != 0 || gateway.callCount("transfer") != 0 {
		t.Errorf("expected orchestration to abort after list failure, calls = %v", gateway.calls)
	}
}

func TestGoalOrchestrator_ConcurrentFirstUse(t *testing.T) {
	gateway := &fakeGateway{
		createResult:   bank.CreateGoalResult{SavingsGoalUID: strPtr("goal-new"), Success: boolPtr(true)},
		transferResult: bank.TransferResult{Success: boolPtr(true)},
	}
	o := newOrchestrator(gateway)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = o.UpdateRoundUpGoal(context.Background(), testAccount, "GBP", 143)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d returned error: %v", i, err)
		}
	}

	// Only the first caller lists and creates; the rest see the cached
	// goal uid and go straight to their own transfer.
	if got := gateway.callCount("goals"); got != 1 {
		t.Errorf("goal list called %d times, want 1", got)
	}
	if got := gateway.callCount("create"); got != 1 {
		t.Errorf("goal create called %d times, want 1", got)
	}
	if got := gateway.callCount("transfer"); got != callers {
		t.Errorf("transfer called %d times, want %d", got, callers)
	}

	seen := make(map[string]bool, callers)
	for _, uid := range gateway.transferUIDs {
		if seen[uid] {
			t.Errorf("transfer uid %q reused", uid)
		}
		seen[uid] = true
	}
}
