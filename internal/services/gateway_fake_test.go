package services

import (
	"context"
	"sync"

	"roundup/internal/bank"
)

// fakeGateway records every call so tests can assert call counts and
// ordering across the orchestration steps. Recording is locked so
// tests may drive the services from several goroutines.
type fakeGateway struct {
	mu sync.Mutex

	accounts    []bank.AccountEntity
	accountsErr error

	feed    []bank.TransactionEntity
	feedErr error

	goals    []bank.SavingsGoalEntity
	goalsErr error

	createResult bank.CreateGoalResult
	createErr    error

	transferResult bank.TransferResult
	transferErr    error

	calls        []string
	feedQueries  [][4]string
	transferUIDs []string
}

func (g *fakeGateway) GetAccounts(context.Context) ([]bank.AccountEntity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "accounts")
	return g.accounts, g.accountsErr
}

func (g *fakeGateway) GetTransactions(_ context.Context, accountUID, categoryUID, minTimestamp, maxTimestamp string) ([]bank.TransactionEntity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "feed")
	g.feedQueries = append(g.feedQueries, [4]string{accountUID, categoryUID, minTimestamp, maxTimestamp})
	return g.feed, g.feedErr
}

func (g *fakeGateway) GetSavingsGoals(context.Context, string) ([]bank.SavingsGoalEntity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "goals")
	return g.goals, g.goalsErr
}

func (g *fakeGateway) CreateSavingsGoal(context.Context, string, string, string) (bank.CreateGoalResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "create")
	return g.createResult, g.createErr
}

func (g *fakeGateway) AddMoneyToGoal(_ context.Context, _, _, transferUID string, _ int64, _ string) (bank.TransferResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "transfer")
	g.transferUIDs = append(g.transferUIDs, transferUID)
	return g.transferResult, g.transferErr
}

func (g *fakeGateway) callCount(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c == op {
			n++
		}
	}
	return n
}

func strPtr(s string) *string { return &s }
func i64Ptr(i int64) *int64   { return &i }
func boolPtr(b bool) *bool    { return &b }

func accountEntity(uid, categoryUID, accountType string) bank.AccountEntity {
	return bank.AccountEntity{
		AccountUID:      strPtr(uid),
		DefaultCategory: strPtr(categoryUID),
		AccountType:     strPtr(accountType),
	}
}

func goalEntity(uid, name string) bank.SavingsGoalEntity {
	return bank.SavingsGoalEntity{SavingsGoalUID: strPtr(uid), Name: strPtr(name)}
}
