// Package sandbox is an in-memory bank.Gateway used as the default
// backend for local runs and tests. It is seeded with a primary account
// and a deterministic transaction feed across recent weeks.
package sandbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"roundup/internal/bank"
	"roundup/internal/core"
)

type Transfer struct {
	TransferUID string
	GoalUID     string
	MinorUnits  int64
	Currency    string
}

type goal struct {
	uid      string
	name     string
	currency string
	balance  int64
}

type Store struct {
	mu        sync.Mutex
	accounts  []bank.AccountEntity
	feed      []bank.TransactionEntity
	goals     []goal
	transfers []Transfer
	nextGoal  int

	// Per-operation error overrides for failure-path testing.
	errs map[string]error
}

// Ensure interface conformance
var _ bank.Gateway = (*Store)(nil)

// New returns an empty store with a single primary account.
func New() *Store {
	return &Store{
		accounts: []bank.AccountEntity{
			entity("acc-primary", "cat-primary", "PRIMARY"),
		},
		errs: make(map[string]error),
	}
}

// NewSeeded returns a store whose feed covers the count most recent
// week windows relative to now, a few transactions per week. Amounts
// are fixed so round-up totals are reproducible.
func NewSeeded(now time.Time, count int) *Store {
	s := New()
	counterparties := []string{"Coffee Shop", "Grocer", "Bookstore", "Payroll"}
	amounts := []int64{1257, 350, 9999, 250000}
	directions := []string{"OUT", "OUT", "OUT", "IN"}

	for i, week := range core.GenerateWeeks(now, count) {
		for j := range counterparties {
			at := week.Start.Add(time.Duration(j*30+i) * time.Hour)
			if at.After(now) {
				continue
			}
			uid := fmt.Sprintf("feed-%d-%d", i, j)
			s.feed = append(s.feed, bank.TransactionEntity{
				FeedItemUID:      &uid,
				Amount:           &bank.AmountEntity{Currency: strPtr("GBP"), MinorUnits: i64Ptr(amounts[j])},
				Direction:        strPtr(directions[j]),
				TransactionTime:  strPtr(bank.FormatTimestamp(at)),
				CounterPartyName: strPtr(counterparties[j]),
			})
		}
	}
	return s
}

// FailWith forces the named operation ("accounts", "feed", "goals",
// "create", "transfer") to return err. A nil err clears the override.
func (s *Store) FailWith(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, op)
		return
	}
	s.errs[op] = err
}

// AddAccount appends a raw account entry.
func (s *Store) AddAccount(uid, categoryUID, accountType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, entity(uid, categoryUID, accountType))
}

// AddGoal seeds an existing savings goal.
func (s *Store) AddGoal(uid, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, goal{uid: uid, name: name})
}

// Transfers returns a copy of all recorded top-up transfers.
func (s *Store) Transfers() []Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Transfer(nil), s.transfers...)
}

// GoalBalance returns the accumulated balance of a goal in minor units.
func (s *Store) GoalBalance(goalUID string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.uid == goalUID {
			return g.balance, true
		}
	}
	return 0, false
}

func (s *Store) GetAccounts(_ context.Context) ([]bank.AccountEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["accounts"]; err != nil {
		return nil, err
	}
	return append([]bank.AccountEntity(nil), s.accounts...), nil
}

func (s *Store) GetTransactions(_ context.Context, accountUID, categoryUID, minTimestamp, maxTimestamp string) ([]bank.TransactionEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["feed"]; err != nil {
		return nil, err
	}
	min, err := parseBound(minTimestamp)
	if err != nil {
		return nil, fmt.Errorf("sandbox: bad min timestamp: %w", err)
	}
	max, err := parseBound(maxTimestamp)
	if err != nil {
		return nil, fmt.Errorf("sandbox: bad max timestamp: %w", err)
	}

	var out []bank.TransactionEntity
	for _, item := range s.feed {
		if item.TransactionTime == nil {
			continue
		}
		at, err := bank.ParseTimestamp(*item.TransactionTime)
		if err != nil {
			continue
		}
		if at.Before(min) || at.After(max) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Store) GetSavingsGoals(_ context.Context, accountUID string) ([]bank.SavingsGoalEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["goals"]; err != nil {
		return nil, err
	}
	out := make([]bank.SavingsGoalEntity, 0, len(s.goals))
	for _, g := range s.goals {
		uid, name := g.uid, g.name
		out = append(out, bank.SavingsGoalEntity{SavingsGoalUID: &uid, Name: &name})
	}
	return out, nil
}

func (s *Store) CreateSavingsGoal(_ context.Context, accountUID, name, currency string) (bank.CreateGoalResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["create"]; err != nil {
		return bank.CreateGoalResult{}, err
	}
	s.nextGoal++
	uid := fmt.Sprintf("goal-%d", s.nextGoal)
	s.goals = append(s.goals, goal{uid: uid, name: name, currency: currency})
	ok := true
	return bank.CreateGoalResult{SavingsGoalUID: &uid, Success: &ok}, nil
}

func (s *Store) AddMoneyToGoal(_ context.Context, accountUID, goalUID, transferUID string, minorUnits int64, currency string) (bank.TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["transfer"]; err != nil {
		return bank.TransferResult{}, err
	}
	for i := range s.goals {
		if s.goals[i].uid != goalUID {
			continue
		}
		s.goals[i].balance += minorUnits
		s.transfers = append(s.transfers, Transfer{
			TransferUID: transferUID,
			GoalUID:     goalUID,
			MinorUnits:  minorUnits,
			Currency:    currency,
		})
		ok := true
		return bank.TransferResult{Success: &ok}, nil
	}
	// Unknown goal: the remote reports a non-success outcome.
	notOK := false
	return bank.TransferResult{Success: &notOK}, nil
}

// parseBound accepts the day-boundary query format with two fractional
// digits, e.g. 2022-05-02T00:00:00.00Z.
func parseBound(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05.00Z", s)
}

func entity(uid, categoryUID, accountType string) bank.AccountEntity {
	return bank.AccountEntity{
		AccountUID:      &uid,
		DefaultCategory: &categoryUID,
		AccountType:     &accountType,
	}
}

func strPtr(s string) *string { return &s }
func i64Ptr(i int64) *int64   { return &i }
