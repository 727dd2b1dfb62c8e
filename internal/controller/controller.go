// Package controller holds the view-state machine behind the round-up
// screen: week selection, grouped transactions, the computed round-up
// amount and user-facing notifications.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"roundup/internal/core"
	"roundup/internal/services"
)

type Notification string

const (
	NoteNone         Notification = ""
	NoteFetchFailed  Notification = "transactions_fetch_failed"
	NoteRoundUpDone  Notification = "round_up_success"
	NoteRoundUpFail  Notification = "round_up_failed"
)

// ViewState is a snapshot of everything the screen renders.
type ViewState struct {
	Loading           bool
	Weeks             []core.WeekWindow
	SelectedWeek      *core.WeekWindow
	TransactionsByDay map[string][]core.Transaction
	RoundUpAmount     *core.Money
	Notification      Notification
}

// RoundUp drives the round-up screen. All transitions run under one
// lock, so a week selection and a round-up action never interleave
// their gateway calls.
type RoundUp struct {
	transactions *services.TransactionService
	roundUp      *services.RoundUpService

	mu    sync.Mutex
	state ViewState
}

// New builds a controller with count selectable weeks anchored to now.
// The most recent week is not fetched yet; callers trigger the initial
// SelectWeek(ctx, 0) themselves so startup can bound it with a context.
func New(transactions *services.TransactionService, roundUp *services.RoundUpService, now time.Time, count int) *RoundUp {
	return &RoundUp{
		transactions: transactions,
		roundUp:      roundUp,
		state: ViewState{
			Loading: true,
			Weeks:   core.GenerateWeeks(now, count),
		},
	}
}

// State returns a copy of the current view state.
func (c *RoundUp) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// SelectWeek fetches transactions for the week at index and recomputes
// the round-up amount. A fetch failure leaves the transactions empty
// and sets a failure notification; the error is also returned so HTTP
// callers can choose a status code.
func (c *RoundUp) SelectWeek(ctx context.Context, index int) (ViewState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.state.Weeks) {
		return c.snapshot(), fmt.Errorf("week index %d out of range", index)
	}
	week := c.state.Weeks[index]

	c.state.Loading = true
	c.state.SelectedWeek = &week
	c.state.TransactionsByDay = nil
	c.state.RoundUpAmount = nil
	c.state.Notification = NoteNone

	txs, err := c.transactions.TransactionsBetween(ctx, week)
	c.state.Loading = false
	if err != nil {
		c.state.Notification = NoteFetchFailed
		return c.snapshot(), err
	}

	c.state.TransactionsByDay = core.GroupByDay(txs)
	if amount, ok := core.CalculateRoundUp(txs); ok {
		c.state.RoundUpAmount = &amount
	}
	return c.snapshot(), nil
}

// PerformRoundUp transfers the currently displayed round-up amount into
// the savings goal. Without an amount it is a no-op and the second
// return is false.
func (c *RoundUp) PerformRoundUp(ctx context.Context) (ViewState, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.RoundUpAmount == nil {
		return c.snapshot(), false, nil
	}
	amount := *c.state.RoundUpAmount

	c.state.Loading = true
	c.state.Notification = NoteNone

	err := c.roundUp.RoundUp(ctx, amount.Currency, amount.MinorUnits)
	c.state.Loading = false
	if err != nil {
		c.state.Notification = NoteRoundUpFail
		return c.snapshot(), true, err
	}

	c.state.Notification = NoteRoundUpDone
	return c.snapshot(), true, nil
}

// snapshot copies the mutable parts of the state. Callers hold the lock.
func (c *RoundUp) snapshot() ViewState {
	s := c.state
	if c.state.SelectedWeek != nil {
		week := *c.state.SelectedWeek
		s.SelectedWeek = &week
	}
	if c.state.RoundUpAmount != nil {
		amount := *c.state.RoundUpAmount
		s.RoundUpAmount = &amount
	}
	if c.state.TransactionsByDay != nil {
		grouped := make(map[string][]core.Transaction, len(c.state.TransactionsByDay))
		for day, txs := range c.state.TransactionsByDay {
			grouped[day] = append([]core.Transaction(nil), txs...)
		}
		s.TransactionsByDay = grouped
	}
	s.Weeks = append([]core.WeekWindow(nil), c.state.Weeks...)
	return s
}
