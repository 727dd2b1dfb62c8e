package core

import (
	"errors"
	"time"
)

// RoundUpGoalName is the fixed name of the savings goal that receives
// round-up transfers. The first goal with this exact name is treated as
// the round-up goal.
const RoundUpGoalName = "Round Up Savings"

const (
	AccountTypePrimary    AccountType = "PRIMARY"
	AccountTypeAdditional AccountType = "ADDITIONAL"
	AccountTypeLoan       AccountType = "LOAN"
)

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

type (
	// AccountType classifies a bank account as reported by the gateway.
	AccountType string

	// Direction marks a transaction as inbound or outbound.
	Direction string

	// Account is a single bank account together with its default
	// transaction feed category.
	Account struct {
		UID         string
		CategoryUID string
		Type        AccountType
	}

	// Transaction is a single ledger entry from the account feed.
	Transaction struct {
		UID          string
		Amount       Money
		Direction    Direction
		Time         time.Time
		CounterParty string
	}

	// SavingsGoal is a named savings pot funds can be transferred into.
	SavingsGoal struct {
		UID  string
		Name string
	}
)

var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrEmptyUID        = errors.New("empty uid")
)

// accountTypes and directions hold the known external string values.
// Lookup is case-sensitive exact match; unknown strings map to absence.
var accountTypes = map[string]AccountType{
	"PRIMARY":    AccountTypePrimary,
	"ADDITIONAL": AccountTypeAdditional,
	"LOAN":       AccountTypeLoan,
}

var directions = map[string]Direction{
	"IN":  DirectionIn,
	"OUT": DirectionOut,
}

// ParseAccountType resolves an external account type string.
// The second return is false for unknown values.
func ParseAccountType(s string) (AccountType, bool) {
	t, ok := accountTypes[s]
	return t, ok
}

// ParseDirection resolves an external transaction direction string.
// The second return is false for unknown values.
func ParseDirection(s string) (Direction, bool) {
	d, ok := directions[s]
	return d, ok
}

func (a Account) Validate() error {
	if a.UID == "" || a.CategoryUID == "" {
		return ErrEmptyUID
	}
	if _, ok := accountTypes[string(a.Type)]; !ok {
		return errors.New("invalid account type")
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if g.UID == "" {
		return ErrEmptyUID
	}
	if g.Name == "" {
		return errors.New("empty goal name")
	}
	return nil
}

// GroupByDay buckets transactions by their UTC calendar day, keyed
// as YYYY-MM-DD. Order within a bucket follows the input order.
func GroupByDay(txs []Transaction) map[string][]Transaction {
	grouped := make(map[string][]Transaction, len(txs))
	for _, t := range txs {
		key := t.Time.UTC().Format("2006-01-02")
		grouped[key] = append(grouped[key], t)
	}
	return grouped
}
