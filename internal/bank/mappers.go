package bank

import (
	"log/slog"

	"roundup/internal/core"
)

// Entity to domain mapping is total but nullable: a missing required
// field or an unknown enum string yields no model instead of an error.
// The collection mappers filter such entries out and log them.

// MapAccount converts a raw account entry. The second return is false
// when the entry cannot produce a valid Account.
func MapAccount(e AccountEntity) (core.Account, bool) {
	if e.AccountUID == nil || e.DefaultCategory == nil || e.AccountType == nil {
		return core.Account{}, false
	}
	accountType, ok := core.ParseAccountType(*e.AccountType)
	if !ok {
		return core.Account{}, false
	}
	return core.Account{
		UID:         *e.AccountUID,
		CategoryUID: *e.DefaultCategory,
		Type:        accountType,
	}, true
}

// MapAccounts converts a raw account list, discarding unmappable entries.
func MapAccounts(entities []AccountEntity) []core.Account {
	accounts := make([]core.Account, 0, len(entities))
	for _, e := range entities {
		account, ok := MapAccount(e)
		if !ok {
			slog.Warn("Discarding unmappable account entry", "account_uid", deref(e.AccountUID), "account_type", deref(e.AccountType))
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts
}

// MapTransaction converts a raw feed item.
func MapTransaction(e TransactionEntity) (core.Transaction, bool) {
	if e.FeedItemUID == nil || e.Amount == nil || e.Direction == nil || e.TransactionTime == nil || e.CounterPartyName == nil {
		return core.Transaction{}, false
	}
	amount, ok := MapAmount(*e.Amount)
	if !ok {
		return core.Transaction{}, false
	}
	direction, ok := core.ParseDirection(*e.Direction)
	if !ok {
		return core.Transaction{}, false
	}
	at, err := ParseTimestamp(*e.TransactionTime)
	if err != nil {
		return core.Transaction{}, false
	}
	return core.Transaction{
		UID:          *e.FeedItemUID,
		Amount:       amount,
		Direction:    direction,
		Time:         at,
		CounterParty: *e.CounterPartyName,
	}, true
}

// MapTransactions converts a raw feed, discarding unmappable entries.
func MapTransactions(entities []TransactionEntity) []core.Transaction {
	txs := make([]core.Transaction, 0, len(entities))
	for _, e := range entities {
		transaction, ok := MapTransaction(e)
		if !ok {
			slog.Warn("Discarding unmappable feed item", "feed_item_uid", deref(e.FeedItemUID), "direction", deref(e.Direction))
			continue
		}
		txs = append(txs, transaction)
	}
	return txs
}

// MapAmount converts a raw currency amount.
func MapAmount(e AmountEntity) (core.Money, bool) {
	if e.Currency == nil || e.MinorUnits == nil {
		return core.Money{}, false
	}
	return core.Money{Currency: *e.Currency, MinorUnits: *e.MinorUnits}, true
}

// MapSavingsGoal converts a raw savings goal.
func MapSavingsGoal(e SavingsGoalEntity) (core.SavingsGoal, bool) {
	if e.SavingsGoalUID == nil || e.Name == nil {
		return core.SavingsGoal{}, false
	}
	return core.SavingsGoal{UID: *e.SavingsGoalUID, Name: *e.Name}, true
}

// MapSavingsGoals converts a raw goal list, discarding unmappable entries.
func MapSavingsGoals(entities []SavingsGoalEntity) []core.SavingsGoal {
	goals := make([]core.SavingsGoal, 0, len(entities))
	for _, e := range entities {
		goal, ok := MapSavingsGoal(e)
		if !ok {
			slog.Warn("Discarding unmappable savings goal entry", "savings_goal_uid", deref(e.SavingsGoalUID))
			continue
		}
		goals = append(goals, goal)
	}
	return goals
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
