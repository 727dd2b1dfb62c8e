// Package bank defines the narrow gateway contract the round-up core
// depends on, the raw wire entities it exchanges, and the mapping from
// those entities to domain models.
package bank

import "context"

// Gateway is the banking API capability the core orchestrates against.
// Implementations live in the starling (HTTP) and sandbox (in-memory)
// subpackages.
type Gateway interface {
	// GetAccounts returns the user's raw account list.
	GetAccounts(ctx context.Context) ([]AccountEntity, error)

	// GetTransactions returns the raw feed items for an account
	// category between two wire-format timestamps, both inclusive.
	GetTransactions(ctx context.Context, accountUID, categoryUID, minTimestamp, maxTimestamp string) ([]TransactionEntity, error)

	// GetSavingsGoals returns the raw savings goals for an account.
	GetSavingsGoals(ctx context.Context, accountUID string) ([]SavingsGoalEntity, error)

	// CreateSavingsGoal creates a named goal in the given currency.
	CreateSavingsGoal(ctx context.Context, accountUID, name, currency string) (CreateGoalResult, error)

	// AddMoneyToGoal transfers minor units into a goal. transferUID is
	// the caller-supplied idempotency token for this single transfer.
	AddMoneyToGoal(ctx context.Context, accountUID, goalUID, transferUID string, minorUnits int64, currency string) (TransferResult, error)
}
