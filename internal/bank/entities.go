package bank

// Raw wire entities. Every field the mapping depends on is a pointer so
// an absent value survives decoding as nil instead of a zero value.

type AccountEntity struct {
	AccountUID      *string `json:"accountUid"`
	DefaultCategory *string `json:"defaultCategory"`
	AccountType     *string `json:"accountType"`
}

type AmountEntity struct {
	Currency   *string `json:"currency"`
	MinorUnits *int64  `json:"minorUnits"`
}

type TransactionEntity struct {
	FeedItemUID      *string       `json:"feedItemUid"`
	Amount           *AmountEntity `json:"amount"`
	Direction        *string       `json:"direction"`
	TransactionTime  *string       `json:"transactionTime"`
	CounterPartyName *string       `json:"counterPartyName"`
}

type SavingsGoalEntity struct {
	SavingsGoalUID *string `json:"savingsGoalUid"`
	Name           *string `json:"name"`
}

// CreateGoalResult is the gateway's answer to a create-goal request.
// A nil Success is not treated as failure; a missing goal uid is.
type CreateGoalResult struct {
	SavingsGoalUID *string `json:"savingsGoalUid"`
	Success        *bool   `json:"success"`
}

// TransferResult is the gateway's answer to an add-money request.
type TransferResult struct {
	Success *bool `json:"success"`
}
