package services

import (
	"context"

	"roundup/internal/bank"
	"roundup/internal/core"
)

// TransactionService fetches the primary account's transactions for a
// week window. Account resolution failures propagate unchanged.
type TransactionService struct {
	resolver *AccountResolver
	gateway  bank.Gateway
}

func NewTransactionService(resolver *AccountResolver, gateway bank.Gateway) *TransactionService {
	return &TransactionService{resolver: resolver, gateway: gateway}
}

// TransactionsBetween returns the mapped transactions inside the
// window, both boundary days inclusive.
func (s *TransactionService) TransactionsBetween(ctx context.Context, week core.WeekWindow) ([]core.Transaction, error) {
	account, err := s.resolver.PrimaryAccount(ctx)
	if err != nil {
		return nil, err
	}

	entities, err := s.gateway.GetTransactions(ctx,
		account.UID,
		account.CategoryUID,
		bank.FormatMinTimestamp(week.Start),
		bank.FormatMaxTimestamp(week.End))
	if err != nil {
		return nil, &core.GatewayError{Op: "get transactions", Err: err}
	}
	return bank.MapTransactions(entities), nil
}
