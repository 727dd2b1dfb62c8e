// Package services holds the orchestration core: primary account
// resolution, transaction fetching and the savings goal round-up flow.
package services

import (
	"context"
	"log/slog"
	"sync"

	"roundup/internal/bank"
	applog "roundup/internal/log"
	"roundup/internal/core"
)

// AccountResolver resolves the user's primary account, calling the
// gateway once and memoizing the result for the session.
type AccountResolver struct {
	gateway bank.Gateway

	mu      sync.Mutex
	primary *core.Account
}

func NewAccountResolver(gateway bank.Gateway) *AccountResolver {
	return &AccountResolver{gateway: gateway}
}

// PrimaryAccount returns the first PRIMARY-typed account from the
// gateway's mapped account list. Only success is cached; failures leave
// the resolver unresolved so a later call retries. The lock spans the
// whole resolution, so overlapping first calls serialize instead of
// racing on the cache.
func (r *AccountResolver) PrimaryAccount(ctx context.Context) (core.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.primary != nil {
		return *r.primary, nil
	}

	entities, err := r.gateway.GetAccounts(ctx)
	if err != nil {
		return core.Account{}, &core.GatewayError{Op: "get accounts", Err: err}
	}

	for _, account := range bank.MapAccounts(entities) {
		if account.Type == core.AccountTypePrimary {
			resolved := account
			r.primary = &resolved
			slog.InfoContext(ctx, "Resolved primary account", applog.FieldAccountUID, resolved.UID)
			return resolved, nil
		}
	}
	return core.Account{}, core.ErrNoPrimaryAccount
}
