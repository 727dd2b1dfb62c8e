package services

import "context"

// RoundUpService is the use case behind the round-up action: resolve
// the primary account, then hand off to the goal orchestrator.
type RoundUpService struct {
	resolver *AccountResolver
	goals    *GoalOrchestrator
}

func NewRoundUpService(resolver *AccountResolver, goals *GoalOrchestrator) *RoundUpService {
	return &RoundUpService{resolver: resolver, goals: goals}
}

// RoundUp moves amount minor units of currency into the round-up
// savings goal of the user's primary account.
func (s *RoundUpService) RoundUp(ctx context.Context, currency string, amount int64) error {
	account, err := s.resolver.PrimaryAccount(ctx)
	if err != nil {
		return err
	}
	return s.goals.UpdateRoundUpGoal(ctx, account, currency, amount)
}
