package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPrimaryAccount is returned when no PRIMARY-typed account
	// remains after mapping the gateway's account list.
	ErrNoPrimaryAccount = errors.New("no primary account found")

	// ErrGoalCreation is returned when creating the round-up savings
	// goal fails or the response carries no usable goal uid.
	ErrGoalCreation = errors.New("failed to create round up savings goal")

	// ErrTopUpFailed is returned when the add-money transfer is
	// reported as unsuccessful by the gateway.
	ErrTopUpFailed = errors.New("savings goal transfer failed")
)

// GatewayError wraps a transport or remote failure from the banking
// gateway. Match with errors.As, or errors.Is against the wrapped cause.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("bank gateway: %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
