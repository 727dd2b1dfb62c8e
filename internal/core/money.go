// Package core holds the domain model for the round-up feature:
// money, accounts, transactions, savings goals, week windows and the
// round-up calculation itself.
package core

import (
	"fmt"
	"strconv"
)

// Money is an immutable minor-unit amount in a single ISO 4217 currency.
// Keep calculations in minor units to avoid floating-point drift.
type Money struct {
	Currency   string
	MinorUnits int64
}

func (m Money) Validate() error {
	if len(m.Currency) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range m.Currency {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCurrency
		}
	}
	return nil
}

// String formats the amount for display, e.g. "GBP 1.43" or "-GBP 0.07".
func (m Money) String() string {
	units := m.MinorUnits
	neg := units < 0
	if neg {
		units = -units
	}
	s := m.Currency + " " + strconv.FormatInt(units/100, 10) + "." + fmt.Sprintf("%02d", units%100)
	if neg {
		return "-" + s
	}
	return s
}

// CalculateRoundUp totals the amount needed to raise every outbound
// transaction to the next whole currency unit. Inbound transactions and
// outbound amounts already at a whole unit contribute nothing.
//
// The currency is taken from the first transaction; mixed-currency
// inputs are not supported. An empty input has no currency to anchor
// the result, so the second return is false.
func CalculateRoundUp(txs []Transaction) (Money, bool) {
	if len(txs) == 0 {
		return Money{}, false
	}
	var total int64
	for _, t := range txs {
		if t.Direction != DirectionOut {
			continue
		}
		if rem := t.Amount.MinorUnits % 100; rem != 0 {
			total += 100 - rem
		}
	}
	return Money{Currency: txs[0].Amount.Currency, MinorUnits: total}, true
}
