package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// All monetary values in the back office are BRL and use shopspring/decimal
// to avoid floating point drift between gateway-reported amounts and stored
// debt balances.

// SubtractFloored returns balance - amount, never going below zero. Debt
// balances are only ever decremented and must stay non-negative.
func SubtractFloored(balance, amount decimal.Decimal) decimal.Decimal {
	next := balance.Sub(amount)
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}

// FormatBRL renders an amount the way operator-facing logs display money.
func FormatBRL(amount decimal.Decimal) string {
	return fmt.Sprintf("R$ %s", amount.StringFixed(2))
}
