// README: Common value types shared across modules.
package types

import "github.com/google/uuid"

// ID is an opaque identifier. User IDs come from the external identity
// component and are never parsed; order and notification IDs are UUIDs.
type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

// Money is an amount in minor units (the storefront prices in whole VND).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func VND(amount int64) Money {
	return Money{Amount: amount, Currency: "VND"}
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

func (m Money) Mul(n int64) Money {
	return Money{Amount: m.Amount * n, Currency: m.Currency}
}
