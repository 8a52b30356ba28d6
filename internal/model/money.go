package model

import (
	"errors"
	"fmt"
	"strings"
)

var errCurrencyMismatch = errors.New("currency mismatch")

// Money is an amount in minor currency units (cents, paisa).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewMoney validates and normalizes an amount.
func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, invalid("amount", "cannot be negative")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, invalid("currency", "must be a 3-letter code")
	}
	return Money{Amount: amount, Currency: currency}, nil
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("add %s to %s: %w", other.Currency, m.Currency, errCurrencyMismatch)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("subtract %s from %s: %w", other.Currency, m.Currency, errCurrencyMismatch)
	}
	return NewMoney(m.Amount-other.Amount, m.Currency)
}

func (m Money) IsZero() bool { return m.Currency == "" && m.Amount == 0 }

// String renders the amount with two decimals, e.g. "800.00 BDT".
func (m Money) String() string {
	sign := ""
	amount := m.Amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, amount/100, amount%100, m.Currency)
}
