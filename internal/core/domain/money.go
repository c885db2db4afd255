package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an immutable amount in a single currency. The amount is never
// negative; every arithmetic operation returns a fresh value and leaves its
// operands untouched.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// NewMoney validates and builds a Money value.
func NewMoney(amount decimal.Decimal, currencyCode string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount.String())
	}
	if strings.TrimSpace(currencyCode) == "" {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, CurrencyCode: currencyCode}, nil
}

// ZeroMoney builds a zero-amount Money in the given currency.
func ZeroMoney(currencyCode string) (Money, error) {
	return NewMoney(decimal.Zero, currencyCode)
}

// Add returns the sum of m and other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(other.Amount), CurrencyCode: m.CurrencyCode}, nil
}

// Subtract returns m minus other. The result may never go below zero.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	newAmount := m.Amount.Sub(other.Amount)
	if newAmount.IsNegative() {
		return Money{}, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, m.Amount.String(), other.Amount.String())
	}
	return Money{Amount: newAmount, CurrencyCode: m.CurrencyCode}, nil
}

// GreaterThanOrEqual reports whether m covers other.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return false, err
	}
	return m.Amount.GreaterThanOrEqual(other.Amount), nil
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.CurrencyCode != other.CurrencyCode {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.CurrencyCode, other.CurrencyCode)
	}
	return nil
}
