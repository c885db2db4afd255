package domain

import "errors"

var (
	// ErrInvalidAmount indicates a monetary amount that is negative (or not positive where required).
	ErrInvalidAmount = errors.New("amount must not be negative")

	// ErrInvalidCurrency indicates an empty or missing currency code.
	ErrInvalidCurrency = errors.New("currency code is required")

	// ErrCurrencyMismatch indicates an operation between two Money values of different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInsufficientFunds indicates a debit larger than the wallet balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrEmptyWalletID indicates a wallet ID constructed from an empty string.
	ErrEmptyWalletID = errors.New("wallet ID must not be empty")
)
