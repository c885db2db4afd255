package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WalletID is the opaque identity of a wallet. Equality is value equality.
type WalletID struct {
	Value string `json:"value"`
}

// NewWalletID wraps an existing identifier string.
func NewWalletID(value string) (WalletID, error) {
	if strings.TrimSpace(value) == "" {
		return WalletID{}, ErrEmptyWalletID
	}
	return WalletID{Value: value}, nil
}

// GenerateWalletID mints a fresh, globally unique wallet identifier.
func GenerateWalletID() WalletID {
	return WalletID{Value: uuid.NewString()}
}

// Equals reports value equality between two wallet IDs.
func (id WalletID) Equals(other WalletID) bool {
	return id.Value == other.Value
}

// Wallet is the aggregate root for one currency holder: the current balance
// plus the append-only history of every entry that produced it.
//
// The history invariant: balance always equals the running sum of the
// wallet's own credits minus debits, each mutation appends exactly one
// record, and BalanceAfter on that record equals the new balance.
type Wallet struct {
	ID           WalletID  `json:"id"`
	Balance      Money     `json:"balance"`
	CreatedAt    time.Time `json:"createdAt"`
	transactions []Transaction
}

// NewWallet creates a wallet with a zero balance and empty history.
func NewWallet(currencyCode string) (*Wallet, error) {
	balance, err := ZeroMoney(currencyCode)
	if err != nil {
		return nil, err
	}
	return &Wallet{
		ID:        GenerateWalletID(),
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Transactions returns a defensive copy of the wallet history, oldest first.
// Mutating the returned slice never affects the aggregate.
func (w *Wallet) Transactions() []Transaction {
	out := make([]Transaction, len(w.transactions))
	copy(out, w.transactions)
	return out
}

// Credit increases the balance and appends the matching ledger entry.
// A non-empty relatedWalletID marks the entry as the inbound leg of a
// transfer (TRANSFER_IN); otherwise it is a plain CREDIT.
func (w *Wallet) Credit(amount Money, idempotencyKey, reference, relatedWalletID string) (Transaction, error) {
	newBalance, err := w.Balance.Add(amount)
	if err != nil {
		return Transaction{}, err
	}
	w.Balance = newBalance

	txnType := Credit
	if relatedWalletID != "" {
		txnType = TransferIn
	}
	txn := newTransaction(newTransactionParams{
		WalletID:        w.ID.Value,
		Type:            txnType,
		Amount:          amount.Amount,
		CurrencyCode:    amount.CurrencyCode,
		BalanceAfter:    w.Balance.Amount,
		Reference:       reference,
		RelatedWalletID: relatedWalletID,
		IdempotencyKey:  idempotencyKey,
	})
	w.transactions = append(w.transactions, txn)
	return txn, nil
}

// Debit decreases the balance and appends the matching ledger entry. It
// fails with ErrInsufficientFunds (leaving the wallet untouched) when the
// balance does not cover the amount. A non-empty relatedWalletID marks the
// entry as the outbound leg of a transfer (TRANSFER_OUT).
func (w *Wallet) Debit(amount Money, idempotencyKey, reference, relatedWalletID string) (Transaction, error) {
	covered, err := w.Balance.GreaterThanOrEqual(amount)
	if err != nil {
		return Transaction{}, err
	}
	if !covered {
		return Transaction{}, fmt.Errorf("%w: wallet %s has %s, requested %s",
			ErrInsufficientFunds, w.ID.Value, w.Balance.Amount.String(), amount.Amount.String())
	}

	newBalance, err := w.Balance.Subtract(amount)
	if err != nil {
		return Transaction{}, err
	}
	w.Balance = newBalance

	txnType := Debit
	if relatedWalletID != "" {
		txnType = TransferOut
	}
	txn := newTransaction(newTransactionParams{
		WalletID:        w.ID.Value,
		Type:            txnType,
		Amount:          amount.Amount,
		CurrencyCode:    amount.CurrencyCode,
		BalanceAfter:    w.Balance.Amount,
		Reference:       reference,
		RelatedWalletID: relatedWalletID,
		IdempotencyKey:  idempotencyKey,
	})
	w.transactions = append(w.transactions, txn)
	return txn, nil
}

// Clone returns an independent deep copy of the wallet. The store hands
// clones to callers so that concurrent holders never alias each other's
// state.
func (w *Wallet) Clone() *Wallet {
	cloned := &Wallet{
		ID:        w.ID,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt,
	}
	cloned.transactions = make([]Transaction, len(w.transactions))
	copy(cloned.transactions, w.transactions)
	return cloned
}
