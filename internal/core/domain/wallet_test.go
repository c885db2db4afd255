package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/finsuite/wallet_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	w, err := domain.NewWallet("USD")
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID.Value)
	assert.True(t, w.Balance.Amount.IsZero())
	assert.Equal(t, "USD", w.Balance.CurrencyCode)
	assert.Empty(t, w.Transactions())
	assert.WithinDuration(t, time.Now(), w.CreatedAt, time.Second)

	_, err = domain.NewWallet("")
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestNewWalletID(t *testing.T) {
	id, err := domain.NewWalletID("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", id.Value)

	other, err := domain.NewWalletID("abc")
	require.NoError(t, err)
	assert.True(t, id.Equals(other))

	_, err = domain.NewWalletID("  ")
	assert.ErrorIs(t, err, domain.ErrEmptyWalletID)
}

func TestWallet_Credit(t *testing.T) {
	w, err := domain.NewWallet("USD")
	require.NoError(t, err)

	txn, err := w.Credit(mustMoney(t, "100", "USD"), "idem-1", "ref-1", "")
	require.NoError(t, err)

	assert.Equal(t, domain.Credit, txn.Type)
	assert.Equal(t, w.ID.Value, txn.WalletID)
	assert.True(t, decimal.NewFromInt(100).Equal(txn.Amount))
	assert.True(t, decimal.NewFromInt(100).Equal(txn.BalanceAfter))
	assert.True(t, decimal.NewFromInt(100).Equal(w.Balance.Amount))
	assert.Equal(t, "idem-1", txn.IdempotencyKey)
	assert.Equal(t, "ref-1", txn.Reference)
	assert.NotEmpty(t, txn.TransactionID)
	assert.Len(t, w.Transactions(), 1)
}

func TestWallet_Credit_TransferInClassification(t *testing.T) {
	w, err := domain.NewWallet("USD")
	require.NoError(t, err)

	txn, err := w.Credit(mustMoney(t, "40", "USD"), "", "", "other-wallet")
	require.NoError(t, err)
	assert.Equal(t, domain.TransferIn, txn.Type)
	assert.Equal(t, "other-wallet", txn.RelatedWalletID)
	assert.True(t, txn.IsTransferLeg())
}

func TestWallet_Debit(t *testing.T) {
	w, err := domain.NewWallet("USD")
	require.NoError(t, err)
	_, err = w.Credit(mustMoney(t, "100", "USD"), "", "", "")
	require.NoError(t, err)

	txn, err := w.Debit(mustMoney(t, "30", "USD"), "", "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Debit, txn.Type)
	assert.True(t, decimal.NewFromInt(70).Equal(txn.BalanceAfter))
	assert.True(t, decimal.NewFromInt(70).Equal(w.Balance.Amount))
	assert.Len(t, w.Transactions(), 2)
}

func TestWallet_Debit_TransferOutClassification(t *testing.T) {
	w, err := domain.NewWallet("USD")
	require.NoError(t, err)
	_, err = w.Credit(mustMoney(t, "100", "USD"), "", "", "")
	require.NoError(t, err)

	txn, err := w.Debit(mustMoney(t, "40", "USD"), "idem", "ref", "destination")
	require.NoError(t, err)
	assert.Equal(t, domain.TransferOut, txn.Type)
	assert.Equal(t, "destination", txn.RelatedWalletID)
}

func TestWallet_Debit_InsufficientFunds(t *testing.T) {
	w, err := domain.NewWallet("USD")
	require.NoError(t, err)
	_, err = w.Credit(mustMoney(t, "50", "USD"), "", "", "")
	require.NoError(t, err)

	_, err = w.Debit(mustMoney(t, "51", "USD"), "", "", "")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// rejected debit leaves balance and history unchanged
	assert.True(t, decimal.NewFromInt(50).Equal(w.Balance.Amount))
	assert.Len(t, w.Transactions(), 1)
}

func TestWallet_CreditThenDebit_RestoresBalance(t *testing.T) {
	w, err := domain.NewWallet("USD")
	require.NoError(t, err)
	_, err = w.Credit(mustMoney(t, "25", "USD"), "", "", "")
	require.NoError(t, err)
	before := w.Balance.Amount

	_, err = w.Credit(mustMoney(t, "10", "USD"), "", "", "")
	require.NoError(t, err)
	_, err = w.Debit(mustMoney(t, "10", "USD"), "", "", "")
	require.NoError(t, err)

	assert.True(t, before.Equal(w.Balance.Amount))
	assert.Len(t, w.Transactions(), 3)
}

func TestWallet_Transactions_DefensiveCopy(t *testing.T) {
	w, err := domain.NewWallet("USD")
	require.NoError(t, err)
	_, err = w.Credit(mustMoney(t, "10", "USD"), "", "", "")
	require.NoError(t, err)

	history := w.Transactions()
	history[0].Amount = decimal.NewFromInt(999)
	history = append(history, domain.Transaction{TransactionID: "bogus"})
	_ = history

	fresh := w.Transactions()
	require.Len(t, fresh, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(fresh[0].Amount))
}

func TestWallet_Clone_Independence(t *testing.T) {
	w, err := domain.NewWallet("USD")
	require.NoError(t, err)
	_, err = w.Credit(mustMoney(t, "10", "USD"), "", "", "")
	require.NoError(t, err)

	cloned := w.Clone()
	_, err = cloned.Credit(mustMoney(t, "5", "USD"), "", "", "")
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(10).Equal(w.Balance.Amount))
	assert.Len(t, w.Transactions(), 1)
	assert.True(t, decimal.NewFromInt(15).Equal(cloned.Balance.Amount))
	assert.Len(t, cloned.Transactions(), 2)
}

// Random sequences of credits and debits must never drive the balance
// negative, and every record's BalanceAfter must equal the balance at the
// time it was appended.
func TestWallet_RandomSequence_BalanceNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	w, err := domain.NewWallet("USD")
	require.NoError(t, err)

	applied := 0
	for i := 0; i < 500; i++ {
		amount := mustMoney(t, decimal.NewFromInt(int64(rng.Intn(100)+1)).String(), "USD")
		if rng.Intn(2) == 0 {
			_, err := w.Credit(amount, "", "", "")
			require.NoError(t, err)
			applied++
		} else {
			before := w.Balance.Amount
			_, err := w.Debit(amount, "", "", "")
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
				assert.True(t, before.Equal(w.Balance.Amount))
			} else {
				applied++
			}
		}
		assert.False(t, w.Balance.Amount.IsNegative())
	}

	history := w.Transactions()
	require.Len(t, history, applied)

	running := decimal.Zero
	for _, txn := range history {
		switch txn.Type {
		case domain.Credit, domain.TransferIn:
			running = running.Add(txn.Amount)
		case domain.Debit, domain.TransferOut:
			running = running.Sub(txn.Amount)
		}
		assert.True(t, running.Equal(txn.BalanceAfter))
	}
	assert.True(t, running.Equal(w.Balance.Amount))
}
