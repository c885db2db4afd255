package dto

import (
	"time"

	"github.com/finsuite/wallet_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateWalletRequest defines the data needed to create a new wallet.
type CreateWalletRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,currencycode"`
}

// WalletResponse defines the data returned for a newly created wallet.
type WalletResponse struct {
	WalletID     string          `json:"walletID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// FundWalletRequest defines the data needed to credit a wallet.
// IdempotencyKey makes retries of the same funding safe; Reference is an
// external correlation string that may be submitted at most once.
type FundWalletRequest struct {
	WalletID       string          `json:"walletID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	IdempotencyKey string          `json:"idempotencyKey"`
	Reference      string          `json:"reference"`
}

// FundWalletResult is the projection returned after funding a wallet. A
// replayed idempotency key returns the projection of the original record.
type FundWalletResult struct {
	TransactionID  string          `json:"transactionID"`
	WalletID       string          `json:"walletID"`
	Amount         decimal.Decimal `json:"amount"`
	BalanceAfter   decimal.Decimal `json:"balanceAfter"`
	Reference      string          `json:"reference"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// TransferFundsRequest defines the data needed to move money between wallets.
type TransferFundsRequest struct {
	FromWalletID   string          `json:"fromWalletID" binding:"required"`
	ToWalletID     string          `json:"toWalletID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	IdempotencyKey string          `json:"idempotencyKey"`
	Reference      string          `json:"reference"`
}

// TransferFundsResult reports both legs of a completed (or replayed) transfer.
type TransferFundsResult struct {
	DebitTransactionID  string          `json:"debitTransactionID"`
	CreditTransactionID string          `json:"creditTransactionID"`
	FromWalletID        string          `json:"fromWalletID"`
	ToWalletID          string          `json:"toWalletID"`
	Amount              decimal.Decimal `json:"amount"`
	FromBalanceAfter    decimal.Decimal `json:"fromBalanceAfter"`
	ToBalanceAfter      decimal.Decimal `json:"toBalanceAfter"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// TransactionResponse defines the data returned for one ledger entry.
type TransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	Reference       string          `json:"reference,omitempty"`
	RelatedWalletID string          `json:"relatedWalletID,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// WalletDetailsResult defines the full wallet view: balance plus history.
type WalletDetailsResult struct {
	WalletID     string                `json:"walletID"`
	CurrencyCode string                `json:"currencyCode"`
	Balance      decimal.Decimal       `json:"balance"`
	CreatedAt    time.Time             `json:"createdAt"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ToWalletResponse converts a domain.Wallet to WalletResponse.
func ToWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		WalletID:     w.ID.Value,
		CurrencyCode: w.Balance.CurrencyCode,
		Balance:      w.Balance.Amount,
		CreatedAt:    w.CreatedAt,
	}
}

// ToFundWalletResult projects a credit record into a funding result.
func ToFundWalletResult(txn domain.Transaction) FundWalletResult {
	return FundWalletResult{
		TransactionID:  txn.TransactionID,
		WalletID:       txn.WalletID,
		Amount:         txn.Amount,
		BalanceAfter:   txn.BalanceAfter,
		Reference:      txn.Reference,
		IdempotencyKey: txn.IdempotencyKey,
		CreatedAt:      txn.CreatedAt,
	}
}

// ToTransferFundsResult projects the two legs of a transfer into a result.
func ToTransferFundsResult(debit, credit domain.Transaction) TransferFundsResult {
	return TransferFundsResult{
		DebitTransactionID:  debit.TransactionID,
		CreditTransactionID: credit.TransactionID,
		FromWalletID:        debit.WalletID,
		ToWalletID:          credit.WalletID,
		Amount:              debit.Amount,
		FromBalanceAfter:    debit.BalanceAfter,
		ToBalanceAfter:      credit.BalanceAfter,
		CreatedAt:           debit.CreatedAt,
	}
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse.
func ToTransactionResponse(txn domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		Type:            string(txn.Type),
		Amount:          txn.Amount,
		CurrencyCode:    txn.CurrencyCode,
		BalanceAfter:    txn.BalanceAfter,
		Reference:       txn.Reference,
		RelatedWalletID: txn.RelatedWalletID,
		CreatedAt:       txn.CreatedAt,
	}
}

// ToTransactionResponses converts a record slice, preserving order.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		out[i] = ToTransactionResponse(txn)
	}
	return out
}
