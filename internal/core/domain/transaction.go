package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	Credit      TransactionType = "CREDIT"
	Debit       TransactionType = "DEBIT"
	TransferIn  TransactionType = "TRANSFER_IN"
	TransferOut TransactionType = "TRANSFER_OUT"
)

// Transaction is one immutable ledger entry for a wallet. Records are never
// updated or deleted once written.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	WalletID        string          `json:"walletID"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	Reference       string          `json:"reference,omitempty"`
	RelatedWalletID string          `json:"relatedWalletID,omitempty"`
	IdempotencyKey  string          `json:"idempotencyKey,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// newTransactionParams carries everything needed to mint a ledger entry.
type newTransactionParams struct {
	WalletID        string
	Type            TransactionType
	Amount          decimal.Decimal
	CurrencyCode    string
	BalanceAfter    decimal.Decimal
	Reference       string
	RelatedWalletID string
	IdempotencyKey  string
}

func newTransaction(p newTransactionParams) Transaction {
	return Transaction{
		TransactionID:   uuid.NewString(),
		WalletID:        p.WalletID,
		Type:            p.Type,
		Amount:          p.Amount,
		CurrencyCode:    p.CurrencyCode,
		BalanceAfter:    p.BalanceAfter,
		Reference:       p.Reference,
		RelatedWalletID: p.RelatedWalletID,
		IdempotencyKey:  p.IdempotencyKey,
		CreatedAt:       time.Now().UTC(),
	}
}

// IsTransferLeg reports whether the record is one side of an inter-wallet transfer.
func (t Transaction) IsTransferLeg() bool {
	return t.Type == TransferIn || t.Type == TransferOut
}
