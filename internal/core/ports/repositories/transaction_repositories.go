package repositories

import (
	"context"

	"github.com/finsuite/wallet_ledger_app/internal/core/domain"
)

// TransactionReader defines read operations over the transaction log.
type TransactionReader interface {
	// FindTransactionsByWalletID returns all records for a wallet,
	// newest first.
	FindTransactionsByWalletID(ctx context.Context, walletID string) ([]domain.Transaction, error)

	// FindTransactionByIdempotencyKey returns the record stored under the
	// given idempotency key, or an error wrapping apperrors.ErrNotFound.
	FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)

	// FindTransactionByReference returns the record stored under the given
	// external reference, or an error wrapping apperrors.ErrNotFound.
	FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error)
}

// TransactionWriter defines the append-only insert operation.
type TransactionWriter interface {
	// SaveTransaction appends a record. A record carrying an idempotency
	// key or a reference is additionally inserted into the matching
	// secondary index. Each index holds at most one record per key; an
	// occupied key rejects the insert with apperrors.ErrDuplicate. Transfer
	// legs are exempt from the reference uniqueness rule since both legs
	// share one reference; the first leg inserted claims the index slot.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
