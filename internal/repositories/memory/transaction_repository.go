package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/finsuite/wallet_ledger_app/internal/apperrors"
	"github.com/finsuite/wallet_ledger_app/internal/core/domain"
	portsrepo "github.com/finsuite/wallet_ledger_app/internal/core/ports/repositories"
)

// InMemoryTransactionRepository is the append-only transaction log plus its
// two secondary indexes: idempotency key -> record and reference -> record.
// The indexes are independent of each other; each holds at most one record
// per key.
type InMemoryTransactionRepository struct {
	mu               sync.RWMutex
	transactions     map[string]domain.Transaction
	byWallet         map[string][]string
	idempotencyIndex map[string]string
	referenceIndex   map[string]string
}

// NewTransactionRepository creates an empty in-memory transaction store.
func NewTransactionRepository() *InMemoryTransactionRepository {
	return &InMemoryTransactionRepository{
		transactions:     make(map[string]domain.Transaction),
		byWallet:         make(map[string][]string),
		idempotencyIndex: make(map[string]string),
		referenceIndex:   make(map[string]string),
	}
}

// Ensure InMemoryTransactionRepository implements the repository facade.
var _ portsrepo.TransactionRepositoryFacade = (*InMemoryTransactionRepository)(nil)

// SaveTransaction appends a record and maintains the secondary indexes.
// Re-inserting an existing record ID, or a second record under an occupied
// index key, is rejected: the log is append-only and the indexes are unique.
// The one exception is the reference index for transfer legs, which share a
// single reference; the first leg inserted claims the index slot.
func (r *InMemoryTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	if txn.TransactionID == "" || txn.WalletID == "" {
		return fmt.Errorf("transaction record incomplete: %w", apperrors.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[txn.TransactionID]; exists {
		return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
	}
	if txn.IdempotencyKey != "" {
		if _, taken := r.idempotencyIndex[txn.IdempotencyKey]; taken {
			return fmt.Errorf("idempotency key %s: %w", txn.IdempotencyKey, apperrors.ErrDuplicate)
		}
	}
	if txn.Reference != "" && !txn.IsTransferLeg() {
		if _, taken := r.referenceIndex[txn.Reference]; taken {
			return fmt.Errorf("reference %s: %w", txn.Reference, apperrors.ErrDuplicate)
		}
	}

	r.transactions[txn.TransactionID] = txn
	r.byWallet[txn.WalletID] = append(r.byWallet[txn.WalletID], txn.TransactionID)
	if txn.IdempotencyKey != "" {
		r.idempotencyIndex[txn.IdempotencyKey] = txn.TransactionID
	}
	if txn.Reference != "" {
		if _, taken := r.referenceIndex[txn.Reference]; !taken {
			r.referenceIndex[txn.Reference] = txn.TransactionID
		}
	}
	return nil
}

// FindTransactionsByWalletID returns the wallet's records newest first.
func (r *InMemoryTransactionRepository) FindTransactionsByWalletID(ctx context.Context, walletID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byWallet[walletID]
	out := make([]domain.Transaction, 0, len(ids))
	// reverse insertion order, then order strictly by creation time
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, r.transactions[ids[i]])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// FindTransactionByIdempotencyKey returns the record stored under key.
func (r *InMemoryTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	txnID, ok := r.idempotencyIndex[key]
	if !ok {
		return nil, fmt.Errorf("idempotency key %s: %w", key, apperrors.ErrNotFound)
	}
	txn := r.transactions[txnID]
	return &txn, nil
}

// FindTransactionByReference returns the record stored under reference.
func (r *InMemoryTransactionRepository) FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	txnID, ok := r.referenceIndex[reference]
	if !ok {
		return nil, fmt.Errorf("reference %s: %w", reference, apperrors.ErrNotFound)
	}
	txn := r.transactions[txnID]
	return &txn, nil
}
