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

// InMemoryWalletRepository is the sole owner of persisted wallet state. It
// hands out clones on every read and stores clones on every write, so two
// concurrent callers can never alias the same aggregate. Per-wallet keyed
// mutexes serialize mutating operations.
type InMemoryWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
	locks   *keyedMutex
}

// NewWalletRepository creates an empty in-memory wallet store.
func NewWalletRepository() *InMemoryWalletRepository {
	return &InMemoryWalletRepository{
		wallets: make(map[string]*domain.Wallet),
		locks:   newKeyedMutex(),
	}
}

// Ensure InMemoryWalletRepository implements the repository facade.
var _ portsrepo.WalletRepositoryFacade = (*InMemoryWalletRepository)(nil)

// SaveWallet stores an independent snapshot of the wallet, replacing any
// prior snapshot entirely.
func (r *InMemoryWalletRepository) SaveWallet(ctx context.Context, wallet *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets[wallet.ID.Value] = wallet.Clone()
	return nil
}

// FindWalletByID returns an independent copy of the wallet.
func (r *InMemoryWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wallet, ok := r.wallets[walletID]
	if !ok {
		return nil, fmt.Errorf("wallet %s: %w", walletID, apperrors.ErrNotFound)
	}
	return wallet.Clone(), nil
}

// FindWalletByIDLocked acquires the wallet's lock and returns a copy. The
// lock stays with the caller until unlock is called; when the wallet does
// not exist the lock is released here and no unlock is returned.
func (r *InMemoryWalletRepository) FindWalletByIDLocked(ctx context.Context, walletID string) (*domain.Wallet, portsrepo.UnlockFunc, error) {
	r.locks.Lock(walletID)

	wallet, err := r.FindWalletByID(ctx, walletID)
	if err != nil {
		r.locks.Unlock(walletID)
		return nil, nil, err
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() { r.locks.Unlock(walletID) })
	}
	return wallet, unlock, nil
}

// FindWalletsByIDsLocked acquires the locks for all IDs in ascending order,
// which keeps lock acquisition deterministic across concurrent multi-wallet
// operations and rules out circular waits. IDs with no stored wallet are
// absent from the result map; their locks are still held until unlock.
func (r *InMemoryWalletRepository) FindWalletsByIDsLocked(ctx context.Context, walletIDs []string) (map[string]*domain.Wallet, portsrepo.UnlockFunc, error) {
	ids := make([]string, 0, len(walletIDs))
	seen := make(map[string]struct{}, len(walletIDs))
	for _, id := range walletIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		r.locks.Lock(id)
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			for _, id := range ids {
				r.locks.Unlock(id)
			}
		})
	}

	result := make(map[string]*domain.Wallet, len(ids))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range ids {
		if wallet, ok := r.wallets[id]; ok {
			result[id] = wallet.Clone()
		}
	}
	return result, unlock, nil
}
