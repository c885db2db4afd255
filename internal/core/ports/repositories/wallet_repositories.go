package repositories

import (
	"context"

	"github.com/finsuite/wallet_ledger_app/internal/core/domain"
)

// UnlockFunc releases the per-wallet lock(s) acquired by a locked read.
// It must be called on every exit path of the holding operation; calling it
// more than once is a no-op.
type UnlockFunc func()

// WalletReader defines unlocked read operations for wallet data.
type WalletReader interface {
	// FindWalletByID retrieves an independent copy of a wallet by its ID.
	FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error)
}

// WalletWriter defines write operations for wallet data.
type WalletWriter interface {
	// SaveWallet persists the wallet snapshot, replacing any prior state.
	// The upsert is idempotent.
	SaveWallet(ctx context.Context, wallet *domain.Wallet) error
}

// WalletLocker defines lock-acquiring reads used by mutating operations.
type WalletLocker interface {
	// FindWalletByIDLocked acquires the wallet's lock and returns an
	// independent copy. The caller owns the lock until it calls unlock.
	// When the wallet does not exist the lock is released before returning
	// and the error wraps apperrors.ErrNotFound.
	FindWalletByIDLocked(ctx context.Context, walletID string) (*domain.Wallet, UnlockFunc, error)

	// FindWalletsByIDsLocked acquires the locks for all given IDs in one
	// atomic phase, in ascending ID order, then returns copies of the
	// wallets that exist. Missing IDs are simply absent from the map.
	// The caller owns every acquired lock until it calls unlock.
	FindWalletsByIDsLocked(ctx context.Context, walletIDs []string) (map[string]*domain.Wallet, UnlockFunc, error)
}

// WalletRepositoryFacade combines all wallet repository interfaces.
type WalletRepositoryFacade interface {
	WalletReader
	WalletWriter
	WalletLocker
}
