package services

import (
	"context"

	"github.com/finsuite/wallet_ledger_app/internal/core/domain"
	"github.com/finsuite/wallet_ledger_app/internal/dto"
)

// WalletReaderSvc defines read operations for wallet data.
type WalletReaderSvc interface {
	// GetWalletDetails retrieves a wallet's balance, currency, creation
	// time and full transaction history (newest first).
	GetWalletDetails(ctx context.Context, walletID string) (*dto.WalletDetailsResult, error)
}

// WalletWriterSvc defines the mutating wallet operations.
type WalletWriterSvc interface {
	// CreateWallet creates a new empty wallet in the given currency.
	CreateWallet(ctx context.Context, req dto.CreateWalletRequest) (*domain.Wallet, error)

	// FundWallet credits a wallet, honouring idempotency keys and
	// rejecting replayed external references.
	FundWallet(ctx context.Context, req dto.FundWalletRequest) (*dto.FundWalletResult, error)

	// TransferFunds atomically moves money between two wallets.
	TransferFunds(ctx context.Context, req dto.TransferFundsRequest) (*dto.TransferFundsResult, error)
}

// WalletSvcFacade combines all wallet service interfaces.
type WalletSvcFacade interface {
	WalletReaderSvc
	WalletWriterSvc
}
