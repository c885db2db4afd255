package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finsuite/wallet_ledger_app/internal/apperrors"
	"github.com/finsuite/wallet_ledger_app/internal/core/domain"
	portsrepo "github.com/finsuite/wallet_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/finsuite/wallet_ledger_app/internal/core/ports/services"
	"github.com/finsuite/wallet_ledger_app/internal/dto"
	"github.com/finsuite/wallet_ledger_app/internal/middleware"
)

var (
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrDuplicateReference = errors.New("reference already used")
	ErrSameWalletTransfer = errors.New("cannot transfer to the same wallet")
)

// defaultTransferReplayWindow bounds how far apart the two legs of a
// transfer may have been created and still be correlated during an
// idempotent replay.
const defaultTransferReplayWindow = time.Second

// walletService coordinates idempotency checks, locking, aggregate mutation
// and persistence for the wallet use cases.
type walletService struct {
	walletRepo   portsrepo.WalletRepositoryFacade
	txnRepo      portsrepo.TransactionRepositoryFacade
	replayWindow time.Duration
}

// WalletServiceOption is a functional option for configuring the wallet service.
type WalletServiceOption func(*walletService)

// WithTransferReplayWindow overrides the transfer replay correlation window.
func WithTransferReplayWindow(window time.Duration) WalletServiceOption {
	return func(s *walletService) {
		if window > 0 {
			s.replayWindow = window
		}
	}
}

// NewWalletService creates a new wallet service with the provided options.
func NewWalletService(walletRepo portsrepo.WalletRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, options ...WalletServiceOption) portssvc.WalletSvcFacade {
	svc := &walletService{
		walletRepo:   walletRepo,
		txnRepo:      txnRepo,
		replayWindow: defaultTransferReplayWindow,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure walletService implements the WalletSvcFacade interface
var _ portssvc.WalletSvcFacade = (*walletService)(nil)

// CreateWallet creates a new wallet with a zero balance and empty history.
func (s *walletService) CreateWallet(ctx context.Context, req dto.CreateWalletRequest) (*domain.Wallet, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	wallet, err := domain.NewWallet(req.CurrencyCode)
	if err != nil {
		logger.Warn("Rejected wallet creation", slog.String("currency_code", req.CurrencyCode), slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.walletRepo.SaveWallet(ctx, wallet); err != nil {
		logger.Error("Failed to save new wallet", slog.String("wallet_id", wallet.ID.Value), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}

	logger.Info("Wallet created", slog.String("wallet_id", wallet.ID.Value), slog.String("currency_code", req.CurrencyCode))
	return wallet, nil
}

// FundWallet credits a wallet. Retries carrying the same idempotency key
// return the original result without mutating state; a reused reference
// without an idempotency key is rejected outright.
func (s *walletService) FundWallet(ctx context.Context, req dto.FundWalletRequest) (*dto.FundWalletResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: funding amount must be positive, got %s", domain.ErrInvalidAmount, req.Amount.String())
	}

	if result, err := s.findReplayedFunding(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if result != nil {
		logger.Info("Funding replayed from idempotency index",
			slog.String("wallet_id", req.WalletID),
			slog.String("transaction_id", result.TransactionID))
		return result, nil
	}

	if req.Reference != "" {
		if _, err := s.txnRepo.FindTransactionByReference(ctx, req.Reference); err == nil {
			logger.Warn("Rejected funding with replayed reference",
				slog.String("wallet_id", req.WalletID),
				slog.String("reference", req.Reference))
			return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, req.Reference)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check reference: %w", err)
		}
	}

	wallet, unlock, err := s.walletRepo.FindWalletByIDLocked(ctx, req.WalletID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, req.WalletID)
		}
		return nil, fmt.Errorf("failed to lock wallet %s: %w", req.WalletID, err)
	}
	defer unlock()

	// A concurrent retry may have won the race between the unlocked
	// idempotency check above and lock acquisition.
	if result, err := s.findReplayedFunding(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if result != nil {
		return result, nil
	}

	amount, err := domain.NewMoney(req.Amount, wallet.Balance.CurrencyCode)
	if err != nil {
		return nil, err
	}

	reference := req.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	txn, err := wallet.Credit(amount, req.IdempotencyKey, reference, "")
	if err != nil {
		return nil, err
	}

	// The transaction insert is the commit point: the unique idempotency
	// and reference indexes guard against double application. Losing the
	// insert race means a concurrent request claimed the key or reference
	// first; a retry replays its result, a reused reference is a conflict.
	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			if result, replayErr := s.findReplayedFunding(ctx, req.IdempotencyKey); replayErr == nil && result != nil {
				logger.Info("Funding replayed after losing the insert race",
					slog.String("wallet_id", req.WalletID),
					slog.String("transaction_id", result.TransactionID))
				return result, nil
			}
			logger.Warn("Rejected funding with replayed reference",
				slog.String("wallet_id", req.WalletID),
				slog.String("reference", reference))
			return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, reference)
		}
		logger.Error("Failed to save funding transaction", slog.String("wallet_id", req.WalletID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	if err := s.walletRepo.SaveWallet(ctx, wallet); err != nil {
		logger.Error("Failed to save funded wallet", slog.String("wallet_id", req.WalletID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}

	logger.Info("Wallet funded",
		slog.String("wallet_id", req.WalletID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", txn.Amount.String()),
		slog.String("balance_after", txn.BalanceAfter.String()))

	result := dto.ToFundWalletResult(txn)
	return &result, nil
}

// findReplayedFunding returns the projection of a previously stored funding
// record for the given idempotency key, or nil when there is none.
func (s *walletService) findReplayedFunding(ctx context.Context, idempotencyKey string) (*dto.FundWalletResult, error) {
	if idempotencyKey == "" {
		return nil, nil
	}
	txn, err := s.txnRepo.FindTransactionByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	result := dto.ToFundWalletResult(*txn)
	return &result, nil
}

// TransferFunds moves money between two wallets. Both locks are acquired in
// ascending ID order in a single call, and both legs are persisted as one
// logical unit before the locks are released, so no reader ever observes a
// half-applied transfer. Once the legs are applied the operation runs to
// completion; cancellation is not consulted past lock acquisition.
func (s *walletService) TransferFunds(ctx context.Context, req dto.TransferFundsRequest) (*dto.TransferFundsResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive, got %s", domain.ErrInvalidAmount, req.Amount.String())
	}
	if req.FromWalletID == req.ToWalletID {
		return nil, fmt.Errorf("%w: %s", ErrSameWalletTransfer, req.FromWalletID)
	}

	if result, err := s.findReplayedTransfer(ctx, req); err != nil {
		return nil, err
	} else if result != nil {
		logger.Info("Transfer replayed from idempotency index",
			slog.String("from_wallet_id", req.FromWalletID),
			slog.String("to_wallet_id", req.ToWalletID),
			slog.String("debit_transaction_id", result.DebitTransactionID))
		return result, nil
	}

	wallets, unlock, err := s.walletRepo.FindWalletsByIDsLocked(ctx, []string{req.FromWalletID, req.ToWalletID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallets: %w", err)
	}
	defer unlock()

	// Re-check under the locks: a concurrent retry may have completed the
	// transfer between the unlocked check above and lock acquisition.
	if result, err := s.findReplayedTransfer(ctx, req); err != nil {
		return nil, err
	} else if result != nil {
		return result, nil
	}

	fromWallet, ok := wallets[req.FromWalletID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, req.FromWalletID)
	}
	toWallet, ok := wallets[req.ToWalletID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, req.ToWalletID)
	}

	if fromWallet.Balance.CurrencyCode != toWallet.Balance.CurrencyCode {
		return nil, fmt.Errorf("%w: %s vs %s", domain.ErrCurrencyMismatch,
			fromWallet.Balance.CurrencyCode, toWallet.Balance.CurrencyCode)
	}

	amount, err := domain.NewMoney(req.Amount, fromWallet.Balance.CurrencyCode)
	if err != nil {
		return nil, err
	}

	debitTxn, err := fromWallet.Debit(amount, req.IdempotencyKey, req.Reference, req.ToWalletID)
	if err != nil {
		logger.Warn("Transfer rejected",
			slog.String("from_wallet_id", req.FromWalletID),
			slog.String("to_wallet_id", req.ToWalletID),
			slog.String("error", err.Error()))
		return nil, err
	}
	creditTxn, err := toWallet.Credit(amount, "", req.Reference, req.FromWalletID)
	if err != nil {
		return nil, err
	}

	// Both legs persist as one logical unit while both locks are held. The
	// debit insert goes first: its unique idempotency index guards against
	// double application, and nothing is persisted if it is rejected.
	if err := s.txnRepo.SaveTransaction(ctx, debitTxn); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent retry not serialized by these wallet locks
			// claimed the key first; surface its result instead.
			if result, replayErr := s.findReplayedTransfer(ctx, req); replayErr == nil && result != nil {
				logger.Info("Transfer replayed after losing the insert race",
					slog.String("from_wallet_id", req.FromWalletID),
					slog.String("debit_transaction_id", result.DebitTransactionID))
				return result, nil
			}
		}
		logger.Error("Failed to save transfer debit leg", slog.String("from_wallet_id", req.FromWalletID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save debit transaction: %w", err)
	}
	if err := s.txnRepo.SaveTransaction(ctx, creditTxn); err != nil {
		logger.Error("Failed to save transfer credit leg", slog.String("to_wallet_id", req.ToWalletID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save credit transaction: %w", err)
	}
	if err := s.walletRepo.SaveWallet(ctx, fromWallet); err != nil {
		return nil, fmt.Errorf("failed to save source wallet: %w", err)
	}
	if err := s.walletRepo.SaveWallet(ctx, toWallet); err != nil {
		return nil, fmt.Errorf("failed to save destination wallet: %w", err)
	}

	logger.Info("Transfer completed",
		slog.String("from_wallet_id", req.FromWalletID),
		slog.String("to_wallet_id", req.ToWalletID),
		slog.String("amount", amount.Amount.String()),
		slog.String("debit_transaction_id", debitTxn.TransactionID),
		slog.String("credit_transaction_id", creditTxn.TransactionID))

	result := dto.ToTransferFundsResult(debitTxn, creditTxn)
	return &result, nil
}

// findReplayedTransfer looks for a previously completed transfer under the
// request's idempotency key. The stored record is the outbound leg; the
// inbound leg is correlated on the destination wallet by its related-wallet
// tag and creation-time proximity, since the two legs carry no stored link.
func (s *walletService) findReplayedTransfer(ctx context.Context, req dto.TransferFundsRequest) (*dto.TransferFundsResult, error) {
	if req.IdempotencyKey == "" {
		return nil, nil
	}

	debitTxn, err := s.txnRepo.FindTransactionByIdempotencyKey(ctx, req.IdempotencyKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if debitTxn.Type != domain.TransferOut {
		return nil, nil
	}

	destTxns, err := s.txnRepo.FindTransactionsByWalletID(ctx, req.ToWalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to load destination history: %w", err)
	}
	for _, candidate := range destTxns {
		if candidate.Type != domain.TransferIn || candidate.RelatedWalletID != req.FromWalletID {
			continue
		}
		gap := candidate.CreatedAt.Sub(debitTxn.CreatedAt)
		if gap < 0 {
			gap = -gap
		}
		if gap <= s.replayWindow {
			result := dto.ToTransferFundsResult(*debitTxn, candidate)
			return &result, nil
		}
	}
	return nil, nil
}

// GetWalletDetails returns the wallet's balance, currency, creation time and
// full transaction history, newest first.
func (s *walletService) GetWalletDetails(ctx context.Context, walletID string) (*dto.WalletDetailsResult, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, walletID)
		}
		return nil, fmt.Errorf("failed to find wallet %s: %w", walletID, err)
	}

	txns, err := s.txnRepo.FindTransactionsByWalletID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for wallet %s: %w", walletID, err)
	}

	return &dto.WalletDetailsResult{
		WalletID:     wallet.ID.Value,
		CurrencyCode: wallet.Balance.CurrencyCode,
		Balance:      wallet.Balance.Amount,
		CreatedAt:    wallet.CreatedAt,
		Transactions: dto.ToTransactionResponses(txns),
	}, nil
}
