package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finsuite/wallet_ledger_app/internal/core/domain"
	portssvc "github.com/finsuite/wallet_ledger_app/internal/core/ports/services"
	"github.com/finsuite/wallet_ledger_app/internal/core/services"
	"github.com/finsuite/wallet_ledger_app/internal/dto"
	"github.com/finsuite/wallet_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// walletHandler handles HTTP requests related to wallets.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
}

// newWalletHandler creates a new walletHandler.
func newWalletHandler(ws portssvc.WalletSvcFacade) *walletHandler {
	return &walletHandler{
		walletService: ws,
	}
}

// RegisterWalletRoutes registers routes related to wallets.
func RegisterWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade) {
	registerCustomValidations()
	h := newWalletHandler(walletService)

	wallets := rg.Group("/wallets")
	{
		wallets.POST("", h.createWallet)
		wallets.POST("/fund", h.fundWallet)
		wallets.POST("/transfer", h.transferFunds)
		wallets.GET("/:walletID", h.getWallet)
	}
}

// createWallet godoc
// @Summary Create a new wallet
// @Description Creates a new empty wallet in the given currency
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   wallet body dto.CreateWalletRequest true "Wallet details"
// @Success 201 {object} dto.WalletResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to create wallet"
// @Router /wallets [post]
func (h *walletHandler) createWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateWallet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	wallet, err := h.walletService.CreateWallet(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCurrency) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create wallet in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create wallet"})
		}
		return
	}

	logger.Info("Wallet created successfully", slog.String("wallet_id", wallet.ID.Value))
	c.JSON(http.StatusCreated, dto.ToWalletResponse(wallet))
}

// fundWallet godoc
// @Summary Fund a wallet
// @Description Credits a wallet; retries with the same idempotency key return the original result
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   funding body dto.FundWalletRequest true "Funding details"
// @Success 200 {object} dto.FundWalletResult
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 409 {object} map[string]string "Reference already used"
// @Failure 500 {object} map[string]string "Failed to fund wallet"
// @Router /wallets/fund [post]
func (h *walletHandler) fundWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.FundWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for FundWallet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.walletService.FundWallet(c.Request.Context(), req)
	if err != nil {
		h.respondFundError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *walletHandler) respondFundError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrWalletNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateReference):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to fund wallet in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fund wallet"})
	}
}

// transferFunds godoc
// @Summary Transfer funds between wallets
// @Description Atomically debits the source wallet and credits the destination wallet
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferFundsRequest true "Transfer details"
// @Success 200 {object} dto.TransferFundsResult
// @Failure 400 {object} map[string]string "Invalid input, same wallet, or currency mismatch"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Failed to transfer funds"
// @Router /wallets/transfer [post]
func (h *walletHandler) transferFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TransferFunds", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.walletService.TransferFunds(c.Request.Context(), req)
	if err != nil {
		h.respondTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *walletHandler) respondTransferError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, services.ErrSameWalletTransfer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrWalletNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to transfer funds in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer funds"})
	}
}

// getWallet godoc
// @Summary Get a wallet by ID
// @Description Retrieves the wallet balance, currency, creation time and transaction history (newest first)
// @Tags wallets
// @Produce  json
// @Param   walletID path string true "Wallet ID"
// @Success 200 {object} dto.WalletDetailsResult
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 500 {object} map[string]string "Failed to retrieve wallet"
// @Router /wallets/{walletID} [get]
func (h *walletHandler) getWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("walletID")

	details, err := h.walletService.GetWalletDetails(c.Request.Context(), walletID)
	if err != nil {
		if errors.Is(err, services.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to retrieve wallet in service", slog.String("wallet_id", walletID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve wallet"})
		}
		return
	}

	c.JSON(http.StatusOK, details)
}
