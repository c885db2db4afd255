package main

import (
	"log/slog"
	"os"

	"github.com/finsuite/wallet_ledger_app/internal/core/services"
	"github.com/finsuite/wallet_ledger_app/internal/handlers"
	"github.com/finsuite/wallet_ledger_app/internal/middleware"
	"github.com/finsuite/wallet_ledger_app/internal/platform/config"
	"github.com/finsuite/wallet_ledger_app/internal/repositories/memory"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title Wallet Ledger API
// @version 1.0
// @description Per-wallet balances with an append-only transaction history.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermemory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// All state lives in memory; it is lost on restart.
	walletRepo := memory.NewWalletRepository()
	txnRepo := memory.NewTransactionRepository()
	walletService := services.NewWalletService(walletRepo, txnRepo,
		services.WithTransferReplayWindow(cfg.TransferReplayWindow))

	handlers.RegisterRoutes(r, cfg, walletService)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
