package handlers

import (
	"sync"

	"github.com/finsuite/wallet_ledger_app/cmd/docs"
	portssvc "github.com/finsuite/wallet_ledger_app/internal/core/ports/services"
	"github.com/finsuite/wallet_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	walletService portssvc.WalletSvcFacade,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, walletService)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	walletService portssvc.WalletSvcFacade,
) {
	v1 := r.Group("/api/v1")

	// Delegate route registration to specific handlers, passing required services
	RegisterWalletRoutes(v1, walletService)
}

var customValidationsOnce sync.Once

// registerCustomValidations wires wallet-specific validations into the gin binding engine.
func registerCustomValidations() {
	customValidationsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
				code := fl.Field().String()
				if len(code) != 3 {
					return false
				}
				for _, r := range code {
					if r < 'A' || r > 'Z' {
						return false
					}
				}
				return true
			})
		}
	})
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
