// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"voltstore/internal/domain/auth"
	"voltstore/internal/domain/catalogs/supplier"
	"voltstore/internal/domain/catalogs/warehouse"
	"voltstore/internal/domain/inventory/alerts"
	"voltstore/internal/domain/inventory/imports"
	"voltstore/internal/domain/inventory/ledger"
	"voltstore/internal/domain/orders"
	"voltstore/internal/infrastructure/http/v1/handlers"
	"voltstore/internal/infrastructure/http/v1/middleware"
	"voltstore/internal/infrastructure/storage/postgres"
	"voltstore/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator

	AuthService      *auth.Service
	WarehouseService *warehouse.Service
	SupplierService  *supplier.Service
	OrderService     *orders.Service
	ImportService    *imports.Service
	Engine           *ledger.Engine
	Monitor          *alerts.Monitor
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	stockHandler := handlers.NewStockHandler(base, cfg.Engine)
	alertHandler := handlers.NewAlertHandler(base, cfg.Monitor)
	importHandler := handlers.NewImportHandler(base, cfg.ImportService)
	orderHandler := handlers.NewOrderHandler(base, cfg.OrderService)
	warehouseHandler := handlers.NewWarehouseHandler(base, cfg.WarehouseService)
	supplierHandler := handlers.NewSupplierHandler(base, cfg.SupplierService)

	v1 := router.Group("/api/v1")
	{
		// Auth
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/auth/me", middleware.Auth(cfg.JWTValidator), authHandler.Me)
		v1.POST("/auth/users",
			middleware.Auth(cfg.JWTValidator),
			middleware.RequireRole(auth.RoleAdmin),
			authHandler.CreateUser,
		)

		// Orders allow guest checkout, so auth is optional.
		ordersGroup := v1.Group("/orders")
		ordersGroup.Use(middleware.OptionalAuth(cfg.JWTValidator))
		orderHandler.RegisterRoutes(ordersGroup)

		// Everything else requires a valid token.
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		stockGroup := protected.Group("/stock")
		stockHandler.RegisterRoutes(stockGroup)

		alertsGroup := protected.Group("/alerts")
		alertHandler.RegisterRoutes(alertsGroup)

		importsGroup := protected.Group("/imports")
		importsGroup.Use(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager))
		importHandler.RegisterRoutes(importsGroup)

		warehousesGroup := protected.Group("/warehouses")
		warehousesGroup.Use(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager))
		warehouseHandler.RegisterRoutes(warehousesGroup)

		suppliersGroup := protected.Group("/suppliers")
		suppliersGroup.Use(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager))
		supplierHandler.RegisterRoutes(suppliersGroup)
	}

	return router
}
