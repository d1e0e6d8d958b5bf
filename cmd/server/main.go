// Package main is the entry point for the voltstore API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"voltstore/internal/core/id"
	"voltstore/internal/domain/auth"
	"voltstore/internal/domain/catalogs/supplier"
	"voltstore/internal/domain/catalogs/warehouse"
	"voltstore/internal/domain/inventory/alerts"
	"voltstore/internal/domain/inventory/imports"
	"voltstore/internal/domain/inventory/ledger"
	"voltstore/internal/domain/orders"
	v1 "voltstore/internal/infrastructure/http/v1"
	"voltstore/internal/infrastructure/notify"
	"voltstore/internal/infrastructure/storage/postgres"
	"voltstore/internal/infrastructure/storage/postgres/auth_repo"
	"voltstore/internal/infrastructure/storage/postgres/catalog_repo"
	"voltstore/internal/infrastructure/storage/postgres/inventory_repo"
	"voltstore/internal/infrastructure/storage/postgres/order_repo"
	"voltstore/pkg/logger"
	"voltstore/pkg/numerator"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting voltstore server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	ledgerRepo := inventory_repo.NewLedgerRepo(txManager)
	alertRepo := inventory_repo.NewAlertRepo(txManager)
	importRepo := inventory_repo.NewImportRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	variantStore := catalog_repo.NewVariantStore(txManager)
	orderRepo := order_repo.NewOrderRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)

	// --- Core services ---
	numeratorService := numerator.New(pool.Pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))
	authService := auth.NewService(userRepo, jwtService)

	// --- Domain ---
	engine := ledger.NewEngine(ledgerRepo, variantStore, txManager, numeratorService)

	warehouseService := warehouse.NewService(warehouseRepo, txManager)
	supplierService := supplier.NewService(supplierRepo)

	// DEFAULT_WAREHOUSE_ID names the fulfillment warehouse explicitly.
	defaultWarehouseID, err := id.Parse(mustEnv("DEFAULT_WAREHOUSE_ID"))
	if err != nil {
		log.Fatalw("invalid DEFAULT_WAREHOUSE_ID", "error", err)
	}
	if _, err := warehouseRepo.GetByID(ctx, defaultWarehouseID); err != nil {
		log.Fatalw("default warehouse not found", "warehouse_id", defaultWarehouseID, "error", err)
	}

	orderService := orders.NewService(
		orderRepo, engine, variantStore, txManager,
		numeratorService, auditService, defaultWarehouseID,
	)
	importService := imports.NewService(
		importRepo, engine, warehouseRepo, variantStore,
		txManager, numeratorService, auditService,
	)

	// --- Alerts ---
	var sender alerts.Sender = &notify.LogSender{}
	if host := getEnv("SMTP_HOST", ""); host != "" {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     host,
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "alerts@voltstore.local"),
		})
		log.Infow("smtp alert delivery enabled", "host", host)
	}

	recipients := splitList(getEnv("ALERT_RECIPIENTS", ""))
	muteRules := alerts.NewRuleSet(ctx, splitList(getEnv("ALERT_MUTE_RULES", "")))

	monitor := alerts.NewMonitor(
		alertRepo, ledgerRepo, variantStore, warehouseRepo,
		sender, muteRules, recipients,
	)
	engine.SetAlertHook(monitor.Reevaluate)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
		WarehouseService: warehouseService,
		SupplierService:  supplierService,
		OrderService:     orderService,
		ImportService:    importService,
		Engine:           engine,
		Monitor:          monitor,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

// splitList parses a semicolon- or comma-separated env value.
func splitList(value string) []string {
	sep := ","
	if strings.Contains(value, ";") {
		sep = ";"
	}
	var result []string
	for _, part := range strings.Split(value, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
