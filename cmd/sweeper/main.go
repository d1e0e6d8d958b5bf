// Package main is the entry point for the alert sweeper worker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"voltstore/internal/domain/inventory/alerts"
	"voltstore/internal/infrastructure/notify"
	"voltstore/internal/infrastructure/storage/postgres"
	"voltstore/internal/infrastructure/storage/postgres/catalog_repo"
	"voltstore/internal/infrastructure/storage/postgres/inventory_repo"
	"voltstore/pkg/logger"
)

// sweeper periodically re-checks stock levels against thresholds and
// resolves alerts whose condition has cleared.
type sweeper struct {
	monitor  *alerts.Monitor
	interval time.Duration
	log      *logger.Logger
}

func (s *sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Infow("sweeper started", "interval", s.interval.String())

	// Run once on startup so a restart never delays a full cycle.
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *sweeper) sweep(ctx context.Context) {
	start := time.Now()

	if err := s.monitor.CheckLevels(ctx); err != nil {
		s.log.Errorw("check levels failed", "error", err)
	}
	if err := s.monitor.AutoResolve(ctx); err != nil {
		s.log.Errorw("auto resolve failed", "error", err)
	}

	s.log.Debugw("sweep complete", "duration_ms", time.Since(start).Milliseconds())
}

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting voltstore alert sweeper")

	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	ledgerRepo := inventory_repo.NewLedgerRepo(txManager)
	alertRepo := inventory_repo.NewAlertRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	variantStore := catalog_repo.NewVariantStore(txManager)

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

	s := &sweeper{
		monitor:  monitor,
		interval: getEnvDuration("ALERT_SWEEP_INTERVAL", 5*time.Minute),
		log:      log.WithComponent("sweeper"),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down sweeper...")
	cancel()
	wg.Wait()
	log.Info("sweeper stopped")
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
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
