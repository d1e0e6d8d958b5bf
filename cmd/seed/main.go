// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"voltstore/internal/core/id"
	"voltstore/internal/infrastructure/storage/postgres"
	"voltstore/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	warehouseID, err := seedDefaultWarehouse(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed default warehouse", "error", err)
	}
	log.Infow("default warehouse ready", "warehouse_id", warehouseID,
		"hint", "set DEFAULT_WAREHOUSE_ID to this value for the server")

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log, warehouseID); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@voltstore.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM sys_users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now()

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO sys_users (id, email, password_hash, name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, 'System Admin', 'admin', true, $4, $4)
	`, userID, adminEmail, string(passwordHash), now)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", userID)
	return nil
}

func seedDefaultWarehouse(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM cat_warehouses WHERE is_default AND is_active`,
	).Scan(&existingID)
	if err == nil {
		log.Infow("default warehouse already exists", "warehouse_id", existingID)
		return existingID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check default warehouse: %w", err)
	}

	whID := id.New()
	now := time.Now()

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO cat_warehouses (id, code, name, address, is_active, is_default, created_at, updated_at)
		VALUES ($1, 'WH-001', 'Main Warehouse', '1 Fulfillment Way', true, true, $2, $2)
	`, whID, now)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert default warehouse: %w", err)
	}

	log.Infow("default warehouse created", "warehouse_id", whID, "code", "WH-001")
	return whID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger, warehouseID id.ID) error {
	log.Info("seeding demo data...")
	now := time.Now()

	// 1. Extra warehouses
	warehouses := []struct {
		code    string
		name    string
		address string
	}{
		{"WH-002", "Retail Store", "5 High Street"},
		{"WH-003", "Returns Depot", "12 Dock Road"},
	}

	for _, w := range warehouses {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_warehouses (id, code, name, address, is_active, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, false, $5, $5)
			ON CONFLICT (code) DO NOTHING
		`, id.New(), w.code, w.name, w.address, now)
		if err != nil {
			log.Warnw("failed to seed warehouse", "code", w.code, "error", err)
		}
	}

	// 2. Suppliers
	suppliers := []struct {
		name  string
		email string
	}{
		{"Volt Components Ltd", "orders@voltcomponents.example"},
		{"Ampere Wholesale", "sales@ampere.example"},
	}

	for _, s := range suppliers {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_suppliers (id, name, contact_email, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, true, $4, $4)
			ON CONFLICT DO NOTHING
		`, id.New(), s.name, s.email, now)
		if err != nil {
			log.Warnw("failed to seed supplier", "name", s.name, "error", err)
		}
	}

	// 3. Product variants
	variants := []struct {
		product string
		sku     string
		price   decimal.Decimal
	}{
		{"USB-C Cable 1m", "CBL-USBC-1M", decimal.NewFromFloat(7.99)},
		{"USB-C Cable 2m", "CBL-USBC-2M", decimal.NewFromFloat(9.99)},
		{"Wireless Mouse", "MSE-WRL-BLK", decimal.NewFromFloat(24.50)},
		{"Mechanical Keyboard", "KBD-MECH-87", decimal.NewFromFloat(89.00)},
		{"Power Bank 10000mAh", "PWR-BNK-10K", decimal.NewFromFloat(29.95)},
	}

	variantIDs := make(map[string]id.ID)

	for _, v := range variants {
		vid := id.New()
		tag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_variants (id, product_id, product_name, sku, price, legacy_stock, is_active)
			VALUES ($1, $2, $3, $4, $5, 0, true)
			ON CONFLICT (sku) DO NOTHING
		`, vid, id.New(), v.product, v.sku, v.price)
		if err != nil {
			log.Warnw("failed to seed variant", "sku", v.sku, "error", err)
			continue
		}

		if tag.RowsAffected() == 0 {
			if err := pool.Pool.QueryRow(ctx,
				`SELECT id FROM cat_variants WHERE sku = $1`, v.sku,
			).Scan(&vid); err != nil {
				log.Warnw("failed to fetch existing variant", "sku", v.sku, "error", err)
				continue
			}
		}

		variantIDs[v.sku] = vid
	}

	// 4. Stock entries in the default warehouse
	stock := []struct {
		sku       string
		quantity  int64
		threshold int64
	}{
		{"CBL-USBC-1M", 240, 50},
		{"CBL-USBC-2M", 180, 50},
		{"MSE-WRL-BLK", 35, 20},
		{"KBD-MECH-87", 8, 10}, // starts below threshold so alerts have something to find
		{"PWR-BNK-10K", 0, 15},
	}

	for _, s := range stock {
		vid, ok := variantIDs[s.sku]
		if !ok {
			continue
		}

		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO inv_stock_entries (
				id, warehouse_id, variant_id,
				quantity, reserved_quantity, low_stock_threshold,
				last_restocked_at, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, 0, $5, $6, $6, $6)
			ON CONFLICT (warehouse_id, variant_id) DO NOTHING
		`, id.New(), warehouseID, vid, s.quantity, s.threshold, now)
		if err != nil {
			log.Warnw("failed to seed stock entry", "sku", s.sku, "error", err)
		}
	}

	log.Info("demo data seeded successfully")
	return nil
}
