package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-inventory-backend/config"
	"hotel-inventory-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.EnableCheckConstraints {
		log.Println("Applying ledger CHECK constraints...")
		if err := applyLedgerConstraints(db); err != nil {
			return nil, err
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate creates or updates the engine's tables. Exposed separately so
// tests can run it against an in-memory database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.RoomType{},
		&model.InventoryDay{},
		&model.Hold{},
		&model.Booking{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// applyLedgerConstraints installs a database-level guard for the core
// ledger invariant: booked_count + tentative_count <= allotment, both
// counts non-negative. Any write that trips it has bypassed the engine's
// transaction discipline.
func applyLedgerConstraints(db *gorm.DB) error {
	ddls := []string{
		"ALTER TABLE inventory_days DROP CONSTRAINT IF EXISTS chk_inventory_days_ledger;",
		"ALTER TABLE inventory_days ADD CONSTRAINT chk_inventory_days_ledger " +
			"CHECK (booked_count >= 0 AND tentative_count >= 0 AND booked_count + tentative_count <= allotment);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
