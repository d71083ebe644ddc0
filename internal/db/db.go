package db

import (
	"errors"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vendorscore/internal/config"
)

// Connect opens a GORM database connection using APP_DATABASE_URL (PostgreSQL URL).
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := strings.TrimSpace(cfg.DatabaseURL)
	if dsn == "" {
		return nil, errors.New("APP_DATABASE_URL is required (PostgreSQL URL)")
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil, errors.New("APP_DATABASE_URL must be a postgres:// or postgresql:// URL")
	}

	// PrepareStmt: true prevents the GORM postgres migrator from forcing simple protocol
	// for "SELECT * FROM table LIMIT 1", which would otherwise trigger "insufficient arguments".
	return gorm.Open(postgres.Open(dsn), &gorm.Config{PrepareStmt: true})
}

// Migrate auto-migrates the core tables.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&Vendor{},
		&Jurisdiction{},
		&VendorCoverage{},
		&CriminalRecord{},
		&VendorMetrics{},
		&SchemaChange{},
		&Alert{},
		&AlertConfiguration{},
	)
}
