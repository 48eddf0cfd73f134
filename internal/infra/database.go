package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tradebook/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLiteDSN builds the DSN of a book file. Foreign keys are off by default in
// SQLite and must be switched on per connection.
func SQLiteDSN(path string) string {
	return path + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
}

// NewDatabase opens one book's storage, runs AutoMigrate for the seven book
// tables and then applies the idempotent patches GORM cannot express.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		if dir := filepath.Dir(dsnPath(dsn)); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create book dir: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// One writer per book file; a second connection would only wait on
		// the file lock.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(2)
	}

	if err := RunMigrations(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the book schema.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements AutoMigrate cannot derive
// from struct tags. Every statement is valid on both SQLite and PostgreSQL.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// most-recent-first listings
		{"orders by date", `CREATE INDEX IF NOT EXISTS idx_orders_date_id ON orders (date DESC, id DESC)`},
		{"ledger by date", `CREATE INDEX IF NOT EXISTS idx_ledger_entries_date_id ON ledger_entries (date DESC, id DESC)`},
		// low-stock projection
		{"products below threshold", `CREATE INDEX IF NOT EXISTS idx_products_quantity_threshold ON products (quantity, reorder_threshold)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

// Close releases the pooled connections behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dsnPath(dsn string) string {
	path, _, _ := strings.Cut(dsn, "?")
	return path
}
