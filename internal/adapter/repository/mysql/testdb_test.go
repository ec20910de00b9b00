package mysql

import (
	"testing"

	"cashflow-bridge/internal/domain/account"
	"cashflow-bridge/internal/domain/decision"
	"cashflow-bridge/internal/domain/loan"
	"cashflow-bridge/internal/domain/transaction"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with every table migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// each :memory: connection is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&account.Account{}, &transaction.Transaction{}, &decision.Record{}, &loan.Loan{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
