package database

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/accountd/accountd/internal/domain"
	"github.com/accountd/accountd/internal/security"
)

var seedDBSeq atomic.Int64

func newSeedDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:seeddb%d?mode=memory&cache=shared", seedDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeedCreatesVerifiedDemoAccount(t *testing.T) {
	db := newSeedDBForTest(t)

	if err := Seed(db, "Demo@Example.com", "Demo#Pass1"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var account domain.Account
	if err := db.Where("email = ?", "demo@example.com").First(&account).Error; err != nil {
		t.Fatalf("find seeded account: %v", err)
	}
	if !account.IsVerified {
		t.Fatal("demo account not verified")
	}
	if !security.VerifyPassword(account.PasswordHash, "Demo#Pass1") {
		t.Fatal("demo password not usable")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newSeedDBForTest(t)

	if err := Seed(db, "demo@example.com", "Demo#Pass1"); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(db, "demo@example.com", "Another#Pass1"); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var count int64
	if err := db.Model(&domain.Account{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one demo account, got %d", count)
	}

	// The original credential survives a re-seed.
	var account domain.Account
	if err := db.Where("email = ?", "demo@example.com").First(&account).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if !security.VerifyPassword(account.PasswordHash, "Demo#Pass1") {
		t.Fatal("original demo password replaced")
	}
}

func TestSeedSkipsWhenUnconfigured(t *testing.T) {
	db := newSeedDBForTest(t)

	if err := Seed(db, "", ""); err != nil {
		t.Fatalf("seed without args: %v", err)
	}
	if err := Seed(db, "demo@example.com", ""); err != nil {
		t.Fatalf("seed without password: %v", err)
	}

	var count int64
	if err := db.Model(&domain.Account{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty table, got %d rows", count)
	}
}
