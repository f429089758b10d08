package database

import (
	"time"

	"github.com/accountd/accountd/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the accounts database. Gorm timestamps are pinned to UTC
// because OTP expiries are compared against UTC wall time; a server-local
// NowFunc would skew the verification and reset windows.
func Open(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
}
