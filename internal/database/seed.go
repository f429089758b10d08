package database

import (
	"errors"
	"strings"

	"github.com/accountd/accountd/internal/domain"
	"github.com/accountd/accountd/internal/security"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seed provisions a verified demo account for local development. It is a
// no-op when the account already exists, so re-running migrations is safe.
func Seed(db *gorm.DB, demoEmail, demoPassword string) error {
	email := strings.TrimSpace(strings.ToLower(demoEmail))
	if email == "" || demoPassword == "" {
		return nil
	}

	var existing domain.Account
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := security.HashPassword(demoPassword)
	if err != nil {
		return err
	}
	return db.Create(&domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         "Demo Account",
		PasswordHash: hash,
		IsVerified:   true,
	}).Error
}
