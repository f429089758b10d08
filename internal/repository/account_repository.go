package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/accountd/accountd/internal/domain"

	"gorm.io/gorm"
)

//go:generate mockgen -source=account_repository.go -destination=gomock/mock_account_repository.go -package=repogomock

var ErrAccountNotFound = errors.New("account not found")

// AccountRepository is the user store collaborator: per-record lookups keyed
// by id or email, plus whole-record save semantics.
type AccountRepository interface {
	FindByID(id string) (*domain.Account, error)
	FindByEmail(email string) (*domain.Account, error)
	Create(account *domain.Account) error
	Update(account *domain.Account) error
	ClearExpiredOTPs() (int64, error)
}

type GormAccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &GormAccountRepository{db: db} }

func (r *GormAccountRepository) FindByID(id string) (*domain.Account, error) {
	var a domain.Account
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormAccountRepository) FindByEmail(email string) (*domain.Account, error) {
	var a domain.Account
	err := r.db.Where("email = ?", strings.ToLower(email)).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormAccountRepository) Create(account *domain.Account) error {
	return r.db.Create(account).Error
}

func (r *GormAccountRepository) Update(account *domain.Account) error {
	return r.db.Save(account).Error
}

// ClearExpiredOTPs nulls out OTP fields whose window has passed. Stale codes
// already surface as "invalid" during consumption; this keeps rows tidy.
func (r *GormAccountRepository) ClearExpiredOTPs() (int64, error) {
	now := r.db.NowFunc()
	var total int64
	res := r.db.Model(&domain.Account{}).
		Where("verify_otp <> '' AND verify_otp_expires_at < ?", now).
		Updates(map[string]any{"verify_otp": "", "verify_otp_expires_at": time.Time{}})
	if res.Error != nil {
		return 0, res.Error
	}
	total += res.RowsAffected
	res = r.db.Model(&domain.Account{}).
		Where("reset_otp <> '' AND reset_otp_expires_at < ?", now).
		Updates(map[string]any{"reset_otp": "", "reset_otp_expires_at": time.Time{}})
	if res.Error != nil {
		return 0, res.Error
	}
	total += res.RowsAffected
	return total, nil
}
