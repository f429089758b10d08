package domain

import "time"

// Account is the single authentication entity. An OTP code and its expiry are
// always written together: an empty code with a zero expiry means "no OTP
// outstanding" for that workflow.
type Account struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string `gorm:"size:255;not null" json:"name"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	IsVerified   bool   `gorm:"not null;default:false" json:"is_verified"`

	VerifyOTP          string    `gorm:"column:verify_otp;size:8" json:"-"`
	VerifyOTPExpiresAt time.Time `gorm:"column:verify_otp_expires_at" json:"-"`
	ResetOTP           string    `gorm:"column:reset_otp;size:8" json:"-"`
	ResetOTPExpiresAt  time.Time `gorm:"column:reset_otp_expires_at" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetVerifyOTP stores a verification code with its expiry as one unit.
func (a *Account) SetVerifyOTP(code string, expiresAt time.Time) {
	a.VerifyOTP = code
	a.VerifyOTPExpiresAt = expiresAt
}

// ClearVerifyOTP removes the verification code and its expiry together.
func (a *Account) ClearVerifyOTP() {
	a.VerifyOTP = ""
	a.VerifyOTPExpiresAt = time.Time{}
}

// SetResetOTP stores a password-reset code with its expiry as one unit.
func (a *Account) SetResetOTP(code string, expiresAt time.Time) {
	a.ResetOTP = code
	a.ResetOTPExpiresAt = expiresAt
}

// ClearResetOTP removes the password-reset code and its expiry together.
func (a *Account) ClearResetOTP() {
	a.ResetOTP = ""
	a.ResetOTPExpiresAt = time.Time{}
}
