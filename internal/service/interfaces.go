package service

import "context"

type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*SessionResult, error)
	Login(ctx context.Context, email, password string) (*SessionResult, error)
	SendVerifyOTP(ctx context.Context, accountID string) error
	VerifyEmail(ctx context.Context, accountID, otp string) error
	SendResetOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}
