package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/accountd/accountd/internal/domain"
	"github.com/accountd/accountd/internal/repository"
	"github.com/accountd/accountd/internal/security"

	"github.com/google/uuid"
)

// AuthService owns the per-account authentication state and its transition
// rules: registration, credential verification, and the two OTP workflows.
// Every mutation reads one account record, changes it, and writes it back as
// a single unit; mail dispatch always happens after the state is durable and
// is never rolled back on delivery failure.
type AuthService struct {
	accounts     repository.AccountRepository
	tokenSvc     *TokenService
	notifier     Notifier
	verifyOTPTTL time.Duration
	resetOTPTTL  time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// SessionResult is what a successful register or login hands to transport:
// the account plus the session artifact to attach as a cookie.
type SessionResult struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

func NewAuthService(
	accounts repository.AccountRepository,
	tokenSvc *TokenService,
	notifier Notifier,
	verifyOTPTTL time.Duration,
	resetOTPTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		accounts:     accounts,
		tokenSvc:     tokenSvc,
		notifier:     notifier,
		verifyOTPTTL: verifyOTPTTL,
		resetOTPTTL:  resetOTPTTL,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*SessionResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, Validation("missing details")
	}

	if _, err := s.accounts.FindByEmail(email); err == nil {
		return nil, Conflict("user already exist")
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, Dependency("account store unavailable", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, Dependency("could not process password", err)
	}
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(account); err != nil {
		return nil, Dependency("account store unavailable", err)
	}

	result, err := s.issueSession(account)
	if err != nil {
		return nil, err
	}

	// Welcome mail is best effort: the account is already durable and the
	// session is issued, so a delivery failure must not fail registration.
	if err := s.notifier.SendWelcome(ctx, email); err != nil {
		s.logger.WarnContext(ctx, "welcome mail failed", "email", email, "error", err)
	}
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*SessionResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, Validation("email and password required")
	}

	account, err := s.accounts.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, NotFound("invalid email")
		}
		return nil, Dependency("account store unavailable", err)
	}
	if !security.VerifyPassword(account.PasswordHash, password) {
		return nil, AuthFailure("invalid password")
	}
	return s.issueSession(account)
}

// SendVerifyOTP issues a fresh verification code for an unverified account.
// The code is persisted before the mail attempt; a delivery failure is
// reported but leaves the stored code in place.
func (s *AuthService) SendVerifyOTP(ctx context.Context, accountID string) error {
	account, err := s.findByID(accountID)
	if err != nil {
		return err
	}
	if account.IsVerified {
		return Conflict("Account already verified")
	}

	otp, err := security.NewOTP()
	if err != nil {
		return Dependency("could not generate OTP", err)
	}
	account.SetVerifyOTP(otp, s.now().Add(s.verifyOTPTTL))
	if err := s.accounts.Update(account); err != nil {
		return Dependency("account store unavailable", err)
	}

	if err := s.notifier.SendVerifyOTP(ctx, account.Email, otp); err != nil {
		return Dependency("could not send verification mail", err)
	}
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, accountID, otp string) error {
	if accountID == "" || otp == "" {
		return Validation("missing details")
	}
	account, err := s.findByID(accountID)
	if err != nil {
		return err
	}

	// An empty or mismatched code is reported before the expiry check, so a
	// stale, already-cleared OTP surfaces as invalid rather than expired.
	if account.VerifyOTP == "" || account.VerifyOTP != otp {
		return AuthFailure("Invalid OTP")
	}
	if account.VerifyOTPExpiresAt.Before(s.now()) {
		return Expired("OTP Expired")
	}

	account.ClearVerifyOTP()
	account.IsVerified = true
	if err := s.accounts.Update(account); err != nil {
		return Dependency("account store unavailable", err)
	}
	return nil
}

func (s *AuthService) SendResetOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return Validation("email is required")
	}
	account, err := s.findByEmail(email)
	if err != nil {
		return err
	}

	otp, err := security.NewOTP()
	if err != nil {
		return Dependency("could not generate OTP", err)
	}
	account.SetResetOTP(otp, s.now().Add(s.resetOTPTTL))
	if err := s.accounts.Update(account); err != nil {
		return Dependency("account store unavailable", err)
	}

	if err := s.notifier.SendResetOTP(ctx, account.Email, otp); err != nil {
		return Dependency("could not send reset mail", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || otp == "" || newPassword == "" {
		return Validation("Email, OTP, and new password are required")
	}
	account, err := s.findByEmail(email)
	if err != nil {
		return err
	}

	if account.ResetOTP == "" || account.ResetOTP != otp {
		return AuthFailure("invalid OTP")
	}
	if account.ResetOTPExpiresAt.Before(s.now()) {
		return Expired("OTP Expired")
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return Dependency("could not process password", err)
	}
	account.ClearResetOTP()
	account.PasswordHash = hash
	if err := s.accounts.Update(account); err != nil {
		return Dependency("account store unavailable", err)
	}
	return nil
}

func (s *AuthService) issueSession(account *domain.Account) (*SessionResult, error) {
	token, expiresAt, err := s.tokenSvc.Issue(account.ID)
	if err != nil {
		return nil, Dependency("could not issue session", err)
	}
	return &SessionResult{Account: account, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) findByID(accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, Validation("missing details")
	}
	account, err := s.accounts.FindByID(accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, NotFound("user not found")
		}
		return nil, Dependency("account store unavailable", err)
	}
	return account, nil
}

func (s *AuthService) findByEmail(email string) (*domain.Account, error) {
	account, err := s.accounts.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, NotFound("user not found")
		}
		return nil, Dependency("account store unavailable", err)
	}
	return account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
