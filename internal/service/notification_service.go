package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/accountd/accountd/internal/mail"
	"github.com/accountd/accountd/internal/observability"
)

// Notifier formats account-lifecycle messages and hands them to the mailer.
// Delivery failures surface as errors and are never retried here.
type Notifier interface {
	SendWelcome(ctx context.Context, email string) error
	SendVerifyOTP(ctx context.Context, email, otp string) error
	SendResetOTP(ctx context.Context, email, otp string) error
}

type NotificationService struct {
	mailer  mail.Mailer
	appName string
	logger  *slog.Logger
}

func NewNotificationService(mailer mail.Mailer, appName string, logger *slog.Logger) *NotificationService {
	return &NotificationService{mailer: mailer, appName: appName, logger: logger}
}

func (n *NotificationService) SendWelcome(ctx context.Context, email string) error {
	return n.dispatch(ctx, "welcome", mail.Message{
		To:      email,
		Subject: "Welcome to " + n.appName,
		Text:    fmt.Sprintf("Welcome to %s. Your account has been created with email id: %s", n.appName, email),
	})
}

func (n *NotificationService) SendVerifyOTP(ctx context.Context, email, otp string) error {
	return n.dispatch(ctx, "verify_otp", mail.Message{
		To:      email,
		Subject: "Account verification OTP",
		HTML:    mail.RenderEmailVerify(otp, email),
	})
}

func (n *NotificationService) SendResetOTP(ctx context.Context, email, otp string) error {
	return n.dispatch(ctx, "reset_otp", mail.Message{
		To:      email,
		Subject: "Password Reset OTP",
		HTML:    mail.RenderPasswordReset(otp, email),
	})
}

func (n *NotificationService) dispatch(ctx context.Context, kind string, msg mail.Message) error {
	if err := n.mailer.Send(ctx, msg); err != nil {
		observability.RecordMailDispatch(ctx, kind, "failure")
		n.logger.WarnContext(ctx, "mail dispatch failed", "kind", kind, "to", msg.To, "error", err)
		return err
	}
	observability.RecordMailDispatch(ctx, kind, "success")
	return nil
}
