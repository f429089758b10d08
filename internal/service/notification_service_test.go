package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/accountd/accountd/internal/mail"
	mailgomock "github.com/accountd/accountd/internal/mail/gomock"
)

func TestNotificationServiceMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := mailgomock.NewMockMailer(ctrl)
	svc := NewNotificationService(mailer, "accountd", slog.New(slog.DiscardHandler))

	var sent []mail.Message
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Times(3).DoAndReturn(
		func(_ context.Context, msg mail.Message) error {
			sent = append(sent, msg)
			return nil
		})

	if err := svc.SendWelcome(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if err := svc.SendVerifyOTP(context.Background(), "user@example.com", "123456"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.SendResetOTP(context.Background(), "user@example.com", "654321"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	welcome := sent[0]
	if welcome.Subject != "Welcome to accountd" {
		t.Fatalf("welcome subject: %q", welcome.Subject)
	}
	if !strings.Contains(welcome.Text, "Your account has been created with email id: user@example.com") {
		t.Fatalf("welcome body: %q", welcome.Text)
	}

	verify := sent[1]
	if verify.Subject != "Account verification OTP" {
		t.Fatalf("verify subject: %q", verify.Subject)
	}
	if !strings.Contains(verify.HTML, "123456") || !strings.Contains(verify.HTML, "user@example.com") {
		t.Fatal("verify HTML missing OTP or recipient")
	}
	if strings.Contains(verify.HTML, "{{otp}}") || strings.Contains(verify.HTML, "{{email}}") {
		t.Fatal("verify HTML has unsubstituted placeholders")
	}

	reset := sent[2]
	if reset.Subject != "Password Reset OTP" {
		t.Fatalf("reset subject: %q", reset.Subject)
	}
	if !strings.Contains(reset.HTML, "654321") {
		t.Fatal("reset HTML missing OTP")
	}
}

func TestNotificationServicePropagatesSendError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := mailgomock.NewMockMailer(ctrl)
	svc := NewNotificationService(mailer, "accountd", slog.New(slog.DiscardHandler))

	sendErr := errors.New("relay refused")
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(sendErr)

	if err := svc.SendVerifyOTP(context.Background(), "user@example.com", "123456"); !errors.Is(err, sendErr) {
		t.Fatalf("expected relay error, got %v", err)
	}
}
