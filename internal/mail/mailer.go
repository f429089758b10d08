package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

//go:generate mockgen -source=mailer.go -destination=gomock/mock_mailer.go -package=mailgomock

// Message is a fully formatted outbound mail. Exactly one of Text or HTML is
// expected to be set; HTML wins when both are present.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer attempts delivery of one message. Failures are reported to the
// caller as errors; retry policy is the caller's concern, not the mailer's.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers through an SMTP relay using go-mail.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(username),
			gomail.WithPassword(password),
		)
	}
	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: from}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	out := gomail.NewMsg()
	if err := out.From(m.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	out.Subject(msg.Subject)
	if msg.HTML != "" {
		out.SetBodyString(gomail.TypeTextHTML, msg.HTML)
		if msg.Text != "" {
			out.AddAlternativeString(gomail.TypeTextPlain, msg.Text)
		}
	} else {
		out.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer stands in for a relay in development: it logs the message
// instead of delivering it.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "mail dispatched to log sink",
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
		"html_bytes", len(msg.HTML),
	)
	return nil
}
