package email

import (
	"context"
	"fmt"
)

// Message is a rendered transactional email.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// EmailService delivers one message.
type EmailService interface {
	Send(ctx context.Context, msg *Message) error
}

// Config selects and configures the provider.
type Config struct {
	Provider string // resend, smtp
	APIKey   string
	From     string
	SMTPHost string
	SMTPPort string
}

// NewEmailService returns the Resend sender in deployed environments and the
// SMTP dev sender (MailHog / Mailpit) locally.
func NewEmailService(cfg Config) (EmailService, error) {
	switch cfg.Provider {
	case "resend":
		return NewResendService(cfg.APIKey, cfg.From), nil
	case "smtp", "":
		return NewDevEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.From), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

func validate(msg *Message) error {
	if msg == nil || len(msg.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}
	if msg.Subject == "" {
		return fmt.Errorf("email has no subject")
	}
	return nil
}
