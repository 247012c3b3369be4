package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"coursestore-backend/pkg/logger"
)

// smtpEmailService talks to a local catch-all SMTP server in development.
type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewDevEmailService(smtpHost, smtpPort, from string) EmailService {
	if from == "" {
		from = "noreply@coursestore.dev"
	}
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
		send:     smtp.SendMail,
	}
}

func (s *smtpEmailService) Send(ctx context.Context, msg *Message) error {
	if err := validate(msg); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.smtpFrom)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.HTML)

	if err := s.send(s.smtpAddr, nil, envelopeAddress(s.smtpFrom), msg.To, []byte(b.String())); err != nil {
		logger.Warn("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        msg.To,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// envelopeAddress extracts "a@b" from "Name <a@b>".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}
