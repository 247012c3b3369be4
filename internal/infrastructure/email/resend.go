package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type resendEmailService struct {
	emails resendEmails
	from   string
}

func NewResendService(apiKey, from string) EmailService {
	client := resend.NewClient(apiKey)
	return &resendEmailService{emails: client.Emails, from: from}
}

func (s *resendEmailService) Send(ctx context.Context, msg *Message) error {
	if err := validate(msg); err != nil {
		return err
	}

	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if msg.ReplyTo != "" {
		req.ReplyTo = msg.ReplyTo
	}

	sent, err := s.emails.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}

	log.Info().
		Str("provider", "resend").
		Str("message_id", sent.Id).
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Msg("Email sent")
	return nil
}
