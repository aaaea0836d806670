// Package mail delivers contact-form messages through Resend.
package mail

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/folio-labs/portfolio-server/internal/model"
)

// Sender delivers a contact-form message to the site owner.
type Sender interface {
	SendContact(ctx context.Context, msg model.ContactMessage) error
}

type resendSender struct {
	client    *resend.Client
	fromEmail string
	toEmail   string
}

func NewResendSender(apiKey, fromEmail, toEmail string) Sender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		toEmail:   toEmail,
	}
}

func (s *resendSender) SendContact(ctx context.Context, msg model.ContactMessage) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Portfolio <%s>", s.fromEmail),
		To:      []string{s.toEmail},
		Subject: ContactSubject(msg),
		Html:    ContactHTML(msg),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	return nil
}

func ContactSubject(msg model.ContactMessage) string {
	name := strings.Join(strings.Fields(msg.Name), " ")
	return fmt.Sprintf("New message from %s", name)
}

// ContactHTML renders the message body with every user field escaped.
func ContactHTML(msg model.ContactMessage) string {
	body := strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>")
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family:Georgia,serif;max-width:600px;margin:0 auto;padding:20px;">
  <h2 style="margin:0 0 16px 0;">New contact message</h2>
  <p><strong>%s</strong> <a href="mailto:%s">%s</a></p>
  <p style="line-height:1.6;">%s</p>
</body>
</html>`, html.EscapeString(msg.Name), html.EscapeString(msg.Email), html.EscapeString(msg.Email), body)
}
