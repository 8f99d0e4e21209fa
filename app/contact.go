package app

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/growthlabpro/storefront/domain/contact"
	"github.com/growthlabpro/storefront/domain/fault"
	"github.com/growthlabpro/storefront/ports"
)

// Contact relay messages.
const (
	MsgSendFailed  = "Failed to send message"
	MsgMessageSent = "Message sent successfully"
)

// ContactService relays contact form submissions by email.
type ContactService struct {
	mu        sync.RWMutex
	sender    ports.EmailSender
	recipient string

	logger zerolog.Logger
	tmpl   *template.Template
}

// NewContactService creates a contact relay that mails recipient.
func NewContactService(sender ports.EmailSender, recipient string, logger zerolog.Logger) *ContactService {
	return &ContactService{
		sender:    sender,
		recipient: recipient,
		logger:    logger,
		tmpl:      template.Must(template.New("contact").Parse(contactEmailTemplate)),
	}
}

// SetSender swaps the mail transport and recipient (config reload).
func (s *ContactService) SetSender(sender ports.EmailSender, recipient string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
	s.recipient = recipient
}

// Submit validates sub and mails it with Reply-To set to the submitter.
// Transport errors are logged and reported with a generic message.
func (s *ContactService) Submit(ctx context.Context, sub contact.Submission) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	s.mu.RLock()
	sender, recipient := s.sender, s.recipient
	s.mu.RUnlock()

	msg, err := s.Compose(sub, recipient)
	if err != nil {
		return fault.Wrap(fault.KindExternalService, MsgSendFailed, err)
	}

	if err := sender.Send(ctx, msg); err != nil {
		s.logger.Error().Err(err).
			Str("reply_to", msg.ReplyTo).
			Msg("failed to send contact email")
		return fault.Wrap(fault.KindExternalService, MsgSendFailed, err)
	}

	s.logger.Info().
		Str("reply_to", msg.ReplyTo).
		Bool("has_company", strings.TrimSpace(sub.Company) != "").
		Msg("contact email sent")
	return nil
}

// Compose renders the notification email for a submission.
func (s *ContactService) Compose(sub contact.Submission, recipient string) (ports.EmailMessage, error) {
	data := contactTemplateData{
		Name:    strings.TrimSpace(sub.Name),
		Email:   strings.TrimSpace(sub.Email),
		Company: strings.TrimSpace(sub.Company),
		Message: strings.TrimSpace(sub.Message),
	}

	var html bytes.Buffer
	if err := s.tmpl.Execute(&html, data); err != nil {
		return ports.EmailMessage{}, fmt.Errorf("execute contact template: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Name: %s\n", data.Name)
	fmt.Fprintf(&text, "Email: %s\n", data.Email)
	if data.Company != "" {
		fmt.Fprintf(&text, "Company: %s\n", data.Company)
	}
	fmt.Fprintf(&text, "\nMessage:\n%s\n", data.Message)

	return ports.EmailMessage{
		To:       recipient,
		ReplyTo:  data.Email,
		Subject:  sub.Subject(),
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}

type contactTemplateData struct {
	Name    string
	Email   string
	Company string
	Message string
}

var contactEmailTemplate = strings.TrimSpace(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>New contact form submission</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333;">
    <h2>New Contact Form Submission</h2>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
    {{if .Company}}<p><strong>Company:</strong> {{.Company}}</p>{{end}}
    <p><strong>Message:</strong></p>
    <p style="white-space: pre-wrap;">{{.Message}}</p>
</body>
</html>
`)
