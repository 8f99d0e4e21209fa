package email

import (
	"context"
	"errors"

	"github.com/growthlabpro/storefront/ports"
)

// ErrEmailDisabled is returned when no mail transport is configured.
var ErrEmailDisabled = errors.New("email delivery is disabled")

// NoopSender rejects every message. The contact relay reports this as a send failure.
type NoopSender struct{}

// NewNoopSender creates a new no-op email sender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send always fails with ErrEmailDisabled.
func (s *NoopSender) Send(ctx context.Context, msg ports.EmailMessage) error {
	return ErrEmailDisabled
}

// Ensure interface compliance.
var _ ports.EmailSender = (*NoopSender)(nil)
