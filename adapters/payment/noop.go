package payment

import (
	"context"
	"errors"

	"github.com/growthlabpro/storefront/domain/checkout"
	"github.com/growthlabpro/storefront/ports"
)

var (
	// ErrPaymentsDisabled is returned when payments are not configured.
	ErrPaymentsDisabled = errors.New("payments are not configured")

	// ErrNotConfigured is returned when the provider has no secret key.
	ErrNotConfigured = errors.New("stripe secret key is not configured")
)

// NoopProvider is a no-op payment provider for when payments are disabled.
type NoopProvider struct{}

// NewNoopProvider creates a new no-op payment provider.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

// Name returns the provider name.
func (p *NoopProvider) Name() string {
	return "none"
}

// Configured always reports false.
func (p *NoopProvider) Configured() bool {
	return false
}

// CreateCheckoutSession returns an error as payments are disabled.
func (p *NoopProvider) CreateCheckoutSession(ctx context.Context, req checkout.Request) (checkout.Session, error) {
	return checkout.Session{}, ErrPaymentsDisabled
}

var _ ports.PaymentProvider = (*NoopProvider)(nil)
