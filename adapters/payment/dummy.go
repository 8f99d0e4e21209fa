package payment

import (
	"context"
	"fmt"

	"github.com/growthlabpro/storefront/domain/checkout"
	"github.com/growthlabpro/storefront/ports"
	"github.com/google/uuid"
)

// DummyProvider is a test/demo payment provider that simulates successful sessions.
// Use this for development and demos when real payment credentials aren't available.
type DummyProvider struct{}

// NewDummyProvider creates a new dummy payment provider.
func NewDummyProvider() *DummyProvider {
	return &DummyProvider{}
}

// Name returns the provider name.
func (p *DummyProvider) Name() string {
	return "dummy"
}

// Configured always reports true.
func (p *DummyProvider) Configured() bool {
	return true
}

// CreateCheckoutSession returns a fake session whose URL is the success URL,
// so the whole return flow can be exercised without a real payment.
func (p *DummyProvider) CreateCheckoutSession(ctx context.Context, req checkout.Request) (checkout.Session, error) {
	if len(req.LineItems) == 0 {
		return checkout.Session{}, fmt.Errorf("no line items")
	}
	return checkout.Session{
		ID:  "cs_dummy_" + uuid.New().String(),
		URL: req.SuccessURL,
	}, nil
}

var _ ports.PaymentProvider = (*DummyProvider)(nil)
