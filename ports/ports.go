// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"

	"github.com/growthlabpro/storefront/domain/cart"
	"github.com/growthlabpro/storefront/domain/checkout"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Cart Ports
// -----------------------------------------------------------------------------

// CartStore holds carts by browser session id.
// Stored carts are ephemeral: they expire and are never written to a database.
type CartStore interface {
	// Get returns the cart for a session. ok is false when none is stored.
	Get(ctx context.Context, sessionID string) (c cart.Cart, ok bool, err error)

	// Save stores the cart for a session, refreshing its expiry.
	Save(ctx context.Context, sessionID string, c cart.Cart) error

	// Delete drops the cart for a session.
	Delete(ctx context.Context, sessionID string) error
}

// -----------------------------------------------------------------------------
// Payment Provider Ports
// -----------------------------------------------------------------------------

// PaymentProvider interfaces with the payment processor.
type PaymentProvider interface {
	// Name returns the provider name (e.g., "stripe").
	Name() string

	// Configured reports whether the server-side secret credential is present.
	Configured() bool

	// CreateCheckoutSession opens a hosted checkout session.
	CreateCheckoutSession(ctx context.Context, req checkout.Request) (checkout.Session, error)
}

// SessionCreator asks the checkout session service for a session.
// Implementations report a failed call with a message suitable for the user.
type SessionCreator interface {
	CreateSession(ctx context.Context, req checkout.Request) (checkout.Session, error)
}

// BrowserCheckout is the processor's browser library as seen by the checkout flow.
type BrowserCheckout interface {
	// Loaded reports whether the library is available.
	Loaded() bool

	// RedirectToSession sends the browser to an existing session.
	RedirectToSession(ctx context.Context, publishableKey, sessionID string) error

	// RedirectToCheckout opens checkout directly from line items.
	RedirectToCheckout(ctx context.Context, publishableKey string, req checkout.Request) error
}

// -----------------------------------------------------------------------------
// Email Ports
// -----------------------------------------------------------------------------

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender sends emails.
type EmailSender interface {
	// Send sends an email.
	Send(ctx context.Context, msg EmailMessage) error
}
