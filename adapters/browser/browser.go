// Package browser implements the checkout flow's view of Stripe.js.
//
// The server cannot drive the visitor's browser, so the redirect is captured
// as a Directive and handed back in the HTTP response; the page performs it
// with the real library.
package browser

import (
	"context"
	"errors"
	"sync"

	"github.com/growthlabpro/storefront/domain/catalog"
	"github.com/growthlabpro/storefront/domain/checkout"
	"github.com/growthlabpro/storefront/ports"
)

// Directive types.
const (
	TypeSession  = "session"
	TypeCheckout = "checkout"
)

// ErrAlreadyRedirected is returned when a second redirect is requested.
var ErrAlreadyRedirected = errors.New("browser already redirected")

// Directive tells the page which Stripe.js redirect to perform.
type Directive struct {
	Type           string              `json:"type"`
	PublishableKey string              `json:"publishableKey"`
	SessionID      string              `json:"sessionId,omitempty"`
	LineItems      []checkout.LineItem `json:"lineItems,omitempty"`
	Mode           catalog.Mode        `json:"mode,omitempty"`
	SuccessURL     string              `json:"successUrl,omitempty"`
	CancelURL      string              `json:"cancelUrl,omitempty"`
}

// Capture records the redirect for one checkout attempt.
// Create one per request.
type Capture struct {
	loaded bool

	mu        sync.Mutex
	directive *Directive
}

// NewCapture creates a capture for a page that reported whether Stripe.js loaded.
func NewCapture(loaded bool) *Capture {
	return &Capture{loaded: loaded}
}

// Loaded reports whether the page has the library.
func (c *Capture) Loaded() bool {
	return c.loaded
}

// RedirectToSession records a redirect to an existing session.
func (c *Capture) RedirectToSession(ctx context.Context, publishableKey, sessionID string) error {
	return c.record(Directive{
		Type:           TypeSession,
		PublishableKey: publishableKey,
		SessionID:      sessionID,
	})
}

// RedirectToCheckout records a client-only checkout redirect.
func (c *Capture) RedirectToCheckout(ctx context.Context, publishableKey string, req checkout.Request) error {
	items := make([]checkout.LineItem, len(req.LineItems))
	copy(items, req.LineItems)
	return c.record(Directive{
		Type:           TypeCheckout,
		PublishableKey: publishableKey,
		LineItems:      items,
		Mode:           req.Mode,
		SuccessURL:     req.SuccessURL,
		CancelURL:      req.CancelURL,
	})
}

func (c *Capture) record(d Directive) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.directive != nil {
		return ErrAlreadyRedirected
	}
	c.directive = &d
	return nil
}

// Directive returns the recorded redirect, if any.
func (c *Capture) Directive() (Directive, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.directive == nil {
		return Directive{}, false
	}
	return *c.directive, true
}

var _ ports.BrowserCheckout = (*Capture)(nil)
