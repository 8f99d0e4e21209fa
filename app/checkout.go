package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/growthlabpro/storefront/domain/catalog"
	"github.com/growthlabpro/storefront/domain/checkout"
	"github.com/growthlabpro/storefront/domain/fault"
	"github.com/growthlabpro/storefront/ports"
)

// Messages returned by the checkout session function.
const (
	MsgMissingSecret  = "Missing STRIPE_SECRET_KEY"
	MsgInvalidItems   = "Missing or invalid items"
	MsgMissingURLs    = "Missing successUrl or cancelUrl"
	MsgInvalidBody    = "Invalid JSON body"
	MsgProcessorError = "Server error"
)

// CheckoutService creates hosted checkout sessions.
// It implements ports.SessionCreator so the orchestrator can call it in-process.
type CheckoutService struct {
	mu             sync.RWMutex
	provider       ports.PaymentProvider
	publishableKey string

	logger zerolog.Logger

	// OnProcessorCall, if set, observes every processor call.
	OnProcessorCall func(d time.Duration, err error)
}

// NewCheckoutService creates a new checkout session service.
func NewCheckoutService(provider ports.PaymentProvider, publishableKey string, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		provider:       provider,
		publishableKey: publishableKey,
		logger:         logger,
	}
}

// SetProvider swaps the payment provider and publishable key (config reload).
func (s *CheckoutService) SetProvider(provider ports.PaymentProvider, publishableKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = provider
	s.publishableKey = publishableKey
}

func (s *CheckoutService) current() (ports.PaymentProvider, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider, s.publishableKey
}

// Configured reports whether the server-side secret is present.
func (s *CheckoutService) Configured() bool {
	p, _ := s.current()
	return p != nil && p.Configured()
}

// CreateSession validates req and opens a session with the processor.
// The secret is checked before anything else touches the processor.
func (s *CheckoutService) CreateSession(ctx context.Context, req checkout.Request) (checkout.Session, error) {
	provider, publishableKey := s.current()
	if provider == nil || !provider.Configured() {
		return checkout.Session{}, fault.New(fault.KindConfiguration, MsgMissingSecret)
	}
	if err := ValidateSessionRequest(req); err != nil {
		return checkout.Session{}, err
	}

	start := time.Now()
	sess, err := provider.CreateCheckoutSession(ctx, req)
	if s.OnProcessorCall != nil {
		s.OnProcessorCall(time.Since(start), err)
	}
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", provider.Name()).
			Str("mode", string(req.Mode)).
			Int("line_items", len(req.LineItems)).
			Msg("checkout session creation failed")
		msg := err.Error()
		if msg == "" {
			msg = MsgProcessorError
		}
		return checkout.Session{}, fault.Wrap(fault.KindExternalService, msg, err)
	}

	s.logger.Info().
		Str("session_id", sess.ID).
		Str("mode", string(req.Mode)).
		Int("line_items", len(req.LineItems)).
		Msg("checkout session created")

	sess.PublishableKey = publishableKey
	return sess, nil
}

// ValidateSessionRequest checks items, mode and return URLs.
// This is a PURE function.
func ValidateSessionRequest(req checkout.Request) error {
	if len(req.LineItems) == 0 {
		return fault.New(fault.KindBadRequest, MsgInvalidItems)
	}
	if req.SuccessURL == "" || req.CancelURL == "" {
		return fault.New(fault.KindBadRequest, MsgMissingURLs)
	}
	if !req.Mode.Valid() {
		return fault.New(fault.KindBadRequest, fmt.Sprintf("Invalid mode: %s", req.Mode))
	}
	for i, li := range req.LineItems {
		if li.Quantity < 1 {
			return fault.New(fault.KindBadRequest, fmt.Sprintf("Line item %d has an invalid quantity", i))
		}
	}
	return nil
}

// sessionPayload accepts both client naming conventions.
type sessionPayload struct {
	Items      json.RawMessage `json:"items"`
	LineItems  json.RawMessage `json:"line_items"`
	Mode       string          `json:"mode"`
	SuccessURL string          `json:"successUrl"`
	SuccessAlt string          `json:"success_url"`
	CancelURL  string          `json:"cancelUrl"`
	CancelAlt  string          `json:"cancel_url"`

	// Single-product form sent by the pricing page's buy-now button.
	PriceID    string `json:"priceId"`
	PriceIDAlt string `json:"price_id"`
}

type linePayload struct {
	Price      string              `json:"price"`
	PriceID    string              `json:"priceId"`
	PriceIDAlt string              `json:"price_id"`
	PriceData  *checkout.PriceData `json:"price_data"`
	Quantity   *int64              `json:"quantity"`
}

// ParseSessionRequest decodes a session function body into a checkout request.
// items wins over line_items, camelCase wins over snake_case, mode defaults to payment
// and a missing quantity is 1. Lines without a price id keep their price_data and
// are left for the processor to accept or reject.
func ParseSessionRequest(body []byte) (checkout.Request, error) {
	if len(body) == 0 {
		body = []byte("{}")
	}
	var p sessionPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return checkout.Request{}, fault.Wrap(fault.KindBadRequest, MsgInvalidBody, err)
	}

	req := checkout.Request{
		Mode:       catalog.Mode(firstNonEmpty(p.Mode, string(catalog.ModePayment))),
		SuccessURL: firstNonEmpty(p.SuccessURL, p.SuccessAlt),
		CancelURL:  firstNonEmpty(p.CancelURL, p.CancelAlt),
	}

	raw := p.Items
	if isAbsent(raw) {
		raw = p.LineItems
	}

	switch {
	case !isAbsent(raw):
		var lines []json.RawMessage
		if err := json.Unmarshal(raw, &lines); err != nil || len(lines) == 0 {
			return checkout.Request{}, fault.New(fault.KindBadRequest, MsgInvalidItems)
		}
		for i, line := range lines {
			var lp linePayload
			if err := json.Unmarshal(line, &lp); err != nil {
				return checkout.Request{}, fault.New(fault.KindBadRequest, fmt.Sprintf("Line item %d is not an object", i))
			}
			qty := int64(1)
			if lp.Quantity != nil {
				qty = *lp.Quantity
			}
			li := checkout.LineItem{
				PriceID:  firstNonEmpty(lp.Price, lp.PriceID, lp.PriceIDAlt),
				Quantity: qty,
			}
			if li.PriceID == "" {
				li.PriceData = lp.PriceData
			}
			req.LineItems = append(req.LineItems, li)
		}
	case firstNonEmpty(p.PriceID, p.PriceIDAlt) != "":
		req.LineItems = []checkout.LineItem{{PriceID: firstNonEmpty(p.PriceID, p.PriceIDAlt), Quantity: 1}}
	default:
		return checkout.Request{}, fault.New(fault.KindBadRequest, MsgInvalidItems)
	}

	if err := ValidateSessionRequest(req); err != nil {
		return checkout.Request{}, err
	}
	return req, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ ports.SessionCreator = (*CheckoutService)(nil)
