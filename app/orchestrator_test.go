package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/growthlabpro/storefront/domain/cart"
	"github.com/growthlabpro/storefront/domain/catalog"
	"github.com/growthlabpro/storefront/domain/checkout"
	"github.com/growthlabpro/storefront/domain/fault"
)

const testKey = "pk_test_51Abc"

func newTestOrchestrator(sessions *mockSessions, key string) *Orchestrator {
	return NewOrchestrator(catalog.Default(), catalog.DefaultNames(), sessions, key, zerolog.Nop())
}

func planCart() cart.Cart {
	return cart.New(
		cart.Item{ID: "plan-1", Name: "Growth Pro", Price: 750, Type: cart.TypePlan, BillingCycle: cart.CycleMonthly},
		cart.Item{ID: "addon-0", Name: "Custom Landing Pages", Price: 497, Type: cart.TypeAddon},
	)
}

func TestCheckoutCart_ServerPath(t *testing.T) {
	sessions := &mockSessions{session: checkout.Session{ID: "cs_test_1"}}
	browser := &mockBrowser{loaded: true}
	o := newTestOrchestrator(sessions, testKey)

	out := o.CheckoutCart(context.Background(), planCart(), "https://growthlabpro.com", browser)

	if !out.Redirected() || out.Path != PathServer {
		t.Fatalf("outcome = %+v", out)
	}
	wantTrace := []State{StateIdle, StateValidating, StateServerAttempt, StateRedirected}
	if !reflect.DeepEqual(out.Trace, wantTrace) {
		t.Errorf("trace = %v, want %v", out.Trace, wantTrace)
	}
	if browser.sessionID != "cs_test_1" || browser.key != testKey {
		t.Errorf("browser redirect = %s with %s", browser.sessionID, browser.key)
	}

	req := sessions.calls[0]
	if req.Mode != catalog.ModeSubscription {
		t.Errorf("mode = %s, want subscription", req.Mode)
	}
	if len(req.LineItems) != 2 || req.LineItems[0].PriceID != catalog.Default()[catalog.KeySupreme].PriceID {
		t.Errorf("line items = %+v", req.LineItems)
	}
	if req.SuccessURL != "https://growthlabpro.com?success=true" {
		t.Errorf("success url = %s", req.SuccessURL)
	}
}

func TestCheckoutCart_ServerPath_UsesSessionKeyWhenUnconfigured(t *testing.T) {
	sessions := &mockSessions{session: checkout.Session{ID: "cs_1", PublishableKey: "pk_live_fromserver"}}
	browser := &mockBrowser{loaded: true}

	out := newTestOrchestrator(sessions, "").CheckoutCart(context.Background(), planCart(), "https://x", browser)

	if !out.Redirected() {
		t.Fatalf("outcome = %+v", out)
	}
	if browser.key != "pk_live_fromserver" {
		t.Errorf("key = %s", browser.key)
	}
}

func TestCheckoutCart_EmptyCart(t *testing.T) {
	sessions := &mockSessions{}
	out := newTestOrchestrator(sessions, testKey).CheckoutCart(context.Background(), cart.New(), "https://x", &mockBrowser{loaded: true})

	if out.State != StateFailed {
		t.Fatalf("state = %s, want failed", out.State)
	}
	if out.UserMessage() != checkout.MsgEmptyCart {
		t.Errorf("message = %q", out.UserMessage())
	}
	if len(sessions.calls) != 0 {
		t.Error("no network call for an empty cart")
	}
	wantTrace := []State{StateIdle, StateValidating, StateFailed}
	if !reflect.DeepEqual(out.Trace, wantTrace) {
		t.Errorf("trace = %v, want %v", out.Trace, wantTrace)
	}
}

func TestCheckoutCart_UnknownName(t *testing.T) {
	sessions := &mockSessions{}
	c := cart.New(cart.Item{ID: "addon-9", Name: "Billboard", Type: cart.TypeAddon})

	out := newTestOrchestrator(sessions, testKey).CheckoutCart(context.Background(), c, "https://x", &mockBrowser{loaded: true})

	if !fault.Is(out.Err, fault.KindConfigurationNotFound) {
		t.Fatalf("err = %v", out.Err)
	}
	want := "Checkout error: Product configuration not found for: Billboard. Please try again or contact support."
	if out.UserMessage() != want {
		t.Errorf("message = %q, want %q", out.UserMessage(), want)
	}
	if len(sessions.calls) != 0 {
		t.Error("no network call for an unmapped item")
	}
}

func TestCheckoutCart_Fallback(t *testing.T) {
	sessions := &mockSessions{err: fault.New(fault.KindExternalService, "Missing STRIPE_SECRET_KEY")}
	browser := &mockBrowser{loaded: true}

	out := newTestOrchestrator(sessions, testKey).CheckoutCart(context.Background(), planCart(), "https://x", browser)

	if !out.Redirected() || out.Path != PathFallback {
		t.Fatalf("outcome = %+v", out)
	}
	wantTrace := []State{StateIdle, StateValidating, StateServerAttempt, StateClientFallback, StateRedirected}
	if !reflect.DeepEqual(out.Trace, wantTrace) {
		t.Errorf("trace = %v, want %v", out.Trace, wantTrace)
	}
	if browser.request == nil || !reflect.DeepEqual(*browser.request, sessions.calls[0]) {
		t.Error("fallback must reuse the server request")
	}
}

func TestCheckoutCart_FallbackFailures(t *testing.T) {
	serverErr := fault.New(fault.KindExternalService, "HTTP 502: Bad Gateway")

	tests := []struct {
		name    string
		key     string
		browser *mockBrowser
		want    string
	}{
		{
			name:    "placeholder key",
			key:     "pk_test_your_actual_key",
			browser: &mockBrowser{loaded: true},
			want:    "Checkout error: Stripe configuration error: HTTP 502: Bad Gateway. Please check your environment variables.. Please try again or contact support.",
		},
		{
			name:    "library not loaded",
			key:     testKey,
			browser: &mockBrowser{loaded: false},
			want:    "Checkout error: Stripe is not loaded. Please refresh the page and try again.. Please try again or contact support.",
		},
		{
			name:    "processor rejects",
			key:     testKey,
			browser: &mockBrowser{loaded: true, redirectErr: errors.New("Invalid price")},
			want:    "Checkout error: Invalid price. Please try again or contact support.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &mockSessions{err: serverErr}
			out := newTestOrchestrator(sessions, tt.key).CheckoutCart(context.Background(), planCart(), "https://x", tt.browser)

			if out.State != StateFailed {
				t.Fatalf("state = %s, want failed", out.State)
			}
			if out.UserMessage() != tt.want {
				t.Errorf("message = %q, want %q", out.UserMessage(), tt.want)
			}
			if len(sessions.calls) != 1 {
				t.Errorf("server calls = %d, want 1 (no retry)", len(sessions.calls))
			}
		})
	}
}

func TestCheckoutCart_ServerSuccessClientChecks(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		browser *mockBrowser
		want    string
	}{
		{"no key", "", &mockBrowser{loaded: true}, MsgPublishableKeyMissing},
		{"not loaded", testKey, &mockBrowser{loaded: false}, MsgStripeNotLoaded},
		{"redirect error", testKey, &mockBrowser{loaded: true, redirectErr: errors.New("session expired")}, "session expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &mockSessions{session: checkout.Session{ID: "cs_1"}}
			out := newTestOrchestrator(sessions, tt.key).CheckoutCart(context.Background(), planCart(), "https://x", tt.browser)

			if out.State != StateFailed {
				t.Fatalf("state = %s, want failed", out.State)
			}
			if out.Err.Error() != tt.want {
				t.Errorf("err = %q, want %q", out.Err.Error(), tt.want)
			}
			if out.Path != "" {
				t.Errorf("path = %q, want empty on failure", out.Path)
			}
		})
	}
}

func TestCheckoutCart_DoesNotMutateCart(t *testing.T) {
	c := planCart()
	before := c.Items()

	newTestOrchestrator(&mockSessions{err: errBoom}, "").CheckoutCart(context.Background(), c, "https://x", &mockBrowser{})

	if !reflect.DeepEqual(c.Items(), before) {
		t.Error("cart changed after a failed checkout")
	}
}

func TestCheckoutProduct(t *testing.T) {
	sessions := &mockSessions{session: checkout.Session{ID: "cs_video"}}
	browser := &mockBrowser{loaded: true}
	o := newTestOrchestrator(sessions, testKey)

	out := o.CheckoutProduct(context.Background(), catalog.KeyVideo, "https://x", browser)
	if !out.Redirected() {
		t.Fatalf("outcome = %+v", out)
	}
	if sessions.calls[0].Mode != catalog.ModePayment {
		t.Errorf("mode = %s, want payment", sessions.calls[0].Mode)
	}

	out = o.CheckoutProduct(context.Background(), "nope", "https://x", browser)
	if !fault.Is(out.Err, fault.KindConfigurationNotFound) {
		t.Errorf("err = %v, want configuration_not_found", out.Err)
	}
}

func TestOrchestrator_SetPublishableKey(t *testing.T) {
	sessions := &mockSessions{session: checkout.Session{ID: "cs_1"}}
	o := newTestOrchestrator(sessions, "")
	o.SetPublishableKey(testKey)

	browser := &mockBrowser{loaded: true}
	if out := o.CheckoutCart(context.Background(), planCart(), "https://x", browser); !out.Redirected() {
		t.Fatalf("outcome = %+v", out)
	}
	if browser.key != testKey {
		t.Errorf("key = %s", browser.key)
	}
}
