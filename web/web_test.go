package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/growthlabpro/storefront/adapters/email"
	"github.com/growthlabpro/storefront/adapters/idgen"
	"github.com/growthlabpro/storefront/adapters/memory"
	"github.com/growthlabpro/storefront/app"
	"github.com/growthlabpro/storefront/domain/catalog"
	"github.com/growthlabpro/storefront/domain/checkout"
	"github.com/growthlabpro/storefront/web"
)

const testPublishableKey = "pk_test_storefront"

// stubProvider is a payment provider with a scripted answer.
type stubProvider struct {
	mu         sync.Mutex
	configured bool
	err        error
	calls      []checkout.Request
}

func (p *stubProvider) Name() string     { return "stub" }
func (p *stubProvider) Configured() bool { return p.configured }

func (p *stubProvider) CreateCheckoutSession(ctx context.Context, req checkout.Request) (checkout.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)
	if p.err != nil {
		return checkout.Session{}, p.err
	}
	return checkout.Session{ID: "cs_test_1"}, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type fixture struct {
	provider   *stubProvider
	mail       *email.MockSender
	checkout   *app.CheckoutService
	functions  *web.FunctionsHandler
	storefront *web.StorefrontHandler
	store      *memory.CartStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()

	f := &fixture{
		provider: &stubProvider{configured: true},
		mail:     email.NewMockSender(),
		store:    memory.NewCartStore(100, 0),
	}
	f.checkout = app.NewCheckoutService(f.provider, testPublishableKey, logger)
	contact := app.NewContactService(f.mail, "owner@growthlabpro.com", logger)
	f.functions = web.NewFunctionsHandler(f.checkout, contact, nil, logger)

	cat := catalog.Default()
	carts := app.NewCartService(f.store, idgen.NewSequential("sess-"), cat, logger)
	orch := app.NewOrchestrator(cat, catalog.DefaultNames(), f.checkout, testPublishableKey, logger)
	f.storefront = web.NewStorefrontHandler(carts, orch, cat, web.StorefrontConfig{
		SiteURL: "https://growthlabpro.com",
	}, nil, logger)
	return f
}

func do(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var errProcessor = errors.New("No such price: 'price_bad'")
