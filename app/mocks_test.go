package app

import (
	"context"
	"errors"
	"sync"

	"github.com/growthlabpro/storefront/domain/cart"
	"github.com/growthlabpro/storefront/domain/checkout"
	"github.com/growthlabpro/storefront/ports"
)

// Mock implementations for testing

type mockProvider struct {
	configured bool
	sessionID  string
	err        error

	mu    sync.Mutex
	calls []checkout.Request
}

func (m *mockProvider) Name() string { return "mock" }
func (m *mockProvider) Configured() bool { return m.configured }

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, req checkout.Request) (checkout.Session, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.err != nil {
		return checkout.Session{}, m.err
	}
	return checkout.Session{ID: m.sessionID}, nil
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockSessions struct {
	session checkout.Session
	err     error
	calls   []checkout.Request
}

func (m *mockSessions) CreateSession(ctx context.Context, req checkout.Request) (checkout.Session, error) {
	m.calls = append(m.calls, req)
	if m.err != nil {
		return checkout.Session{}, m.err
	}
	return m.session, nil
}

type mockBrowser struct {
	loaded      bool
	redirectErr error

	sessionID string
	request   *checkout.Request
	key       string
}

func (m *mockBrowser) Loaded() bool { return m.loaded }

func (m *mockBrowser) RedirectToSession(ctx context.Context, publishableKey, sessionID string) error {
	if m.redirectErr != nil {
		return m.redirectErr
	}
	m.key = publishableKey
	m.sessionID = sessionID
	return nil
}

func (m *mockBrowser) RedirectToCheckout(ctx context.Context, publishableKey string, req checkout.Request) error {
	if m.redirectErr != nil {
		return m.redirectErr
	}
	m.key = publishableKey
	m.request = &req
	return nil
}

type mockCartStore struct {
	mu     sync.Mutex
	carts  map[string]cart.Cart
	getErr error
	setErr error

	// saving, when set, is signaled by Save, which then waits for release.
	saving  chan struct{}
	release chan struct{}
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{carts: make(map[string]cart.Cart)}
}

func (m *mockCartStore) Get(ctx context.Context, sessionID string) (cart.Cart, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return cart.Cart{}, false, m.getErr
	}
	c, ok := m.carts[sessionID]
	return c, ok, nil
}

func (m *mockCartStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	if m.saving != nil {
		m.saving <- struct{}{}
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.carts[sessionID] = c
	return nil
}

func (m *mockCartStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

type mockSender struct {
	err  error
	sent []ports.EmailMessage
}

func (m *mockSender) Send(ctx context.Context, msg ports.EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

var errBoom = errors.New("boom")
