package bootstrap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/growthlabpro/storefront/bootstrap"
)

const baseConfig = `
server:
  host: 127.0.0.1
  port: 18080
site:
  url: https://growthlabpro.com
stripe:
  provider: dummy
  publishable_key: %s
email:
  provider: mock
  from: website@growthlabpro.com
contact:
  recipient: sales@growthlabpro.com
logging:
  level: error
`

// clearEnv blanks the variables that would override the file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"STRIPE_SECRET_KEY", "STRIPE_PUBLISHABLE_KEY", "VITE_STRIPE_PUBLISHABLE_KEY",
		"STOREFRONT_STRIPE_PUBLISHABLE_KEY", "STOREFRONT_STRIPE_PROVIDER", "STOREFRONT_EMAIL_PROVIDER",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_FROM", "CONTACT_EMAIL",
		"STOREFRONT_CART_STORE", "STOREFRONT_REDIS_URL", "STOREFRONT_SITE_URL",
		"STOREFRONT_LOG_LEVEL", "STOREFRONT_LOG_FORMAT", "STOREFRONT_SERVER_PORT",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, publishableKey, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	body := strings.Replace(baseConfig, "%s", publishableKey, 1) + extra
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func newApp(t *testing.T, extra string) (*bootstrap.App, string) {
	t.Helper()
	clearEnv(t)
	path := writeConfig(t, "pk_test_one", extra)
	a, err := bootstrap.New(bootstrap.Options{ConfigPath: path, Version: "1.2.3", Commit: "abc"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Shutdown() })
	return a, path
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_WiresComponents(t *testing.T) {
	a, _ := newApp(t, "")

	if a.HTTPServer == nil || a.Handler == nil {
		t.Fatal("http server not initialized")
	}
	if a.Metrics == nil {
		t.Error("metrics should be enabled by default")
	}
	if a.ACME != nil {
		t.Error("acme should be off without tls config")
	}
	if a.HTTPServer.Addr != "127.0.0.1:18080" {
		t.Errorf("Addr = %q", a.HTTPServer.Addr)
	}

	for _, path := range []string{"/health", "/health/live", "/health/ready", "/version", "/api/catalog", "/metrics"} {
		if rec := serve(t, a.Handler, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	if err := os.WriteFile(path, []byte("stripe:\n  provider: paypal\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := bootstrap.New(bootstrap.Options{ConfigPath: path}); err == nil {
		t.Fatal("expected error for unknown stripe provider")
	}
}

func TestApp_CheckoutSessionEndToEnd(t *testing.T) {
	a, _ := newApp(t, "")

	body := `{"lineItems":[{"price":"price_1S8puTH0LoMPsmTkSVintRX0","quantity":1}],"mode":"subscription",` +
		`"successUrl":"https://growthlabpro.com?success=true","cancelUrl":"https://growthlabpro.com?canceled=true"}`
	rec := serve(t, a.Handler, http.MethodPost, "/.netlify/functions/create-checkout-session", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got struct {
		SessionID      string `json:"sessionId"`
		PublishableKey string `json:"publishableKey"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(got.SessionID, "cs_dummy_") {
		t.Errorf("sessionId = %q", got.SessionID)
	}
	if got.PublishableKey != "pk_test_one" {
		t.Errorf("publishableKey = %q", got.PublishableKey)
	}
}

func TestApp_ContactFormEndToEnd(t *testing.T) {
	a, _ := newApp(t, "")

	rec := serve(t, a.Handler, http.MethodPost, "/contact-form",
		`{"name":"Dana","email":"dana@example.com","message":"Quote please"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Message sent successfully") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestApp_ReloadSwapsPublishableKey(t *testing.T) {
	a, path := newApp(t, "")

	if err := os.WriteFile(path, []byte(strings.Replace(baseConfig, "%s", "pk_test_two", 1)), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := a.Config.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	body := `{"priceId":"price_1S8py4H0LoMPsmTk9kc2bZt3","mode":"payment",` +
		`"successUrl":"https://growthlabpro.com?success=true","cancelUrl":"https://growthlabpro.com?canceled=true"}`
	rec := serve(t, a.Handler, http.MethodPost, "/create-checkout-session", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "pk_test_two") {
		t.Errorf("reload did not swap key: %s", rec.Body.String())
	}
}

func TestApp_RedisCartStore(t *testing.T) {
	mr := miniredis.RunT(t)

	a, _ := newApp(t, `
cart:
  store: redis
  redis:
    url: redis://`+mr.Addr()+`
`)

	rec := serve(t, a.Handler, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("ready = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, a.Handler, http.MethodPost, "/api/cart/items", `{"key":"video-marketing"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(mr.Keys()) != 1 {
		t.Errorf("redis keys = %v, want one cart", mr.Keys())
	}

	mr.Close()
	rec = serve(t, a.Handler, http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready after redis stop = %d", rec.Code)
	}
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	a, _ := newApp(t, "")
	a.HTTPServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
