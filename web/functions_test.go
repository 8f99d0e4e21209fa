package web_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/growthlabpro/storefront/app"
	"github.com/growthlabpro/storefront/domain/fault"
	"github.com/growthlabpro/storefront/web"
)

const sessionPath = "/create-checkout-session"

func assertCORS(t *testing.T, h http.Header) {
	t.Helper()
	want := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Content-Type":                 "application/json",
	}
	for k, v := range want {
		if got := h.Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
}

func errorBody(t *testing.T, body string) string {
	t.Helper()
	var e web.ErrorResponse
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatalf("body %q is not an error response: %v", body, err)
	}
	return e.Error
}

func TestCreateCheckoutSession_Preflight(t *testing.T) {
	f := newFixture(t)

	rec := do(f.functions, http.MethodOptions, sessionPath, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
	assertCORS(t, rec.Header())
	if f.provider.callCount() != 0 {
		t.Error("preflight reached the provider")
	}
}

func TestCreateCheckoutSession_MethodNotAllowed(t *testing.T) {
	f := newFixture(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := do(f.functions, method, sessionPath, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s status = %d, want 405", method, rec.Code)
		}
		if got := errorBody(t, rec.Body.String()); got != "Method Not Allowed" {
			t.Errorf("%s error = %q", method, got)
		}
		assertCORS(t, rec.Header())
	}
}

func TestCreateCheckoutSession_MissingSecret(t *testing.T) {
	f := newFixture(t)
	f.provider.configured = false

	// The body is invalid too; the secret check comes first.
	rec := do(f.functions, http.MethodPost, sessionPath, "not json")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := errorBody(t, rec.Body.String()); got != app.MsgMissingSecret {
		t.Errorf("error = %q, want %q", got, app.MsgMissingSecret)
	}
	if f.provider.callCount() != 0 {
		t.Error("provider called without a secret")
	}
}

func TestCreateCheckoutSession_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"items":`, app.MsgInvalidBody},
		{"no items", `{"successUrl":"https://a","cancelUrl":"https://b"}`, app.MsgInvalidItems},
		{"empty items", `{"items":[],"successUrl":"https://a","cancelUrl":"https://b"}`, app.MsgInvalidItems},
		{"items not a list", `{"items":"price_1","successUrl":"https://a","cancelUrl":"https://b"}`, app.MsgInvalidItems},
		{"missing urls", `{"items":[{"price":"price_1","quantity":1}]}`, app.MsgMissingURLs},
		{"bad mode", `{"items":[{"price":"price_1"}],"mode":"setup","successUrl":"https://a","cancelUrl":"https://b"}`, "Invalid mode: setup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := do(f.functions, http.MethodPost, sessionPath, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if got := errorBody(t, rec.Body.String()); got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
			assertCORS(t, rec.Header())
			if f.provider.callCount() != 0 {
				t.Error("invalid request reached the provider")
			}
		})
	}
}

func TestCreateCheckoutSession_Success(t *testing.T) {
	f := newFixture(t)

	body := `{"line_items":[{"price":"price_1","quantity":2},{"priceId":"price_2"}],
		"mode":"subscription","success_url":"https://site?success=true","cancel_url":"https://site?canceled=true"}`
	rec := do(f.functions, http.MethodPost, sessionPath, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	assertCORS(t, rec.Header())

	var resp web.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID != "cs_test_1" || resp.PublishableKey != testPublishableKey {
		t.Errorf("response = %+v", resp)
	}

	req := f.provider.calls[0]
	if len(req.LineItems) != 2 || req.LineItems[0].Quantity != 2 || req.LineItems[1].Quantity != 1 {
		t.Errorf("line items = %+v", req.LineItems)
	}
	if req.LineItems[1].PriceID != "price_2" {
		t.Errorf("price alias not normalized: %+v", req.LineItems[1])
	}
	if req.Mode != "subscription" {
		t.Errorf("mode = %s", req.Mode)
	}
}

func TestCreateCheckoutSession_InlinePriceData(t *testing.T) {
	f := newFixture(t)

	body := `{"items":[{"price_data":{"currency":"usd","unit_amount":29700,"product_data":{"name":"Audit"}},"quantity":1}],
		"mode":"payment","successUrl":"https://a","cancelUrl":"https://b"}`
	rec := do(f.functions, http.MethodPost, sessionPath, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	li := f.provider.calls[0].LineItems[0]
	if li.PriceData == nil || li.PriceData.Currency != "usd" || li.PriceData.ProductData.Name != "Audit" {
		t.Errorf("price_data not forwarded: %+v", li)
	}
}

func TestCreateCheckoutSession_ProcessorError(t *testing.T) {
	f := newFixture(t)
	f.provider.err = errProcessor

	body := `{"items":[{"price":"price_bad","quantity":1}],"successUrl":"https://a","cancelUrl":"https://b"}`
	rec := do(f.functions, http.MethodPost, sessionPath, body)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := errorBody(t, rec.Body.String()); got != errProcessor.Error() {
		t.Errorf("error = %q, want processor message", got)
	}
}

func TestCreateCheckoutSession_ProviderSwap(t *testing.T) {
	f := newFixture(t)
	f.checkout.SetProvider(&stubProvider{configured: false}, "")

	rec := do(f.functions, http.MethodPost, sessionPath, `{}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 after swapping to an unconfigured provider", rec.Code)
	}
}

func TestContactForm(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		body      string
		failSend  bool
		wantCode  int
		wantError string
		wantSent  int
	}{
		{
			name:     "success",
			method:   http.MethodPost,
			body:     `{"name":"Dana","email":"dana@roofing.example","company":"Dana Roofing","message":"Need leads"}`,
			wantCode: http.StatusOK,
			wantSent: 1,
		},
		{
			name:      "missing fields",
			method:    http.MethodPost,
			body:      `{"name":"Dana","email":""}`,
			wantCode:  http.StatusBadRequest,
			wantError: "Name, email, and message are required",
		},
		{
			name:      "malformed json",
			method:    http.MethodPost,
			body:      `{`,
			wantCode:  http.StatusBadRequest,
			wantError: app.MsgInvalidBody,
		},
		{
			name:      "transport failure",
			method:    http.MethodPost,
			body:      `{"name":"Dana","email":"dana@roofing.example","message":"hi"}`,
			failSend:  true,
			wantCode:  http.StatusInternalServerError,
			wantError: app.MsgSendFailed,
		},
		{
			name:      "wrong method",
			method:    http.MethodGet,
			wantCode:  http.StatusMethodNotAllowed,
			wantError: "Method Not Allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.failSend {
				f.mail.SetShouldFail(true, fault.New(fault.KindExternalService, "dial tcp: connection refused"))
			}

			rec := do(f.functions, tt.method, web.ContactFormPath, tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			assertCORS(t, rec.Header())

			if tt.wantError != "" {
				if got := errorBody(t, rec.Body.String()); got != tt.wantError {
					t.Errorf("error = %q, want %q", got, tt.wantError)
				}
			} else if !strings.Contains(rec.Body.String(), app.MsgMessageSent) {
				t.Errorf("body = %s", rec.Body.String())
			}

			if f.mail.Count() != tt.wantSent {
				t.Errorf("sent = %d, want %d", f.mail.Count(), tt.wantSent)
			}
		})
	}
}

func TestContactForm_ReplyTo(t *testing.T) {
	f := newFixture(t)
	body := `{"name":"Dana","email":"dana@roofing.example","message":"hello"}`
	do(f.functions, http.MethodPost, web.ContactFormPath, body)

	msg, ok := f.mail.GetLastEmail()
	if !ok {
		t.Fatal("no email sent")
	}
	if msg.ReplyTo != "dana@roofing.example" || msg.To != "owner@growthlabpro.com" {
		t.Errorf("message = %+v", msg)
	}
	if msg.Subject != "New contact form submission from Dana" {
		t.Errorf("subject = %q", msg.Subject)
	}
}
