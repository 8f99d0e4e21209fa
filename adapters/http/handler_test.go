package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	sfhttp "github.com/growthlabpro/storefront/adapters/http"
	"github.com/growthlabpro/storefront/adapters/metrics"
)

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func newRouter(t *testing.T, cfg sfhttp.RouterConfig, checks map[string]sfhttp.HealthChecker) http.Handler {
	t.Helper()
	return sfhttp.NewRouter(sfhttp.NewHealthHandler(checks), zerolog.Nop(), cfg)
}

func TestHealth_Liveness(t *testing.T) {
	r := newRouter(t, sfhttp.RouterConfig{}, nil)

	for _, path := range []string{"/health", "/health/live"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"ok"`) {
			t.Errorf("%s body = %s", path, rec.Body.String())
		}
	}
}

func TestHealth_Readiness(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]sfhttp.HealthChecker
		want   int
	}{
		{"no checks", nil, http.StatusOK},
		{"healthy store", map[string]sfhttp.HealthChecker{"cart_store": pinger{}}, http.StatusOK},
		{"store down", map[string]sfhttp.HealthChecker{"cart_store": pinger{err: errors.New("connection refused")}}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(t, sfhttp.RouterConfig{}, tt.checks)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	r := newRouter(t, sfhttp.RouterConfig{Version: "1.2.3", Commit: "abc"}, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var got sfhttp.VersionResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Version != "1.2.3" || got.Commit != "abc" || got.Service != "storefront" {
		t.Errorf("version = %+v", got)
	}
}

func TestVersion_DefaultsToDev(t *testing.T) {
	rec := httptest.NewRecorder()
	sfhttp.Version("", "")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	if !strings.Contains(rec.Body.String(), `"dev"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRouter_MountsFunctionsAtBothPaths(t *testing.T) {
	var paths []string
	fn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusTeapot)
	})
	r := newRouter(t, sfhttp.RouterConfig{FunctionsHandler: fn}, nil)

	for _, path := range []string{
		"/.netlify/functions/create-checkout-session",
		"/create-checkout-session",
		"/contact-form",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusTeapot {
			t.Errorf("%s status = %d, want functions handler", path, rec.Code)
		}
	}
	if len(paths) != 3 {
		t.Errorf("functions handler called %d times, want 3", len(paths))
	}
}

func TestRouter_MountsStorefrontAPI(t *testing.T) {
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	r := newRouter(t, sfhttp.RouterConfig{StorefrontHandler: api}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want storefront handler", rec.Code)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	r := newRouter(t, sfhttp.RouterConfig{Metrics: m}, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("metrics disabled: status = %d, want 404", rec.Code)
	}

	r = newRouter(t, sfhttp.RouterConfig{Metrics: m, EnableMetrics: true}, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("metrics enabled: status = %d, want 200", rec.Code)
	}
}

func TestRouter_OpenAPI(t *testing.T) {
	r := newRouter(t, sfhttp.RouterConfig{EnableOpenAPI: true}, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/.well-known/openapi.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("openapi document is not JSON: %v", err)
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/.netlify/functions/create-checkout-session"]; !ok {
		t.Error("openapi document missing checkout session function")
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	h := sfhttp.NewMetricsMiddleware(m)(ok)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/cart/items", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/api/cart/items", "4xx")); got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.RequestsTotal); got != 1 {
		t.Errorf("series = %d, want health checks excluded", got)
	}
	if got := testutil.ToFloat64(m.RequestsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}
