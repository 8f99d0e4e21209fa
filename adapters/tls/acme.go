// Package tls provides automatic HTTPS certificates via ACME (Let's Encrypt).
package tls

import (
	"context"
	cryptotls "crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/acme"
	"golang.org/x/crypto/acme/autocert"
)

const (
	// LetsEncrypt production directory
	letsEncryptProduction = "https://acme-v02.api.letsencrypt.org/directory"
	// LetsEncrypt staging directory (for testing)
	letsEncryptStaging = "https://acme-staging-v02.api.letsencrypt.org/directory"
)

// loggingRoundTripper logs ACME requests and responses.
type loggingRoundTripper struct {
	wrapped http.RoundTripper
	logger  zerolog.Logger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.wrapped.RoundTrip(req)
	if err != nil {
		l.logger.Error().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Dur("duration", time.Since(start)).
			Msg("acme request failed")
		return nil, err
	}
	l.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("acme request")
	return resp, nil
}

// ACMEConfig holds configuration for the ACME provider.
type ACMEConfig struct {
	Email    string
	Staging  bool     // Use staging server for testing
	Domains  []string // Domains to obtain certificates for
	CacheDir string   // Directory for account keys and certificates
}

// ACMEProvider obtains and renews certificates for the site's domains.
type ACMEProvider struct {
	manager *autocert.Manager
	staging bool
	logger  zerolog.Logger

	mu      sync.RWMutex
	domains map[string]bool
}

// NewACMEProvider creates a new ACME TLS provider.
func NewACMEProvider(cfg ACMEConfig, logger zerolog.Logger) (*ACMEProvider, error) {
	if len(cfg.Domains) == 0 {
		return nil, errors.New("acme: at least one domain is required")
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "certs"
	}

	p := &ACMEProvider{
		staging: cfg.Staging,
		logger:  logger.With().Str("component", "acme").Logger(),
	}
	p.UpdateDomains(cfg.Domains)

	p.manager = &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(cfg.CacheDir),
		HostPolicy: p.hostPolicy,
		Email:      cfg.Email,
		Client: &acme.Client{
			DirectoryURL: p.directoryURL(),
			HTTPClient: &http.Client{
				Timeout:   30 * time.Second,
				Transport: &loggingRoundTripper{wrapped: http.DefaultTransport, logger: p.logger},
			},
		},
	}

	p.logger.Info().
		Strs("domains", cfg.Domains).
		Bool("staging", cfg.Staging).
		Str("cache_dir", cfg.CacheDir).
		Msg("acme provider initialized")

	return p, nil
}

// Name returns the provider name.
func (p *ACMEProvider) Name() string {
	return "acme"
}

func (p *ACMEProvider) directoryURL() string {
	if p.staging {
		return letsEncryptStaging
	}
	return letsEncryptProduction
}

// hostPolicy only allows configured domains.
func (p *ACMEProvider) hostPolicy(ctx context.Context, host string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.domains[strings.ToLower(host)] {
		return nil
	}
	return fmt.Errorf("acme: host %q not configured", host)
}

// UpdateDomains replaces the allowed domain set.
func (p *ACMEProvider) UpdateDomains(domains []string) {
	set := make(map[string]bool, len(domains))
	for _, d := range domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			set[d] = true
		}
	}
	p.mu.Lock()
	p.domains = set
	p.mu.Unlock()
}

// TLSConfig returns a server TLS config that fetches certificates on demand.
func (p *ACMEProvider) TLSConfig() *cryptotls.Config {
	cfg := p.manager.TLSConfig()
	cfg.MinVersion = cryptotls.VersionTLS12
	return cfg
}

// HTTPHandler answers HTTP-01 challenges and passes everything else to fallback.
// A nil fallback redirects to HTTPS.
func (p *ACMEProvider) HTTPHandler(fallback http.Handler) http.Handler {
	return p.manager.HTTPHandler(fallback)
}
