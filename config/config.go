// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when none is given.
const DefaultPath = "storefront.yaml"

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Site    SiteConfig    `yaml:"site"`
	Stripe  StripeConfig  `yaml:"stripe"`
	Email   EmailConfig   `yaml:"email"`
	Contact ContactConfig `yaml:"contact"`
	Cart    CartConfig    `yaml:"cart"`
	TLS     TLSConfig     `yaml:"tls"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	OpenAPI OpenAPIConfig `yaml:"openapi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// SiteConfig describes the public site.
type SiteConfig struct {
	URL string `yaml:"url"` // origin for checkout return URLs when the page sends none

	// SessionEndpoint is the checkout session function the CLI calls.
	SessionEndpoint string        `yaml:"session_endpoint"`
	SessionTimeout  time.Duration `yaml:"session_timeout"`
}

// StripeConfig configures the payment processor.
type StripeConfig struct {
	Provider       string `yaml:"provider"` // "stripe", "dummy", "none"
	SecretKey      string `yaml:"secret_key,omitempty"`
	PublishableKey string `yaml:"publishable_key,omitempty"`
	APIURL         string `yaml:"api_url,omitempty"` // override for tests and proxies
}

// EmailConfig configures the contact relay's mail transport.
type EmailConfig struct {
	Provider    string        `yaml:"provider"` // "smtp", "mock", "none"
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password,omitempty"`
	From        string        `yaml:"from"`
	FromName    string        `yaml:"from_name"`
	UseTLS      bool          `yaml:"use_tls"`      // STARTTLS
	UseImplicit bool          `yaml:"use_implicit"` // implicit TLS, usually port 465
	SkipVerify  bool          `yaml:"skip_verify"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ContactConfig configures the contact relay.
type ContactConfig struct {
	Recipient string `yaml:"recipient"`
}

// CartConfig configures cart session storage.
type CartConfig struct {
	Store        string        `yaml:"store"` // "memory" or "redis"
	MaxSessions  int           `yaml:"max_sessions"`
	TTL          time.Duration `yaml:"ttl"`
	CookieName   string        `yaml:"cookie_name"`
	CookieSecure bool          `yaml:"cookie_secure"`
	Redis        RedisConfig   `yaml:"redis,omitempty"`
}

// RedisConfig configures the redis cart store.
type RedisConfig struct {
	URL       string `yaml:"url"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db"`
	PoolSize  int    `yaml:"pool_size"`
	KeyPrefix string `yaml:"key_prefix"`
}

// TLSConfig configures automatic HTTPS via ACME.
type TLSConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Domains  []string `yaml:"domains"`
	Email    string   `yaml:"email"`
	CacheDir string   `yaml:"cache_dir"`
	Staging  bool     `yaml:"staging"`
	HTTPPort int      `yaml:"http_port"` // ACME challenges and HTTP->HTTPS redirect
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // Enable /metrics endpoint
}

// OpenAPIConfig configures OpenAPI/Swagger documentation.
type OpenAPIConfig struct {
	Enabled bool `yaml:"enabled"` // Enable OpenAPI endpoints
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	cfg := defaultToggles()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(&cfg)

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
// This matches the serverless deployment, where only the environment is available.
//
// Environment variables:
//
//	STRIPE_SECRET_KEY              - Stripe secret key (server-side sessions)
//	VITE_STRIPE_PUBLISHABLE_KEY    - Stripe publishable key (checked first)
//	STRIPE_PUBLISHABLE_KEY         - Stripe publishable key (fallback)
//	STOREFRONT_SERVER_HOST         - Server host (default: 0.0.0.0)
//	STOREFRONT_SERVER_PORT         - Server port (default: 8080)
//	STOREFRONT_SITE_URL            - Public site origin
//	STOREFRONT_STRIPE_PROVIDER     - stripe, dummy or none (default: stripe)
//	STOREFRONT_EMAIL_PROVIDER      - smtp, mock or none (default: none)
//	SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, SMTP_FROM
//	CONTACT_EMAIL                  - Contact form recipient
//	STOREFRONT_CART_STORE          - memory or redis (default: memory)
//	STOREFRONT_REDIS_URL           - Redis URL for the redis cart store
//	STOREFRONT_LOG_LEVEL           - Log level: debug, info, warn, error (default: info)
//	STOREFRONT_LOG_FORMAT          - Log format: json or console (default: json)
//	STOREFRONT_METRICS_ENABLED     - Enable /metrics endpoint (default: true)
//	STOREFRONT_OPENAPI_ENABLED     - Enable OpenAPI/Swagger (default: true)
func LoadFromEnv() (*Config, error) {
	cfg := defaultToggles()

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback loads from file when it exists, otherwise from the environment.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// defaultToggles returns a config whose boolean features default to on
// before the file and environment are applied.
func defaultToggles() Config {
	return Config{
		Metrics: MetricsConfig{Enabled: true},
		OpenAPI: OpenAPIConfig{Enabled: true},
	}
}

// applyEnvOverrides applies STOREFRONT_* and the site's original variable names.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Server configuration
	if v := os.Getenv("STOREFRONT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("STOREFRONT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("STOREFRONT_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("STOREFRONT_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Site configuration
	if v := os.Getenv("STOREFRONT_SITE_URL"); v != "" {
		cfg.Site.URL = v
	}
	if v := os.Getenv("STOREFRONT_SESSION_ENDPOINT"); v != "" {
		cfg.Site.SessionEndpoint = v
	}

	// Stripe configuration
	if v := os.Getenv("STOREFRONT_STRIPE_PROVIDER"); v != "" {
		cfg.Stripe.Provider = v
	}
	if v := firstEnv("STOREFRONT_STRIPE_SECRET_KEY", "STRIPE_SECRET_KEY"); v != "" {
		cfg.Stripe.SecretKey = v
	}
	if v := firstEnv("STOREFRONT_STRIPE_PUBLISHABLE_KEY", "VITE_STRIPE_PUBLISHABLE_KEY", "STRIPE_PUBLISHABLE_KEY"); v != "" {
		cfg.Stripe.PublishableKey = v
	}
	if v := os.Getenv("STOREFRONT_STRIPE_API_URL"); v != "" {
		cfg.Stripe.APIURL = v
	}

	// Email configuration
	if v := os.Getenv("STOREFRONT_EMAIL_PROVIDER"); v != "" {
		cfg.Email.Provider = v
	}
	if v := firstEnv("STOREFRONT_EMAIL_HOST", "SMTP_HOST"); v != "" {
		cfg.Email.Host = v
	}
	if v := firstEnv("STOREFRONT_EMAIL_PORT", "SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Email.Port = port
		}
	}
	if v := firstEnv("STOREFRONT_EMAIL_USERNAME", "SMTP_USER"); v != "" {
		cfg.Email.Username = v
	}
	if v := firstEnv("STOREFRONT_EMAIL_PASSWORD", "SMTP_PASS"); v != "" {
		cfg.Email.Password = v
	}
	if v := firstEnv("STOREFRONT_EMAIL_FROM", "SMTP_FROM"); v != "" {
		cfg.Email.From = v
	}
	if v := os.Getenv("STOREFRONT_EMAIL_USE_TLS"); v != "" {
		cfg.Email.UseTLS = parseBool(v)
	}
	if v := os.Getenv("STOREFRONT_EMAIL_USE_IMPLICIT"); v != "" {
		cfg.Email.UseImplicit = parseBool(v)
	}
	if v := firstEnv("STOREFRONT_CONTACT_RECIPIENT", "CONTACT_EMAIL"); v != "" {
		cfg.Contact.Recipient = v
	}

	// Cart configuration
	if v := os.Getenv("STOREFRONT_CART_STORE"); v != "" {
		cfg.Cart.Store = v
	}
	if v := os.Getenv("STOREFRONT_CART_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cart.TTL = d
		}
	}
	if v := os.Getenv("STOREFRONT_CART_COOKIE_SECURE"); v != "" {
		cfg.Cart.CookieSecure = parseBool(v)
	}
	if v := os.Getenv("STOREFRONT_REDIS_URL"); v != "" {
		cfg.Cart.Redis.URL = v
	}
	if v := os.Getenv("STOREFRONT_REDIS_PASSWORD"); v != "" {
		cfg.Cart.Redis.Password = v
	}

	// TLS configuration
	if v := os.Getenv("STOREFRONT_TLS_ENABLED"); v != "" {
		cfg.TLS.Enabled = parseBool(v)
	}
	if v := os.Getenv("STOREFRONT_TLS_DOMAINS"); v != "" {
		cfg.TLS.Domains = splitList(v)
	}
	if v := os.Getenv("STOREFRONT_TLS_EMAIL"); v != "" {
		cfg.TLS.Email = v
	}

	// Logging configuration
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("STOREFRONT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("STOREFRONT_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}

	// OpenAPI configuration
	if v := os.Getenv("STOREFRONT_OPENAPI_ENABLED"); v != "" {
		cfg.OpenAPI.Enabled = parseBool(v)
	}
}

// firstEnv returns the first non-empty variable among names.
func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}

	if cfg.Site.SessionTimeout == 0 {
		cfg.Site.SessionTimeout = 10 * time.Second
	}

	if cfg.Stripe.Provider == "" {
		cfg.Stripe.Provider = "stripe"
	}

	if cfg.Email.Provider == "" {
		cfg.Email.Provider = "none"
	}
	if cfg.Email.Port == 0 {
		cfg.Email.Port = 587
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "GrowthLabPro Website"
	}
	if cfg.Email.Timeout == 0 {
		cfg.Email.Timeout = 30 * time.Second
	}
	if cfg.Contact.Recipient == "" {
		cfg.Contact.Recipient = cfg.Email.From
	}

	if cfg.Cart.Store == "" {
		cfg.Cart.Store = "memory"
	}
	if cfg.Cart.MaxSessions == 0 {
		cfg.Cart.MaxSessions = 10000
	}
	if cfg.Cart.TTL == 0 {
		cfg.Cart.TTL = 24 * time.Hour
	}
	if cfg.Cart.CookieName == "" {
		cfg.Cart.CookieName = "storefront_cart"
	}
	if cfg.Cart.Redis.KeyPrefix == "" {
		cfg.Cart.Redis.KeyPrefix = "storefront:cart:"
	}

	if cfg.TLS.CacheDir == "" {
		cfg.TLS.CacheDir = "certs"
	}
	if cfg.TLS.HTTPPort == 0 {
		cfg.TLS.HTTPPort = 80
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", cfg.Server.Port)
	}

	if cfg.Site.URL != "" {
		if err := validateOrigin(cfg.Site.URL); err != nil {
			return fmt.Errorf("site.url: %w", err)
		}
	}

	validStripe := map[string]bool{"stripe": true, "dummy": true, "test": true, "none": true}
	if !validStripe[cfg.Stripe.Provider] {
		return fmt.Errorf("stripe.provider must be one of: stripe, dummy, none, got %q", cfg.Stripe.Provider)
	}

	validEmail := map[string]bool{"smtp": true, "mock": true, "none": true}
	if !validEmail[cfg.Email.Provider] {
		return fmt.Errorf("email.provider must be one of: smtp, mock, none, got %q", cfg.Email.Provider)
	}
	if cfg.Email.Provider == "smtp" {
		if cfg.Email.Host == "" {
			return fmt.Errorf("email.host is required when email.provider is 'smtp'")
		}
		if cfg.Email.From == "" {
			return fmt.Errorf("email.from is required when email.provider is 'smtp'")
		}
		if cfg.Email.UseTLS && cfg.Email.UseImplicit {
			return fmt.Errorf("email.use_tls and email.use_implicit are mutually exclusive")
		}
	}
	if cfg.Email.Provider != "none" && cfg.Contact.Recipient == "" {
		return fmt.Errorf("contact.recipient is required when email is enabled")
	}

	switch cfg.Cart.Store {
	case "memory":
	case "redis":
		if cfg.Cart.Redis.URL == "" {
			return fmt.Errorf("cart.redis.url is required when cart.store is 'redis'")
		}
	default:
		return fmt.Errorf("cart.store must be 'memory' or 'redis', got %q", cfg.Cart.Store)
	}

	if cfg.TLS.Enabled && len(cfg.TLS.Domains) == 0 {
		return fmt.Errorf("tls.domains is required when tls.enabled is true")
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	return nil
}

func validateOrigin(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
