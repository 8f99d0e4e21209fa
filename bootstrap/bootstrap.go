// Package bootstrap wires all dependencies and starts the application.
// Configuration comes from a YAML file when present, otherwise from the environment.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/growthlabpro/storefront/adapters/email"
	sfhttp "github.com/growthlabpro/storefront/adapters/http"
	"github.com/growthlabpro/storefront/adapters/idgen"
	"github.com/growthlabpro/storefront/adapters/memory"
	"github.com/growthlabpro/storefront/adapters/metrics"
	"github.com/growthlabpro/storefront/adapters/payment"
	"github.com/growthlabpro/storefront/adapters/redis"
	sftls "github.com/growthlabpro/storefront/adapters/tls"
	"github.com/growthlabpro/storefront/app"
	"github.com/growthlabpro/storefront/config"
	"github.com/growthlabpro/storefront/domain/catalog"
	"github.com/growthlabpro/storefront/ports"
	"github.com/growthlabpro/storefront/web"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

// Options controls application initialization.
type Options struct {
	ConfigPath string
	HotReload  bool // watch the config file and SIGHUP
	Version    string
	Commit     string
}

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Holder
	HTTPServer *http.Server
	Handler    http.Handler
	Metrics    *metrics.Collector
	ACME       *sftls.ACMEProvider

	// Services
	Checkout     *app.CheckoutService
	Contact      *app.ContactService
	Carts        *app.CartService
	Orchestrator *app.Orchestrator

	opts        Options
	redirect    *http.Server // ACME challenges and HTTP->HTTPS redirect
	redisStore  *redis.CartStore
	logLevel    string
	stopWatches func()
}

// New loads configuration and creates the application.
func New(opts Options) (*App, error) {
	holder, err := config.NewHolder(opts.ConfigPath, zerolog.Nop())
	if err != nil {
		return nil, err
	}
	return NewWithHolder(holder, opts)
}

// NewWithHolder creates the application from an existing config holder.
func NewWithHolder(holder *config.Holder, opts Options) (*App, error) {
	cfg := holder.Get()
	logger := setupLogger(cfg.Logging)
	holder.SetLogger(logger.With().Str("component", "config").Logger())

	logger.Info().
		Str("version", opts.Version).
		Str("config", holder.Path()).
		Msg("initializing storefront")

	a := &App{
		Logger:   logger,
		Config:   holder,
		opts:     opts,
		logLevel: cfg.Logging.Level,
	}

	cat := catalog.Default()
	names := catalog.DefaultNames()
	if err := catalog.Validate(cat, names); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	provider, err := newPaymentProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("init payment provider: %w", err)
	}
	if !provider.Configured() {
		logger.Warn().Msg("stripe secret key not set, checkout sessions will fail and the browser fallback will be used")
	}

	a.Checkout = app.NewCheckoutService(provider, cfg.Stripe.PublishableKey, logger.With().Str("component", "checkout").Logger())
	a.Contact = app.NewContactService(a.newEmailSender(cfg), cfg.Contact.Recipient, logger.With().Str("component", "contact").Logger())

	store, err := a.newCartStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("init cart store: %w", err)
	}
	a.Carts = app.NewCartService(store, idgen.UUID{}, cat, logger.With().Str("component", "cart").Logger())
	a.Orchestrator = app.NewOrchestrator(cat, names, a.Checkout, cfg.Stripe.PublishableKey, logger.With().Str("component", "orchestrator").Logger())

	a.wireMetrics()

	if err := a.initHTTPServer(cfg, cat); err != nil {
		a.closeStores()
		return nil, fmt.Errorf("init http server: %w", err)
	}

	holder.OnChange(a.applyConfig)
	holder.OnError(func(error) {
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
	})

	return a, nil
}

func newPaymentProvider(cfg *config.Config) (ports.PaymentProvider, error) {
	return payment.NewProvider(payment.Config{
		Provider:  cfg.Stripe.Provider,
		SecretKey: cfg.Stripe.SecretKey,
		APIURL:    cfg.Stripe.APIURL,
	})
}

func (a *App) newEmailSender(cfg *config.Config) ports.EmailSender {
	sender, err := email.NewSender(email.Config{
		Provider:    cfg.Email.Provider,
		Host:        cfg.Email.Host,
		Port:        cfg.Email.Port,
		Username:    cfg.Email.Username,
		Password:    cfg.Email.Password,
		From:        cfg.Email.From,
		FromName:    cfg.Email.FromName,
		UseTLS:      cfg.Email.UseTLS,
		UseImplicit: cfg.Email.UseImplicit,
		SkipVerify:  cfg.Email.SkipVerify,
		Timeout:     cfg.Email.Timeout,
	})
	if err != nil {
		a.Logger.Warn().Err(err).Msg("failed to create email sender, contact relay disabled")
		return email.NewNoopSender()
	}
	return sender
}

func (a *App) newCartStore(cfg *config.Config) (ports.CartStore, error) {
	if cfg.Cart.Store != "redis" {
		a.Logger.Info().
			Int("max_sessions", cfg.Cart.MaxSessions).
			Dur("ttl", cfg.Cart.TTL).
			Msg("using in-memory cart store")
		return memory.NewCartStore(cfg.Cart.MaxSessions, cfg.Cart.TTL), nil
	}

	store, err := redis.NewCartStore(context.Background(), redis.Config{
		URL:       cfg.Cart.Redis.URL,
		Password:  cfg.Cart.Redis.Password,
		DB:        cfg.Cart.Redis.DB,
		PoolSize:  cfg.Cart.Redis.PoolSize,
		KeyPrefix: cfg.Cart.Redis.KeyPrefix,
		TTL:       cfg.Cart.TTL,
	})
	if err != nil {
		return nil, err
	}
	a.redisStore = store
	a.Logger.Info().Str("prefix", cfg.Cart.Redis.KeyPrefix).Msg("using redis cart store")
	return store, nil
}

// wireMetrics connects service hooks to the collector.
func (a *App) wireMetrics() {
	m := a.Metrics
	if m == nil {
		return
	}
	a.Checkout.OnProcessorCall = func(d time.Duration, err error) {
		m.ProcessorDuration.Observe(d.Seconds())
	}
	a.Carts.OnOperation = func(op string) {
		m.CartOperations.WithLabelValues(op).Inc()
	}
}

func (a *App) initHTTPServer(cfg *config.Config, cat catalog.Catalog) error {
	functions := web.NewFunctionsHandler(a.Checkout, a.Contact, a.Metrics, a.Logger.With().Str("component", "functions").Logger())
	storefront := web.NewStorefrontHandler(a.Carts, a.Orchestrator, cat, web.StorefrontConfig{
		SiteURL:      cfg.Site.URL,
		CookieName:   cfg.Cart.CookieName,
		CookieSecure: cfg.Cart.CookieSecure || cfg.TLS.Enabled,
		CartTTL:      cfg.Cart.TTL,
	}, a.Metrics, a.Logger.With().Str("component", "storefront").Logger())

	checks := map[string]sfhttp.HealthChecker{}
	if a.redisStore != nil {
		checks["cart_store"] = a.redisStore
	}

	a.Handler = sfhttp.NewRouter(sfhttp.NewHealthHandler(checks), a.Logger, sfhttp.RouterConfig{
		Metrics:           a.Metrics,
		EnableMetrics:     cfg.Metrics.Enabled,
		EnableOpenAPI:     cfg.OpenAPI.Enabled,
		Version:           a.opts.Version,
		Commit:            a.opts.Commit,
		RequestTimeout:    cfg.Server.RequestTimeout,
		FunctionsHandler:  functions,
		StorefrontHandler: storefront,
	})

	a.HTTPServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      a.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if !cfg.TLS.Enabled {
		return nil
	}

	acme, err := sftls.NewACMEProvider(sftls.ACMEConfig{
		Email:    cfg.TLS.Email,
		Staging:  cfg.TLS.Staging,
		Domains:  cfg.TLS.Domains,
		CacheDir: cfg.TLS.CacheDir,
	}, a.Logger)
	if err != nil {
		return err
	}
	a.ACME = acme
	a.HTTPServer.TLSConfig = acme.TLSConfig()
	a.redirect = &http.Server{
		Addr:        net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.TLS.HTTPPort)),
		Handler:     acme.HTTPHandler(nil),
		ReadTimeout: cfg.Server.ReadTimeout,
	}
	return nil
}

// applyConfig swaps the reloadable parts after a config change.
func (a *App) applyConfig(cfg *config.Config) {
	provider, err := newPaymentProvider(cfg)
	if err != nil {
		a.Logger.Error().Err(err).Msg("reload: keeping previous payment provider")
	} else {
		a.Checkout.SetProvider(provider, cfg.Stripe.PublishableKey)
		a.Orchestrator.SetPublishableKey(cfg.Stripe.PublishableKey)
	}

	a.Contact.SetSender(a.newEmailSender(cfg), cfg.Contact.Recipient)

	if cfg.Logging.Level != a.logLevel {
		if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
			a.logLevel = cfg.Logging.Level
		}
	}

	if a.ACME != nil {
		a.ACME.UpdateDomains(cfg.TLS.Domains)
	}

	if a.Metrics != nil {
		a.Metrics.ConfigReloads.Inc()
		a.Metrics.ConfigLastReload.SetToCurrentTime()
	}
}

// Run starts the servers and blocks until ctx is done or a signal arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.opts.HotReload {
		a.startWatches()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Bool("tls", a.ACME != nil).
			Msg("starting http server")
		var err error
		if a.ACME != nil {
			err = a.HTTPServer.ListenAndServeTLS("", "")
		} else {
			err = a.HTTPServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if a.redirect != nil {
		g.Go(func() error {
			a.Logger.Info().Str("addr", a.redirect.Addr).Msg("starting acme challenge server")
			if err := a.redirect.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("acme challenge server error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info().Msg("shutting down")
		return a.Shutdown()
	})

	return g.Wait()
}

func (a *App) startWatches() {
	if a.Config.Path() != "" {
		if err := a.Config.WatchFile(); err != nil {
			a.Logger.Warn().Err(err).Msg("config file watch disabled")
		}
	}
	a.Config.WatchSignals()
	a.stopWatches = a.Config.Stop
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.stopWatches != nil {
		a.stopWatches()
	}

	var errs []error
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
			errs = append(errs, err)
		}
	}
	if a.redirect != nil {
		if err := a.redirect.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("acme challenge server shutdown error")
			errs = append(errs, err)
		}
	}

	a.closeStores()

	a.Logger.Info().Msg("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeStores() {
	if a.redisStore != nil {
		if err := a.redisStore.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("redis close error")
		}
		a.redisStore = nil
	}
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
