package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/growthlabpro/storefront/adapters/browser"
	"github.com/growthlabpro/storefront/adapters/remote"
	"github.com/growthlabpro/storefront/app"
	"github.com/growthlabpro/storefront/config"
	"github.com/growthlabpro/storefront/domain/cart"
	"github.com/growthlabpro/storefront/domain/catalog"
)

var (
	checkoutCycle    string
	checkoutOrigin   string
	checkoutBuyNow   bool
	checkoutNoStripe bool
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout KEY [KEY...]",
	Short: "Run a checkout against the session service",
	Long: `Build a cart from catalog keys and run the checkout flow against the
configured checkout session service (site.session_endpoint, or the site's
own function). The resulting browser redirect is printed as JSON.

Examples:
  storefront checkout contractor-supreme video-marketing --cycle annual
  storefront checkout landing-pages --buy-now
  storefront checkout social-media --no-stripe`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheckout,
}

func init() {
	rootCmd.AddCommand(checkoutCmd)

	checkoutCmd.Flags().StringVar(&checkoutCycle, "cycle", string(cart.CycleMonthly), "plan billing cycle: monthly or annual")
	checkoutCmd.Flags().StringVar(&checkoutOrigin, "origin", "", "site origin for return URLs (default: site.url)")
	checkoutCmd.Flags().BoolVar(&checkoutBuyNow, "buy-now", false, "check out a single product directly, skipping the cart")
	checkoutCmd.Flags().BoolVar(&checkoutNoStripe, "no-stripe", false, "simulate a page where the Stripe library failed to load")
}

type checkoutResult struct {
	State    app.State          `json:"state"`
	Path     string             `json:"path,omitempty"`
	Trace    []app.State        `json:"trace"`
	Redirect *browser.Directive `json:"redirect,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func runCheckout(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	sessions, err := newSessionClient(cfg)
	if err != nil {
		return err
	}

	origin := checkoutOrigin
	if origin == "" {
		origin = cfg.Site.URL
	}
	if origin == "" {
		return fmt.Errorf("an origin is required: set site.url or pass --origin")
	}

	logger := zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	orchestrator := app.NewOrchestrator(catalog.Default(), catalog.DefaultNames(), sessions, cfg.Stripe.PublishableKey, logger)
	capture := browser.NewCapture(!checkoutNoStripe)

	var out app.Outcome
	if checkoutBuyNow {
		if len(args) != 1 {
			return fmt.Errorf("--buy-now takes exactly one product key")
		}
		out = orchestrator.CheckoutProduct(cmd.Context(), catalog.Key(args[0]), origin, capture)
	} else {
		c, err := buildCart(args, cart.BillingCycle(checkoutCycle))
		if err != nil {
			return err
		}
		out = orchestrator.CheckoutCart(cmd.Context(), c, origin, capture)
	}

	res := checkoutResult{State: out.State, Path: out.Path, Trace: out.Trace}
	if d, ok := capture.Directive(); ok {
		res.Redirect = &d
	}
	if out.Err != nil {
		res.Error = out.UserMessage()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if !out.Redirected() {
		return fmt.Errorf("checkout failed")
	}
	return nil
}

// newSessionClient targets site.session_endpoint, or the site's own function.
func newSessionClient(cfg *config.Config) (*remote.SessionClient, error) {
	endpoint := cfg.Site.SessionEndpoint
	if endpoint == "" {
		if cfg.Site.URL == "" {
			return nil, fmt.Errorf("site.session_endpoint or site.url is required")
		}
		endpoint = strings.TrimRight(cfg.Site.URL, "/") + remote.SessionPath
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid session endpoint %q", endpoint)
	}

	client := remote.NewClient(remote.ClientConfig{
		BaseURL: u.Scheme + "://" + u.Host,
		Timeout: cfg.Site.SessionTimeout,
	})
	return remote.NewSessionClient(client, u.Path), nil
}

// buildCart adds each catalog key to a cart in order.
func buildCart(keys []string, cycle cart.BillingCycle) (cart.Cart, error) {
	cat := catalog.Default()
	var c cart.Cart
	for _, k := range keys {
		key := catalog.Key(k)
		o, ok := catalog.FindOffering(key)
		if !ok {
			return cart.Cart{}, fmt.Errorf("unknown product %q", k)
		}
		p, _ := cat.Get(key)
		item, err := cart.ItemFor(o, p, cycle)
		if err != nil {
			return cart.Cart{}, err
		}
		c = c.Add(item)
	}
	return c, nil
}
