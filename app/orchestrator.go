package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/growthlabpro/storefront/domain/cart"
	"github.com/growthlabpro/storefront/domain/catalog"
	"github.com/growthlabpro/storefront/domain/checkout"
	"github.com/growthlabpro/storefront/domain/fault"
	"github.com/growthlabpro/storefront/ports"
)

// State is a step of a checkout attempt.
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateServerAttempt  State = "server_attempt"
	StateClientFallback State = "client_fallback"
	StateRedirected     State = "redirected"
	StateFailed         State = "failed"
)

// Redirect paths.
const (
	PathServer   = "server"
	PathFallback = "fallback"
)

// Browser-side failure messages.
const (
	MsgStripeNotLoaded       = "Stripe is not loaded. Please refresh the page and try again."
	MsgPublishableKeyMissing = "Stripe publishable key is not configured. Please add your real Stripe publishable key to the environment."
)

// Outcome is the result of one checkout attempt.
type Outcome struct {
	State State   // StateRedirected or StateFailed
	Path  string  // PathServer or PathFallback once a redirect was attempted
	Trace []State // every state visited, starting at StateIdle
	Err   error   // set when State is StateFailed
}

// Redirected reports whether the browser was sent to the processor.
func (o Outcome) Redirected() bool {
	return o.State == StateRedirected
}

// UserMessage is the alert text shown for a failed attempt.
func (o Outcome) UserMessage() string {
	if o.Err == nil {
		return ""
	}
	if fault.Is(o.Err, fault.KindEmptyCart) {
		return o.Err.Error()
	}
	return fmt.Sprintf("Checkout error: %s. Please try again or contact support.", o.Err.Error())
}

// Orchestrator turns a cart into a processor redirect: a server-created
// session first, a browser-only checkout if the server call fails.
// There are no retries; a failed attempt leaves the cart untouched.
type Orchestrator struct {
	catalog  catalog.Catalog
	names    catalog.NameTable
	sessions ports.SessionCreator
	logger   zerolog.Logger

	mu             sync.RWMutex
	publishableKey string
}

// NewOrchestrator creates a checkout orchestrator.
func NewOrchestrator(
	cat catalog.Catalog,
	names catalog.NameTable,
	sessions ports.SessionCreator,
	publishableKey string,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		catalog:        cat,
		names:          names,
		sessions:       sessions,
		publishableKey: publishableKey,
		logger:         logger,
	}
}

// SetPublishableKey replaces the browser key (config reload).
func (o *Orchestrator) SetPublishableKey(key string) {
	o.mu.Lock()
	o.publishableKey = key
	o.mu.Unlock()
}

func (o *Orchestrator) key() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.publishableKey
}

type attempt struct {
	trace []State
}

func (a *attempt) enter(s State) {
	a.trace = append(a.trace, s)
}

func (a *attempt) fail(err error) Outcome {
	a.enter(StateFailed)
	return Outcome{State: StateFailed, Trace: a.trace, Err: err}
}

// CheckoutCart checks out the whole cart.
func (o *Orchestrator) CheckoutCart(ctx context.Context, c cart.Cart, origin string, browser ports.BrowserCheckout) Outcome {
	a := &attempt{trace: []State{StateIdle}}
	a.enter(StateValidating)

	req, err := checkout.BuildRequest(c, o.catalog, o.names, origin)
	if err != nil {
		return o.finish(a.fail(err), c.Count())
	}
	return o.finish(o.run(ctx, a, req, browser), c.Count())
}

// CheckoutProduct checks out a single catalog product in its own billing mode.
func (o *Orchestrator) CheckoutProduct(ctx context.Context, key catalog.Key, origin string, browser ports.BrowserCheckout) Outcome {
	a := &attempt{trace: []State{StateIdle}}
	a.enter(StateValidating)

	p, ok := o.catalog.Get(key)
	if !ok {
		err := fault.New(fault.KindConfigurationNotFound, "Product configuration not found for: "+string(key))
		return o.finish(a.fail(err), 1)
	}
	return o.finish(o.run(ctx, a, checkout.BuildProductRequest(p, origin), browser), 1)
}

func (o *Orchestrator) run(ctx context.Context, a *attempt, req checkout.Request, browser ports.BrowserCheckout) Outcome {
	a.enter(StateServerAttempt)
	sess, err := o.sessions.CreateSession(ctx, req)
	if err != nil {
		o.logger.Warn().Err(err).Msg("checkout session service failed, trying browser checkout")
		return o.fallback(ctx, a, req, browser, err)
	}

	key := o.key()
	if key == "" {
		key = sess.PublishableKey
	}
	if !checkout.ValidPublishableKey(key) {
		return a.fail(fault.New(fault.KindClientEnvironment, MsgPublishableKeyMissing))
	}
	if !browser.Loaded() {
		return a.fail(fault.New(fault.KindClientEnvironment, MsgStripeNotLoaded))
	}
	if err := browser.RedirectToSession(ctx, key, sess.ID); err != nil {
		return a.fail(fault.Wrap(fault.KindExternalService, err.Error(), err))
	}

	a.enter(StateRedirected)
	return Outcome{State: StateRedirected, Path: PathServer, Trace: a.trace}
}

func (o *Orchestrator) fallback(ctx context.Context, a *attempt, req checkout.Request, browser ports.BrowserCheckout, serverErr error) Outcome {
	a.enter(StateClientFallback)

	key := o.key()
	if !checkout.ValidPublishableKey(key) {
		msg := fmt.Sprintf("Stripe configuration error: %s. Please check your environment variables.", serverErr.Error())
		return a.fail(fault.Wrap(fault.KindClientEnvironment, msg, serverErr))
	}
	if !browser.Loaded() {
		return a.fail(fault.Wrap(fault.KindClientEnvironment, MsgStripeNotLoaded, serverErr))
	}
	if err := browser.RedirectToCheckout(ctx, key, req); err != nil {
		return a.fail(fault.Wrap(fault.KindExternalService, err.Error(), err))
	}

	a.enter(StateRedirected)
	return Outcome{State: StateRedirected, Path: PathFallback, Trace: a.trace}
}

func (o *Orchestrator) finish(out Outcome, items int) Outcome {
	ev := o.logger.Info()
	if out.Err != nil {
		ev = o.logger.Warn().Err(out.Err).Str("kind", string(fault.KindOf(out.Err)))
	}
	ev.Str("state", string(out.State)).
		Str("path", out.Path).
		Int("items", items).
		Msg("checkout attempt finished")
	return out
}
