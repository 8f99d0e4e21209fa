package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/growthlabpro/storefront/adapters/browser"
	"github.com/growthlabpro/storefront/adapters/metrics"
	"github.com/growthlabpro/storefront/app"
	"github.com/growthlabpro/storefront/domain/cart"
	"github.com/growthlabpro/storefront/domain/catalog"
	"github.com/growthlabpro/storefront/domain/checkout"
	"github.com/growthlabpro/storefront/domain/fault"
)

// DefaultCartCookie names the cookie carrying the cart session id.
const DefaultCartCookie = "storefront_cart"

// StorefrontConfig holds the storefront API settings.
type StorefrontConfig struct {
	SiteURL      string        // origin used for return URLs when the page sends none
	CookieName   string        // default DefaultCartCookie
	CookieSecure bool
	CartTTL      time.Duration // cookie lifetime; zero makes a browser-session cookie
}

// CatalogEntry is one product as the pricing page shows it.
type CatalogEntry struct {
	Key                catalog.Key  `json:"key" example:"contractor-supreme"`
	Name               string       `json:"name" example:"Growth Pro"`
	Description        string       `json:"description"`
	Kind               catalog.Kind `json:"kind" example:"plan"`
	Mode               catalog.Mode `json:"mode" example:"subscription"`
	PriceID            string       `json:"priceId"`
	MonthlyPrice       int64        `json:"monthlyPrice" example:"750"`
	AnnualPrice        int64        `json:"annualPrice,omitempty" example:"6750"`
	AnnualMonthlyPrice int64        `json:"annualMonthlyPrice,omitempty" example:"563"`
	PriceLabel         string       `json:"priceLabel,omitempty"`
	Popular            bool         `json:"popular,omitempty"`
}

// AddItemRequest adds a catalog product to the cart.
type AddItemRequest struct {
	Key          catalog.Key       `json:"key" example:"contractor-essentials"`
	BillingCycle cart.BillingCycle `json:"billingCycle,omitempty" example:"annual"`
}

// CheckoutRequest starts a checkout from the page.
type CheckoutRequest struct {
	Origin       string `json:"origin,omitempty" example:"https://growthlabpro.com"`
	StripeLoaded *bool  `json:"stripeLoaded,omitempty"`
}

// CheckoutResponse carries either the redirect the page must perform or the alert text.
type CheckoutResponse struct {
	Redirect *browser.Directive `json:"redirect,omitempty"`
	Path     string             `json:"path,omitempty" example:"server"`
	Trace    []app.State        `json:"trace,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// StatusResponse reports how the processor sent the visitor back.
type StatusResponse struct {
	Status checkout.ReturnStatus `json:"status" example:"success"`
}

// StorefrontHandler serves the JSON API behind the pricing page and cart drawer.
type StorefrontHandler struct {
	carts        *app.CartService
	orchestrator *app.Orchestrator
	catalog      catalog.Catalog
	cfg          StorefrontConfig
	metrics      *metrics.Collector
	logger       zerolog.Logger
}

// NewStorefrontHandler creates the storefront API handler. m may be nil.
func NewStorefrontHandler(
	carts *app.CartService,
	orchestrator *app.Orchestrator,
	cat catalog.Catalog,
	cfg StorefrontConfig,
	m *metrics.Collector,
	logger zerolog.Logger,
) *StorefrontHandler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCartCookie
	}
	return &StorefrontHandler{
		carts:        carts,
		orchestrator: orchestrator,
		catalog:      cat,
		cfg:          cfg,
		metrics:      m,
		logger:       logger,
	}
}

// Routes returns the chi router for the storefront API.
// These routes are mounted at /api.
func (h *StorefrontHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/catalog", h.Catalog)

	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddItem)
	r.Delete("/cart/items/{id}", h.RemoveItem)
	r.Post("/cart/checkout", h.CheckoutCart)

	r.Get("/checkout/status", h.CheckoutStatus)
	r.Post("/checkout/{key}", h.CheckoutProduct)

	return r
}

// ServeHTTP implements http.Handler for use with http.Handle.
func (h *StorefrontHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Routes().ServeHTTP(w, r)
}

// Catalog lists the pricing page offerings.
//
//	@Summary		List catalog
//	@Description	Returns plans and add-ons in display order with prices and billing modes
//	@Tags			Storefront
//	@Produce		json
//	@Success		200	{array}	CatalogEntry
//	@Router			/api/catalog [get]
func (h *StorefrontHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	offerings := catalog.Offerings()
	out := make([]CatalogEntry, 0, len(offerings))
	for _, o := range offerings {
		p, ok := h.catalog.Get(o.Key)
		if !ok {
			continue
		}
		entry := CatalogEntry{
			Key:          o.Key,
			Name:         p.Name,
			Description:  p.Description,
			Kind:         o.Kind,
			Mode:         p.Mode,
			PriceID:      p.PriceID,
			MonthlyPrice: o.MonthlyPrice,
			PriceLabel:   o.PriceLabel,
			Popular:      o.Popular,
		}
		if o.Kind == catalog.KindPlan {
			entry.AnnualPrice = o.AnnualPrice
			entry.AnnualMonthlyPrice = catalog.MonthlyEquivalent(o.AnnualPrice)
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCart returns the visitor's cart.
//
//	@Summary		Get cart
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	app.CartSummary
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/cart [get]
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context(), h.sessionID(r))
	if err != nil {
		writeFault(w, err, "Failed to load cart")
		return
	}
	writeJSON(w, http.StatusOK, app.Summarize(c))
}

// AddItem adds a plan or add-on to the cart.
//
//	@Summary		Add cart item
//	@Description	A plan replaces any plan already in the cart; an add-on already present is ignored
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddItemRequest	true	"Product key and billing cycle"
//	@Success		200		{object}	app.CartSummary
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/cart/items [post]
func (h *StorefrontHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, app.MsgInvalidBody)
		return
	}

	sessionID := h.ensureSession(w, r)
	c, err := h.carts.AddOffering(r.Context(), sessionID, req.Key, req.BillingCycle)
	if err != nil {
		writeFault(w, err, "Failed to update cart")
		return
	}
	writeJSON(w, http.StatusOK, app.Summarize(c))
}

// RemoveItem drops an item from the cart.
//
//	@Summary		Remove cart item
//	@Tags			Cart
//	@Produce		json
//	@Param			id	path		string	true	"Cart item id"	example(addon-1)
//	@Success		200	{object}	app.CartSummary
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/cart/items/{id} [delete]
func (h *StorefrontHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(r)
	if sessionID == "" {
		writeJSON(w, http.StatusOK, app.Summarize(cart.New()))
		return
	}

	c, err := h.carts.Remove(r.Context(), sessionID, chi.URLParam(r, "id"))
	if err != nil {
		writeFault(w, err, "Failed to update cart")
		return
	}
	writeJSON(w, http.StatusOK, app.Summarize(c))
}

// CheckoutCart runs checkout for the whole cart.
//
//	@Summary		Check out cart
//	@Description	Tries a server-created session first and falls back to a browser-only checkout.
//	@Description	The response carries the Stripe.js redirect the page must perform. The cart is kept either way.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CheckoutRequest	false	"Page origin and Stripe.js state"
//	@Success		200		{object}	CheckoutResponse
//	@Failure		400		{object}	CheckoutResponse	"Empty cart"
//	@Failure		422		{object}	CheckoutResponse	"Browser cannot redirect"
//	@Failure		500		{object}	CheckoutResponse	"Checkout failed"
//	@Router			/api/cart/checkout [post]
func (h *StorefrontHandler) CheckoutCart(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCheckout(w, r)
	if !ok {
		return
	}

	c, err := h.carts.Get(r.Context(), h.sessionID(r))
	if err != nil {
		writeFault(w, err, "Failed to load cart")
		return
	}

	capture := browser.NewCapture(stripeLoaded(req))
	out := h.orchestrator.CheckoutCart(r.Context(), c, h.origin(r, req), capture)
	h.writeOutcome(w, out, capture)
}

// CheckoutProduct runs checkout for a single catalog product.
//
//	@Summary		Buy now
//	@Description	Checks out one product in its own billing mode without touching the cart
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string			true	"Catalog key"	example(video-marketing)
//	@Param			request	body		CheckoutRequest	false	"Page origin and Stripe.js state"
//	@Success		200		{object}	CheckoutResponse
//	@Failure		422		{object}	CheckoutResponse	"Browser cannot redirect"
//	@Failure		500		{object}	CheckoutResponse	"Checkout failed"
//	@Router			/api/checkout/{key} [post]
func (h *StorefrontHandler) CheckoutProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCheckout(w, r)
	if !ok {
		return
	}

	key := catalog.Key(chi.URLParam(r, "key"))
	capture := browser.NewCapture(stripeLoaded(req))
	out := h.orchestrator.CheckoutProduct(r.Context(), key, h.origin(r, req), capture)
	h.writeOutcome(w, out, capture)
}

// CheckoutStatus reads the flags Stripe appends to the return URL.
// A successful return empties the cart. The flag is not verified with Stripe.
//
//	@Summary		Checkout return status
//	@Tags			Checkout
//	@Produce		json
//	@Param			success		query		string	false	"true after a completed checkout"
//	@Param			canceled	query		string	false	"true after an abandoned checkout"
//	@Success		200			{object}	StatusResponse
//	@Router			/api/checkout/status [get]
func (h *StorefrontHandler) CheckoutStatus(w http.ResponseWriter, r *http.Request) {
	status := checkout.ParseReturn(r.URL.Query())
	if status == checkout.ReturnSuccess {
		if sessionID := h.sessionID(r); sessionID != "" {
			if err := h.carts.Clear(r.Context(), sessionID); err != nil {
				h.logger.Warn().Err(err).Msg("failed to clear cart after checkout")
			}
		}
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: status})
}

func (h *StorefrontHandler) decodeCheckout(w http.ResponseWriter, r *http.Request) (CheckoutRequest, bool) {
	var req CheckoutRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, app.MsgInvalidBody)
		return req, false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return req, true
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, app.MsgInvalidBody)
		return req, false
	}
	return req, true
}

func (h *StorefrontHandler) writeOutcome(w http.ResponseWriter, out app.Outcome, capture *browser.Capture) {
	if h.metrics != nil {
		path := out.Path
		if path == "" {
			path = "none"
		}
		h.metrics.CheckoutOutcomes.WithLabelValues(path, string(out.State)).Inc()
	}

	resp := CheckoutResponse{Path: out.Path, Trace: out.Trace}
	if !out.Redirected() {
		resp.Error = out.UserMessage()
		writeJSON(w, outcomeStatus(out.Err), resp)
		return
	}

	if d, ok := capture.Directive(); ok {
		resp.Redirect = &d
	}
	writeJSON(w, http.StatusOK, resp)
}

// outcomeStatus maps a failed checkout onto a status code.
// Browser-side problems are the page's to fix, so they are not server errors.
func outcomeStatus(err error) int {
	kind := fault.KindOf(err)
	if kind == fault.KindClientEnvironment {
		return http.StatusUnprocessableEntity
	}
	return fault.HTTPStatus(kind)
}

func stripeLoaded(req CheckoutRequest) bool {
	return req.StripeLoaded == nil || *req.StripeLoaded
}

// origin picks the return URL base: the page's own origin, then the
// configured site URL, then the request's scheme and host.
func (h *StorefrontHandler) origin(r *http.Request, req CheckoutRequest) string {
	if req.Origin != "" {
		return req.Origin
	}
	if h.cfg.SiteURL != "" {
		return h.cfg.SiteURL
	}
	if o := r.Header.Get("Origin"); o != "" {
		return o
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host
}

func (h *StorefrontHandler) sessionID(r *http.Request) string {
	c, err := r.Cookie(h.cfg.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// ensureSession returns the visitor's cart session id, issuing a cookie for a new one.
func (h *StorefrontHandler) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id := h.sessionID(r); id != "" {
		return id
	}
	id := h.carts.NewSessionID()
	cookie := &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cfg.CartTTL > 0 {
		cookie.MaxAge = int(h.cfg.CartTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	return id
}
