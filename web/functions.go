package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/growthlabpro/storefront/adapters/metrics"
	"github.com/growthlabpro/storefront/app"
	"github.com/growthlabpro/storefront/domain/contact"
	"github.com/growthlabpro/storefront/domain/fault"
)

// Function paths, relative to the functions mount point.
const (
	CheckoutSessionPath = "/create-checkout-session"
	ContactFormPath     = "/contact-form"
)

// Outcome labels for function metrics.
const (
	outcomeSuccess       = "success"
	outcomeInvalid       = "invalid"
	outcomeNotConfigured = "not_configured"
	outcomeError         = "error"
)

// SessionResponse is the checkout session function's success body.
type SessionResponse struct {
	SessionID      string `json:"sessionId" example:"cs_test_a1b2c3"`
	PublishableKey string `json:"publishableKey" example:"pk_test_123"`
}

// FunctionsHandler serves the checkout session and contact form functions.
// Both answer any origin and only accept POST.
type FunctionsHandler struct {
	checkout *app.CheckoutService
	contact  *app.ContactService
	metrics  *metrics.Collector
	logger   zerolog.Logger
}

// NewFunctionsHandler creates the functions handler. m may be nil.
func NewFunctionsHandler(
	checkout *app.CheckoutService,
	contact *app.ContactService,
	m *metrics.Collector,
	logger zerolog.Logger,
) *FunctionsHandler {
	return &FunctionsHandler{
		checkout: checkout,
		contact:  contact,
		metrics:  m,
		logger:   logger,
	}
}

// Routes returns the chi router for the functions.
// Every method is routed so the handlers can answer 405 themselves.
func (h *FunctionsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(corsHeaders)

	r.HandleFunc(CheckoutSessionPath, h.CreateCheckoutSession)
	r.HandleFunc(ContactFormPath, h.ContactForm)

	return r
}

// ServeHTTP implements http.Handler for use with http.Handle.
func (h *FunctionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Routes().ServeHTTP(w, r)
}

// corsHeaders sets the cross-origin headers on every response and answers preflights.
func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("Access-Control-Allow-Origin", "*")
		hdr.Set("Access-Control-Allow-Headers", "Content-Type")
		hdr.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		hdr.Set("Content-Type", "application/json")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateCheckoutSession opens a Stripe Checkout session.
//
//	@Summary		Create checkout session
//	@Description	Validates line items and return URLs and opens a hosted Stripe Checkout session
//	@Tags			Functions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object			true	"items|line_items, mode, successUrl|success_url, cancelUrl|cancel_url"
//	@Success		200		{object}	SessionResponse
//	@Failure		400		{object}	ErrorResponse	"Invalid request"
//	@Failure		405		{object}	ErrorResponse	"Method Not Allowed"
//	@Failure		500		{object}	ErrorResponse	"Missing secret or processor error"
//	@Router			/.netlify/functions/create-checkout-session [post]
func (h *FunctionsHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	// Nothing is read or sent before the secret is known to be present.
	if !h.checkout.Configured() {
		h.logger.Error().Msg("checkout session requested without a stripe secret key")
		h.observeSession(outcomeNotConfigured)
		writeError(w, http.StatusInternalServerError, app.MsgMissingSecret)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.observeSession(outcomeInvalid)
		writeError(w, http.StatusBadRequest, app.MsgInvalidBody)
		return
	}

	req, err := app.ParseSessionRequest(body)
	if err != nil {
		h.observeSession(outcomeInvalid)
		writeFault(w, err, app.MsgInvalidBody)
		return
	}

	sess, err := h.checkout.CreateSession(r.Context(), req)
	if err != nil {
		if fault.Is(err, fault.KindBadRequest) {
			h.observeSession(outcomeInvalid)
		} else {
			h.observeSession(outcomeError)
		}
		writeFault(w, err, app.MsgProcessorError)
		return
	}

	h.observeSession(outcomeSuccess)
	writeJSON(w, http.StatusOK, SessionResponse{
		SessionID:      sess.ID,
		PublishableKey: sess.PublishableKey,
	})
}

// ContactForm relays a contact form submission by email.
//
//	@Summary		Send contact message
//	@Description	Emails the submission to the site owner with Reply-To set to the submitter
//	@Tags			Functions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		contact.Submission	true	"Contact form fields"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	ErrorResponse	"Missing fields"
//	@Failure		405		{object}	ErrorResponse	"Method Not Allowed"
//	@Failure		500		{object}	ErrorResponse	"Failed to send message"
//	@Router			/.netlify/functions/contact-form [post]
func (h *FunctionsHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var sub contact.Submission
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&sub); err != nil {
		h.observeContact(outcomeInvalid)
		writeError(w, http.StatusBadRequest, app.MsgInvalidBody)
		return
	}

	if err := h.contact.Submit(r.Context(), sub); err != nil {
		if fault.Is(err, fault.KindBadRequest) {
			h.observeContact(outcomeInvalid)
		} else {
			h.observeContact(outcomeError)
		}
		writeFault(w, err, app.MsgSendFailed)
		return
	}

	h.observeContact(outcomeSuccess)
	writeJSON(w, http.StatusOK, MessageResponse{Message: app.MsgMessageSent})
}

func (h *FunctionsHandler) observeSession(outcome string) {
	if h.metrics != nil {
		h.metrics.CheckoutSessions.WithLabelValues(outcome).Inc()
	}
}

func (h *FunctionsHandler) observeContact(outcome string) {
	if h.metrics != nil {
		h.metrics.ContactMessages.WithLabelValues(outcome).Inc()
	}
}
