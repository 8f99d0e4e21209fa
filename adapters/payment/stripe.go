// Package payment provides payment provider adapters.
package payment

import (
	"context"
	"errors"

	"github.com/growthlabpro/storefront/domain/checkout"
	"github.com/growthlabpro/storefront/domain/fault"
	"github.com/growthlabpro/storefront/ports"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeConfig holds Stripe configuration.
type StripeConfig struct {
	SecretKey string

	// APIURL overrides the Stripe API base URL (stripe-mock, tests).
	APIURL string
}

// StripeProvider implements ports.PaymentProvider for Stripe.
type StripeProvider struct {
	config StripeConfig
	api    *client.API
}

// NewStripeProvider creates a new Stripe payment provider.
// A provider without a secret key is returned unconfigured rather than failing,
// so requests can report the missing credential.
func NewStripeProvider(config StripeConfig) *StripeProvider {
	p := &StripeProvider{config: config}
	if config.SecretKey == "" {
		return p
	}

	var noRetries int64
	backendCfg := &stripe.BackendConfig{MaxNetworkRetries: &noRetries}
	if config.APIURL != "" {
		backendCfg.URL = stripe.String(config.APIURL)
	}

	p.api = &client.API{}
	p.api.Init(config.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	})
	return p
}

// Name returns the provider name.
func (p *StripeProvider) Name() string {
	return "stripe"
}

// Configured reports whether a secret key is present.
func (p *StripeProvider) Configured() bool {
	return p.api != nil
}

// CreateCheckoutSession creates a Stripe Checkout session.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req checkout.Request) (checkout.Session, error) {
	if p.api == nil {
		return checkout.Session{}, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(req.Mode)),
		SuccessURL:               stripe.String(req.SuccessURL),
		CancelURL:                stripe.String(req.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
		AllowPromotionCodes:      stripe.Bool(true),
	}
	params.Context = ctx
	for _, li := range req.LineItems {
		item := &stripe.CheckoutSessionLineItemParams{
			Quantity:  stripe.Int64(li.Quantity),
			PriceData: priceDataParams(li.PriceData),
		}
		if li.PriceID != "" {
			item.Price = stripe.String(li.PriceID)
		}
		params.LineItems = append(params.LineItems, item)
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return checkout.Session{}, fault.Wrap(fault.KindExternalService, stripeMessage(err), err)
	}
	return checkout.Session{ID: s.ID, URL: s.URL}, nil
}

// priceDataParams converts an inline price. Stripe validates the contents.
func priceDataParams(pd *checkout.PriceData) *stripe.CheckoutSessionLineItemPriceDataParams {
	if pd == nil {
		return nil
	}
	out := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency:          optString(pd.Currency),
		Product:           optString(pd.Product),
		TaxBehavior:       optString(pd.TaxBehavior),
		UnitAmount:        pd.UnitAmount,
		UnitAmountDecimal: pd.UnitAmountDecimal,
	}
	if pd.ProductData != nil {
		out.ProductData = &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        optString(pd.ProductData.Name),
			Description: optString(pd.ProductData.Description),
			Images:      stripe.StringSlice(pd.ProductData.Images),
			Metadata:    pd.ProductData.Metadata,
			TaxCode:     optString(pd.ProductData.TaxCode),
		}
	}
	if pd.Recurring != nil {
		out.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval:      optString(pd.Recurring.Interval),
			IntervalCount: pd.Recurring.IntervalCount,
		}
	}
	return out
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return stripe.String(s)
}

// stripeMessage extracts the processor's human-readable message.
// stripe.Error renders itself as JSON, which is not what callers should see.
func stripeMessage(err error) string {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return se.Msg
	}
	return err.Error()
}

// Ensure interface compliance.
var _ ports.PaymentProvider = (*StripeProvider)(nil)
