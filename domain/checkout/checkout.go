// Package checkout provides checkout request value types and pure functions
// for turning a cart into a Stripe Checkout request.
package checkout

import (
	"net/url"
	"strings"

	"github.com/growthlabpro/storefront/domain/cart"
	"github.com/growthlabpro/storefront/domain/catalog"
	"github.com/growthlabpro/storefront/domain/fault"
)

// Messages shown to the user.
const (
	MsgEmptyCart = "Your cart is empty. Please add items before checking out."
)

// LineItem is one Stripe line item. Catalog items carry a PriceID; callers of
// the session function may instead send an inline PriceData, which is forwarded
// to the processor unvalidated.
type LineItem struct {
	PriceID   string     `json:"price,omitempty"`
	PriceData *PriceData `json:"price_data,omitempty"`
	Quantity  int64      `json:"quantity"`
}

// PriceData is an ad-hoc price in Stripe's price_data shape.
type PriceData struct {
	Currency          string       `json:"currency,omitempty"`
	Product           string       `json:"product,omitempty"`
	ProductData       *ProductData `json:"product_data,omitempty"`
	UnitAmount        *int64       `json:"unit_amount,omitempty"`
	UnitAmountDecimal *float64     `json:"unit_amount_decimal,omitempty"`
	Recurring         *Recurring   `json:"recurring,omitempty"`
	TaxBehavior       string       `json:"tax_behavior,omitempty"`
}

// ProductData describes an inline product.
type ProductData struct {
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Images      []string          `json:"images,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	TaxCode     string            `json:"tax_code,omitempty"`
}

// Recurring is the billing interval of an inline recurring price.
type Recurring struct {
	Interval      string `json:"interval,omitempty"`
	IntervalCount *int64 `json:"interval_count,omitempty"`
}

// Request is everything needed to open one checkout session.
type Request struct {
	LineItems  []LineItem   `json:"line_items"`
	Mode       catalog.Mode `json:"mode"`
	SuccessURL string       `json:"success_url"`
	CancelURL  string       `json:"cancel_url"`
}

// Session is the processor's answer to a session request.
type Session struct {
	ID             string `json:"sessionId"`
	PublishableKey string `json:"publishableKey"`
	URL            string `json:"url,omitempty"`
}

// ReturnURLs returns the success and cancel URLs for a site origin.
func ReturnURLs(origin string) (successURL, cancelURL string) {
	origin = strings.TrimRight(origin, "/")
	return origin + "?success=true", origin + "?canceled=true"
}

// BuildRequest converts a cart into a checkout request.
// Every item must resolve through the name table; nothing is sent otherwise.
// This is a PURE function.
func BuildRequest(c cart.Cart, cat catalog.Catalog, names catalog.NameTable, origin string) (Request, error) {
	if c.IsEmpty() {
		return Request{}, fault.New(fault.KindEmptyCart, MsgEmptyCart)
	}

	items := c.Items()
	lineItems := make([]LineItem, 0, len(items))
	for _, it := range items {
		p, err := cat.Resolve(names, it.Name)
		if err != nil {
			return Request{}, err
		}
		lineItems = append(lineItems, LineItem{PriceID: p.PriceID, Quantity: 1})
	}

	success, cancel := ReturnURLs(origin)
	return Request{
		LineItems:  lineItems,
		Mode:       ResolveMode(items),
		SuccessURL: success,
		CancelURL:  cancel,
	}, nil
}

// BuildProductRequest builds a single-product ("buy now") request using the product's own mode.
func BuildProductRequest(p catalog.Product, origin string) Request {
	success, cancel := ReturnURLs(origin)
	return Request{
		LineItems:  []LineItem{{PriceID: p.PriceID, Quantity: 1}},
		Mode:       p.Mode,
		SuccessURL: success,
		CancelURL:  cancel,
	}
}

// ResolveMode picks the session mode for a cart: subscription when any item
// is a plan, payment otherwise. A plan with one-time add-ons is sent as one
// subscription session; the add-ons' one-time prices are billed on the first
// invoice.
// This is a PURE function.
func ResolveMode(items []cart.Item) catalog.Mode {
	for _, it := range items {
		if it.Type == cart.TypePlan {
			return catalog.ModeSubscription
		}
	}
	return catalog.ModePayment
}

// placeholderMarker appears in the sample publishable key shipped with the site template.
const placeholderMarker = "your_actual"

// ValidPublishableKey reports whether key is set and is not the template placeholder.
func ValidPublishableKey(key string) bool {
	return key != "" && !strings.Contains(key, placeholderMarker)
}

// ReturnStatus is what the processor's redirect back to the site reports.
type ReturnStatus string

const (
	ReturnNone     ReturnStatus = "none"
	ReturnSuccess  ReturnStatus = "success"
	ReturnCanceled ReturnStatus = "canceled"
)

// ParseReturn reads the success/canceled flags from a return URL's query.
// The flags are client-visible and not verified against the processor.
func ParseReturn(q url.Values) ReturnStatus {
	switch {
	case q.Get("success") == "true":
		return ReturnSuccess
	case q.Get("canceled") == "true":
		return ReturnCanceled
	default:
		return ReturnNone
	}
}
