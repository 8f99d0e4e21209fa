// Package catalog provides the product catalog value types and pure lookups.
package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/growthlabpro/storefront/domain/fault"
)

// Mode is the Stripe Checkout billing mode of a product.
type Mode string

const (
	ModePayment      Mode = "payment"
	ModeSubscription Mode = "subscription"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModePayment || m == ModeSubscription
}

// Key is the stable catalog key of a product.
type Key string

const (
	KeyEssentials   Key = "contractor-essentials"
	KeySupreme      Key = "contractor-supreme"
	KeyEnterprise   Key = "contractor-enterprise"
	KeyVideo        Key = "video-marketing"
	KeySocialMedia  Key = "social-media"
	KeyLandingPages Key = "landing-pages"
)

// Product is an immutable catalog entry.
type Product struct {
	Key         Key
	PriceID     string // Stripe price identifier
	Name        string
	Description string
	Mode        Mode
}

// Catalog maps keys to products.
type Catalog map[Key]Product

// Default returns the canonical catalog.
func Default() Catalog {
	return Catalog{
		KeyEssentials: {
			Key:         KeyEssentials,
			PriceID:     "price_1S8pthH0LoMPsmTkg1QdLmfw",
			Name:        "Growth Starter",
			Description: "Complete marketing system for contractors",
			Mode:        ModeSubscription,
		},
		KeySupreme: {
			Key:         KeySupreme,
			PriceID:     "price_1S8puTH0LoMPsmTkSVintRX0",
			Name:        "Growth Pro",
			Description: "Everything in Growth Starter +",
			Mode:        ModeSubscription,
		},
		KeyEnterprise: {
			Key:         KeyEnterprise,
			PriceID:     "price_1S8puvH0LoMPsmTk3j6vGVJr",
			Name:        "Growth Enterprise",
			Description: "Custom solutions for large contractor operations",
			Mode:        ModeSubscription,
		},
		KeyVideo: {
			Key:         KeyVideo,
			PriceID:     "price_1S8py4H0LoMPsmTk9kc2bZt3",
			Name:        "Video Marketing Package",
			Description: "Professional video content creation and marketing",
			Mode:        ModePayment,
		},
		KeySocialMedia: {
			Key:         KeySocialMedia,
			PriceID:     "price_1S8pxVH0LoMPsmTkBmQjmCRd",
			Name:        "Social Media Management",
			Description: "Complete social media content and posting service",
			Mode:        ModeSubscription,
		},
		KeyLandingPages: {
			Key:         KeyLandingPages,
			PriceID:     "price_1S8pwsH0LoMPsmTktH42oXH4",
			Name:        "Custom Landing Pages",
			Description: "Service-specific landing pages for better conversions",
			Mode:        ModePayment,
		},
	}
}

// NameTable maps cart display names to catalog keys.
type NameTable map[string]Key

// DefaultNames returns the display name table for the canonical catalog.
func DefaultNames() NameTable {
	return NameTable{
		"Growth Starter":          KeyEssentials,
		"Growth Pro":              KeySupreme,
		"Growth Enterprise":       KeyEnterprise,
		"Custom Landing Pages":    KeyLandingPages,
		"Social Media Management": KeySocialMedia,
		"Video Marketing Package": KeyVideo,
	}
}

// Validate checks that every name maps to a product and every product is reachable by name.
// This is a PURE function.
func Validate(c Catalog, names NameTable) error {
	reached := make(map[Key]bool, len(c))
	for _, name := range sortedNames(names) {
		key := names[name]
		p, ok := c[key]
		if !ok {
			return fmt.Errorf("name %q maps to unknown catalog key %q", name, key)
		}
		if p.PriceID == "" {
			return fmt.Errorf("catalog key %q has no price id", key)
		}
		if !p.Mode.Valid() {
			return fmt.Errorf("catalog key %q has invalid mode %q", key, p.Mode)
		}
		reached[key] = true
	}
	for key := range c {
		if !reached[key] {
			return fmt.Errorf("catalog key %q has no display name", key)
		}
	}
	return nil
}

// Resolve looks up the product for a cart display name.
func (c Catalog) Resolve(names NameTable, name string) (Product, error) {
	key, ok := names[name]
	if !ok {
		return Product{}, notFound(name)
	}
	p, ok := c[key]
	if !ok {
		return Product{}, notFound(name)
	}
	return p, nil
}

// Get returns the product for a key.
func (c Catalog) Get(key Key) (Product, bool) {
	p, ok := c[key]
	return p, ok
}

func notFound(name string) error {
	return fault.New(fault.KindConfigurationNotFound, "Product configuration not found for: "+name)
}

func sortedNames(names NameTable) []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Kind distinguishes plans from add-ons on the pricing page.
type Kind string

const (
	KindPlan  Kind = "plan"
	KindAddon Kind = "addon"
)

// Offering is a product as the pricing page presents it.
type Offering struct {
	Key          Key
	Kind         Kind
	Index        int   // position within its kind, used to build cart item ids
	MonthlyPrice int64 // whole USD; add-ons use this as their only price
	AnnualPrice  int64 // whole USD per year; plans only
	PriceLabel   string
	Popular      bool
}

// Offerings returns the pricing-page offerings in display order.
func Offerings() []Offering {
	return []Offering{
		{Key: KeyEssentials, Kind: KindPlan, Index: 0, MonthlyPrice: 297, AnnualPrice: 2673},
		{Key: KeySupreme, Kind: KindPlan, Index: 1, MonthlyPrice: 750, AnnualPrice: 6750, Popular: true},
		{Key: KeyEnterprise, Kind: KindPlan, Index: 2, MonthlyPrice: 1500, AnnualPrice: 13500},
		{Key: KeyLandingPages, Kind: KindAddon, Index: 0, MonthlyPrice: 497, PriceLabel: "$497 per page"},
		{Key: KeySocialMedia, Kind: KindAddon, Index: 1, MonthlyPrice: 297, PriceLabel: "$297/month"},
		{Key: KeyVideo, Kind: KindAddon, Index: 2, MonthlyPrice: 497, PriceLabel: "$497/month"},
	}
}

// FindOffering returns the offering for a key.
func FindOffering(key Key) (Offering, bool) {
	for _, o := range Offerings() {
		if o.Key == key {
			return o, true
		}
	}
	return Offering{}, false
}

// MonthlyEquivalent returns the per-month price shown for an annual plan.
// This is a PURE function.
func MonthlyEquivalent(annual int64) int64 {
	return int64(math.Round(float64(annual) / 12))
}
