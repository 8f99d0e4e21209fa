package payment

import (
	"fmt"

	"github.com/growthlabpro/storefront/ports"
)

// Config selects and configures a payment provider.
type Config struct {
	Provider  string // "stripe", "dummy", "none"
	SecretKey string
	APIURL    string
}

// NewProvider creates a payment provider based on config.
func NewProvider(cfg Config) (ports.PaymentProvider, error) {
	switch cfg.Provider {
	case "stripe", "":
		return NewStripeProvider(StripeConfig{
			SecretKey: cfg.SecretKey,
			APIURL:    cfg.APIURL,
		}), nil

	case "dummy", "test":
		// Dummy provider for development/testing - simulates successful sessions
		return NewDummyProvider(), nil

	case "none":
		return NewNoopProvider(), nil

	default:
		return nil, fmt.Errorf("unknown payment provider: %s", cfg.Provider)
	}
}
