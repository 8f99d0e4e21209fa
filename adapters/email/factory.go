package email

import (
	"fmt"
	"time"

	"github.com/growthlabpro/storefront/ports"
)

// Config selects and configures a mail transport.
type Config struct {
	Provider    string // smtp, mock, none
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FromName    string
	UseTLS      bool
	UseImplicit bool
	SkipVerify  bool
	Timeout     time.Duration
}

// NewSender creates an email sender based on config.
func NewSender(cfg Config) (ports.EmailSender, error) {
	switch cfg.Provider {
	case "smtp":
		if cfg.Host == "" {
			return nil, fmt.Errorf("SMTP host is required")
		}
		port := cfg.Port
		if port == 0 {
			port = 587
		}
		return NewSMTPSender(SMTPConfig{
			Host:        cfg.Host,
			Port:        port,
			Username:    cfg.Username,
			Password:    cfg.Password,
			From:        cfg.From,
			FromName:    cfg.FromName,
			UseTLS:      cfg.UseTLS,
			UseImplicit: cfg.UseImplicit,
			SkipVerify:  cfg.SkipVerify,
			Timeout:     cfg.Timeout,
		})

	case "mock":
		return NewMockSender(), nil

	case "none", "":
		return NewNoopSender(), nil

	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
}
