// Package contact provides the contact form submission value type.
package contact

import (
	"strings"

	"github.com/growthlabpro/storefront/domain/fault"
)

// MsgMissingFields is returned when a required field is blank.
const MsgMissingFields = "Name, email, and message are required"

// Submission is one contact form entry.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Message string `json:"message"`
}

// Validate checks required fields. This is a PURE function.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.Name) == "" ||
		strings.TrimSpace(s.Email) == "" ||
		strings.TrimSpace(s.Message) == "" {
		return fault.New(fault.KindBadRequest, MsgMissingFields)
	}
	if strings.ContainsAny(s.Email, "\r\n") || !strings.Contains(s.Email, "@") {
		return fault.New(fault.KindBadRequest, "A valid email address is required")
	}
	return nil
}

// Subject returns the notification subject line.
func (s Submission) Subject() string {
	return "New contact form submission from " + strings.TrimSpace(s.Name)
}
