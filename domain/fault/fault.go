// Package fault provides the error taxonomy shared by the storefront services.
package fault

import (
	"errors"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindBadRequest            Kind = "bad_request"
	KindMethodNotAllowed      Kind = "method_not_allowed"
	KindConfiguration         Kind = "configuration"           // server secret missing
	KindConfigurationNotFound Kind = "configuration_not_found" // cart item without catalog mapping
	KindExternalService       Kind = "external_service"        // payment processor or mail transport
	KindClientEnvironment     Kind = "client_environment"      // browser library or publishable key
	KindEmptyCart             Kind = "empty_cart"
)

// Error is a classified failure carrying a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a fault without an underlying cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates a fault around a cause. An empty msg uses the cause's text.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first fault in err's chain, or "" if none.
func KindOf(err error) Kind {
	var f *Error
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// Is reports whether err carries a fault of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps a kind to the status code the functions answer with.
// Unclassified errors are internal errors.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindBadRequest, KindEmptyCart:
		return http.StatusBadRequest
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
