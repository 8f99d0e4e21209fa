// Package web provides the storefront's HTTP handlers: the two serverless-style
// functions the site posts to and the JSON API behind the cart drawer.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/growthlabpro/storefront/domain/fault"
)

// maxBodyBytes caps request bodies for every handler in this package.
const maxBodyBytes = 1 << 20

// ErrorResponse is the error body every handler writes.
type ErrorResponse struct {
	Error string `json:"error" example:"Missing or invalid items"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" example:"Message sent successfully"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeFault maps err onto a status code and message.
// Unclassified errors are reported with fallback so internals never leak.
func writeFault(w http.ResponseWriter, err error, fallback string) {
	var f *fault.Error
	if !errors.As(err, &f) {
		writeError(w, http.StatusInternalServerError, fallback)
		return
	}
	writeError(w, fault.HTTPStatus(f.Kind), f.Error())
}
