// Package domain provides the canonical error taxonomy for the relay.
package domain

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorKind is the stable machine-readable code returned to callers.
type ErrorKind string

const (
	// ErrorKindMissingFields indicates a required form field was absent.
	ErrorKindMissingFields ErrorKind = "missing_fields"

	// ErrorKindConsentRequired indicates a required consent flag was not set.
	ErrorKindConsentRequired ErrorKind = "consent_required"

	// ErrorKindRateLimited indicates the caller exceeded the request budget.
	ErrorKindRateLimited ErrorKind = "rate_limited"

	// ErrorKindUpstream indicates Freshdesk rejected a write on the critical
	// path (contact create or ticket create).
	ErrorKindUpstream ErrorKind = "freshdesk_error"

	// ErrorKindServer indicates an unexpected internal fault. The response
	// body stays generic; detail is only logged server-side.
	ErrorKindServer ErrorKind = "server_error"
)

// Error is a relay error that knows how to present itself over HTTP.
type Error struct {
	Kind ErrorKind `json:"error"`

	// Fields names the violated validation rules, for missing_fields errors.
	Fields []string `json:"fields,omitempty"`

	// Details carries the raw upstream body for freshdesk_error responses so
	// operators can diagnose rejections.
	Details string `json:"details,omitempty"`

	// StatusCode overrides the kind's default HTTP status when non-zero.
	// Upstream errors propagate Freshdesk's own status this way.
	StatusCode int `json:"-"`

	// Message is internal context for logs; never serialized.
	Message string `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

// HTTPStatusCode returns the status to respond with.
func (e *Error) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Kind {
	case ErrorKindMissingFields, ErrorKindConsentRequired:
		return http.StatusBadRequest
	case ErrorKindRateLimited:
		return http.StatusTooManyRequests
	case ErrorKindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes the error as a JSON response body with its HTTP status.
func (e *Error) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatusCode())
	json.NewEncoder(w).Encode(e)
}

// ErrMissingFields creates a validation error naming the violated fields.
func ErrMissingFields(fields []string) *Error {
	return &Error{Kind: ErrorKindMissingFields, Fields: fields}
}

// ErrConsentRequired creates a consent validation error.
func ErrConsentRequired() *Error {
	return &Error{Kind: ErrorKindConsentRequired}
}

// ErrRateLimited creates a rate limit error.
func ErrRateLimited() *Error {
	return &Error{Kind: ErrorKindRateLimited}
}

// ErrUpstream creates an upstream write error carrying Freshdesk's status
// and raw response body.
func ErrUpstream(status int, details string) *Error {
	return &Error{Kind: ErrorKindUpstream, StatusCode: status, Details: details}
}

// ErrServer creates a generic server error. The message is log-only.
func ErrServer(message string) *Error {
	return &Error{Kind: ErrorKindServer, Message: message}
}
