// Package apperrors defines the error taxonomy shared by services and
// translated into HTTP statuses at the handler boundary.
package apperrors

import (
	"errors"
	"net/http"
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeAuthentication  = "AUTHENTICATION_ERROR"
	CodeAuthorization   = "AUTHORIZATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// Error is a typed service error carrying the taxonomy code, a client-safe
// message and optional field-level details.
type Error struct {
	Code    string
	Message string
	Details []string
	status  int
}

func (e *Error) Error() string {
	return e.Message
}

// Status returns the HTTP status this error maps to.
func (e *Error) Status() int {
	return e.status
}

func Validation(message string, details ...string) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details, status: http.StatusBadRequest}
}

func Authentication(message string) *Error {
	return &Error{Code: CodeAuthentication, Message: message, status: http.StatusUnauthorized}
}

func Authorization(message string) *Error {
	return &Error{Code: CodeAuthorization, Message: message, status: http.StatusForbidden}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message, status: http.StatusNotFound}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message, status: http.StatusConflict}
}

func TooManyRequests(message string) *Error {
	return &Error{Code: CodeTooManyRequests, Message: message, status: http.StatusTooManyRequests}
}

// Internal wraps an unexpected failure. The cause is for server-side logs
// only; clients always see the generic message.
func Internal() *Error {
	return &Error{Code: CodeInternal, Message: "Internal server error", status: http.StatusInternalServerError}
}

// From extracts a typed error, or falls back to Internal for anything
// unrecognized so storage-layer error text never reaches a client.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal()
}
