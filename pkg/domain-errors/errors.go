// Package domainerrors provides tagged errors for the service and transport
// layers. Infrastructure facts (a row is missing, a key is taken) live in
// pkg/platform/sentinel; this package carries the domain-level classification
// that the HTTP layer translates into status codes.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks input rejected by service-level validation.
	CodeValidation Code = "validation"
	// CodeInvariantViolation marks a model constructed with illegal state.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeBadRequest marks requests the transport layer could not parse.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks lookups that matched no record.
	CodeNotFound Code = "not_found"
	// CodeConflict marks writes rejected by a uniqueness rule.
	CodeConflict Code = "conflict"
	// CodeTimeout marks operations cancelled by a deadline.
	CodeTimeout Code = "timeout"
	// CodeUnavailable marks a dependency that could not be reached.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks everything else; the message shown to callers
	// must stay generic.
	CodeInternal Code = "internal"
)

// Error is a domain error with a classification code and a caller-safe message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and caller-safe message to an underlying error. The
// cause is preserved for logs but never rendered to HTTP clients.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal for untagged
// errors so unexpected failures never leak detail.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-safe message for err. Untagged errors map to a
// generic message.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvariantViolation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
