// Package domainerrors provides coded errors for domain and service layers.
//
// Services construct these at the point of violation and let them propagate
// unmodified to the transport layer, which maps codes to HTTP statuses.
// Infrastructure layers return pkg/platform/sentinel errors instead; services
// translate those into coded errors with caller-facing messages.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and callers that
// branch on failure kind.
type Code string

const (
	// CodeBadRequest marks malformed input at the transport boundary.
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput marks a value that fails domain parsing or format rules.
	CodeInvalidInput Code = "invalid_input"
	// CodeInvariantViolation marks a record that violates a model invariant,
	// e.g. a scheduled end date before the start date. The record must not be
	// persisted.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeBusinessRuleViolation marks an operation rejected by an
	// administrative rule, e.g. activating a committee with no members.
	CodeBusinessRuleViolation Code = "business_rule_violation"
	// CodeReferentialIntegrity marks a deletion blocked by dependent records.
	CodeReferentialIntegrity Code = "referential_integrity"
	// CodeNotFound marks a lookup that matched no record.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a uniqueness or concurrent-state conflict.
	CodeConflict Code = "conflict"
	// CodeUnauthorized marks a request without valid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks a request whose credentials lack the required tier.
	CodeForbidden Code = "forbidden"
	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal_error"
)

// DomainError carries a machine-readable code and a caller-facing message.
type DomainError struct {
	Code    Code
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.cause }

// New constructs a coded error with a caller-facing message.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. The cause stays
// reachable through errors.Is / errors.As for infrastructure sentinels.
func Wrap(err error, code Code, message string) error {
	return &DomainError{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// CodeOf extracts the outermost code, defaulting to CodeInternal for
// uncoded errors.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the outermost caller-facing message, or "" for
// uncoded errors.
func MessageOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeInvariantViolation, CodeBusinessRuleViolation:
		return http.StatusUnprocessableEntity
	case CodeReferentialIntegrity, CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
