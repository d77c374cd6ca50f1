// Package providers normalizes collaborator failures into a small taxonomy
// the orchestrator can act on: retry, trip a breaker, or record a reason.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCategory is the normalized failure taxonomy.
type ErrorCategory string

const (
	// ErrorTimeout indicates the collaborator took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the collaborator returned invalid or malformed data
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates credential or permission issues
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorProviderOutage indicates the collaborator is unavailable
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorContractMismatch indicates the collaborator rejected our request shape
	ErrorContractMismatch ErrorCategory = "contract_mismatch"

	// ErrorNotFound indicates the requested record doesn't exist
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorCanceled indicates the evaluation was withdrawn or superseded
	ErrorCanceled ErrorCategory = "canceled"

	// ErrorCircuitOpen indicates the call was never made because the
	// collaborator's breaker is open
	ErrorCircuitOpen ErrorCategory = "circuit_open"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps collaborator failures with normalized categorization.
type ProviderError struct {
	Category     ErrorCategory
	Collaborator string
	Message      string
	Underlying   error
	Retryable    bool
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("collaborator %s [%s]: %s: %v", e.Collaborator, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("collaborator %s [%s]: %s", e.Collaborator, e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError creates a normalized error. Timeouts, outages and rate
// limiting are retryable.
func NewProviderError(category ErrorCategory, collaborator, message string, underlying error) *ProviderError {
	retryable := category == ErrorTimeout ||
		category == ErrorProviderOutage ||
		category == ErrorRateLimited

	return &ProviderError{
		Category:     category,
		Collaborator: collaborator,
		Message:      message,
		Underlying:   underlying,
		Retryable:    retryable,
	}
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error.
func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTimeout
	case errors.Is(err, context.Canceled):
		return ErrorCanceled
	}
	return ErrorInternal
}

// Classify normalizes any error from a collaborator call. Errors that are
// already categorized pass through unchanged.
func Classify(collaborator string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewProviderError(ErrorTimeout, collaborator, "deadline exceeded", err)
	case errors.Is(err, context.Canceled):
		return NewProviderError(ErrorCanceled, collaborator, "call canceled", err)
	default:
		return NewProviderError(ErrorInternal, collaborator, "call failed", err)
	}
}

// FromStatus maps a non-2xx HTTP status onto the taxonomy.
func FromStatus(collaborator string, status int) *ProviderError {
	msg := fmt.Sprintf("unexpected status %d", status)
	switch {
	case status == http.StatusNotFound:
		return NewProviderError(ErrorNotFound, collaborator, msg, nil)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewProviderError(ErrorAuthentication, collaborator, msg, nil)
	case status == http.StatusTooManyRequests:
		return NewProviderError(ErrorRateLimited, collaborator, msg, nil)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return NewProviderError(ErrorTimeout, collaborator, msg, nil)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return NewProviderError(ErrorContractMismatch, collaborator, msg, nil)
	case status >= 500:
		return NewProviderError(ErrorProviderOutage, collaborator, msg, nil)
	default:
		return NewProviderError(ErrorInternal, collaborator, msg, nil)
	}
}

// Reason is the short breakdown text for an unavailable signal.
func Reason(err error) string {
	switch GetCategory(err) {
	case ErrorTimeout:
		return "timeout"
	case ErrorBadData:
		return "invalid response"
	case ErrorAuthentication:
		return "authentication failed"
	case ErrorProviderOutage:
		return "collaborator unavailable"
	case ErrorContractMismatch:
		return "request rejected"
	case ErrorNotFound:
		return "not found"
	case ErrorRateLimited:
		return "rate limited"
	case ErrorCanceled:
		return "canceled"
	case ErrorCircuitOpen:
		return "circuit open"
	default:
		return "error"
	}
}
