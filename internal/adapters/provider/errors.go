package provider

import (
	"fmt"

	"aurum/pkg/errors"
)

// APIError carries enough request context to diagnose a provider failure
// without server-side log access.
type APIError struct {
	Status  int
	URL     string
	Method  string
	Message string
	err     error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("provider %s %s: status %d: %s", e.Method, e.URL, e.Status, e.Message)
}

// Unwrap exposes the classified sentinel for errors.Is checks
func (e *APIError) Unwrap() error {
	return e.err
}

// NewAPIError classifies an HTTP failure. The provider signals quota
// exhaustion with 403, which must be distinguished from ordinary 4xx.
func NewAPIError(status int, method, url, message string) *APIError {
	var sentinel error
	switch status {
	case 403, 429:
		sentinel = errors.ErrRateLimited
	case 404:
		sentinel = errors.ErrDataNotFound
	default:
		sentinel = errors.ErrProvider
	}

	return &APIError{
		Status:  status,
		URL:     url,
		Method:  method,
		Message: message,
		err:     sentinel,
	}
}
