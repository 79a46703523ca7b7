package sync

import (
	"context"
	"net"
	"time"

	"aurum/internal/adapters/provider"
	"aurum/pkg/errors"
)

// ErrorKind classifies a per-symbol failure
type ErrorKind string

const (
	KindRateLimit   ErrorKind = "rate_limit"
	KindProvider    ErrorKind = "provider"
	KindNetwork     ErrorKind = "network"
	KindNotFound    ErrorKind = "not_found"
	KindPersistence ErrorKind = "persistence"
)

// SymbolError records one failed symbol with enough request context to
// diagnose without server-side log access.
type SymbolError struct {
	Symbol        string    `json:"symbol"`
	Kind          ErrorKind `json:"kind"`
	Message       string    `json:"message"`
	HTTPStatus    int       `json:"http_status,omitempty"`
	RequestURL    string    `json:"request_url,omitempty"`
	RequestMethod string    `json:"request_method,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// RunResult aggregates one execution of the bulk refresh pipeline.
// It is transient: returned to the caller, never persisted.
type RunResult struct {
	TotalCandidates int  `json:"total_candidates"`
	Processed       int  `json:"processed_count"`
	Success         int  `json:"success_count"`
	ErrorCount      int  `json:"error_count"`
	Deactivated     int  `json:"deactivated_count"`
	Simulated       bool `json:"simulated,omitempty"`

	// Set only on a rate-limit abort
	Aborted              bool     `json:"aborted,omitempty"`
	ProcessedBeforeError int      `json:"processed_before_error,omitempty"`
	Remediation          []string `json:"remediation,omitempty"`

	Errors []SymbolError `json:"errors,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// recordError appends a classified per-symbol error, preserving order
func (r *RunResult) recordError(symbol string, err error) {
	se := SymbolError{
		Symbol:    symbol,
		Kind:      classifyError(err),
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}

	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		se.HTTPStatus = apiErr.Status
		se.RequestURL = apiErr.URL
		se.RequestMethod = apiErr.Method
	}

	r.Errors = append(r.Errors, se)
	r.ErrorCount++
}

// classifyError maps an error onto the per-symbol failure taxonomy.
// Timeouts are treated identically to network errors.
func classifyError(err error) ErrorKind {
	var netErr net.Error

	switch {
	case errors.Is(err, errors.ErrRateLimited):
		return KindRateLimit
	case errors.Is(err, errors.ErrDataNotFound), errors.Is(err, errors.ErrNotFound):
		return KindNotFound
	case errors.Is(err, errors.ErrPersistence):
		return KindPersistence
	case errors.Is(err, errors.ErrProvider):
		return KindProvider
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		return KindNetwork
	default:
		return KindNetwork
	}
}
