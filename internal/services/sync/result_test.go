package sync

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurum/internal/adapters/provider"
	"aurum/pkg/errors"
)

func TestRunResult_RecordErrorCapturesRequestContext(t *testing.T) {
	apiErr := provider.NewAPIError(http.StatusForbidden, http.MethodGet, "https://brapi.dev/api/quote/PETR4", "rate limit exceeded")

	var r RunResult
	r.recordError("PETR4", apiErr)

	require.Len(t, r.Errors, 1)
	se := r.Errors[0]
	assert.Equal(t, "PETR4", se.Symbol)
	assert.Equal(t, KindRateLimit, se.Kind)
	assert.Equal(t, http.StatusForbidden, se.HTTPStatus)
	assert.Equal(t, "https://brapi.dev/api/quote/PETR4", se.RequestURL)
	assert.Equal(t, http.MethodGet, se.RequestMethod)
	assert.False(t, se.Timestamp.IsZero())
	assert.Equal(t, 1, r.ErrorCount)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"rate limited", errors.Wrap(errors.ErrRateLimited, "status 403"), KindRateLimit},
		{"too many requests", provider.NewAPIError(http.StatusTooManyRequests, "GET", "u", "slow down"), KindRateLimit},
		{"data not found", errors.Wrap(errors.ErrDataNotFound, "empty results"), KindNotFound},
		{"persistence", errors.Wrap(errors.ErrPersistence, "insert failed"), KindPersistence},
		{"provider 5xx", provider.NewAPIError(http.StatusBadGateway, "GET", "u", "bad gateway"), KindProvider},
		{"deadline", context.DeadlineExceeded, KindNetwork},
		{"unknown", errors.New("connection reset"), KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
}
