package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aurum/pkg/errors"
)

// respondError maps domain sentinels onto HTTP statuses
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, errors.ErrDataNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, errors.ErrUnavailable), errors.Is(err, errors.ErrSchedulerLease):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		s.log.Errorw("Request error", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
