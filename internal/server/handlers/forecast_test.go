package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vzahanych/weather-forecast/internal/service"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown source", fmt.Errorf("%w: %q", service.ErrUnknownSource, "nope"), http.StatusNotFound, "UNKNOWN_SOURCE"},
		{"validation", &service.ValidationError{Source: "mock"}, http.StatusBadGateway, "INVALID_FORECAST"},
		{"parse", fmt.Errorf("%w: bad json", service.ErrParse), http.StatusBadGateway, "UPSTREAM_PARSE_ERROR"},
		{"network", fmt.Errorf("%w: status 500", service.ErrNetwork), http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"},
		{"rate limited", fmt.Errorf("%w: %w", service.ErrRateLimited, context.DeadlineExceeded), http.StatusServiceUnavailable, "RATE_LIMITED"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "FORECAST_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classifyError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
