package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"table not configured", ErrTableNotConfigured, http.StatusInternalServerError, ErrCodeTableNotConfigured},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, ErrCodeUnauthenticated},
		{"too many requests", ErrTooManyRequests, http.StatusTooManyRequests, ErrCodeTooManyRequests},
		{"wrapped custom error", fmt.Errorf("dedup: %w", ErrRequestTooLarge.Wrap(errors.New("EOF"))), http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge},
		{"plain error hides detail", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, ServerErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := NewErrorResponse(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, ErrorResponse{Error: tt.wantCode}, resp)
		})
	}
}

func TestCustomErrorWrapKeepsIdentity(t *testing.T) {
	cause := errors.New("throttled")
	err := ErrModelInvocation.Wrap(cause)

	assert.ErrorIs(t, err, ErrModelInvocation)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrGatewayTimeout)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Equal(t, "model invocation failed: throttled", err.Error())
}
