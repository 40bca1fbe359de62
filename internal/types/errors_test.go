package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		target error
		want   bool
	}{
		{"401 is not authenticated", &Error{Status: 401}, ErrNotAuthenticated, true},
		{"403 is forbidden", &Error{Status: 403}, ErrForbidden, true},
		{"404 is not found", &Error{Status: 404}, ErrNotFound, true},
		{"429 is rate limited", &Error{Status: 429}, ErrRateLimited, true},
		{"503 is server error", &Error{Status: 503}, ErrServerError, true},
		{"400 is not server error", &Error{Status: 400}, ErrServerError, false},
		{"network code", &Error{Code: CodeNetwork}, ErrNetwork, true},
		{"canceled code", &Error{Code: CodeCanceled}, ErrCanceled, true},
		{"same code", &Error{Code: "EVENT_NOT_FOUND", Status: 404}, &Error{Code: "EVENT_NOT_FOUND"}, true},
		{"different code", &Error{Code: "DETAIL"}, &Error{Code: "UNKNOWN"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestError_Error(t *testing.T) {
	assert.Equal(t, "boom", (&Error{Message: "boom"}).Error())
	assert.Equal(t, "cause", (&Error{Err: errors.New("cause")}).Error())
	assert.Equal(t, "error: UNKNOWN", (&Error{Code: CodeUnknown}).Error())
}

func TestAsError(t *testing.T) {
	apiErr := &Error{Code: CodeDetail, Status: 422}
	wrapped := fmt.Errorf("create reservation: %w", apiErr)

	got, ok := AsError(wrapped)
	assert.True(t, ok)
	assert.Same(t, apiErr, got)

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}
