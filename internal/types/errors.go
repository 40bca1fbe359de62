package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the normalized shape of every API failure
type Error struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Status    int         `json:"status"`
	RequestID string      `json:"requestId,omitempty"`
	Err       error       `json:"-"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("error: %s", e.Code)
}

// Unwrap returns the underlying transport error, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches status and code based sentinels, and other *Error values by code
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}

	switch target {
	case ErrNotAuthenticated:
		return e.Status == http.StatusUnauthorized && e.Code != CodeSuggestUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden && e.Code != CodeSuggestUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case ErrServerError:
		return e.Status >= 500
	case ErrNetwork:
		return e.Code == CodeNetwork
	case ErrCanceled:
		return e.Code == CodeCanceled
	}

	return false
}

// AsError extracts the normalized error from an error chain
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
