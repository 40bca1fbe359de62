package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eshaffer321/booking-go/internal/types"
)

// Error is the normalized shape of every failed API call
type Error = types.Error

// Error codes carried by Error.Code
const (
	CodeUnknown  = types.CodeUnknown
	CodeDetail   = types.CodeDetail
	CodeNetwork  = types.CodeNetwork
	CodeCanceled = types.CodeCanceled
	CodeDecode   = types.CodeDecode
	CodeEncode   = types.CodeEncode

	CodeSuggestUnauthorized = types.CodeSuggestUnauthorized
)

var (
	// ErrNotAuthenticated is matched by any 401 response
	ErrNotAuthenticated = types.ErrNotAuthenticated

	// ErrForbidden is matched by any 403 response
	ErrForbidden = types.ErrForbidden

	// ErrNotFound is matched by any 404 response
	ErrNotFound = types.ErrNotFound

	// ErrRateLimited is matched by any 429 response
	ErrRateLimited = types.ErrRateLimited

	// ErrServerError is matched by any 5xx response
	ErrServerError = types.ErrServerError

	// ErrNetwork is matched when no response was received
	ErrNetwork = types.ErrNetwork

	// ErrCanceled is matched when the caller canceled the call
	ErrCanceled = types.ErrCanceled

	// ErrReservationTimeout is returned when a reservation stays pending too long
	ErrReservationTimeout = errors.New("reservation still pending")

	// ErrInvalidReview is returned for a review other than positive or negative
	ErrInvalidReview = errors.New("review must be positive or negative")
)

// ValidationError is one rejected field of a request
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// FieldErrors extracts per-field validation failures from a DETAIL error.
// The leading "body"/"query"/"path" location segment is dropped.
func FieldErrors(err error) []*ValidationError {
	apiErr, ok := types.AsError(err)
	if !ok || apiErr.Code != types.CodeDetail {
		return nil
	}

	entries, ok := apiErr.Details.([]interface{})
	if !ok {
		return nil
	}

	var out []*ValidationError
	for _, entry := range entries {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		msg, _ := m["msg"].(string)

		var loc []string
		if raw, ok := m["loc"].([]interface{}); ok {
			for i, seg := range raw {
				s := fmt.Sprint(seg)
				if i == 0 && (s == "body" || s == "query" || s == "path") {
					continue
				}
				loc = append(loc, s)
			}
		}

		out = append(out, &ValidationError{Field: strings.Join(loc, "."), Message: msg})
	}
	return out
}

// AsError extracts the normalized error from an error chain
func AsError(err error) (*Error, bool) {
	return types.AsError(err)
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrForbidden)
}

// IsNotFound checks if the resource did not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable checks if error is retryable
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrServerError) ||
		errors.Is(err, ErrNetwork) {
		return true
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 || apiErr.Status == 429
	}

	return false
}
