package types

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the default booking service API base URL
	DefaultBaseURL = "http://localhost:8000/api/v1"

	// DefaultAuthBaseURL is the default auth service API base URL
	DefaultAuthBaseURL = "http://localhost:8001/api/v1"

	// DefaultFilmBaseURL is the default content (film) service API base URL
	DefaultFilmBaseURL = "http://localhost:8002/api/v1"

	// DefaultSuggestURL is the default third-party address suggestion endpoint
	DefaultSuggestURL = "https://suggestions.dadata.ru/suggestions/api/4_1/rs/suggest/address"

	// DefaultTimeout is the client-wide request timeout
	DefaultTimeout = 15 * time.Second

	// UserAgent is the user agent string
	UserAgent = "booking-go/1.0.0"
)

// Header names
const (
	HeaderRequestID     = "X-Request-Id"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderUserAgent     = "User-Agent"

	ContentTypeJSON = "application/json"
)

// Session storage keys
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUsername     = "username"
	KeyUserID       = "user_id"
)

// SessionKeys lists every key a session occupies in storage.
var SessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUsername, KeyUserID}

// Normalized error codes
const (
	// CodeUnknown is the default code when the backend did not supply one
	CodeUnknown = "UNKNOWN"

	// CodeDetail marks errors built from a `detail` field (validation and friends)
	CodeDetail = "DETAIL"

	// CodeNetwork marks failures where no response was received
	CodeNetwork = "NETWORK_ERROR"

	// CodeCanceled marks calls aborted by the caller's context
	CodeCanceled = "CANCELED"

	// CodeDecode marks a successful response whose body could not be decoded
	CodeDecode = "DECODE_ERROR"

	// CodeEncode marks a request body that could not be encoded
	CodeEncode = "ENCODE_ERROR"

	// CodeSuggestUnauthorized marks a 401/403 from the address suggestion
	// service. It is not a session failure.
	CodeSuggestUnauthorized = "SUGGEST_UNAUTHORIZED"
)

// Common errors
var (
	// ErrNotAuthenticated is matched by any 401 response
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrForbidden is matched by any 403 response
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is matched by any 404 response
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is matched by any 429 response
	ErrRateLimited = errors.New("rate limited")

	// ErrServerError is matched by any 5xx response
	ErrServerError = errors.New("server error")

	// ErrNetwork is matched when no response was received
	ErrNetwork = errors.New("network error")

	// ErrCanceled is matched when the caller canceled the call
	ErrCanceled = errors.New("request canceled")
)
