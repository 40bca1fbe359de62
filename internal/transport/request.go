package transport

import (
	"context"
	"net/http"
	"net/url"

	"github.com/eshaffer321/booking-go/internal/types"
)

// Request describes one outgoing API call
type Request struct {
	Method string
	Path   string
	Body   interface{}
	Query  url.Values
	Header http.Header

	// BaseURL overrides the transport's base URL for this call
	BaseURL string
}

// CallOption customizes a single call
type CallOption func(*Request)

// WithHeader sets a per-call header
func WithHeader(key, value string) CallOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = make(http.Header)
		}
		r.Header.Set(key, value)
	}
}

// WithQuery adds a query parameter
func WithQuery(key, value string) CallOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(url.Values)
		}
		r.Query.Add(key, value)
	}
}

// WithBaseURL sends the call to another service
func WithBaseURL(baseURL string) CallOption {
	return func(r *Request) {
		r.BaseURL = baseURL
	}
}

// NewRequest builds a request and applies opts
func NewRequest(method, path string, body interface{}, opts ...CallOption) *Request {
	req := &Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// Decorator mutates an outgoing request before dispatch
type Decorator func(ctx context.Context, req *http.Request)

// AuthProvider supplies authorization headers for a call
type AuthProvider interface {
	AuthHeaders(ctx context.Context) map[string]string
}

// DefaultHeaders sets each header that the call did not already set
func DefaultHeaders(headers map[string]string) Decorator {
	return func(_ context.Context, req *http.Request) {
		for k, v := range headers {
			if req.Header.Get(k) == "" {
				req.Header.Set(k, v)
			}
		}
	}
}

// Auth sets the headers supplied by provider; with no session it adds nothing
func Auth(provider AuthProvider) Decorator {
	return func(ctx context.Context, req *http.Request) {
		if provider == nil {
			return
		}
		for k, v := range provider.AuthHeaders(ctx) {
			req.Header.Set(k, v)
		}
	}
}

// RequestID tags every request with a fresh X-Request-Id
func RequestID(generate func() string) Decorator {
	return func(_ context.Context, req *http.Request) {
		req.Header.Set(types.HeaderRequestID, generate())
	}
}

// FailureHandler observes every normalized failure before it reaches the caller
type FailureHandler interface {
	HandleFailure(ctx context.Context, err *types.Error)
}

// FailureHandlerFunc adapts a function to FailureHandler
type FailureHandlerFunc func(ctx context.Context, err *types.Error)

// HandleFailure calls f
func (f FailureHandlerFunc) HandleFailure(ctx context.Context, err *types.Error) {
	f(ctx, err)
}

// Limiter throttles outgoing calls; *rate.Limiter satisfies it
type Limiter interface {
	Wait(ctx context.Context) error
}
