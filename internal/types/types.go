package types

import (
	"context"
	"net/http"
	"time"
)

// Session represents an authenticated session as persisted in storage
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	UserID       string `json:"user_id"`
}

// IsZero reports whether the session carries no access token
func (s *Session) IsZero() bool {
	return s == nil || s.AccessToken == ""
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxRetries int           `json:"maxRetries"`
	RetryWait  time.Duration `json:"retryWait"`
	MaxWait    time.Duration `json:"maxWait"`
}

// Hooks provides lifecycle hooks for requests
type Hooks struct {
	OnRequest  func(ctx context.Context, req *http.Request)
	OnResponse func(ctx context.Context, resp *http.Response, duration time.Duration)
	OnError    func(ctx context.Context, err error)
}

// ChainHooks combines several hook sets; each callback runs in argument order.
func ChainHooks(hooks ...*Hooks) *Hooks {
	var set []*Hooks
	for _, h := range hooks {
		if h != nil {
			set = append(set, h)
		}
	}
	if len(set) == 0 {
		return nil
	}
	if len(set) == 1 {
		return set[0]
	}

	return &Hooks{
		OnRequest: func(ctx context.Context, req *http.Request) {
			for _, h := range set {
				if h.OnRequest != nil {
					h.OnRequest(ctx, req)
				}
			}
		},
		OnResponse: func(ctx context.Context, resp *http.Response, duration time.Duration) {
			for _, h := range set {
				if h.OnResponse != nil {
					h.OnResponse(ctx, resp, duration)
				}
			}
		},
		OnError: func(ctx context.Context, err error) {
			for _, h := range set {
				if h.OnError != nil {
					h.OnError(ctx, err)
				}
			}
		},
	}
}
