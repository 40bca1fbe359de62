package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eshaffer321/booking-go/internal/normalize"
	"github.com/eshaffer321/booking-go/internal/types"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/eshaffer321/booking-go/internal/transport"

// Options for the REST transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Timeout     time.Duration
	Headers     map[string]string
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks

	// Auth supplies the Authorization header; nil sends every call anonymously
	Auth AuthProvider

	// IDGenerator produces X-Request-Id values. Defaults to random UUIDs.
	IDGenerator func() string

	// Decorators run after the built-in ones, in order
	Decorators []Decorator

	// FailureHandlers run in order on every failure except cancellation
	FailureHandlers []FailureHandler

	Normalizer *normalize.Normalizer
	Limiter    Limiter
	Tracer     trace.Tracer
}

// RESTTransport sends JSON requests to the booking backend. It is safe for
// concurrent use; every failure it returns is a *types.Error.
type RESTTransport struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	decorators  []Decorator
	handlers    []FailureHandler
	normalizer  *normalize.Normalizer
	limiter     Limiter
	tracer      trace.Tracer
	logger      types.Logger
	hooks       *types.Hooks
}

// NewRESTTransport creates a new REST transport
func NewRESTTransport(opts *Options) *RESTTransport {
	if opts == nil {
		opts = &Options{}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = types.DefaultBaseURL
	}

	if opts.Timeout == 0 {
		opts.Timeout = types.DefaultTimeout
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = cleanhttp.DefaultPooledClient()
		opts.HTTPClient.Timeout = opts.Timeout
	}

	if opts.IDGenerator == nil {
		opts.IDGenerator = func() string { return uuid.New().String() }
	}

	if opts.Normalizer == nil {
		opts.Normalizer = normalize.New(normalize.ParseLanguage(""))
	}

	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}

	// Create retry client if configured
	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = opts.RetryConfig.MaxRetries
		retryClient.RetryWaitMin = opts.RetryConfig.RetryWait
		retryClient.RetryWaitMax = opts.RetryConfig.MaxWait
		// Keep the last response so its body can be normalized
		retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
		retryClient.Logger = nil

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		}
	}

	// Set default headers
	headers := map[string]string{
		types.HeaderAccept:      types.ContentTypeJSON,
		types.HeaderContentType: types.ContentTypeJSON,
		types.HeaderUserAgent:   types.UserAgent,
	}

	// Merge custom headers
	for k, v := range opts.Headers {
		headers[k] = v
	}

	decorators := []Decorator{
		DefaultHeaders(headers),
		Auth(opts.Auth),
		RequestID(opts.IDGenerator),
	}
	decorators = append(decorators, opts.Decorators...)

	return &RESTTransport{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  opts.HTTPClient,
		retryClient: retryClient,
		decorators:  decorators,
		handlers:    append([]FailureHandler(nil), opts.FailureHandlers...),
		normalizer:  opts.Normalizer,
		limiter:     opts.Limiter,
		tracer:      opts.Tracer,
		logger:      opts.Logger,
		hooks:       opts.Hooks,
	}
}

// AddFailureHandler appends h to the failure chain
func (t *RESTTransport) AddFailureHandler(h FailureHandler) {
	t.handlers = append(t.handlers, h)
}

// Get sends a GET request and decodes the response into result
func (t *RESTTransport) Get(ctx context.Context, path string, result interface{}, opts ...CallOption) error {
	return t.Do(ctx, NewRequest(http.MethodGet, path, nil, opts...), result)
}

// Post sends body as JSON and decodes the response into result
func (t *RESTTransport) Post(ctx context.Context, path string, body, result interface{}, opts ...CallOption) error {
	return t.Do(ctx, NewRequest(http.MethodPost, path, body, opts...), result)
}

// Patch sends body as JSON and decodes the response into result
func (t *RESTTransport) Patch(ctx context.Context, path string, body, result interface{}, opts ...CallOption) error {
	return t.Do(ctx, NewRequest(http.MethodPatch, path, body, opts...), result)
}

// Delete sends a DELETE request; body may be nil
func (t *RESTTransport) Delete(ctx context.Context, path string, body, result interface{}, opts ...CallOption) error {
	return t.Do(ctx, NewRequest(http.MethodDelete, path, body, opts...), result)
}

// Do executes req. On success the JSON body is decoded into result (result
// may be nil, and an empty body leaves it untouched). On failure the
// returned error is always a *types.Error, and the failure handlers have
// already run.
func (t *RESTTransport) Do(ctx context.Context, req *Request, result interface{}) error {
	ctx, span := t.tracer.Start(ctx, "booking.api "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
		),
	)
	defer span.End()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return t.fail(ctx, span, t.normalizer.Normalize(normalize.Failure{Err: err}))
		}
	}

	httpReq, apiErr := t.buildRequest(ctx, req)
	if apiErr != nil {
		return t.fail(ctx, span, apiErr)
	}

	requestID := httpReq.Header.Get(types.HeaderRequestID)
	span.SetAttributes(attribute.String("request.id", requestID))

	// Call request hook
	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, httpReq)
	}

	// Log request
	if t.logger != nil {
		t.logger.Debug("API request", "method", req.Method, "path", req.Path, "request_id", requestID)
	}

	// Execute request
	start := time.Now()
	resp, err := t.doRequest(httpReq)
	duration := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Wrap(ctxErr, err.Error())
		}
		return t.fail(ctx, span, t.normalizer.Normalize(normalize.Failure{
			Err:       err,
			RequestID: requestID,
		}))
	}
	defer resp.Body.Close()

	// Call response hook
	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	// Read response
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return t.fail(ctx, span, t.normalizer.Normalize(normalize.Failure{
			Err:       err,
			RequestID: requestID,
		}))
	}

	// Log response
	if t.logger != nil {
		t.logger.Debug("API response", "status", resp.StatusCode, "duration", duration, "size", len(respBody), "request_id", requestID)
	}

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if t.logger != nil && resp.StatusCode >= 500 {
			t.logger.Warn("Server error",
				"status", resp.StatusCode,
				"description", httpStatusDescription(resp.StatusCode),
				"body", truncate(string(respBody)),
				"request_id", requestID)
		}
		return t.fail(ctx, span, t.normalizer.Normalize(normalize.Failure{
			HasResponse: true,
			Status:      resp.StatusCode,
			Body:        respBody,
			RequestID:   requestID,
		}))
	}

	// Unmarshal data
	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return t.fail(ctx, span, t.normalizer.Decode(resp.StatusCode, err, requestID))
		}
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// buildRequest encodes the body and applies the decorators in order
func (t *RESTTransport) buildRequest(ctx context.Context, req *Request) (*http.Request, *types.Error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, t.normalizer.Encode(err, "")
		}
		body = bytes.NewReader(data)
	}

	baseURL := t.baseURL
	if req.BaseURL != "" {
		baseURL = strings.TrimRight(req.BaseURL, "/")
	}

	target := baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, t.normalizer.Unknown(err)
	}

	// Per-call headers first; defaults only fill what is left
	for k, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}

	for _, decorate := range t.decorators {
		decorate(ctx, httpReq)
	}

	return httpReq, nil
}

// fail records the failure and runs the failure handlers. Canceled calls
// skip the handlers: nobody is waiting for a notification.
func (t *RESTTransport) fail(ctx context.Context, span trace.Span, apiErr *types.Error) error {
	span.SetStatus(codes.Error, apiErr.Message)
	span.SetAttributes(attribute.String("error.code", apiErr.Code))
	if apiErr.Err != nil {
		span.RecordError(apiErr.Err)
	}

	if t.hooks != nil && t.hooks.OnError != nil {
		t.hooks.OnError(ctx, apiErr)
	}

	if apiErr.Code == types.CodeCanceled {
		if t.logger != nil {
			t.logger.Debug("API call canceled", "request_id", apiErr.RequestID)
		}
		return apiErr
	}

	if t.logger != nil {
		t.logger.Error("API call failed",
			"code", apiErr.Code,
			"status", apiErr.Status,
			"message", apiErr.Message,
			"request_id", apiErr.RequestID)
	}

	// The caller's context may already be done; handlers still need to run
	handlerCtx := context.WithoutCancel(ctx)
	for _, h := range t.handlers {
		h.HandleFailure(handlerCtx, apiErr)
	}

	return apiErr
}

// doRequest executes the HTTP request with retry if configured
func (t *RESTTransport) doRequest(req *http.Request) (*http.Response, error) {
	if t.retryClient != nil {
		// Convert to retryable request
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		return t.retryClient.Do(retryReq)
	}
	return t.httpClient.Do(req)
}

// httpStatusDescription returns a human-readable description for server error
// codes, including the Cloudflare-specific ones.
func httpStatusDescription(statusCode int) string {
	descriptions := map[int]string{
		520: "Web Server Error",
		521: "Web Server Is Down",
		522: "Connection Timed Out",
		523: "Origin Is Unreachable",
		524: "A Timeout Occurred",
		525: "SSL Handshake Failed",
		526: "Invalid SSL Certificate",
		530: "Origin DNS Error",
	}
	if desc, ok := descriptions[statusCode]; ok {
		return desc
	}
	return http.StatusText(statusCode)
}

// truncate shortens response bodies for logging
func truncate(s string) string {
	const maxLen = 200
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
