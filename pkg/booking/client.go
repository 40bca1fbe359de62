package booking

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/eshaffer321/booking-go/internal/guard"
	"github.com/eshaffer321/booking-go/internal/metrics"
	"github.com/eshaffer321/booking-go/internal/normalize"
	"github.com/eshaffer321/booking-go/internal/notify"
	"github.com/eshaffer321/booking-go/internal/session"
	"github.com/eshaffer321/booking-go/internal/suggest"
	"github.com/eshaffer321/booking-go/internal/transport"
	internalTypes "github.com/eshaffer321/booking-go/internal/types"
	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the default booking service API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultAuthBaseURL is the default auth service API base URL
	DefaultAuthBaseURL = internalTypes.DefaultAuthBaseURL

	// DefaultFilmBaseURL is the default content service API base URL
	DefaultFilmBaseURL = internalTypes.DefaultFilmBaseURL

	// DefaultTimeout is the client-wide request timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent
)

// Client is the main booking API client
type Client struct {
	// Service interfaces
	Auth          AuthService
	Events        EventService
	Addresses     AddressService
	Reservations  ReservationService
	Subscriptions SubscriptionService
	Feedback      FeedbackService
	Films         FilmService

	// Internal fields
	transport   Transport
	options     *ClientOptions
	sessions    *session.Manager
	guard       *guard.Guard
	suggest     *suggest.Client
	authBaseURL string
	filmBaseURL string

	pollInterval    time.Duration
	maxPollInterval time.Duration
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the booking service API base URL
	BaseURL string

	// AuthBaseURL overrides the auth service API base URL
	AuthBaseURL string

	// FilmBaseURL overrides the content service API base URL
	FilmBaseURL string

	// Token seeds the session with an access token
	Token string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Language selects the fallback error messages, "en" or "ru"
	Language string

	// SessionStore persists the session. Defaults to memory.
	SessionStore SessionStore

	// Logger for debug logging
	Logger Logger

	// RetryConfig enables retries when set
	RetryConfig *internalTypes.RetryConfig

	// RateLimiter for rate limiting; *rate.Limiter satisfies it
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *internalTypes.Hooks

	// Notifier shows a toast for every failed call. Defaults to the logger.
	Notifier Notifier

	// Navigator receives redirects to the login destination
	Navigator Navigator

	// LoginPath and PublicPaths configure the access check
	LoginPath   string
	PublicPaths []string

	// SuggestURL and SuggestAPIKey configure address suggestions
	SuggestURL    string
	SuggestAPIKey string

	// MetricsRegisterer enables Prometheus request metrics when set
	MetricsRegisterer prometheus.Registerer

	// Tracer overrides the global OpenTelemetry tracer
	Tracer trace.Tracer

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions

	// ReservationPollInterval is the first delay of WaitForStatus
	ReservationPollInterval time.Duration
}

// Logger interface for logging
type Logger = internalTypes.Logger

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// SessionStore persists session values
type SessionStore = session.Store

// Notifier shows transient notifications
type Notifier = notify.Notifier

// NotifierFunc adapts a function to Notifier
type NotifierFunc = notify.NotifierFunc

// Navigator moves the user to another destination
type Navigator = guard.Navigator

// MultiNotifier sends every notification to each notifier in order
type MultiNotifier = notify.Multi

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc = guard.NavigatorFunc

// Transport handles HTTP communication
type Transport interface {
	Do(ctx context.Context, req *transport.Request, result interface{}) error
}

// NewMemorySessionStore keeps the session for the life of the process
func NewMemorySessionStore() SessionStore {
	return session.NewMemoryStore()
}

// NewFileSessionStore keeps the session in a JSON file
func NewFileSessionStore(path string) SessionStore {
	return session.NewFileStore(path)
}

// NewKeyringSessionStore keeps the session in the OS keyring
func NewKeyringSessionStore(service string) SessionStore {
	return session.NewKeyringStore(service)
}

// NewLogNotifier writes notifications to logger
func NewLogNotifier(logger Logger) Notifier {
	return notify.LogNotifier{Logger: logger}
}

// NewToastNotifier renders failures as terminal toasts on w
func NewToastNotifier(w io.Writer) Notifier {
	return notify.NewToast(w, nil)
}

// NewClient creates a new booking client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		// Log error but don't fail client creation
		if err := sentry.Init(sentryOpts); err != nil && opts.Logger != nil {
			opts.Logger.Error("Failed to initialize Sentry", "error", err)
		}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.AuthBaseURL == "" {
		opts.AuthBaseURL = DefaultAuthBaseURL
	}

	if opts.FilmBaseURL == "" {
		opts.FilmBaseURL = DefaultFilmBaseURL
	}

	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.HTTPClient != nil {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	if opts.SessionStore == nil {
		opts.SessionStore = session.NewMemoryStore()
	}

	if opts.Notifier == nil {
		opts.Notifier = notify.LogNotifier{Logger: opts.Logger}
	}

	c := &Client{
		options:      opts,
		sessions:     session.NewManager(opts.SessionStore, opts.Logger),
		authBaseURL:  opts.AuthBaseURL,
		filmBaseURL:  opts.FilmBaseURL,
		pollInterval: opts.ReservationPollInterval,
	}

	c.guard = guard.New(c.sessions, &guard.Options{
		LoginPath:   opts.LoginPath,
		PublicPaths: opts.PublicPaths,
		Navigator:   opts.Navigator,
		Logger:      opts.Logger,
	})

	hooks := opts.Hooks
	if opts.MetricsRegisterer != nil {
		hooks = internalTypes.ChainHooks(hooks, metrics.New(opts.MetricsRegisterer).Hooks())
	}

	normalizer := normalize.New(normalize.ParseLanguage(opts.Language))

	// Failure handlers run in order: toast first, the session is cleared last
	c.transport = transport.NewRESTTransport(&transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		Timeout:     opts.Timeout,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       hooks,
		Auth:        c.sessions,
		Normalizer:  normalizer,
		Limiter:     opts.RateLimiter,
		Tracer:      opts.Tracer,
		FailureHandlers: []transport.FailureHandler{
			notify.FailureNotifier{Notifier: opts.Notifier},
			transport.FailureHandlerFunc(reportFailure),
			c.guard,
		},
	})

	c.suggest = suggest.NewClient(&suggest.Options{
		URL:        opts.SuggestURL,
		APIKey:     opts.SuggestAPIKey,
		HTTPClient: opts.HTTPClient,
		Timeout:    opts.Timeout,
		Normalizer: normalizer,
		Logger:     opts.Logger,
		// The session guard stays out: the service has its own credentials
		FailureHandlers: []transport.FailureHandler{
			notify.FailureNotifier{Notifier: opts.Notifier},
			transport.FailureHandlerFunc(reportFailure),
		},
	})

	// Initialize services
	c.initServices()

	if opts.Token != "" {
		if err := c.sessions.Save(context.Background(), &Session{AccessToken: opts.Token}); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// NewClientWithToken creates a client with an auth token held in memory
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{Token: token})
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	if c.pollInterval <= 0 {
		c.pollInterval = defaultPollInterval
	}
	if c.maxPollInterval <= 0 {
		c.maxPollInterval = defaultMaxPollInterval
	}

	c.Auth = newAuthService(c)
	c.Events = &eventService{client: c}
	c.Addresses = &addressService{client: c}
	c.Reservations = &reservationService{client: c}
	c.Subscriptions = &subscriptionService{client: c}
	c.Feedback = &feedbackService{client: c}
	c.Films = &filmService{client: c}
}

// CheckAccess decides whether destination may be shown. A protected
// destination without a live session redirects to the login destination.
func (c *Client) CheckAccess(ctx context.Context, destination string) Decision {
	return c.guard.Check(ctx, destination)
}

// LoginPath returns the login destination
func (c *Client) LoginPath() string {
	return c.guard.LoginPath()
}

func (c *Client) logger() Logger {
	if c.options == nil {
		return nil
	}
	return c.options.Logger
}

// call sends one request through the transport
func (c *Client) call(ctx context.Context, method, path string, body, result interface{}, opts ...transport.CallOption) error {
	return c.transport.Do(ctx, transport.NewRequest(method, path, body, opts...), result)
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	// Flush Sentry events with a 2 second timeout
	sentry.Flush(2 * time.Second)
}

// reportFailure sends a failed call to Sentry, on the hub from ctx when present
func reportFailure(ctx context.Context, err *internalTypes.Error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error.code", err.Code)
		scope.SetTag("http.status_code", strconv.Itoa(err.Status))
		if err.RequestID != "" {
			scope.SetTag("request_id", err.RequestID)
		}
		scope.SetContext("booking", map[string]interface{}{
			"code":       err.Code,
			"message":    err.Message,
			"status":     err.Status,
			"request_id": err.RequestID,
		})
		hub.CaptureException(err)
	})
}
