package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/eshaffer321/booking-go/internal/config"
	"github.com/eshaffer321/booking-go/internal/guard"
	"github.com/eshaffer321/booking-go/internal/logging"
	"github.com/eshaffer321/booking-go/pkg/booking"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// App holds the state shared by every command of one invocation
type App struct {
	configPath string
	logLevel   string
	jsonOutput bool

	in     io.Reader
	lines  *bufio.Reader
	out    io.Writer
	errOut io.Writer

	cfg      *config.Config
	logger   zerolog.Logger
	client   *booking.Client
	registry *prometheus.Registry

	mu         sync.Mutex
	redirected bool
}

func newApp(in io.Reader, out, errOut io.Writer) *App {
	return &App{
		in:       in,
		out:      out,
		errOut:   errOut,
		logger:   zerolog.Nop(),
		registry: prometheus.NewRegistry(),
	}
}

// preRun loads configuration, builds the client and checks the destination
// of the command against the session guard.
func (a *App) preRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return &ExitError{Code: ExitUsage, Message: "failed to load config", Cause: err}
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg

	a.logger = logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Color:  cfg.Logging.Color,
		Output: a.errOut,
	})

	client, err := booking.NewClient(a.clientOptions(cfg))
	if err != nil {
		return errors.Wrap(err, "failed to create client")
	}
	a.client = client

	destination, ok := cmd.Annotations[destinationKey]
	if !ok {
		return nil
	}

	decision := client.CheckAccess(cmd.Context(), destination)
	if !decision.Allow {
		return ErrLoginRequired
	}
	return nil
}

func (a *App) clientOptions(cfg *config.Config) *booking.ClientOptions {
	logger := logging.NewAdapter(a.logger)
	opts := &booking.ClientOptions{
		BaseURL:           cfg.API.BaseURL,
		AuthBaseURL:       cfg.API.AuthBaseURL,
		FilmBaseURL:       cfg.API.FilmBaseURL,
		Timeout:           cfg.API.Timeout,
		Language:          cfg.API.Language,
		SessionStore:      sessionStore(cfg.Session),
		Logger:            logger,
		Notifier:          booking.MultiNotifier{booking.NewToastNotifier(a.errOut), booking.NewLogNotifier(logger)},
		Navigator:         booking.NavigatorFunc(a.redirect),
		LoginPath:         destLogin,
		PublicPaths:       publicDestinations,
		SuggestURL:        cfg.Suggest.URL,
		SuggestAPIKey:     cfg.Suggest.APIKey,
		MetricsRegisterer: a.registry,
	}

	if cfg.API.Retry.MaxRetries > 0 {
		opts.RetryConfig = &booking.RetryConfig{
			MaxRetries: cfg.API.Retry.MaxRetries,
			RetryWait:  cfg.API.Retry.Wait,
			MaxWait:    cfg.API.Retry.MaxWait,
		}
	}

	if cfg.API.RateLimit > 0 {
		opts.RateLimiter = rate.NewLimiter(rate.Limit(cfg.API.RateLimit), cfg.API.RateBurst)
	}

	if cfg.Sentry.DSN != "" {
		opts.SentryDSN = cfg.Sentry.DSN
		opts.SentryOptions = &sentry.ClientOptions{
			Environment: cfg.Sentry.Environment,
			Release:     "bookingctl@" + version,
		}
	}

	return opts
}

func sessionStore(cfg config.SessionConfig) booking.SessionStore {
	switch cfg.Backend {
	case config.BackendKeyring:
		return booking.NewKeyringSessionStore(cfg.KeyringService)
	case config.BackendFile:
		return booking.NewFileSessionStore(cfg.Path)
	default:
		return booking.NewMemorySessionStore()
	}
}

// redirect is the terminal navigator: it tells the user to sign in again
func (a *App) redirect(_ context.Context, destination, reason string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.redirected {
		return
	}
	a.redirected = true

	hint := "Please sign in"
	if reason != guard.ReasonNoSession {
		hint = "Your session has ended"
	}
	fmt.Fprintf(a.errOut, "%s: run 'bookingctl login' (%s)\n", hint, destination)
}

// Redirected reports whether the guard sent the user to login
func (a *App) Redirected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.redirected
}

// Close releases the client
func (a *App) Close() {
	if a.client != nil {
		a.client.Close()
	}
}

// render prints v as JSON with --json, otherwise through table
func (a *App) render(v interface{}, table func(w io.Writer)) error {
	if a.jsonOutput {
		encoder := json.NewEncoder(a.out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	table(w)
	return w.Flush()
}

// printf writes a human message; it is suppressed with --json
func (a *App) printf(format string, args ...interface{}) {
	if a.jsonOutput {
		return
	}
	fmt.Fprintf(a.out, format, args...)
}
