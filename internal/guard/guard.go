// Package guard decides whether a destination may be entered and reacts to
// authentication failures by sending the user back to login.
package guard

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eshaffer321/booking-go/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Default destinations
const (
	DefaultLoginPath = "/login"
)

// Redirect reasons
const (
	ReasonNoSession    = "no_session"
	ReasonExpired      = "session_expired"
	ReasonUnauthorized = "unauthorized"
)

// DefaultPublicPaths are reachable without a session
var DefaultPublicPaths = []string{"/login", "/register", "/error"}

// Navigator moves the user to another destination
type Navigator interface {
	Redirect(ctx context.Context, destination, reason string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(ctx context.Context, destination, reason string)

// Redirect calls f
func (f NavigatorFunc) Redirect(ctx context.Context, destination, reason string) {
	f(ctx, destination, reason)
}

// Redirect is one recorded navigation
type Redirect struct {
	Destination string
	Reason      string
}

// RecordingNavigator remembers every redirect instead of performing it
type RecordingNavigator struct {
	mu        sync.Mutex
	redirects []Redirect
}

// Redirect records the navigation
func (n *RecordingNavigator) Redirect(_ context.Context, destination, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, Redirect{Destination: destination, Reason: reason})
}

// Redirects returns a copy of the recorded redirects
func (n *RecordingNavigator) Redirects() []Redirect {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Redirect(nil), n.redirects...)
}

// Last returns the most recent redirect
func (n *RecordingNavigator) Last() (Redirect, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.redirects) == 0 {
		return Redirect{}, false
	}
	return n.redirects[len(n.redirects)-1], true
}

// Sessions is the session state the guard reads and clears
type Sessions interface {
	Load(ctx context.Context) (*types.Session, error)
	Clear(ctx context.Context) error
}

// Options for the guard
type Options struct {
	LoginPath   string
	PublicPaths []string
	Navigator   Navigator

	// ClockSkew is tolerated when comparing token expiry
	ClockSkew time.Duration

	// Now defaults to time.Now
	Now    func() time.Time
	Logger types.Logger
}

// Decision is the outcome of a destination check
type Decision struct {
	Allow    bool
	Redirect string
	Reason   string
}

// Guard protects destinations that need a session
type Guard struct {
	sessions  Sessions
	loginPath string
	public    map[string]struct{}
	navigator Navigator
	skew      time.Duration
	now       func() time.Time
	logger    types.Logger
}

// New creates a guard over sessions
func New(sessions Sessions, opts *Options) *Guard {
	if opts == nil {
		opts = &Options{}
	}

	if opts.LoginPath == "" {
		opts.LoginPath = DefaultLoginPath
	}

	if opts.PublicPaths == nil {
		opts.PublicPaths = DefaultPublicPaths
	}

	if opts.Navigator == nil {
		opts.Navigator = &RecordingNavigator{}
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	public := make(map[string]struct{}, len(opts.PublicPaths)+1)
	for _, p := range opts.PublicPaths {
		public[cleanPath(p)] = struct{}{}
	}
	public[cleanPath(opts.LoginPath)] = struct{}{}

	return &Guard{
		sessions:  sessions,
		loginPath: opts.LoginPath,
		public:    public,
		navigator: opts.Navigator,
		skew:      opts.ClockSkew,
		now:       opts.Now,
		logger:    opts.Logger,
	}
}

// LoginPath returns the login destination
func (g *Guard) LoginPath() string {
	return g.loginPath
}

// IsPublic reports whether destination is reachable without a session
func (g *Guard) IsPublic(destination string) bool {
	_, ok := g.public[cleanPath(destination)]
	return ok
}

// Check decides whether destination may be entered. A protected destination
// without a valid session is refused and the navigator is sent to login.
func (g *Guard) Check(ctx context.Context, destination string) Decision {
	if g.IsPublic(destination) {
		return Decision{Allow: true}
	}

	reason := g.sessionProblem(ctx)
	if reason == "" {
		return Decision{Allow: true}
	}

	if g.logger != nil {
		g.logger.Info("Access denied", "destination", destination, "reason", reason)
	}

	g.navigator.Redirect(ctx, g.loginPath, reason)
	return Decision{Allow: false, Redirect: g.loginPath, Reason: reason}
}

// HasValidSession reports whether a usable session is stored
func (g *Guard) HasValidSession(ctx context.Context) bool {
	return g.sessionProblem(ctx) == ""
}

// HandleFailure reacts to a failed API call. A 401 from any call clears the
// session and redirects to login; every other failure is left to the
// notification chain.
func (g *Guard) HandleFailure(ctx context.Context, err *types.Error) {
	if err == nil || err.Status != http.StatusUnauthorized {
		return
	}

	if clearErr := g.sessions.Clear(ctx); clearErr != nil && g.logger != nil {
		g.logger.Error("Failed to clear session", "error", clearErr)
	}

	if g.logger != nil {
		g.logger.Info("Session rejected by server", "request_id", err.RequestID)
	}

	g.navigator.Redirect(ctx, g.loginPath, ReasonUnauthorized)
}

// sessionProblem returns the reason the stored session is unusable, or ""
func (g *Guard) sessionProblem(ctx context.Context) string {
	s, err := g.sessions.Load(ctx)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("Failed to load session", "error", err)
		}
		return ReasonNoSession
	}
	if s.IsZero() {
		return ReasonNoSession
	}
	if g.expired(s.AccessToken) {
		return ReasonExpired
	}
	return ""
}

// expired reports whether token is a JWT whose exp has passed. Opaque
// tokens never expire client-side.
func (g *Guard) expired(token string) bool {
	claims, err := ParseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return g.now().After(claims.ExpiresAt.Add(g.skew))
}

// Claims carried by the auth service's access tokens
type Claims struct {
	jwt.RegisteredClaims
	UserUUID string   `json:"user_uuid,omitempty"`
	Scope    []string `json:"scope,omitempty"`
}

// ParseClaims decodes token claims without verifying the signature. The
// client cannot verify tokens; the server stays the authority.
func ParseClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.New("token is empty")
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	return claims, nil
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		p = "/"
	}
	return p
}
