// Package auth talks to the authentication service and keeps the stored
// session in step with it.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/eshaffer321/booking-go/internal/guard"
	"github.com/eshaffer321/booking-go/internal/transport"
	"github.com/eshaffer321/booking-go/internal/types"
	"github.com/pkg/errors"
)

const (
	registerEndpoint = "/auth/register/"
	loginEndpoint    = "/auth/login/"
	logoutEndpoint   = "/auth/logout/"
	refreshEndpoint  = "/auth/token/refresh/"
	meEndpoint       = "/me/"
)

// Doer executes API calls
type Doer interface {
	Do(ctx context.Context, req *transport.Request, result interface{}) error
}

// SessionStore persists the authenticated session
type SessionStore interface {
	Load(ctx context.Context) (*types.Session, error)
	Save(ctx context.Context, s *types.Session) error
	Clear(ctx context.Context) error
}

// RegisterRequest is the registration form
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// TokenResponse is returned by login, registration and refresh
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Profile is the authenticated user's account
type Profile struct {
	ID       string `json:"id,omitempty"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	IsActive bool   `json:"is_active"`
}

// LoginSession is one active login of the user
type LoginSession struct {
	ID        string `json:"id"`
	UserAgent string `json:"user_agent,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Service handles authentication operations
type Service struct {
	doer     Doer
	sessions SessionStore
	baseURL  string
	logger   types.Logger
}

// NewService creates a new auth service. baseURL is the auth service root;
// empty uses the transport's default.
func NewService(doer Doer, sessions SessionStore, baseURL string, logger types.Logger) *Service {
	return &Service{
		doer:     doer,
		sessions: sessions,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Register creates an account and stores the issued session
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	if req == nil {
		return nil, errors.New("register request is required")
	}

	// Log request
	if s.logger != nil {
		s.logger.Debug("Register request", "email", req.Email, "username", req.Username)
	}

	var tokens TokenResponse
	if err := s.doer.Do(ctx, s.request(http.MethodPost, registerEndpoint, req), &tokens); err != nil {
		return nil, err
	}

	username := req.Username
	if username == "" {
		username = req.Email
	}
	if err := s.storeTokens(ctx, &tokens, username); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Registration successful", "email", req.Email)
	}

	return &tokens, nil
}

// Login authenticates with email and password and stores the issued session
func (s *Service) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	// Log request
	if s.logger != nil {
		s.logger.Debug("Login request", "email", email)
	}

	var tokens TokenResponse
	if err := s.doer.Do(ctx, s.request(http.MethodPost, loginEndpoint, body), &tokens); err != nil {
		return nil, err
	}

	if err := s.storeTokens(ctx, &tokens, email); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Login successful", "email", email)
	}

	return &tokens, nil
}

// Refresh exchanges the stored refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context) (*TokenResponse, error) {
	current, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session")
	}
	if current.RefreshToken == "" {
		return nil, types.ErrNotAuthenticated
	}

	body := map[string]string{"refresh_token": current.RefreshToken}

	var tokens TokenResponse
	if err := s.doer.Do(ctx, s.request(http.MethodPost, refreshEndpoint, body), &tokens); err != nil {
		return nil, err
	}

	if tokens.RefreshToken == "" {
		tokens.RefreshToken = current.RefreshToken
	}
	if err := s.storeTokens(ctx, &tokens, current.Username); err != nil {
		return nil, err
	}

	return &tokens, nil
}

// Logout ends the session on the server when possible and always forgets it
// locally. A server-side failure is logged, not returned.
func (s *Service) Logout(ctx context.Context) error {
	current, err := s.sessions.Load(ctx)
	if err == nil && !current.IsZero() {
		if err := s.doer.Do(ctx, s.request(http.MethodPost, logoutEndpoint, nil), nil); err != nil && s.logger != nil {
			s.logger.Warn("Server logout failed", "error", err)
		}
	}

	if err := s.sessions.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}

	if s.logger != nil {
		s.logger.Info("Logged out")
	}
	return nil
}

// Me returns the profile of the authenticated user
func (s *Service) Me(ctx context.Context) (*Profile, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := s.doer.Do(ctx, s.request(http.MethodGet, meEndpoint+userID, nil), &profile); err != nil {
		return nil, err
	}
	if profile.ID == "" {
		profile.ID = userID
	}
	return &profile, nil
}

// Sessions lists the user's active logins
func (s *Service) Sessions(ctx context.Context) ([]LoginSession, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	var out []LoginSession
	if err := s.doer.Do(ctx, s.request(http.MethodGet, meEndpoint+userID+"/sessions/", nil), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Session returns the stored session
func (s *Service) Session(ctx context.Context) (*types.Session, error) {
	current, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session")
	}
	if current.IsZero() {
		return nil, types.ErrNotAuthenticated
	}
	return current, nil
}

func (s *Service) userID(ctx context.Context) (string, error) {
	current, err := s.Session(ctx)
	if err != nil {
		return "", err
	}
	if current.UserID != "" {
		return current.UserID, nil
	}
	if claims, err := guard.ParseClaims(current.AccessToken); err == nil {
		if claims.UserUUID != "" {
			return claims.UserUUID, nil
		}
		if claims.Subject != "" {
			return claims.Subject, nil
		}
	}
	return "", errors.New("user id is unknown for the current session")
}

// storeTokens persists tokens; the user id comes from the access token when it is a JWT
func (s *Service) storeTokens(ctx context.Context, tokens *TokenResponse, username string) error {
	if tokens.AccessToken == "" {
		return errors.New("no access token in response")
	}

	session := &types.Session{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Username:     strings.TrimSpace(username),
	}
	if claims, err := guard.ParseClaims(tokens.AccessToken); err == nil {
		session.UserID = claims.UserUUID
		if session.UserID == "" {
			session.UserID = claims.Subject
		}
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return errors.Wrap(err, "failed to save session")
	}
	return nil
}

func (s *Service) request(method, path string, body interface{}) *transport.Request {
	var opts []transport.CallOption
	if s.baseURL != "" {
		opts = append(opts, transport.WithBaseURL(s.baseURL))
	}
	return transport.NewRequest(method, path, body, opts...)
}
