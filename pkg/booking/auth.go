package booking

import (
	"context"

	"github.com/eshaffer321/booking-go/internal/auth"
)

// authService implements the AuthService interface
type authService struct {
	client *Client
	svc    *auth.Service
}

// newAuthService creates a new auth service against the auth base URL
func newAuthService(client *Client) *authService {
	return &authService{
		client: client,
		svc:    auth.NewService(client.transport, client.sessions, client.authBaseURL, client.logger()),
	}
}

// Register creates an account and signs in
func (s *authService) Register(ctx context.Context, params *RegisterParams) (*TokenResponse, error) {
	return s.svc.Register(ctx, params)
}

// Login signs in with email and password
func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	return s.svc.Login(ctx, email, password)
}

// Logout ends the session; the local session is always cleared
func (s *authService) Logout(ctx context.Context) error {
	return s.svc.Logout(ctx)
}

// Refresh exchanges the refresh token for a new pair
func (s *authService) Refresh(ctx context.Context) (*TokenResponse, error) {
	return s.svc.Refresh(ctx)
}

// Me returns the signed-in user's profile
func (s *authService) Me(ctx context.Context) (*Profile, error) {
	return s.svc.Me(ctx)
}

// Sessions lists the user's active logins
func (s *authService) Sessions(ctx context.Context) ([]LoginSession, error) {
	return s.svc.Sessions(ctx)
}

// Session returns the stored session
func (s *authService) Session(ctx context.Context) (*Session, error) {
	return s.svc.Session(ctx)
}

// IsAuthenticated reports whether a live session is stored
func (s *authService) IsAuthenticated(ctx context.Context) bool {
	return s.client.guard.HasValidSession(ctx)
}
