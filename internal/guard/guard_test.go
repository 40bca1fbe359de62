package guard

import (
	"context"
	"testing"
	"time"

	"github.com/eshaffer321/booking-go/internal/session"
	"github.com/eshaffer321/booking-go/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
		UserUUID:         "6f1c2d1e-0000-4000-8000-000000000001",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func newGuard(t *testing.T, token string) (*Guard, *session.Manager, *RecordingNavigator) {
	t.Helper()
	sessions := session.NewManager(nil, nil)
	if token != "" {
		require.NoError(t, sessions.Save(context.Background(), &types.Session{AccessToken: token, Username: "alice"}))
	}
	nav := &RecordingNavigator{}
	g := New(sessions, &Options{
		Navigator: nav,
		Now:       func() time.Time { return fixedNow },
	})
	return g, sessions, nav
}

func TestGuard_Check(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		destination string
		wantAllow   bool
		wantReason  string
	}{
		{"public page without session", "", "/login", true, ""},
		{"register is public", "", "/register?next=/events", true, ""},
		{"protected page without session", "", "/bookings", false, ReasonNoSession},
		{"protected page with opaque token", "opaque-token", "/bookings", true, ""},
		{"protected page with live jwt", signedToken(t, fixedNow.Add(time.Hour)), "/events/my/", true, ""},
		{"protected page with expired jwt", signedToken(t, fixedNow.Add(-time.Minute)), "/events/my", false, ReasonExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, nav := newGuard(t, tt.token)

			decision := g.Check(context.Background(), tt.destination)

			assert.Equal(t, tt.wantAllow, decision.Allow)
			assert.Equal(t, tt.wantReason, decision.Reason)
			if tt.wantAllow {
				assert.Empty(t, nav.Redirects())
				assert.Empty(t, decision.Redirect)
				return
			}

			assert.Equal(t, DefaultLoginPath, decision.Redirect)
			last, ok := nav.Last()
			require.True(t, ok)
			assert.Equal(t, Redirect{Destination: DefaultLoginPath, Reason: tt.wantReason}, last)
		})
	}
}

func TestGuard_ClockSkew(t *testing.T) {
	sessions := session.NewManager(nil, nil)
	require.NoError(t, sessions.Save(context.Background(), &types.Session{AccessToken: signedToken(t, fixedNow.Add(-30*time.Second))}))

	g := New(sessions, &Options{
		ClockSkew: time.Minute,
		Now:       func() time.Time { return fixedNow },
	})

	assert.True(t, g.HasValidSession(context.Background()))
}

func TestGuard_HandleFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("401 clears session and redirects", func(t *testing.T) {
		g, sessions, nav := newGuard(t, "opaque-token")

		g.HandleFailure(ctx, &types.Error{Code: types.CodeDetail, Status: 401, Message: "Not authenticated"})

		assert.Equal(t, "", sessions.AccessToken(ctx))
		assert.Equal(t, []Redirect{{Destination: DefaultLoginPath, Reason: ReasonUnauthorized}}, nav.Redirects())
	})

	t.Run("other failures are left alone", func(t *testing.T) {
		for _, status := range []int{0, 400, 403, 404, 422, 500, 503} {
			g, sessions, nav := newGuard(t, "opaque-token")

			g.HandleFailure(ctx, &types.Error{Status: status})

			assert.Equal(t, "opaque-token", sessions.AccessToken(ctx), "status %d", status)
			assert.Empty(t, nav.Redirects(), "status %d", status)
		}
	})

	t.Run("nil error", func(t *testing.T) {
		g, _, nav := newGuard(t, "")
		g.HandleFailure(ctx, nil)
		assert.Empty(t, nav.Redirects())
	})
}

func TestGuard_CustomPaths(t *testing.T) {
	var got []string
	nav := NavigatorFunc(func(_ context.Context, destination, reason string) {
		got = append(got, destination+"#"+reason)
	})

	g := New(session.NewManager(nil, nil), &Options{
		LoginPath:   "/signin",
		PublicPaths: []string{"/", "/films"},
		Navigator:   nav,
	})

	assert.True(t, g.IsPublic("/signin"))
	assert.True(t, g.IsPublic("/films/"))
	assert.False(t, g.IsPublic("/login"))

	decision := g.Check(context.Background(), "/addresses")
	assert.False(t, decision.Allow)
	assert.Equal(t, "/signin", decision.Redirect)
	assert.Equal(t, []string{"/signin#" + ReasonNoSession}, got)
}

func TestParseClaims(t *testing.T) {
	token := signedToken(t, fixedNow)

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "6f1c2d1e-0000-4000-8000-000000000001", claims.UserUUID)
	assert.True(t, claims.ExpiresAt.Equal(fixedNow))

	_, err = ParseClaims("")
	assert.Error(t, err)

	_, err = ParseClaims("not-a-jwt")
	assert.Error(t, err)
}
