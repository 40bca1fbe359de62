package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eshaffer321/booking-go/internal/guard"
	"github.com/eshaffer321/booking-go/internal/notify"
	"github.com/eshaffer321/booking-go/internal/session"
	"github.com/eshaffer321/booking-go/internal/suggest"
	"github.com/eshaffer321/booking-go/internal/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransport is a mock implementation of the Transport interface
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Do(ctx context.Context, req *transport.Request, result interface{}) error {
	args := m.Called(ctx, req, result)

	// If mock provides result data, unmarshal it
	if args.Get(0) != nil && result != nil {
		resultJSON := args.Get(0).(string)
		if err := json.Unmarshal([]byte(resultJSON), result); err != nil {
			return err
		}
	}

	return args.Error(1)
}

// newTestClient wires a client around mockTransport the way NewClient does
func newTestClient(mockTransport *MockTransport) *Client {
	sessions := session.NewManager(nil, nil)
	client := &Client{
		transport:       mockTransport,
		options:         &ClientOptions{},
		sessions:        sessions,
		guard:           guard.New(sessions, nil),
		suggest:         suggest.NewClient(nil),
		authBaseURL:     "https://auth.test/api/v1",
		filmBaseURL:     "https://films.test/api/v1",
		pollInterval:    time.Millisecond,
		maxPollInterval: 4 * time.Millisecond,
	}
	client.initServices()
	return client
}

// requestTo matches a transport request by method and path
func requestTo(method, path string) interface{} {
	return mock.MatchedBy(func(r *transport.Request) bool {
		return r.Method == method && r.Path == path
	})
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(nil)
	require.NoError(t, err)
	defer client.Close()

	assert.NotNil(t, client.Auth)
	assert.NotNil(t, client.Events)
	assert.NotNil(t, client.Addresses)
	assert.NotNil(t, client.Reservations)
	assert.NotNil(t, client.Subscriptions)
	assert.NotNil(t, client.Feedback)
	assert.NotNil(t, client.Films)
	assert.Equal(t, DefaultAuthBaseURL, client.authBaseURL)
	assert.Equal(t, DefaultFilmBaseURL, client.filmBaseURL)
	assert.Equal(t, defaultPollInterval, client.pollInterval)
	assert.Equal(t, "/login", client.LoginPath())
}

func TestNewClientWithToken(t *testing.T) {
	client, err := NewClientWithToken("tok-1")
	require.NoError(t, err)

	ctx := context.Background()
	assert.Equal(t, map[string]string{"Authorization": "Bearer tok-1"}, client.sessions.AuthHeaders(ctx))
	assert.True(t, client.Auth.IsAuthenticated(ctx))
}

func TestClient_CheckAccess(t *testing.T) {
	navigator := &guard.RecordingNavigator{}
	client, err := NewClient(&ClientOptions{Navigator: navigator})
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, client.CheckAccess(ctx, "/login").Allow)

	decision := client.CheckAccess(ctx, "/events/my")
	assert.False(t, decision.Allow)
	assert.Equal(t, "/login", decision.Redirect)

	require.NoError(t, client.sessions.Save(ctx, &Session{AccessToken: "opaque"}))
	assert.True(t, client.CheckAccess(ctx, "/events/my").Allow)
	assert.True(t, client.Auth.IsAuthenticated(ctx))
	assert.Len(t, navigator.Redirects(), 1)
}

func TestClient_UnauthorizedClearsSessionAndRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Token expired"}`))
	}))
	defer server.Close()

	navigator := &guard.RecordingNavigator{}
	notifier := &notify.Recorder{}
	client, err := NewClient(&ClientOptions{
		BaseURL:   server.URL,
		Navigator: navigator,
		Notifier:  notifier,
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.sessions.Save(ctx, &Session{AccessToken: "stale", Username: "alice"}))

	_, err = client.Reservations.Get(ctx, "r-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.True(t, IsAuthError(err))

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeDetail, apiErr.Code)
	assert.Equal(t, "Token expired", apiErr.Message)

	redirect, ok := navigator.Last()
	require.True(t, ok)
	assert.Equal(t, "/login", redirect.Destination)
	assert.Equal(t, guard.ReasonUnauthorized, redirect.Reason)

	stored, err := client.sessions.Load(ctx)
	require.NoError(t, err)
	assert.True(t, stored.IsZero())
	assert.Equal(t, []string{"Token expired"}, notifier.Messages())
}

func TestClient_ToastBeforeErrorReturns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"NotEnoughSeats","message":"Not enough seats"}}`))
	}))
	defer server.Close()

	returned := false
	var toasted []string
	client, err := NewClient(&ClientOptions{
		BaseURL: server.URL,
		Notifier: NotifierFunc(func(_ context.Context, n Notification) {
			assert.False(t, returned, "toast must be shown before the caller sees the error")
			toasted = append(toasted, n.Message)
		}),
	})
	require.NoError(t, err)

	_, err = client.Events.Reserve(context.Background(), "e-1", 3)
	returned = true

	require.Error(t, err)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "NotEnoughSeats", apiErr.Code)
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, []string{"Not enough seats"}, toasted)
	assert.False(t, IsRetryable(err))
}

func TestClient_FilmsUseFilmBaseURL(t *testing.T) {
	films := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/films/search/", r.URL.Path)
		assert.Equal(t, "matrix", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`[{"uuid":"f-1","title":"The Matrix","imdb_rating":8.7}]`))
	}))
	defer films.Close()

	client, err := NewClient(&ClientOptions{FilmBaseURL: films.URL + "/api/v1"})
	require.NoError(t, err)

	result, err := client.Films.Search(context.Background(), "matrix", 0)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "The Matrix", result[0].Title)
	require.NotNil(t, result[0].IMDBRating)
	assert.Equal(t, 8.7, *result[0].IMDBRating)
}

func TestClient_Metrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/my/") {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	client, err := NewClient(&ClientOptions{BaseURL: server.URL, MetricsRegisterer: reg})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = client.Events.Mine(ctx)
	require.NoError(t, err)
	_, err = client.Events.Get(ctx, "e-1")
	require.Error(t, err)
	assert.True(t, IsRetryable(err))

	count, err := testutil.GatherAndCount(reg, "booking_client_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClient_FanOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/events/my/":
			_, _ = w.Write([]byte(`[{"id":"e-1","capacity":10}]`))
		case "/subscribe/my/":
			_, _ = w.Write([]byte(`[{"user_id":"u-1","host_id":"h-1"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Reservation not found"}`))
		}
	}))
	defer server.Close()

	notifier := &notify.Recorder{}
	client, err := NewClient(&ClientOptions{BaseURL: server.URL, Notifier: notifier})
	require.NoError(t, err)

	ctx := context.Background()
	outcomes := Settle(ctx,
		func(ctx context.Context) (interface{}, error) { return client.Events.Mine(ctx) },
		func(ctx context.Context) (interface{}, error) { return client.Reservations.Get(ctx, "missing") },
		func(ctx context.Context) (interface{}, error) { return client.Subscriptions.Mine(ctx, Page{}) },
	)

	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].OK())
	assert.Len(t, outcomes[0].Value.([]*Event), 1)

	assert.False(t, outcomes[1].OK())
	assert.True(t, IsNotFound(outcomes[1].Err))
	apiErr, ok := AsError(outcomes[1].Err)
	require.True(t, ok)
	assert.Equal(t, "Reservation not found", apiErr.Message)

	assert.True(t, outcomes[2].OK())
	assert.Len(t, outcomes[2].Value.([]*Subscription), 1)

	assert.Equal(t, []string{"Reservation not found"}, notifier.Messages())
}
