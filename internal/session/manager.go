package session

import (
	"context"

	"github.com/eshaffer321/booking-go/internal/types"
	"github.com/pkg/errors"
)

// Manager is the session context handed to the HTTP client. It is the only
// place that knows how a session is laid out in storage.
type Manager struct {
	store  Store
	logger types.Logger
}

// NewManager creates a session manager over store. A nil store keeps the session in memory.
func NewManager(store Store, logger types.Logger) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{store: store, logger: logger}
}

// Store returns the underlying store
func (m *Manager) Store() Store {
	return m.store
}

// Load reads the persisted session. Missing keys are left empty.
func (m *Manager) Load(ctx context.Context) (*types.Session, error) {
	s := &types.Session{}
	fields := map[string]*string{
		types.KeyAccessToken:  &s.AccessToken,
		types.KeyRefreshToken: &s.RefreshToken,
		types.KeyUsername:     &s.Username,
		types.KeyUserID:       &s.UserID,
	}

	for key, dst := range fields {
		v, err := m.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, ErrKeyNotFound) {
				continue
			}
			return nil, errors.Wrapf(err, "load %s", key)
		}
		*dst = v
	}

	return s, nil
}

// Save persists every non-empty field of s; empty fields are removed from storage.
func (m *Manager) Save(ctx context.Context, s *types.Session) error {
	if s == nil {
		return m.Clear(ctx)
	}

	fields := map[string]string{
		types.KeyAccessToken:  s.AccessToken,
		types.KeyRefreshToken: s.RefreshToken,
		types.KeyUsername:     s.Username,
		types.KeyUserID:       s.UserID,
	}

	for key, v := range fields {
		if v == "" {
			if err := m.store.Delete(ctx, key); err != nil && !errors.Is(err, ErrKeyNotFound) {
				return errors.Wrapf(err, "delete %s", key)
			}
			continue
		}
		if err := m.store.Set(ctx, key, v); err != nil {
			return errors.Wrapf(err, "save %s", key)
		}
	}

	if m.logger != nil {
		m.logger.Info("Session saved", "username", s.Username)
	}
	return nil
}

// Clear removes every session key from storage
func (m *Manager) Clear(ctx context.Context) error {
	for _, key := range types.SessionKeys {
		if err := m.store.Delete(ctx, key); err != nil && !errors.Is(err, ErrKeyNotFound) {
			return errors.Wrapf(err, "delete %s", key)
		}
	}

	if m.logger != nil {
		m.logger.Info("Session cleared")
	}
	return nil
}

// AccessToken returns the persisted access token, or "" when there is none.
// Storage failures are logged and read as "no token".
func (m *Manager) AccessToken(ctx context.Context) string {
	token, err := m.store.Get(ctx, types.KeyAccessToken)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) && m.logger != nil {
			m.logger.Warn("Failed to read access token", "error", err)
		}
		return ""
	}
	return token
}

// AuthHeaders returns the Authorization header for the persisted access
// token, or an empty map when no token is stored.
func (m *Manager) AuthHeaders(ctx context.Context) map[string]string {
	token := m.AccessToken(ctx)
	if token == "" {
		return map[string]string{}
	}
	return map[string]string{types.HeaderAuthorization: "Bearer " + token}
}
