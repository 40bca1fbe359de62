package session

import (
	"context"

	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

// DefaultKeyringService is the service name used for keyring entries
const DefaultKeyringService = "booking-go"

// KeyringStore keeps session values in the OS keychain
// (macOS Keychain, Secret Service on Linux, Windows Credential Manager).
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring-backed store. An empty service uses DefaultKeyringService.
func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = DefaultKeyringService
	}
	return &KeyringStore{service: service}
}

// Get returns the value stored under key
func (s *KeyringStore) Get(_ context.Context, key string) (string, error) {
	v, err := keyring.Get(s.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", errors.Wrap(err, "keyring error")
	}
	return v, nil
}

// Set stores value under key
func (s *KeyringStore) Set(_ context.Context, key, value string) error {
	if err := keyring.Set(s.service, key, value); err != nil {
		return errors.Wrap(err, "keyring error")
	}
	return nil
}

// Delete removes key
func (s *KeyringStore) Delete(_ context.Context, key string) error {
	if err := keyring.Delete(s.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrKeyNotFound
		}
		return errors.Wrap(err, "keyring error")
	}
	return nil
}
