// Package config loads bookingctl configuration from file and environment.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/eshaffer321/booking-go/internal/types"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BOOKING_API_BASE_URL
const EnvPrefix = "BOOKING"

// Session backends
const (
	BackendMemory  = "memory"
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// DefaultDir is the per-user configuration directory
func DefaultDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".bookingctl")
	}
	return ".bookingctl"
}

// Load loads the configuration. With an empty configPath the standard
// locations are searched; finding no file there is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDir())
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error reading config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", types.DefaultBaseURL)
	v.SetDefault("api.auth_base_url", types.DefaultAuthBaseURL)
	v.SetDefault("api.film_base_url", types.DefaultFilmBaseURL)
	v.SetDefault("api.timeout", types.DefaultTimeout)
	v.SetDefault("api.language", "en")
	v.SetDefault("api.retry.max_retries", 0)
	v.SetDefault("api.retry.wait", "500ms")
	v.SetDefault("api.retry.max_wait", "5s")
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("api.rate_burst", 1)

	// Session defaults
	v.SetDefault("session.backend", BackendFile)
	v.SetDefault("session.path", filepath.Join(DefaultDir(), "session.json"))
	v.SetDefault("session.keyring_service", "booking-go")

	// Suggestion service defaults
	v.SetDefault("suggest.url", types.DefaultSuggestURL)
	v.SetDefault("suggest.api_key", "")

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("metrics.address", "")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	for name, raw := range map[string]string{
		"api.base_url":      cfg.API.BaseURL,
		"api.auth_base_url": cfg.API.AuthBaseURL,
		"api.film_base_url": cfg.API.FilmBaseURL,
	} {
		if raw == "" {
			return errors.Errorf("%s is required", name)
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Errorf("%s must be an absolute URL: %s", name, raw)
		}
	}

	if cfg.API.Timeout <= 0 {
		return errors.Errorf("api.timeout must be positive")
	}

	if cfg.API.Retry.MaxRetries < 0 {
		return errors.Errorf("api.retry.max_retries must not be negative")
	}

	if cfg.API.RateLimit < 0 {
		return errors.Errorf("api.rate_limit must not be negative")
	}

	if cfg.API.RateLimit > 0 && cfg.API.RateBurst < 1 {
		return errors.Errorf("api.rate_burst must be at least 1 when api.rate_limit is set")
	}

	// Validate session backend
	switch cfg.Session.Backend {
	case BackendMemory, BackendKeyring:
	case BackendFile:
		if cfg.Session.Path == "" {
			return errors.Errorf("session.path is required for the file backend")
		}
	default:
		return errors.Errorf("invalid session.backend: %s (must be memory, file or keyring)", cfg.Session.Backend)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return errors.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return errors.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
