package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Suggest SuggestConfig `mapstructure:"suggest"`
	Logging LoggingConfig `mapstructure:"logging"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// APIConfig holds backend connection details
type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	AuthBaseURL string        `mapstructure:"auth_base_url"`
	FilmBaseURL string        `mapstructure:"film_base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Language    string        `mapstructure:"language"`
	Retry       RetryConfig   `mapstructure:"retry"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	RateBurst   int           `mapstructure:"rate_burst"`
}

// RetryConfig controls retries; MaxRetries 0 disables them
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	Wait       time.Duration `mapstructure:"wait"`
	MaxWait    time.Duration `mapstructure:"max_wait"`
}

// SessionConfig selects where the session is persisted
type SessionConfig struct {
	// Backend is one of memory, file, keyring
	Backend        string `mapstructure:"backend"`
	Path           string `mapstructure:"path"`
	KeyringService string `mapstructure:"keyring_service"`
}

// SuggestConfig holds the address suggestion service details
type SuggestConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// SentryConfig enables error reporting when DSN is set
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// MetricsConfig exposes Prometheus metrics on Address when set
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
