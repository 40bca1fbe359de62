// Package logging builds the zerolog logger and adapts it to types.Logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger
type Options struct {
	Level  string
	Format string
	Color  bool
	Output io.Writer
}

// New configures a zerolog logger
func New(opts Options) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(opts.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	// Configure output format
	if opts.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !opts.Color,
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// Adapter exposes a zerolog logger through the key/value Logger interface
type Adapter struct {
	logger zerolog.Logger
}

// NewAdapter wraps logger
func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Zerolog returns the wrapped logger
func (a *Adapter) Zerolog() zerolog.Logger {
	return a.logger
}

func (a *Adapter) Debug(msg string, keysAndValues ...interface{}) {
	a.logger.Debug().Fields(fields(keysAndValues)).Msg(msg)
}

func (a *Adapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info().Fields(fields(keysAndValues)).Msg(msg)
}

func (a *Adapter) Warn(msg string, keysAndValues ...interface{}) {
	a.logger.Warn().Fields(fields(keysAndValues)).Msg(msg)
}

func (a *Adapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error().Fields(fields(keysAndValues)).Msg(msg)
}

// fields turns alternating keys and values into a map; a dangling key is
// kept under "extra".
func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 >= len(keysAndValues) {
			out["extra"] = key
			break
		}
		val := keysAndValues[i+1]
		if err, ok := val.(error); ok {
			val = err.Error()
		}
		out[key] = val
	}
	return out
}
