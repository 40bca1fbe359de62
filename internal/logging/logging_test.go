package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestAdapter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewAdapter(New(Options{Level: "debug", Format: "json", Output: &buf}))

	log.Debug("API request", "method", "GET", "path", "/events/")
	log.Error("API call failed", "status", 500, "error", errors.New("boom"))
	log.Info("dangling", "key")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "API request", lines[0]["message"])
	assert.Equal(t, "GET", lines[0]["method"])
	assert.Equal(t, "/events/", lines[0]["path"])

	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, float64(500), lines[1]["status"])
	assert.Equal(t, "boom", lines[1]["error"])

	assert.Equal(t, "key", lines[2]["extra"])
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewAdapter(New(Options{Level: "warn", Format: "json", Output: &buf}))

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log := NewAdapter(New(Options{Level: "info", Format: "console", Output: &buf}))

	log.Info("Session saved", "username", "alice")

	out := buf.String()
	assert.Contains(t, out, "Session saved")
	assert.Contains(t, out, "username=alice")
	assert.NotContains(t, out, "\x1b[")
}
