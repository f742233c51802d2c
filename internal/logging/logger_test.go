package logging_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workjournal/internal/logging"
)

func TestConsoleFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")

	logger, err := logging.New(logging.Options{Level: "info", Format: "console", OutputPaths: []string{logPath}})
	require.NoError(t, err)

	logging.NewComponentLogger(logger, "sync").Info("pass finished",
		slog.String(logging.FieldSyncID, "abc"),
		slog.String(logging.FieldPath, "/tmp/with space.txt"),
	)
	logger.Debug("hidden")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	line := string(content)

	assert.Contains(t, line, "INFO sync: pass finished")
	assert.Contains(t, line, "sync_id=abc")
	assert.Contains(t, line, `path="/tmp/with space.txt"`)
	assert.NotContains(t, line, "hidden")
	assert.NotContains(t, line, ".go:", "info lines carry no source location")
}

func TestJSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", OutputPaths: []string{logPath}})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("ambiguous entry", slog.String(logging.FieldDate, "2025-06-02"))

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &payload))
	assert.Equal(t, "warn", payload["level"])
	assert.Equal(t, "2025-06-02", payload["date"])
	assert.Contains(t, payload, "ts")
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}
