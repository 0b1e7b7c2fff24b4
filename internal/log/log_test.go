package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestNew_DefaultConfig(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, New(nil))
}

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{Output: &buf, Level: slog.LevelInfo})
	logger.Info("test message", "key", "value")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "ts")
	assert.NotContains(t, entries[0], "time")
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "test message", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
}

func TestNew_DebugOverridesLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{Output: &buf, Level: slog.LevelError, Debug: true})
	logger.Debug("debug message")
	assert.Contains(t, buf.String(), "debug message")
}

func TestNew_LevelHidesLower(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{Output: &buf, Level: slog.LevelWarn})
	logger.Info("info message")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"":      slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestOpen_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "cmdpal.log")
	logger, closeFn, err := Open("info", path)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestOpen_Stderr(t *testing.T) {
	t.Parallel()

	logger, closeFn, err := Open("warn", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closeFn())

	_, _, err = Open("nope", "")
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	logger := Discard()
	logger.Error("dropped")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}

func TestEventHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{Output: &buf, Debug: true})

	LogStartup(logger, StartupInfo{Version: "1.0.0", Command: "search", ConfigPath: "/c", CatalogPath: "/d"})
	LogCatalogLoaded(logger, "/d/commands.yaml", 12, 3)
	LogCatalogError(logger, "/d/bad.yaml", errors.New("boom"))
	LogSearch(logger, 4, 12, 5, 1500*time.Microsecond)
	LogPickerExit(logger, "selected", 0)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 5)

	assert.Equal(t, "cmdpal started", entries[0]["msg"])
	assert.Equal(t, "search", entries[0]["command"])

	assert.Equal(t, "catalog loaded", entries[1]["msg"])
	assert.Equal(t, float64(12), entries[1]["commands"])
	assert.Equal(t, float64(3), entries[1]["recent"])

	assert.Equal(t, "ERROR", entries[2]["level"])
	assert.Equal(t, "boom", entries[2]["error"])

	assert.Equal(t, "search", entries[3]["msg"])
	assert.Equal(t, float64(4), entries[3]["query_len"])
	assert.Equal(t, float64(1500), entries[3]["took_us"])

	assert.Equal(t, "picker exited", entries[4]["msg"])
	assert.Equal(t, "selected", entries[4]["outcome"])
}
