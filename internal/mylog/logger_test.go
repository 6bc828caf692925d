package mylog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ToLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ToLogLevel("warn"))
	assert.Equal(t, slog.LevelError, ToLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ToLogLevel("verbose"))
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("memory saved", "id", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "memory saved", line["msg"])
	assert.Equal(t, "abc", line["id"])
	assert.Contains(t, line, "source")
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "default")

	logger.Info("hidden")
	logger.Warn("fallback used", "reason", "timeout")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "fallback used")
	assert.Contains(t, buf.String(), "timeout")
}
