package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileLoggerWritesRotatedJSON(t *testing.T) {
	// Nested path exercises directory creation.
	logPath := filepath.Join(t.TempDir(), "logs", "serve.log")

	logger, closeLog, err := NewFileLogger(logPath, "serve", slog.LevelInfo)
	require.NoError(t, err)

	logger.Info("server starting", "port", "8080")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "server starting", record["msg"])
	assert.Equal(t, "serve", record["service"])
	assert.Equal(t, "8080", record["port"])
}

func TestNewFileLoggerRespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "serve.log")

	logger, closeLog, err := NewFileLogger(logPath, "serve", slog.LevelInfo)
	require.NoError(t, err)

	logger.Debug("suppressed")
	logger.Info("kept")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(data, []byte("\n")))
	assert.NotContains(t, string(data), "suppressed")
}

func TestForServiceWithoutInit(t *testing.T) {
	logger := ForService("test")
	require.NotNil(t, logger)
}
