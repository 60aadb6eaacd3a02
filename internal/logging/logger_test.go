package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesFormattedLineToFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{SystemName: "gantt-test", Level: "info", Fallback: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.WithFields(logrus.Fields{"use_case": "regenerate", "duration_ms": 3}).Info("service_use_case")

	line := buf.String()
	assert.Contains(t, line, "Event Source: gantt-test")
	assert.Contains(t, line, "Event Type: INFO")
	assert.Contains(t, line, "Message: service_use_case, duration_ms=3, use_case=regenerate")
	assert.NotContains(t, line, "Location:")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "warn", Fallback: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "Event Source: gantt")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.ErrorContains(t, err, "log level")
}

func TestNew_RotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gantt.log")
	logger, closer, err := New(Options{File: path, ReportCaller: true})
	require.NoError(t, err)

	logger.Error("disk full")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Event Type: ERROR")
	assert.Contains(t, string(data), "Location: logger_test.go")
}
