package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config source at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("GANTT_ENV_FILE", "")
	t.Setenv("GANTT_CONFIG", "")
	for _, k := range []string{"GANTT_DB", "GANTT_LOG_FILE", "GANTT_LOG_LEVEL", "GANTT_HTTP_ADDR",
		"GANTT_IMPORT_URL", "GANTT_IMPORT_TIMEOUT_MS", "GANTT_DEFAULT_ZOOM", "GANTT_WORKING_DAYS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Chdir(dir)
	return dir
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "week", cfg.DefaultZoom)
	assert.Equal(t, 5000, cfg.ImportTimeoutMs)
	assert.NoError(t, cfg.Validate())

	mask, err := cfg.Mask()
	require.NoError(t, err)
	assert.Equal(t, calendar.WeekdaysMask, mask)
}

func TestLoadConfig_NoFilesUsesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".gantt", "gantt.db"), cfg.DBPath)
	assert.Empty(t, cfg.ImportURL)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := isolate(t)
	yamlPath := write(t, dir, "config.yaml", "db: /from/yaml.db\nlog_level: debug\ndefault_zoom: day\nworking_days: mon-sat\n")
	envPath := write(t, dir, "gantt.env", "GANTT_LOG_LEVEL=warn\nGANTT_IMPORT_URL=http://imports.local\n")
	t.Setenv("GANTT_CONFIG", yamlPath)
	t.Setenv("GANTT_ENV_FILE", envPath)
	t.Setenv("GANTT_IMPORT_URL", "http://env.local")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/from/yaml.db", cfg.DBPath, "yaml over default")
	assert.Equal(t, "day", cfg.DefaultZoom)
	assert.Equal(t, "warn", cfg.LogLevel, ".env over yaml")
	assert.Equal(t, "http://env.local", cfg.ImportURL, "environment over .env")
	assert.Equal(t, "mon-sat", cfg.WorkingDays)
}

func TestLoadConfig_DotEnvInWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv("GANTT_ENV_FILE")
	write(t, dir, ".env", "GANTT_HTTP_ADDR=:9999\n")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("explicit config file missing", func(t *testing.T) {
		dir := isolate(t)
		t.Setenv("GANTT_CONFIG", filepath.Join(dir, "missing.yaml"))
		_, err := LoadConfig()
		assert.Error(t, err)
	})
	t.Run("malformed yaml", func(t *testing.T) {
		dir := isolate(t)
		t.Setenv("GANTT_CONFIG", write(t, dir, "bad.yaml", "db: [unclosed\n"))
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "parsing config file")
	})
	t.Run("no working days", func(t *testing.T) {
		isolate(t)
		t.Setenv("GANTT_WORKING_DAYS", "0000000")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, calendar.ErrNoWorkingDays)
	})
	t.Run("bad zoom", func(t *testing.T) {
		isolate(t)
		t.Setenv("GANTT_DEFAULT_ZOOM", "year")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "default_zoom")
	})
}

func TestLoadConfig_InvalidTimeoutIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("GANTT_IMPORT_TIMEOUT_MS", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.ImportTimeoutMs)
}
