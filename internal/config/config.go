package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/timeline"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds process-wide settings. Sources, lowest precedence first:
// defaults, YAML file, .env file, environment.
type Config struct {
	DBPath          string `yaml:"db"`
	LogFile         string `yaml:"log_file"`
	LogLevel        string `yaml:"log_level"`
	HTTPAddr        string `yaml:"http_addr"`
	ImportURL       string `yaml:"import_url"`
	ImportTimeoutMs int    `yaml:"import_timeout_ms"`
	DefaultZoom     string `yaml:"default_zoom"`
	// WorkingDays is the mask given to new projects ("1111100" or "mon-fri").
	WorkingDays string `yaml:"working_days"`
}

// DefaultConfig returns a Config with sensible defaults. Logs go to stderr
// and no import source is configured.
func DefaultConfig() Config {
	return Config{
		DBPath:          filepath.Join(homeDir(), ".gantt", "gantt.db"),
		LogLevel:        "info",
		HTTPAddr:        ":8080",
		ImportTimeoutMs: 5000,
		DefaultZoom:     string(timeline.ZoomWeek),
		WorkingDays:     calendar.WeekdaysMask.String(),
	}
}

// LoadConfig reads the YAML file named by GANTT_CONFIG (default
// ~/.gantt/config.yaml), then the .env file named by GANTT_ENV_FILE
// (default ./.env), then the process environment. Missing default files
// are skipped; a missing file named explicitly is an error.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path, explicit := os.LookupEnv("GANTT_CONFIG")
	if !explicit || path == "" {
		path = filepath.Join(homeDir(), ".gantt", "config.yaml")
	}
	if err := loadYAML(&cfg, path, explicit); err != nil {
		return cfg, err
	}

	envPath, explicitEnv := os.LookupEnv("GANTT_ENV_FILE")
	if !explicitEnv || envPath == "" {
		envPath = ".env"
	}
	dotenv, err := godotenv.Read(envPath)
	if err != nil {
		if explicitEnv || !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("reading env file %s: %w", envPath, err)
		}
		dotenv = nil
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}
	applyEnv(&cfg, lookup)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail later at use.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if _, err := timeline.ParseZoom(c.DefaultZoom); err != nil {
		return fmt.Errorf("default_zoom: %w", err)
	}
	if _, err := c.Mask(); err != nil {
		return fmt.Errorf("working_days: %w", err)
	}
	if c.ImportTimeoutMs <= 0 {
		return fmt.Errorf("import_timeout_ms must be positive")
	}
	return nil
}

// Mask parses WorkingDays and rejects a mask with no working day.
func (c Config) Mask() (calendar.Mask, error) {
	m, err := calendar.ParseMask(c.WorkingDays)
	if err != nil {
		return m, err
	}
	return m, m.Validate()
}

func loadYAML(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) string) {
	if v := lookup("GANTT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := lookup("GANTT_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := lookup("GANTT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := lookup("GANTT_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := lookup("GANTT_IMPORT_URL"); v != "" {
		cfg.ImportURL = v
	}
	if v := lookup("GANTT_IMPORT_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ImportTimeoutMs = n
		}
	}
	if v := lookup("GANTT_DEFAULT_ZOOM"); v != "" {
		cfg.DefaultZoom = v
	}
	if v := lookup("GANTT_WORKING_DAYS"); v != "" {
		cfg.WorkingDays = v
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
