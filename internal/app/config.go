package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/raysh454/respdiff/internal/store"
	"github.com/raysh454/respdiff/internal/webclient"
)

// Config is the runtime configuration shared by the API server and the
// one-shot CLI mode.
type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Store     store.Config     `yaml:"store"`
	WebClient webclient.Config `yaml:"webclient"`

	// EventBuffer is the per-subscriber channel size of the comparison feed.
	EventBuffer int `yaml:"event_buffer"`

	// DiffSummaryLength is how many characters of the diff a result carries.
	DiffSummaryLength int `yaml:"diff_summary_length"`
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":8000",
		LogLevel:   "info",
		Store: store.Config{
			Path:        store.DefaultPath,
			BusyTimeout: 5000,
		},
		WebClient: webclient.Config{
			Client:  webclient.ClientNetHTTP,
			Timeout: webclient.DefaultTimeout,
		},
		EventBuffer:       16,
		DiffSummaryLength: 500,
	}
}

// Environment variables that override file configuration.
const (
	EnvDBPath       = "RESPDIFF_DB_PATH"
	EnvLegacyDBPath = "DB_PATH"
	EnvListenAddr   = "RESPDIFF_LISTEN_ADDR"
	EnvLogLevel     = "RESPDIFF_LOG_LEVEL"
	EnvFetchTimeout = "RESPDIFF_FETCH_TIMEOUT"
)

// LoadConfig layers, in increasing precedence: defaults, the YAML file at
// path (skipped when empty), values from envFile (a .env file, skipped when
// empty or missing) and the process environment.
func LoadConfig(path, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	fileEnv := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileEnv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}
	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLegacyDBPath); ok && v != "" {
		cfg.Store.Path = sqlitePath(v)
	}
	if v, ok := lookup(EnvDBPath); ok && v != "" {
		cfg.Store.Path = sqlitePath(v)
	}
	if v, ok := lookup(EnvListenAddr); ok && v != "" {
		cfg.ListenAddr = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvFetchTimeout); ok && v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvFetchTimeout, err)
		}
		cfg.WebClient.Timeout = d
	}
	return nil
}

// sqlitePath accepts both plain paths and SQLAlchemy style sqlite URLs.
func sqlitePath(v string) string {
	for _, prefix := range []string{"sqlite:///", "sqlite://"} {
		if strings.HasPrefix(v, prefix) {
			return strings.TrimPrefix(v, prefix)
		}
	}
	return v
}

// parseTimeout accepts a Go duration ("45s") or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %q", v)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %q", v)
	}
	return d, nil
}
