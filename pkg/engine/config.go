package engine

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/germanamz/calcmcp/pkg/airtable"
	"gopkg.in/yaml.v3"
)

// Defaults applied by DefaultConfig.
const (
	DefaultServerName    = "Authless Calculator"
	DefaultServerVersion = "1.0.0"
	DefaultHTTPAddr      = ":8787"
	DefaultLogLevel      = "info"
)

// TokenEnvVar is consulted when the config carries no Airtable token.
const TokenEnvVar = "AIRTABLE_API_TOKEN"

// Config is the top-level engine configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	HTTP     HTTPConfig     `yaml:"http"`
	Airtable AirtableConfig `yaml:"airtable"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the MCP server identity.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// HTTPConfig holds HTTP transport settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// AirtableConfig holds airtable_query settings.
type AirtableConfig struct {
	APIToken string `yaml:"api_token"` //nolint:gosec // configuration field, not a hardcoded secret
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"` // Duration string (e.g. "30s"); empty means no timeout.
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, or error.
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name:    DefaultServerName,
			Version: DefaultServerVersion,
		},
		HTTP:     HTTPConfig{Addr: DefaultHTTPAddr},
		Airtable: AirtableConfig{BaseURL: airtable.DefaultBaseURL},
		Log:      LogConfig{Level: DefaultLogLevel},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing. This allows the Airtable token to be kept in the environment
// (e.g. loaded from a .env file) rather than committed in the config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("engine: config: server name is required")
	}

	if _, err := c.Airtable.timeout(); err != nil {
		return err
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// timeout parses the configured client timeout.
func (a AirtableConfig) timeout() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("engine: config: airtable timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("engine: config: airtable timeout must not be negative")
	}

	return d, nil
}

// token returns the configured token, falling back to TokenEnvVar.
func (a AirtableConfig) token() string {
	if a.APIToken != "" {
		return a.APIToken
	}

	return os.Getenv(TokenEnvVar)
}

// ParseLogLevel maps a config level name to a slog.Level. Empty means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("engine: config: unknown log level %q", level)
	}
}
