// Package config provides configuration loading and validation for the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Default values applied by MergeWithDefaults.
const (
	DefaultPort     = 8080
	DefaultLogLevel = "info"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config represents the server configuration. Values come from an optional
// JSON file and are then overridden by environment variables.
type Config struct {
	Port               int      `json:"port,omitempty"`                 // HTTP listen port
	DatabaseURL        string   `json:"database_url,omitempty"`         // PostgreSQL connection URL
	RedisURL           string   `json:"redis_url,omitempty"`            // Optional; empty disables the cache
	LogLevel           string   `json:"log_level,omitempty"`            // debug, info, warn or error
	LogDevelopment     bool     `json:"log_development,omitempty"`      // Console encoder instead of JSON
	CORSAllowedOrigins []string `json:"cors_allowed_origins,omitempty"` // Empty allows any origin
	MigrateOnStart     bool     `json:"migrate_on_start,omitempty"`     // Apply pending migrations before serving
}

// Defaults returns the configuration used for fields left unset.
func Defaults() Config {
	return Config{
		Port:     DefaultPort,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads the JSON file at path (skipped when path is empty), applies
// environment overrides and fills the remaining fields from Defaults.
// The result is validated before it is returned.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// applyEnv overrides fields with any environment variables that are set.
func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORSAllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the configuration has valid values.
// DatabaseURL is checked by RequireDatabase since the pipeline printer and
// migrate commands report their own error when it is missing.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		return fmt.Errorf("config error: unknown 'log_level' %q", c.LogLevel)
	}
	for _, origin := range c.CORSAllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("config error: invalid CORS origin %q", origin)
		}
	}
	return nil
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required (set DATABASE_URL)")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if len(result.CORSAllowedOrigins) == 0 {
		result.CORSAllowedOrigins = defaults.CORSAllowedOrigins
	}

	// Bool fields cannot distinguish unset from false, so they are not merged.

	return result
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
