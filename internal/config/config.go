// Package config loads server configuration from defaults, an optional YAML
// file, and environment variables. No setting is required; out of the box the
// server talks to the public NIH Reporter endpoint.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"nih-reporter-mcp/internal/reporter"
)

// Config is the full server configuration.
type Config struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Port           string `yaml:"port"`
	Token          string `yaml:"token"`
	LogLevel       string `yaml:"log_level"`
}

// Load applies defaults, then the YAML file named by NIH_MCP_CONFIG if set,
// then environment variable overrides.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:        reporter.DefaultBaseURL,
		TimeoutSeconds: int(reporter.DefaultTimeout / time.Second),
		Port:           "3000",
		LogLevel:       "info",
	}

	if path := os.Getenv("NIH_MCP_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.BaseURL = getEnv("NIH_API_BASE_URL", cfg.BaseURL)
	cfg.TimeoutSeconds = getEnvInt("NIH_API_TIMEOUT_SECONDS", cfg.TimeoutSeconds)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Token = getEnv("MCP_TOKEN", cfg.Token)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %d", cfg.TimeoutSeconds)
	}
	return cfg, nil
}

// Timeout returns the upstream request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
