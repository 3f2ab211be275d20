// Package ibconfig loads connection settings for the ibtws client, the way
// minis/50-mini-service-all-features/internal/config loads a YAML file with
// environment-variable overrides.
package ibconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the options recognized by the client facade (spec.md §6).
type Config struct {
	Host       string        `yaml:"host"`
	Port       int           `yaml:"port"`
	ClientID   int64         `yaml:"client_id"`
	Timeout    time.Duration `yaml:"timeout"`
	BufferSize int           `yaml:"buffer_size"`
	Logging    LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the zerolog output the network handler and client
// facade write to.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the documented defaults: 127.0.0.1:4001, client id 0, a
// 60s readiness-wait timeout, and a 4096-byte read buffer.
func Default() *Config {
	return &Config{
		Host:       "127.0.0.1",
		Port:       4001,
		ClientID:   0,
		Timeout:    60 * time.Second,
		BufferSize: 4096,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML config file layered on top of Default, then applies
// IBTWS_HOST / IBTWS_PORT / IBTWS_CLIENT_ID / IBTWS_LOG_LEVEL environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ibconfig: read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ibconfig: parse config: %w", err)
	}

	if host := os.Getenv("IBTWS_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("IBTWS_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("ibconfig: IBTWS_PORT: %w", err)
		}
		cfg.Port = p
	}
	if clientID := os.Getenv("IBTWS_CLIENT_ID"); clientID != "" {
		id, err := strconv.ParseInt(clientID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ibconfig: IBTWS_CLIENT_ID: %w", err)
		}
		cfg.ClientID = id
	}
	if level := os.Getenv("IBTWS_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ibconfig: validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the config describes a dialable endpoint.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("ibconfig: host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("ibconfig: port %d out of range", c.Port)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("ibconfig: buffer_size must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("ibconfig: timeout must be positive")
	}
	return nil
}
