// Package config loads server and CLI settings from an optional YAML file
// and the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	// DataDir holds users.json, clients.json and invoices.json.
	DataDir string `yaml:"data_dir"`

	// FixturesDir is the source of "invoicectl reset". Empty means
	// <DataDir>/fixtures.
	FixturesDir string `yaml:"fixtures_dir"`

	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path"`

	Port          int           `yaml:"port"`
	TokenKey      string        `yaml:"token_key"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	HashPasswords bool          `yaml:"hash_passwords"`

	LogLevel     string `yaml:"log_level"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Environment  string `yaml:"environment"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DataDir:     "./data",
		Backend:     BackendFile,
		SQLitePath:  "./data/invoicer.db",
		Port:        8080,
		TokenTTL:    time.Hour,
		LogLevel:    "info",
		Environment: "development",
	}
}

// Load reads path (if not empty) over the defaults, then applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.DataDir = getEnv("PATH_TO_JSON_DIR", c.DataDir)
	c.FixturesDir = getEnv("FIXTURES_DIR", c.FixturesDir)
	c.Backend = getEnv("STORE_BACKEND", c.Backend)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.TokenKey = getEnv("TOKEN_KEY", c.TokenKey)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		c.TokenTTL = ttl
	}
	if v := os.Getenv("HASH_PASSWORDS"); v != "" {
		hash, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HASH_PASSWORDS: %w", err)
		}
		c.HashPasswords = hash
	}
	return nil
}

// Validate checks field ranges and enums.
func (c *Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data dir must not be empty"))
	}
	switch c.Backend {
	case BackendFile:
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite backend needs a database path"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Backend))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid token ttl %s", c.TokenTTL))
	}
	return errors.Join(errs...)
}

// FixturesPath returns the fixtures directory.
func (c *Config) FixturesPath() string {
	if c.FixturesDir != "" {
		return c.FixturesDir
	}
	return filepath.Join(c.DataDir, "fixtures")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
