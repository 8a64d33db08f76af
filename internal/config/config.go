// Package config handles application configuration loading. Values come
// from an optional YAML file (pointed to by FORGE_CONFIG) layered under
// environment variable overrides, with development defaults for anything
// left unset.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// configPathEnv names the environment variable holding the YAML file path.
const configPathEnv = "FORGE_CONFIG"

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Scheduled-publish sweep
	SweepSecret   string
	SweepInterval time.Duration
	SweepTimeout  time.Duration
}

// fileConfig mirrors the YAML layout. Durations are strings here and
// parsed in Load so a malformed value fails loudly instead of silently
// becoming zero.
type fileConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Env  string `yaml:"env"`

	Postgres struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"postgres"`

	Valkey struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Password string `yaml:"password"`
	} `yaml:"valkey"`

	Sweep struct {
		Secret   string `yaml:"secret"`
		Interval string `yaml:"interval"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"sweep"`
}

// Load builds the configuration from defaults, then the YAML file if one
// is configured, then environment variables. Returns an error if critical
// values are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: "0.0.0.0",
		Port: "8080",
		Env:  "development",

		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "forgejournal",
		DBPassword: "changeme",
		DBName:     "forgejournal",

		ValkeyHost: "localhost",
		ValkeyPort: "6379",

		SweepInterval: 1 * time.Minute,
		SweepTimeout:  30 * time.Second,
	}

	if path := os.Getenv(configPathEnv); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.SweepSecret == "" {
			return nil, fmt.Errorf("SWEEP_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// applyFile overlays non-empty values from the YAML file onto cfg.
func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("config parse %s: %w", path, err)
	}

	setIf(&cfg.Host, fc.Host)
	setIf(&cfg.Port, fc.Port)
	setIf(&cfg.Env, fc.Env)
	setIf(&cfg.DBHost, fc.Postgres.Host)
	setIf(&cfg.DBPort, fc.Postgres.Port)
	setIf(&cfg.DBUser, fc.Postgres.User)
	setIf(&cfg.DBPassword, fc.Postgres.Password)
	setIf(&cfg.DBName, fc.Postgres.Name)
	setIf(&cfg.ValkeyHost, fc.Valkey.Host)
	setIf(&cfg.ValkeyPort, fc.Valkey.Port)
	setIf(&cfg.ValkeyPassword, fc.Valkey.Password)
	setIf(&cfg.SweepSecret, fc.Sweep.Secret)

	if fc.Sweep.Interval != "" {
		d, err := time.ParseDuration(fc.Sweep.Interval)
		if err != nil {
			return fmt.Errorf("config sweep interval: %w", err)
		}
		cfg.SweepInterval = d
	}
	if fc.Sweep.Timeout != "" {
		d, err := time.ParseDuration(fc.Sweep.Timeout)
		if err != nil {
			return fmt.Errorf("config sweep timeout: %w", err)
		}
		cfg.SweepTimeout = d
	}
	return nil
}

// applyEnv overlays environment variables onto cfg. Environment wins over
// both defaults and the file.
func applyEnv(cfg *Config) error {
	setIf(&cfg.Host, os.Getenv("APP_HOST"))
	setIf(&cfg.Port, os.Getenv("APP_PORT"))
	setIf(&cfg.Env, os.Getenv("APP_ENV"))
	setIf(&cfg.DBHost, os.Getenv("POSTGRES_HOST"))
	setIf(&cfg.DBPort, os.Getenv("POSTGRES_PORT"))
	setIf(&cfg.DBUser, os.Getenv("POSTGRES_USER"))
	setIf(&cfg.DBPassword, os.Getenv("POSTGRES_PASSWORD"))
	setIf(&cfg.DBName, os.Getenv("POSTGRES_DB"))
	setIf(&cfg.ValkeyHost, os.Getenv("VALKEY_HOST"))
	setIf(&cfg.ValkeyPort, os.Getenv("VALKEY_PORT"))
	setIf(&cfg.ValkeyPassword, os.Getenv("VALKEY_PASSWORD"))
	setIf(&cfg.SweepSecret, os.Getenv("SWEEP_SECRET"))

	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SWEEP_INTERVAL: %w", err)
		}
		cfg.SweepInterval = d
	}
	if v := os.Getenv("SWEEP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SWEEP_TIMEOUT: %w", err)
		}
		cfg.SweepTimeout = d
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// setIf assigns v to dst only when v is non-empty.
func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
