package domain

import (
	"fmt"
	"net/url"
	"time"
)

const (
	DefaultBaseURL     = "http://localhost:8000"
	DefaultMaxAttempts = 3
	DefaultDelayMillis = 200
	DefaultConcurrency = 4
	maxConcurrency     = 32
)

// Config holds project-level configuration loaded from .docqms.yaml.
type Config struct {
	Server       ServerConfig `yaml:"server"        json:"server"`
	Retry        RetryConfig  `yaml:"retry"         json:"retry"`
	FixableRules []string     `yaml:"fixable_rules" json:"fixable_rules,omitempty"`
	Concurrency  int          `yaml:"concurrency"   json:"concurrency,omitempty"`
	MinScore     int          `yaml:"min_score"     json:"min_score,omitempty"`
	Target       string       `yaml:"target"        json:"target,omitempty"`
}

// ServerConfig locates the compliance backend.
type ServerConfig struct {
	BaseURL        string `yaml:"base_url"        json:"base_url"`
	Token          string `yaml:"token"           json:"-"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds,omitempty"`
}

// RetryConfig applies to idempotent requests only (validate and dry-run fixes).
type RetryConfig struct {
	MaxAttempts    int `yaml:"max_attempts"     json:"max_attempts"`
	InitialDelayMs int `yaml:"initial_delay_ms" json:"initial_delay_ms"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{BaseURL: DefaultBaseURL},
		Retry: RetryConfig{
			MaxAttempts:    DefaultMaxAttempts,
			InitialDelayMs: DefaultDelayMillis,
		},
		FixableRules: append([]string(nil), DefaultFixableRules...),
		Concurrency:  DefaultConcurrency,
	}
}

// WithDefaults fills zero values from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = d.Server.BaseURL
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = d.Retry.MaxAttempts
	}
	if c.Retry.InitialDelayMs == 0 {
		c.Retry.InitialDelayMs = d.Retry.InitialDelayMs
	}
	if len(c.FixableRules) == 0 {
		c.FixableRules = d.FixableRules
	}
	if c.Concurrency == 0 {
		c.Concurrency = d.Concurrency
	}
	return c
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

func (c Config) InitialDelay() time.Duration {
	return time.Duration(c.Retry.InitialDelayMs) * time.Millisecond
}

func (c Config) Policy() FixabilityPolicy {
	return NewFixabilityPolicy(c.FixableRules...)
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	// 1. base_url must be an absolute http(s) URL when set
	if c.Server.BaseURL != "" {
		u, err := url.Parse(c.Server.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid server.base_url %q: %w", c.Server.BaseURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("server.base_url %q must use http or https", c.Server.BaseURL)
		}
		if u.Host == "" {
			return fmt.Errorf("server.base_url %q has no host", c.Server.BaseURL)
		}
	}

	if c.Server.TimeoutSeconds < 0 {
		return fmt.Errorf("server.timeout_seconds = %d (must be >= 0)", c.Server.TimeoutSeconds)
	}

	// 2. retry bounds
	if c.Retry.MaxAttempts < 0 || c.Retry.MaxAttempts > 10 {
		return fmt.Errorf("retry.max_attempts = %d (must be between 0 and 10)", c.Retry.MaxAttempts)
	}
	if c.Retry.InitialDelayMs < 0 {
		return fmt.Errorf("retry.initial_delay_ms = %d (must be >= 0)", c.Retry.InitialDelayMs)
	}

	// 3. fixable rules must be non-empty identifiers
	for _, r := range c.FixableRules {
		if r == "" {
			return fmt.Errorf("empty rule id in fixable_rules")
		}
	}

	if c.Concurrency < 0 || c.Concurrency > maxConcurrency {
		return fmt.Errorf("concurrency = %d (must be between 1 and %d)", c.Concurrency, maxConcurrency)
	}

	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("min_score = %d (must be between 0 and 100)", c.MinScore)
	}

	return nil
}
