package domain_test

import (
	"testing"
	"time"

	"github.com/abdidvp/docqms/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.InitialDelay())
	assert.Equal(t, 4, cfg.Concurrency)
	assert.ElementsMatch(t, []string{"missing_required_field", "invalid_status"}, cfg.FixableRules)
}

func TestConfig_WithDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := domain.Config{Server: domain.ServerConfig{BaseURL: "https://qms.example.com"}, Concurrency: 8}.WithDefaults()
	assert.Equal(t, "https://qms.example.com", cfg.Server.BaseURL)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.Config
		want string
	}{
		{"bad scheme", domain.Config{Server: domain.ServerConfig{BaseURL: "ftp://x"}}, "must use http or https"},
		{"no host", domain.Config{Server: domain.ServerConfig{BaseURL: "http://"}}, "has no host"},
		{"negative timeout", domain.Config{Server: domain.ServerConfig{TimeoutSeconds: -1}}, "timeout_seconds"},
		{"too many attempts", domain.Config{Retry: domain.RetryConfig{MaxAttempts: 11}}, "max_attempts"},
		{"negative delay", domain.Config{Retry: domain.RetryConfig{InitialDelayMs: -5}}, "initial_delay_ms"},
		{"empty rule", domain.Config{FixableRules: []string{""}}, "fixable_rules"},
		{"concurrency", domain.Config{Concurrency: 64}, "concurrency"},
		{"min score", domain.Config{MinScore: 101}, "min_score"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestConfig_Policy(t *testing.T) {
	cfg := domain.Config{FixableRules: []string{"invalid_status"}}
	assert.True(t, cfg.Policy().IsFixable("invalid_status"))
	assert.False(t, cfg.Policy().IsFixable("missing_required_field"))
}
