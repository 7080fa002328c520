package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abdidvp/docqms/internal/domain"
)

// FileName is the project configuration file looked up in the project directory.
const FileName = ".docqms.yaml"

// Environment variables that override the file.
const (
	EnvServerURL = "DOCQMS_SERVER_URL"
	EnvToken     = "DOCQMS_TOKEN"
)

// YAMLLoader implements domain.ConfigLoader by reading .docqms.yaml.
type YAMLLoader struct {
	lookupEnv func(string) (string, bool)
}

// New creates a YAMLLoader that applies overrides from the process environment.
func New() *YAMLLoader { return &YAMLLoader{lookupEnv: os.LookupEnv} }

// NewWithEnv creates a YAMLLoader reading overrides through lookup.
func NewWithEnv(lookup func(string) (string, bool)) *YAMLLoader {
	return &YAMLLoader{lookupEnv: lookup}
}

// Load reads .docqms.yaml from projectPath and applies environment overrides.
// A missing file yields DefaultConfig.
func (l *YAMLLoader) Load(projectPath string) (domain.Config, error) {
	cfg, err := l.readFile(projectPath)
	if err != nil {
		return domain.Config{}, err
	}

	cfg = l.applyEnv(cfg)

	// Validate before filling defaults so out-of-range input is reported.
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg.WithDefaults(), nil
}

func (l *YAMLLoader) readFile(projectPath string) (domain.Config, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return cfg, nil
}

func (l *YAMLLoader) applyEnv(cfg domain.Config) domain.Config {
	if l.lookupEnv == nil {
		return cfg
	}
	if v, ok := l.lookupEnv(EnvServerURL); ok && v != "" {
		cfg.Server.BaseURL = v
	}
	if v, ok := l.lookupEnv(EnvToken); ok && v != "" {
		cfg.Server.Token = v
	}
	return cfg
}

// Write stores cfg as .docqms.yaml in projectPath. The token is never written.
func Write(projectPath string, cfg domain.Config) error {
	cfg.Server.Token = ""
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", FileName, err)
	}
	return os.WriteFile(filepath.Join(projectPath, FileName), data, 0644)
}
