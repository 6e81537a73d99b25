package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dusk-indust/reassemble/internal/orchestrator"
	"gopkg.in/yaml.v3"
)

// ProjectConfig holds settings loaded from reassemble.yml. Zero fields keep
// the built-in defaults.
type ProjectConfig struct {
	Root        string        `yaml:"root,omitempty"`
	Marker      string        `yaml:"marker,omitempty"`
	BatchSize   int           `yaml:"batchSize,omitempty"`
	RetryDelay  time.Duration `yaml:"retryDelay,omitempty"`
	MaxAttempts uint64        `yaml:"maxAttempts,omitempty"`
	Workers     int           `yaml:"workers,omitempty"`
	LogLevel    string        `yaml:"logLevel,omitempty"`
	Progress    bool          `yaml:"progress,omitempty"`
}

// Load attempts to read reassemble.yml or reassemble.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"reassemble.yml", "reassemble.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// Apply overlays the non-zero fields of p onto cfg.
func (p *ProjectConfig) Apply(cfg orchestrator.Config) orchestrator.Config {
	if p == nil {
		return cfg
	}
	if p.Root != "" {
		cfg.Root = p.Root
	}
	if p.Marker != "" {
		cfg.Marker = p.Marker
	}
	if p.BatchSize != 0 {
		cfg.BatchSize = p.BatchSize
	}
	if p.RetryDelay != 0 {
		cfg.Retry.Delay = p.RetryDelay
	}
	if p.MaxAttempts != 0 {
		cfg.Retry.MaxAttempts = p.MaxAttempts
	}
	if p.Workers != 0 {
		cfg.Workers = p.Workers
	}
	return cfg
}
