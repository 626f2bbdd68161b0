package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Output format names accepted in the configuration
var outputFormats = []string{"summary", "table", "json", "yaml"}

// minTrimWidth is the narrowest path display that still shows two segments
const minTrimWidth = 20

// Config represents the application configuration
type Config struct {
	Verbose        bool          `yaml:"verbose"`
	ListPackages   bool          `yaml:"list_packages"`
	OlderThan      *int          `yaml:"older_than,omitempty"` // in days
	Output         string        `yaml:"output"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout"` // 0 disables the limit
	TrimWidth      int           `yaml:"trim_width"`    // 0 follows the terminal width
	NoProgress     bool          `yaml:"no_progress"`
	ProtectedPaths []string      `yaml:"protected_paths"`

	// Removal is only ever authorized on the command line
	Remove       bool `yaml:"-"`
	RemoveBroken bool `yaml:"-"`
}

// Load loads configuration from a file on top of the defaults. Unlike the
// defaults themselves, a missing file is an error: it was asked for.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OlderThan != nil && *c.OlderThan < 0 {
		return fmt.Errorf("older_than must be >= 0")
	}

	if !validOutput(c.Output) {
		return fmt.Errorf("unsupported output format: %q", c.Output)
	}

	if c.ProbeTimeout < 0 {
		return fmt.Errorf("probe_timeout must be >= 0")
	}

	if c.TrimWidth != 0 && c.TrimWidth < minTrimWidth {
		return fmt.Errorf("trim_width must be 0 or at least %d", minTrimWidth)
	}

	for _, path := range c.ProtectedPaths {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("protected path must be absolute: %s", path)
		}
	}

	if c.Remove && c.OlderThan == nil {
		return fmt.Errorf("--remove requires --older-than")
	}

	return nil
}

// IsDryRun reports whether an age filter was given without removal authorization
func (c *Config) IsDryRun() bool {
	return c.OlderThan != nil && !c.Remove
}

func validOutput(name string) bool {
	for _, f := range outputFormats {
		if f == name {
			return true
		}
	}
	return false
}
