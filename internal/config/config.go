// Package config provides configuration management for l2t.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/latex-typst/pkg/tex"
)

// Config holds the l2t configuration.
type Config struct {
	MaxGroupTokens int    `yaml:"max_group_tokens,omitempty"`
	OutputFormat   string `yaml:"output_format,omitempty"`
	ReportFormat   string `yaml:"report_format,omitempty"`
	DefaultAlign   string `yaml:"default_align,omitempty"`
}

// Report formats accepted by report_format.
const (
	ReportMarkdown = "markdown"
	ReportHTML     = "html"
)

// Validate checks that every set field holds a usable value.
// Unset fields fall back to their defaults.
func (c *Config) Validate() error {
	if c.MaxGroupTokens < 0 {
		return errors.New("max_group_tokens must be positive")
	}

	switch c.OutputFormat {
	case "", "table", "json", "plain":
	default:
		return fmt.Errorf("output_format %q is not one of table, json, plain", c.OutputFormat)
	}

	switch c.ReportFormat {
	case "", ReportMarkdown, ReportHTML:
	default:
		return fmt.Errorf("report_format %q is not one of markdown, html", c.ReportFormat)
	}

	if c.DefaultAlign != "" && tex.ParseAlign(c.DefaultAlign) == tex.AlignNone {
		return fmt.Errorf("default_align %q is not one of l, c, r", c.DefaultAlign)
	}

	return nil
}

// GroupLimit returns the balanced-group ceiling, or the package default when unset.
func (c *Config) GroupLimit() int {
	if c.MaxGroupTokens > 0 {
		return c.MaxGroupTokens
	}
	return tex.DefaultMaxGroupTokens
}

// Align returns the column alignment used when a table has no column spec.
func (c *Config) Align() tex.CellAlign {
	if a := tex.ParseAlign(c.DefaultAlign); a != tex.AlignNone {
		return a
	}
	return tex.AlignLeft
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// A ceiling that does not parse as an integer is ignored.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("L2T_MAX_GROUP_TOKENS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.MaxGroupTokens = n
		}
	}
	if v := os.Getenv("L2T_OUTPUT_FORMAT"); v != "" {
		c.OutputFormat = v
	}
	if v := os.Getenv("L2T_REPORT_FORMAT"); v != "" {
		c.ReportFormat = v
	}
	if v := os.Getenv("L2T_DEFAULT_ALIGN"); v != "" {
		c.DefaultAlign = v
	}
}

// EnvVars lists the environment variables LoadFromEnv reads.
func EnvVars() []string {
	return []string{"L2T_MAX_GROUP_TOKENS", "L2T_OUTPUT_FORMAT", "L2T_REPORT_FORMAT", "L2T_DEFAULT_ALIGN"}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "l2t", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".l2t", "config.yml")
	}

	return filepath.Join(home, ".config", "l2t", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
// A missing file is not an error; a file that exists but does not parse is.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
