// Package config loads and persists the guardrails tool configuration
// from .guardrails/config.json. Project analysis context (critical files,
// protected components) lives separately in the project package; this is
// tool behavior only.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the complete guardrails configuration
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Audit    AuditConfig    `json:"audit" mapstructure:"audit"`
	Report   ReportConfig   `json:"report" mapstructure:"report"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// AnalysisConfig bounds the analysis pipeline
type AnalysisConfig struct {
	TimeoutMs       int      `json:"timeoutMs" mapstructure:"timeoutMs"`
	MaxFilesScanned int      `json:"maxFilesScanned" mapstructure:"maxFilesScanned"`
	Concurrency     int      `json:"concurrency" mapstructure:"concurrency"`
	ContextFile     string   `json:"contextFile" mapstructure:"contextFile"`
	IgnoreDirs      []string `json:"ignoreDirs" mapstructure:"ignoreDirs"`
}

// AuditConfig controls the audit trail
type AuditConfig struct {
	Enabled         bool `json:"enabled" mapstructure:"enabled"`
	CacheTtlSeconds int  `json:"cacheTtlSeconds" mapstructure:"cacheTtlSeconds"`
	RetentionDays   int  `json:"retentionDays" mapstructure:"retentionDays"`
}

// ReportConfig controls report generation
type ReportConfig struct {
	Format   string `json:"format" mapstructure:"format"` // markdown or html
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Analysis: AnalysisConfig{
			TimeoutMs:       10000,
			MaxFilesScanned: 5000,
			Concurrency:     4,
			ContextFile:     ".guardrails.toml",
			IgnoreDirs:      []string{"node_modules", ".git", "dist", "build", "coverage"},
		},
		Audit: AuditConfig{
			Enabled:         true,
			CacheTtlSeconds: 300,
			RetentionDays:   90,
		},
		Report: ReportConfig{
			Format:   "markdown",
			Compress: true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .guardrails/config.json, falling
// back to defaults when no config file exists.
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("repoRoot", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".guardrails"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to .guardrails/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, ".guardrails")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Analysis.Concurrency < 1 {
		return &ConfigError{Field: "analysis.concurrency", Message: "must be at least 1"}
	}
	if c.Report.Format != "markdown" && c.Report.Format != "html" {
		return &ConfigError{Field: "report.format", Message: "must be markdown or html"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
