// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package config loads xlinker's CLI configuration: log level, the
// inspect/index output format, and OpenTelemetry tracing toggles.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Sentinel errors for comparison with errors.Is.
var (
	ErrCannotReadConfig  = errors.New("cannot read config file")
	ErrCannotParseConfig = errors.New("cannot parse config file")
	ErrCannotWriteConfig = errors.New("cannot write config file")
	ErrInvalidLogLevel   = errors.New("invalid log level")
	ErrInvalidOutputFormat = errors.New("invalid output format")
)

func wrapCannotReadConfig(err error) error {
	return fmt.Errorf("%w: %w", ErrCannotReadConfig, err)
}

func wrapCannotParseConfig(err error) error {
	return fmt.Errorf("%w: %w", ErrCannotParseConfig, err)
}

func wrapCannotWriteConfig(err error) error {
	return fmt.Errorf("%w: %w", ErrCannotWriteConfig, err)
}

// OutputFormat selects how inspect/index results are rendered.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

var validOutputFormats = map[OutputFormat]bool{
	OutputFormatText: true,
	OutputFormatJSON: true,
}

// Config is xlinker's CLI configuration: how much to log, how to render
// inspect/index output, and whether to emit OTLP traces.
type Config struct {
	LogLevel      string       `json:"log_level,omitempty"`
	OutputFormat  OutputFormat `json:"output_format,omitempty"`
	TraceEnabled  bool         `json:"trace_enabled,omitempty"`
	TraceEndpoint string       `json:"trace_endpoint,omitempty"`
}

var defaultConfig = &Config{
	LogLevel:     "info",
	OutputFormat: OutputFormatText,
	TraceEnabled: false,
}

// DefaultConfig returns a copy of xlinker's built-in configuration.
func DefaultConfig() *Config {
	cfg := *defaultConfig
	return &cfg
}

// GetConfigPath returns xlinker's configuration directory, honoring
// $XLINKER_CONFIG_DIR before falling back to ~/.xlinker.
func GetConfigPath() (string, error) {
	if dir := os.Getenv("XLINKER_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".xlinker"), nil
}

// GetConfigFilePath returns the path to xlinker's config.json.
func GetConfigFilePath() (string, error) {
	configDir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from $XLINKER_CONFIG (a literal
// file path) if set, else from the config file under GetConfigPath, else
// returns DefaultConfig. Environment variables XLINKER_LOG_LEVEL,
// XLINKER_OUTPUT_FORMAT, XLINKER_TRACE_ENABLED and XLINKER_TRACE_ENDPOINT
// override whatever was loaded from disk.
func LoadConfig() (*Config, error) {
	configPath := os.Getenv("XLINKER_CONFIG")
	if configPath == "" {
		var err error
		configPath, err = GetConfigFilePath()
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, wrapCannotParseConfig(err)
		}
	} else if !os.IsNotExist(err) {
		return nil, wrapCannotReadConfig(err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("XLINKER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("XLINKER_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}
	switch os.Getenv("XLINKER_TRACE_ENABLED") {
	case "1", "true", "yes":
		cfg.TraceEnabled = true
	case "0", "false", "no":
		cfg.TraceEnabled = false
	}
	if v := os.Getenv("XLINKER_TRACE_ENDPOINT"); v != "" {
		cfg.TraceEndpoint = v
	}
}

// SaveConfig writes cfg as indented JSON to GetConfigFilePath, creating
// the parent directory (owner-only permissions) if needed.
func SaveConfig(cfg *Config) error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return wrapCannotWriteConfig(err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return wrapCannotWriteConfig(err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return wrapCannotWriteConfig(err)
	}

	return nil
}

// Validate returns an error if OutputFormat is set to an unrecognized
// value. LogLevel is not checked.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !validOutputFormats[c.OutputFormat] {
		return fmt.Errorf("%w: %s", ErrInvalidOutputFormat, c.OutputFormat)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{LogLevel: %s, OutputFormat: %s, TraceEnabled: %t, TraceEndpoint: %s}",
		c.LogLevel, c.OutputFormat, c.TraceEnabled, c.TraceEndpoint,
	)
}
