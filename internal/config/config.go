// Package config loads the optional YAML configuration of the compiler CLI.
//
//	package: main
//	runtime: dml-mapper/dmlrt
//	comments: true
//	log:
//	  level: info
//	  development: false
//
// Command-line flags override every value read here.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the compiler configuration.
type Config struct {
	// Package is the generated package name.
	Package string `yaml:"package" validate:"required,goident"`
	// Runtime is the import path of the mapper runtime.
	Runtime string `yaml:"runtime" validate:"required,printascii"`
	// Comments renders rules as comments in generated code.
	Comments *bool `yaml:"comments"`
	Log      Log   `yaml:"log"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)

	return cfg
}

// CommentsEnabled reports whether generated code carries rule comments.
func (c *Config) CommentsEnabled() bool {
	return c.Comments == nil || *c.Comments
}

// LoadFile loads, defaults and validates a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Package == "" {
		cfg.Package = "main"
	}

	if cfg.Runtime == "" {
		cfg.Runtime = "dml-mapper/dmlrt"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
