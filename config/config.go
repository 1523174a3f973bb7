// Package config loads the YAML file shared by the hexpic binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/dialup-inc/hexpic"
	"github.com/dialup-inc/hexpic/acquire"
)

// Config is the whole configuration file.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Convert ConvertConfig `yaml:"convert"`
}

// ServerConfig configures hexpicd.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// ConvertConfig holds conversion defaults. Per-request options are laid on
// top of Defaults.
type ConvertConfig struct {
	Filter   string        `yaml:"filter"`
	Workers  int           `yaml:"workers"`
	Defaults hexpic.Update `yaml:"defaults"`
}

// Default values for optional fields.
const (
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 16 << 20
	DefaultFetchTimeout   = 10 * time.Second
	DefaultLogLevel       = "info"
	DefaultFilter         = string(acquire.Nearest)
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads, parses and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for an in-memory document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Options returns the conversion defaults with the configured overrides.
func (c *Config) Options() hexpic.Options {
	return hexpic.DefaultOptions().Merge(c.Convert.Defaults)
}

// Filter returns the configured resampling filter.
func (c *Config) Filter() acquire.Filter {
	f, err := acquire.ParseFilter(c.Convert.Filter)
	if err != nil {
		return acquire.Nearest
	}
	return f
}

// LogLevel returns the configured zerolog level.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Server.FetchTimeout == 0 {
		c.Server.FetchTimeout = DefaultFetchTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Convert.Filter == "" {
		c.Convert.Filter = DefaultFilter
	}
}

func (c *Config) validate() error {
	if c.Server.MaxUploadBytes < 0 {
		return errors.New("server.max_upload_bytes must not be negative")
	}
	if c.Server.FetchTimeout < 0 {
		return errors.New("server.fetch_timeout must not be negative")
	}
	if c.Convert.Workers < 0 {
		return errors.New("convert.workers must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := acquire.ParseFilter(c.Convert.Filter); err != nil {
		return fmt.Errorf("convert.filter: %w", err)
	}
	if err := c.Options().Validate(); err != nil {
		return fmt.Errorf("convert.defaults: %w", err)
	}
	return nil
}
