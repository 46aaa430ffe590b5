// Package config holds the exporter configuration: defaults, an optional YAML
// file and command line overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Default configuration values.
const (
	DefaultStatsDir  = "/run/bees"
	DefaultAddress   = "::"
	DefaultPort      = 8080
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultWorkers   = 4
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all exporter configuration options.
type Config struct {
	StatsDir   string `yaml:"stats_dir"`
	Address    string `yaml:"address"`
	Port       int    `yaml:"port"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	Workers    int    `yaml:"workers"`
	Cache      bool   `yaml:"cache"`
	Timestamps bool   `yaml:"timestamps"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		StatsDir:  DefaultStatsDir,
		Address:   DefaultAddress,
		Port:      DefaultPort,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Workers:   DefaultWorkers,
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	c := Default()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("cannot parse config %s: %w", path, err)
	}
	return c, nil
}

// ValidLogFormats returns the supported log formats.
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.StatsDir == "" {
		return fmt.Errorf("%w: stats directory must not be empty", ErrInvalidConfig)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be between 1 and 65535, got %d", ErrInvalidConfig, c.Port)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !isValidLogFormat(c.LogFormat) {
		return fmt.Errorf("%w: invalid log format: %s (valid: text, json)", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds to. IPv6 hosts
// are bracketed.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

func isValidLogFormat(format string) bool {
	for _, f := range ValidLogFormats() {
		if f == format {
			return true
		}
	}
	return false
}
