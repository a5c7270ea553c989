// Package config loads the optional replmend YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/replmend"
)

// Config mirrors the command line flags. Unset keys leave the defaults alone.
type Config struct {
	Grace       string   `yaml:"grace,omitempty"` // e.g. "3s"
	SkipInstall bool     `yaml:"skip_install,omitempty"`
	SkipLaunch  bool     `yaml:"skip_launch,omitempty"`
	Exclude     []string `yaml:"exclude,omitempty"`
	Checks      string   `yaml:"checks,omitempty"` // comma-separated, like --checks
}

// Load reads path. An empty path returns an empty configuration; a path that does not exist
// is an error, since it was asked for explicitly.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}

		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Apply sets the configured values on opts.
func (c *Config) Apply(opts *replmend.Options) error {
	if c.Grace != "" {
		grace, err := time.ParseDuration(c.Grace)
		if err != nil {
			return fmt.Errorf("config grace: %w", err)
		}

		opts.Grace = grace
	}

	if c.Checks != "" {
		checks, err := replmend.ParseChecks(c.Checks)
		if err != nil {
			return fmt.Errorf("config checks: %w", err)
		}

		opts.Checks = checks
	}

	opts.SkipInstall = opts.SkipInstall || c.SkipInstall
	opts.SkipLaunch = opts.SkipLaunch || c.SkipLaunch
	opts.ExcludeDirs = append(opts.ExcludeDirs, c.Exclude...)

	return nil
}
