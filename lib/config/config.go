// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for nested or headless sessions on a workstation.
	Development Environment = "development"
	// Production is for the session compositor itself.
	Production Environment = "production"
)

// Config is the master configuration for the activation daemon.
type Config struct {
	// Environment identifies the deployment type.
	Environment Environment `yaml:"environment"`

	// Socket configures the listening socket.
	Socket SocketConfig `yaml:"socket"`

	// Tokens configures the token registry.
	Tokens TokenConfig `yaml:"tokens"`

	// Startup configures the startup-notification registry.
	Startup StartupConfig `yaml:"startup"`

	// Seat configures input serial validation.
	Seat SeatConfig `yaml:"seat"`

	// Desktop configures the headless window model.
	Desktop DesktopConfig `yaml:"desktop"`

	// Log configures the daemon's logger.
	Log LogConfig `yaml:"log"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Socket *SocketConfig `yaml:"socket,omitempty"`
	Tokens *TokenConfig  `yaml:"tokens,omitempty"`
	Log    *LogConfig    `yaml:"log,omitempty"`
}

// SocketConfig configures the Unix socket the protocol is served on.
type SocketConfig struct {
	// Path is the Unix socket path.
	// Default: ${XDG_RUNTIME_DIR:-/tmp}/activation.sock
	Path string `yaml:"path"`

	// HelloTimeout bounds how long a new connection may take to send
	// its hello frame. Default: 10s
	HelloTimeout time.Duration `yaml:"hello_timeout"`

	// EventQueue is the number of outgoing events buffered per
	// connection. A client that falls this far behind is disconnected.
	// Default: 64
	EventQueue int `yaml:"event_queue"`
}

// TokenConfig configures issued activation tokens.
type TokenConfig struct {
	// TTL is how long an issued token may wait to be associated before
	// it is discarded. Zero disables expiry. Default: 30s
	TTL time.Duration `yaml:"ttl"`

	// MaxPerClient caps the tokens one connection may hold unassociated.
	// Requests beyond the cap are denied. Zero disables the cap.
	// Default: 32
	MaxPerClient int `yaml:"max_per_client"`
}

// StartupConfig configures startup sequences.
type StartupConfig struct {
	// Timeout is how long a sequence may stay incomplete before the
	// watchdog completes and removes it. Default: 15s
	Timeout time.Duration `yaml:"timeout"`
}

// SeatConfig configures input serial validation.
type SeatConfig struct {
	// SerialMaxAge is how old an input event may be and still authorize
	// a token request. Default: 10s
	SerialMaxAge time.Duration `yaml:"serial_max_age"`

	// History is how many recent input events each seat remembers.
	// Default: 16
	History int `yaml:"history"`
}

// DesktopConfig configures the headless window model.
type DesktopConfig struct {
	// Workspaces is the number of workspaces. Default: 4
	Workspaces int `yaml:"workspaces"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn, or error. Default: info
	Level string `yaml:"level"`

	// Format is auto, text, or json. Default: auto
	Format string `yaml:"format"`
}

// Default returns the default configuration. Values loaded from a file
// are merged over it.
func Default() *Config {
	return &Config{
		Environment: Development,
		Socket: SocketConfig{
			Path:         "${XDG_RUNTIME_DIR:-/tmp}/activation.sock",
			HelloTimeout: 10 * time.Second,
			EventQueue:   64,
		},
		Tokens: TokenConfig{
			TTL:          30 * time.Second,
			MaxPerClient: 32,
		},
		Startup: StartupConfig{
			Timeout: 15 * time.Second,
		},
		Seat: SeatConfig{
			SerialMaxAge: 10 * time.Second,
			History:      16,
		},
		Desktop: DesktopConfig{
			Workspaces: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load loads configuration from the ACTIVATION_CONFIG environment
// variable. Fails if the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv("ACTIVATION_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("ACTIVATION_CONFIG environment variable not set; " +
			"set it to the path of your activation.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, applies the
// environment overrides, and expands variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.ExpandVariables()

	return cfg, nil
}

// loadFile decodes a single configuration file over the current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		if overrides == nil {
			overrides = &ConfigOverrides{
				Tokens: &TokenConfig{
					TTL:          10 * time.Second,
					MaxPerClient: 8,
				},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Socket != nil {
		if overrides.Socket.Path != "" {
			c.Socket.Path = overrides.Socket.Path
		}
		if overrides.Socket.HelloTimeout != 0 {
			c.Socket.HelloTimeout = overrides.Socket.HelloTimeout
		}
		if overrides.Socket.EventQueue != 0 {
			c.Socket.EventQueue = overrides.Socket.EventQueue
		}
	}

	if overrides.Tokens != nil {
		if overrides.Tokens.TTL != 0 {
			c.Tokens.TTL = overrides.Tokens.TTL
		}
		if overrides.Tokens.MaxPerClient != 0 {
			c.Tokens.MaxPerClient = overrides.Tokens.MaxPerClient
		}
	}

	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
		if overrides.Log.Format != "" {
			c.Log.Format = overrides.Log.Format
		}
	}
}

// ExpandVariables expands ${VAR} and ${VAR:-default} patterns in the
// socket path. LoadFile calls it; callers that start from Default
// call it themselves.
func (c *Config) ExpandVariables() {
	c.Socket.Path = expandVars(c.Socket.Path)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.Socket.Path == "" {
		errs = append(errs, errors.New("socket.path is required"))
	}
	if c.Socket.HelloTimeout <= 0 {
		errs = append(errs, errors.New("socket.hello_timeout must be positive"))
	}
	if c.Socket.EventQueue <= 0 {
		errs = append(errs, errors.New("socket.event_queue must be positive"))
	}
	if c.Tokens.TTL < 0 {
		errs = append(errs, errors.New("tokens.ttl must not be negative"))
	}
	if c.Tokens.MaxPerClient < 0 {
		errs = append(errs, errors.New("tokens.max_per_client must not be negative"))
	}
	if c.Startup.Timeout < 0 {
		errs = append(errs, errors.New("startup.timeout must not be negative"))
	}
	if c.Seat.SerialMaxAge <= 0 {
		errs = append(errs, errors.New("seat.serial_max_age must be positive"))
	}
	if c.Seat.History <= 0 {
		errs = append(errs, errors.New("seat.history must be positive"))
	}
	if c.Desktop.Workspaces <= 0 {
		errs = append(errs, errors.New("desktop.workspaces must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
