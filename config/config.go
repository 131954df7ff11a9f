// Package config loads and validates the application configuration for the
// workout cache subsystem: the cache manager settings and the remote store
// connection.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dkoehler14/TrainingPWA2.0-sub004/errors"
	"github.com/dkoehler14/TrainingPWA2.0-sub004/remote"
	"github.com/dkoehler14/TrainingPWA2.0-sub004/workoutcache"
)

// App is the top-level application configuration.
type App struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	Cache  workoutcache.Config `yaml:"cache" json:"cache"`
	Remote remote.Config       `yaml:"remote" json:"remote"`
}

// rawApp mirrors App with string durations so YAML files can say "1h"
// instead of integer nanoseconds.
type rawApp struct {
	LogLevel string `yaml:"log_level"`

	Cache struct {
		ValidateInDatabase bool   `yaml:"validate_in_database"`
		AutoCleanup        *bool  `yaml:"auto_cleanup"`
		MaxCacheAge        string `yaml:"max_cache_age"`
		LogOperations      *bool  `yaml:"log_operations"`
	} `yaml:"cache"`

	Remote struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Timeout string `yaml:"timeout"`
	} `yaml:"remote"`
}

// Default returns the default application configuration.
func Default() App {
	return App{
		LogLevel: "info",
		Cache:    workoutcache.DefaultConfig(),
	}
}

// Load reads an application configuration from a YAML file, applying
// defaults for anything the file leaves unset.
func Load(path string) (*App, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "config", "Load",
			fmt.Sprintf("reading %s", path))
	}
	return Parse(data)
}

// Parse decodes a YAML application configuration.
func Parse(data []byte) (*App, error) {
	var raw rawApp
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapInvalid(err, "config", "Parse", "decoding YAML")
	}

	app := Default()

	if raw.LogLevel != "" {
		app.LogLevel = raw.LogLevel
	}

	app.Cache.ValidateInDatabase = raw.Cache.ValidateInDatabase
	if raw.Cache.AutoCleanup != nil {
		app.Cache.AutoCleanup = *raw.Cache.AutoCleanup
	}
	if raw.Cache.LogOperations != nil {
		app.Cache.LogOperations = *raw.Cache.LogOperations
	}
	if raw.Cache.MaxCacheAge != "" {
		age, err := time.ParseDuration(raw.Cache.MaxCacheAge)
		if err != nil {
			return nil, errors.WrapInvalid(err, "config", "Parse",
				fmt.Sprintf("cache.max_cache_age %q", raw.Cache.MaxCacheAge))
		}
		app.Cache.MaxCacheAge = age
	}

	app.Remote.BaseURL = raw.Remote.BaseURL
	app.Remote.APIKey = raw.Remote.APIKey
	if raw.Remote.Timeout != "" {
		timeout, err := time.ParseDuration(raw.Remote.Timeout)
		if err != nil {
			return nil, errors.WrapInvalid(err, "config", "Parse",
				fmt.Sprintf("remote.timeout %q", raw.Remote.Timeout))
		}
		app.Remote.Timeout = timeout
	}

	if err := app.Validate(); err != nil {
		return nil, err
	}
	return &app, nil
}

// Validate checks the aggregate configuration for consistency.
func (a *App) Validate() error {
	switch a.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "config", "Validate",
			fmt.Sprintf("log_level %q must be one of debug, info, warn, error", a.LogLevel))
	}

	if err := a.Cache.Validate(); err != nil {
		return err
	}

	// The remote section is only required when database validation is on.
	if a.Cache.ValidateInDatabase {
		if err := a.Remote.Validate(); err != nil {
			return err
		}
	}
	return nil
}
