package workoutcache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkoehler14/TrainingPWA2.0-sub004/errors"
)

// Config contains configuration for the cache manager. Use DefaultConfig as
// the starting point; a zero Config disables auto-cleanup and operation
// logging.
type Config struct {
	// ValidateInDatabase enables remote existence confirmation during Get
	// and Validate. Requires a remote store dependency.
	ValidateInDatabase bool `json:"validate_in_database"`

	// AutoCleanup cleans up entries that fail validation during Get.
	AutoCleanup bool `json:"auto_cleanup"`

	// MaxCacheAge is how old a record's lastSaved may be before it is
	// considered stale.
	MaxCacheAge time.Duration `json:"max_cache_age"`

	// LogOperations emits a structured log line for every significant cache
	// event.
	LogOperations bool `json:"log_operations"`
}

// DefaultConfig returns the default cache manager configuration.
func DefaultConfig() Config {
	return Config{
		ValidateInDatabase: false,
		AutoCleanup:        true,
		MaxCacheAge:        time.Hour,
		LogOperations:      true,
	}
}

// SetDefaults fills unset fields with their defaults.
func (c *Config) SetDefaults() {
	if c.MaxCacheAge == 0 {
		c.MaxCacheAge = time.Hour
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.MaxCacheAge < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "workoutcache", "Validate",
			fmt.Sprintf("max_cache_age must be non-negative, got %v", c.MaxCacheAge))
	}
	return nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Config to support
// duration strings (e.g., "1h", "5m", "30s") in addition to nanosecond
// integers.
func (c *Config) UnmarshalJSON(data []byte) error {
	// Use an alias to avoid infinite recursion
	type Alias Config

	aux := &struct {
		MaxCacheAge json.RawMessage `json:"max_cache_age,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.MaxCacheAge) > 0 {
		age, err := parseDurationField(aux.MaxCacheAge, "max_cache_age")
		if err != nil {
			return err
		}
		c.MaxCacheAge = age
	}

	return nil
}

// parseDurationField parses a JSON duration field that can be either:
// - An integer (nanoseconds) for backward compatibility
// - A string (duration like "1h", "5m", "30s")
func parseDurationField(data json.RawMessage, fieldName string) (time.Duration, error) {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		duration, err := time.ParseDuration(str)
		if err != nil {
			return 0, fmt.Errorf("invalid duration string for %s: %w", fieldName, err)
		}
		return duration, nil
	}

	var nsec int64
	if err := json.Unmarshal(data, &nsec); err != nil {
		return 0, fmt.Errorf("field %s must be either a duration string (e.g., '1h') or integer nanoseconds", fieldName)
	}
	return time.Duration(nsec), nil
}

// Option overrides manager configuration for a single call using the
// functional options pattern.
type Option func(*callOptions)

// callOptions holds the per-call configuration after merging overrides on
// top of the manager configuration.
type callOptions struct {
	checkTimestamp bool
	checkDatabase  bool
	autoCleanup    bool
	maxCacheAge    time.Duration
	logOperations  bool
	reason         string
	source         string
	saveStrategy   SaveStrategy
	userID         string
	programID      string
}

// WithMaxCacheAge overrides the freshness budget for this call.
func WithMaxCacheAge(age time.Duration) Option {
	return func(opts *callOptions) {
		if age > 0 {
			opts.maxCacheAge = age
		}
	}
}

// WithoutTimestampCheck disables the freshness stage for this call.
func WithoutTimestampCheck() Option {
	return func(opts *callOptions) {
		opts.checkTimestamp = false
	}
}

// WithDatabaseCheck overrides whether remote confirmation runs for this call.
func WithDatabaseCheck(check bool) Option {
	return func(opts *callOptions) {
		opts.checkDatabase = check
	}
}

// WithAutoCleanup overrides the auto-cleanup behavior for this call.
func WithAutoCleanup(cleanup bool) Option {
	return func(opts *callOptions) {
		opts.autoCleanup = cleanup
	}
}

// WithReason records why an entry is being invalidated or cleaned up; it
// ends up in the entry's metadata audit fields.
func WithReason(reason string) Option {
	return func(opts *callOptions) {
		opts.reason = reason
	}
}

// WithSource labels where a created record came from (defaults to
// "cache_manager").
func WithSource(source string) Option {
	return func(opts *callOptions) {
		if source != "" {
			opts.source = source
		}
	}
}

// WithSaveStrategy stamps the save strategy on a created record.
func WithSaveStrategy(strategy SaveStrategy) Option {
	return func(opts *callOptions) {
		if strategy != "" {
			opts.saveStrategy = strategy
		}
	}
}

// WithUser adds user and program context to operation logs.
func WithUser(userID, programID string) Option {
	return func(opts *callOptions) {
		opts.userID = userID
		opts.programID = programID
	}
}

// applyOptions merges per-call overrides on top of the manager config.
func (m *Manager) applyOptions(options ...Option) *callOptions {
	opts := &callOptions{
		checkTimestamp: true,
		checkDatabase:  m.config.ValidateInDatabase,
		autoCleanup:    m.config.AutoCleanup,
		maxCacheAge:    m.config.MaxCacheAge,
		logOperations:  m.config.LogOperations,
		saveStrategy:   SaveStrategyUnknown,
	}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}
	return opts
}
