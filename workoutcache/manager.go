package workoutcache

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/dkoehler14/TrainingPWA2.0-sub004/errors"
	"github.com/dkoehler14/TrainingPWA2.0-sub004/metric"
	"github.com/dkoehler14/TrainingPWA2.0-sub004/pkg/timestamp"
	"github.com/dkoehler14/TrainingPWA2.0-sub004/remote"
)

// Validation failure reasons reported by Get and Validate.
const (
	reasonInvalidStructure = "Invalid cache structure"
	reasonStaleTimestamp   = "Cache timestamp is stale"
	reasonLogNotFound      = "Workout log not found in database"
	reasonInvalidUUID      = "Invalid UUID format"
	reasonValidationError  = "Validation error"
)

// Manager is the public facade of the workout-log cache. It is a stateless
// service object: the store lives with the caller, every operation takes the
// current snapshot as an argument, and all mutation is expressed as a
// functional update handed to the caller's setter.
type Manager struct {
	config  Config
	store   remote.LogStore
	logger  *slog.Logger
	metrics *cacheMetrics
}

// Deps holds runtime dependencies for the cache manager.
type Deps struct {
	Config Config

	// RemoteStore confirms workout-log ids still exist. Required when
	// Config.ValidateInDatabase is set, optional otherwise.
	RemoteStore remote.LogStore

	// Logger receives structured operation records. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Registry optionally exposes cache metrics as Prometheus metrics.
	Registry *metric.MetricsRegistry
}

// NewManager creates a cache manager.
func NewManager(deps Deps) (*Manager, error) {
	deps.Config.SetDefaults()

	if err := deps.Config.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "CacheManager", "NewManager",
			"configuration validation failed")
	}
	if deps.Config.ValidateInDatabase && deps.RemoteStore == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "CacheManager", "NewManager",
			"validate_in_database requires a remote store")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		config: deps.Config,
		store:  deps.RemoteStore,
		logger: logger,
	}

	if deps.Registry != nil {
		metrics, err := newCacheMetrics(deps.Registry, "workout_cache")
		if err != nil {
			return nil, errors.WrapTransient(err, "CacheManager", "NewManager",
				"metrics registration")
		}
		m.metrics = metrics
	}

	return m, nil
}

// GenerateKey builds the canonical cache key for a (week, day) slot.
func (m *Manager) GenerateKey(week, day int, prefix string) (string, error) {
	return GenerateKey(week, day, prefix)
}

// ParseKey recovers the (week, day) pair from a cache key.
func (m *Manager) ParseKey(key string) (week, day int, err error) {
	return ParseKey(key)
}

// Get returns the cached entry for key after running the combined
// validation: structure, then freshness, then remote confirmation. It never
// fails: a malformed key, a miss, or any validation failure all come back as
// nil, with a log entry and best-effort cleanup, so reads are always safe to
// call opportunistically. The returned entry is the stored record itself and
// must be treated as read-only.
func (m *Manager) Get(ctx context.Context, key string, store Store, setStore Setter, options ...Option) *Entry {
	opts := m.applyOptions(options...)

	if !IsValidKey(key) {
		m.logOp(opts, slog.LevelWarn, "get", "invalid cache key", "key", key)
		return nil
	}

	entry, ok := store[key]
	if !ok || entry == nil {
		m.logOp(opts, slog.LevelDebug, "get", "cache miss", "key", key)
		if m.metrics != nil {
			m.metrics.recordMiss()
		}
		return nil
	}

	if err := ValidateStructure(entry); err != nil {
		m.logOp(opts, slog.LevelWarn, "get", "cache validation failed",
			"key", key,
			"reason", reasonInvalidStructure,
			"detail", err.Error())
		if m.metrics != nil {
			m.metrics.recordValidationFailure("structure")
		}
		if opts.autoCleanup {
			m.Cleanup(key, store, setStore, WithReason("invalid_structure"))
		}
		return nil
	}

	if reason, stage := m.validateEntry(ctx, entry, opts); reason != "" {
		m.logOp(opts, slog.LevelInfo, "get", "cache validation failed",
			"key", key,
			"reason", reason)
		if m.metrics != nil {
			m.metrics.recordValidationFailure(stage)
		}
		if opts.autoCleanup {
			m.Cleanup(key, store, setStore, WithReason(stage))
		}
		return nil
	}

	m.logOp(opts, slog.LevelDebug, "get", "cache hit",
		"key", key,
		"exercise_count", len(entry.Exercises),
		"version", entry.Version)
	if m.metrics != nil {
		m.metrics.recordHit()
	}
	return entry
}

// validateEntry runs the freshness and remote-confirmation stages in order,
// short-circuiting on the first failure. Structure has already been checked.
// The empty reason means the entry passed.
func (m *Manager) validateEntry(ctx context.Context, entry *Entry, opts *callOptions) (reason, stage string) {
	if opts.checkTimestamp && !isTimestampFresh(entry.LastSaved, opts.maxCacheAge) {
		return reasonStaleTimestamp, "stale_timestamp"
	}
	if opts.checkDatabase && entry.WorkoutLogID != nil {
		if !m.confirmRemote(ctx, *entry.WorkoutLogID) {
			return reasonLogNotFound, "log_not_found"
		}
	}
	return "", ""
}

// confirmRemote checks that a workout-log id still exists remotely. Any
// error, not-found, or malformed id normalizes to false: the cache fails
// closed rather than risk presenting a stale remote identifier as current.
func (m *Manager) confirmRemote(ctx context.Context, id string) bool {
	if m.store == nil {
		return false
	}
	if !IsValidUUID(id) {
		return false
	}
	exists, err := m.store.WorkoutLogExists(ctx, id)
	if err != nil {
		m.logger.Warn("remote confirmation failed",
			"operation", "confirm_remote",
			"id", id,
			"error", err)
		return false
	}
	return exists
}

// Set builds a fully-populated enhanced record from value and stores it
// under key. The previous record's version is carried forward (existing+1,
// or 1 if none existed). A malformed key or a structurally invalid value is
// a caller bug and fails with an error.
func (m *Manager) Set(key string, value EntryData, store Store, setStore Setter, options ...Option) error {
	opts := m.applyOptions(options...)

	if !IsValidKey(key) {
		return errors.WrapInvalid(errors.ErrInvalidKeyFormat, "CacheManager", "Set",
			fmt.Sprintf("Invalid cache key format: %q", key))
	}

	week, day, err := ParseKey(key)
	if err != nil {
		// Best-effort: fall back to the slot coordinates in the value.
		if value.WeekIndex != nil {
			week = *value.WeekIndex
		}
		if value.DayIndex != nil {
			day = *value.DayIndex
		}
	}

	version := 1
	if prev, ok := store[key]; ok && prev != nil {
		version = prev.Version + 1
	}

	entry := NewEntry(value, EntryOptions{
		UserID:       opts.userID,
		ProgramID:    opts.programID,
		WeekIndex:    week,
		DayIndex:     day,
		Source:       opts.source,
		SaveStrategy: opts.saveStrategy,
		CacheKey:     key,
		Version:      version,
	})

	if err := ValidateStructure(entry); err != nil {
		return errors.WrapInvalid(err, "CacheManager", "Set",
			fmt.Sprintf("Invalid cache structure for key %q", key))
	}

	m.apply(setStore, key, entry)

	m.logOp(opts, slog.LevelDebug, "set", "cache entry stored",
		"key", key,
		"exercise_count", len(entry.Exercises),
		"version", entry.Version,
		"save_strategy", string(entry.CacheInfo.SaveStrategy))
	if m.metrics != nil {
		m.metrics.recordSet()
	}
	return nil
}

// Validate checks a workout-log id independently of any stored record: UUID
// format first, then remote confirmation when database validation is
// enabled. It never fails; internal errors are reported as a validation
// outcome.
func (m *Manager) Validate(ctx context.Context, key, workoutLogID string, options ...Option) ValidationResult {
	opts := m.applyOptions(options...)

	result := ValidationResult{
		Context:   map[string]any{"key": key},
		Timestamp: timestamp.NowRFC3339(),
	}

	if !IsValidUUID(workoutLogID) {
		result.Reason = reasonInvalidUUID
		m.logOp(opts, slog.LevelInfo, "validate", "validation failed",
			"key", key,
			"reason", result.Reason)
		return result
	}

	if opts.checkDatabase {
		result.Context["databaseChecked"] = true
		if m.store == nil {
			result.Reason = reasonValidationError
			m.logOp(opts, slog.LevelWarn, "validate", "validation failed",
				"key", key,
				"reason", result.Reason,
				"detail", "no remote store configured")
			return result
		}
		exists, err := m.store.WorkoutLogExists(ctx, workoutLogID)
		if err != nil || !exists {
			result.Reason = reasonLogNotFound
			m.logOp(opts, slog.LevelInfo, "validate", "validation failed",
				"key", key,
				"reason", result.Reason,
				"error", err)
			return result
		}
	}

	result.IsValid = true
	result.Reason = ""
	m.logOp(opts, slog.LevelDebug, "validate", "validation passed", "key", key)
	return result
}

// Invalidate flags the entry under key as invalid while leaving every other
// field, notably the exercises, untouched. A missing entry is a no-op and
// the setter is not called.
func (m *Manager) Invalidate(key string, store Store, setStore Setter, options ...Option) {
	opts := m.applyOptions(options...)

	entry, ok := store[key]
	if !ok || entry == nil {
		m.logOp(opts, slog.LevelDebug, "invalidate", "no entry to invalidate", "key", key)
		return
	}

	reason := opts.reason
	if reason == "" {
		reason = "manual_invalidation"
	}

	now := timestamp.NowRFC3339()
	updated := entry.Clone()
	updated.IsValid = false
	updated.LastSaved = now
	if updated.Metadata == nil {
		updated.Metadata = Metadata{}
	}
	updated.Metadata["invalidationReason"] = reason
	updated.Metadata["invalidatedAt"] = now

	m.apply(setStore, key, updated)

	m.logOp(opts, slog.LevelInfo, "invalidate", "cache entry invalidated",
		"key", key,
		"reason", reason)
	if m.metrics != nil {
		m.metrics.recordInvalidation()
	}
}

// Cleanup surrenders the entry's remote reference: the workoutLogId is
// nulled out and the entry flagged invalid, while the locally-entered
// exercise data is preserved. This is how a record with a since-deleted or
// malformed remote reference keeps the user's work. A missing entry is a
// no-op and the setter is not called.
func (m *Manager) Cleanup(key string, store Store, setStore Setter, options ...Option) {
	opts := m.applyOptions(options...)

	entry, ok := store[key]
	if !ok || entry == nil {
		m.logOp(opts, slog.LevelDebug, "cleanup", "no entry to clean up", "key", key)
		return
	}

	reason := opts.reason
	if reason == "" {
		reason = "manual_cleanup"
	}

	now := timestamp.NowRFC3339()
	updated := entry.Clone()
	updated.WorkoutLogID = nil
	updated.IsValid = false
	updated.LastSaved = now
	if updated.Metadata == nil {
		updated.Metadata = Metadata{}
	}
	updated.Metadata["cleanupReason"] = reason
	updated.Metadata["cleanedAt"] = now

	m.apply(setStore, key, updated)

	m.logOp(opts, slog.LevelInfo, "cleanup", "cache entry cleaned up",
		"key", key,
		"reason", reason,
		"exercise_count", len(updated.Exercises))
	if m.metrics != nil {
		m.metrics.recordCleanup()
	}
}

// Exists reports whether key holds a non-nil entry.
func (m *Manager) Exists(key string, store Store) bool {
	entry, ok := store[key]
	return ok && entry != nil
}

// Clear replaces the entire store with an empty mapping. This is the only
// operation that removes keys outright.
func (m *Manager) Clear(setStore Setter, options ...Option) {
	opts := m.applyOptions(options...)

	setStore(func(Store) Store {
		return Store{}
	})

	m.logOp(opts, slog.LevelInfo, "clear", "cache cleared")
}

// ConfirmExerciseSave records a successful remote save of exercise data.
// The entry must already be staged; confirming a save against a record that
// was never staged indicates a caller ordering bug, so unlike Invalidate and
// Cleanup this is an error, not a no-op. The typical recovery is a full
// save.
func (m *Manager) ConfirmExerciseSave(key string, exercises []Exercise, store Store, setStore Setter, options ...Option) error {
	opts := m.applyOptions(options...)

	entry, ok := store[key]
	if !ok || entry == nil {
		return errors.WrapInvalid(errors.ErrEntryNotFound, "CacheManager", "ConfirmExerciseSave",
			fmt.Sprintf("Cache entry not found for exercise update: %q", key))
	}

	updated := UpdateWithChangeTracking(entry, EntryUpdate{Exercises: exercises}, ChangeExercise)
	updated.CacheInfo.SaveStrategy = SaveStrategyExerciseOnly

	m.apply(setStore, key, updated)

	m.logOp(opts, slog.LevelDebug, "confirm_exercise_save", "exercise save confirmed",
		"key", key,
		"exercise_count", len(updated.Exercises))
	if m.metrics != nil {
		m.metrics.recordSaveConfirmation(SaveStrategyExerciseOnly)
	}
	return nil
}

// ConfirmMetadataSave records a successful remote save of workout metadata.
// The supplied fields are merged into the existing metadata, and the legacy
// IsWorkoutFinished flag is synchronized from metadata["isFinished"] when
// provided. Same staging precondition as ConfirmExerciseSave.
func (m *Manager) ConfirmMetadataSave(key string, metadata Metadata, store Store, setStore Setter, options ...Option) error {
	opts := m.applyOptions(options...)

	entry, ok := store[key]
	if !ok || entry == nil {
		return errors.WrapInvalid(errors.ErrEntryNotFound, "CacheManager", "ConfirmMetadataSave",
			fmt.Sprintf("Cache entry not found for metadata update: %q", key))
	}

	updated := UpdateWithChangeTracking(entry, EntryUpdate{Metadata: metadata}, ChangeMetadata)
	updated.CacheInfo.SaveStrategy = SaveStrategyMetadataOnly

	m.apply(setStore, key, updated)

	m.logOp(opts, slog.LevelDebug, "confirm_metadata_save", "metadata save confirmed",
		"key", key,
		"is_finished", updated.IsWorkoutFinished)
	if m.metrics != nil {
		m.metrics.recordSaveConfirmation(SaveStrategyMetadataOnly)
	}
	return nil
}

// ConfirmFullSave records a successful remote save of the whole record. The
// workoutLogId, exercises and metadata are replaced wholesale. The entry is
// optional: when absent, a fresh one is created, which is what makes a full
// save the recovery path for the other two confirmation calls.
func (m *Manager) ConfirmFullSave(key string, data EntryData, store Store, setStore Setter, options ...Option) error {
	opts := m.applyOptions(options...)

	entry, ok := store[key]
	if !ok || entry == nil {
		entry = NewEntry(data, EntryOptions{
			UserID:       opts.userID,
			ProgramID:    opts.programID,
			Source:       opts.source,
			SaveStrategy: SaveStrategyFullSave,
			CacheKey:     key,
			Version:      1,
		})
	}

	exercises := data.Exercises
	if exercises == nil {
		exercises = []Exercise{}
	}
	updated := UpdateWithChangeTracking(entry, EntryUpdate{
		Exercises:       exercises,
		Metadata:        data.Metadata,
		ReplaceMetadata: true,
		WorkoutLogID:    data.WorkoutLogID,
		SetWorkoutLogID: true,
	}, ChangeBoth)
	updated.CacheInfo.SaveStrategy = SaveStrategyFullSave

	m.apply(setStore, key, updated)

	m.logOp(opts, slog.LevelDebug, "confirm_full_save", "full save confirmed",
		"key", key,
		"exercise_count", len(updated.Exercises),
		"version", updated.Version)
	if m.metrics != nil {
		m.metrics.recordSaveConfirmation(SaveStrategyFullSave)
	}
	return nil
}

// MarkChanged flags pending unsaved edits on the entry under key. Marking
// dirty state is best-effort UI feedback, not a correctness-critical
// confirmation, so a missing entry is a no-op with a warning rather than an
// error.
func (m *Manager) MarkChanged(key string, changeType ChangeType, pendingSaveType SaveStrategy, store Store, setStore Setter, options ...Option) {
	opts := m.applyOptions(options...)

	entry, ok := store[key]
	if !ok || entry == nil {
		m.logOp(opts, slog.LevelWarn, "mark_changed", "no entry to mark as changed",
			"key", key,
			"change_type", string(changeType))
		return
	}

	updated := MarkAsChanged(entry, changeType, pendingSaveType)

	m.apply(setStore, key, updated)

	m.logOp(opts, slog.LevelDebug, "mark_changed", "entry marked as changed",
		"key", key,
		"change_type", string(changeType),
		"pending_save_type", string(pendingSaveType))
}

// InvalidateOnSaveFailure marks the entry invalid after a failed remote
// save, stamping the failed variant of the save strategy. The change
// tracking substructure is explicitly preserved: the user's unsaved-change
// flags must survive a failed save attempt so a retry can be offered
// without re-detecting the edit.
func (m *Manager) InvalidateOnSaveFailure(key string, saveType SaveStrategy, saveErr error, store Store, setStore Setter, options ...Option) {
	opts := m.applyOptions(options...)

	entry, ok := store[key]
	if !ok || entry == nil {
		m.logOp(opts, slog.LevelWarn, "invalidate_on_save_failure", "no entry to invalidate",
			"key", key,
			"save_type", string(saveType))
		return
	}

	updated := ConvertLegacy(entry, EntryOptions{}).Clone()
	updated.IsValid = false
	updated.CacheInfo.IsValid = false
	updated.CacheInfo.SaveStrategy = saveType.Failed()

	m.apply(setStore, key, updated)

	m.logOp(opts, slog.LevelWarn, "invalidate_on_save_failure", "entry invalidated after failed save",
		"key", key,
		"save_type", string(saveType),
		"error", saveErr)
	if m.metrics != nil {
		m.metrics.recordInvalidation()
	}
}

// apply hands a single-key replacement to the caller's setter. The updater
// merges into whatever the latest snapshot is at apply time, not the
// snapshot the operation read, so concurrent operations against different
// keys apply cleanly regardless of interleaving.
func (m *Manager) apply(setStore Setter, key string, entry *Entry) {
	setStore(func(prev Store) Store {
		next := maps.Clone(prev)
		if next == nil {
			next = Store{}
		}
		next[key] = entry
		return next
	})
}

// logOp emits a structured operation record when operation logging is on.
func (m *Manager) logOp(opts *callOptions, level slog.Level, operation, message string, args ...any) {
	if !opts.logOperations {
		return
	}
	logArgs := make([]any, 0, len(args)+6)
	logArgs = append(logArgs, "operation", operation)
	if opts.userID != "" {
		logArgs = append(logArgs, "user_id", opts.userID)
	}
	if opts.programID != "" {
		logArgs = append(logArgs, "program_id", opts.programID)
	}
	logArgs = append(logArgs, args...)
	m.logger.Log(context.Background(), level, message, logArgs...)
}
