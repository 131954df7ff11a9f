package workoutcache

import (
	"maps"
)

// SaveStrategy identifies which subset of a record was last confirmed saved
// to the remote store.
type SaveStrategy string

const (
	// SaveStrategyExerciseOnly marks a save that confirmed exercise data only.
	SaveStrategyExerciseOnly SaveStrategy = "exercise-only"

	// SaveStrategyMetadataOnly marks a save that confirmed workout metadata only.
	SaveStrategyMetadataOnly SaveStrategy = "metadata-only"

	// SaveStrategyFullSave marks a save that confirmed the whole record.
	SaveStrategyFullSave SaveStrategy = "full-save"

	// SaveStrategyUnknown is the default before any save has been confirmed.
	SaveStrategyUnknown SaveStrategy = "unknown"
)

// Failed returns the failed variant of a save strategy, recorded when the
// corresponding remote save did not go through.
func (s SaveStrategy) Failed() SaveStrategy {
	return s + "-failed"
}

// ChangeType identifies which category of a record an edit or save touches.
type ChangeType string

const (
	// ChangeExercise covers sets, reps, weights and completion flags.
	ChangeExercise ChangeType = "exercise"

	// ChangeMetadata covers workout naming, finish state, notes and units.
	ChangeMetadata ChangeType = "metadata"

	// ChangeBoth covers a full save touching both categories.
	ChangeBoth ChangeType = "both"
)

// Exercise is one exercise slot within a cached workout. The reps and
// weights element types are caller-defined (numbers, strings for AMRAP-style
// entries); the cache only enforces that all three per-set arrays line up
// with the declared set count.
type Exercise struct {
	ExerciseID string `json:"exerciseId"`
	Sets       int    `json:"sets"`
	Reps       []any  `json:"reps"`
	Weights    []any  `json:"weights"`
	Completed  []bool `json:"completed"`
}

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	c := e
	if e.Reps != nil {
		c.Reps = append([]any(nil), e.Reps...)
	}
	if e.Weights != nil {
		c.Weights = append([]any(nil), e.Weights...)
	}
	if e.Completed != nil {
		c.Completed = append([]bool(nil), e.Completed...)
	}
	return c
}

// CacheInfo carries the per-category save timestamps and the last confirmed
// save strategy for an enhanced record. Timestamps are RFC3339 strings.
type CacheInfo struct {
	LastSaved          string       `json:"lastSaved"`
	LastExerciseUpdate string       `json:"lastExerciseUpdate"`
	LastMetadataUpdate string       `json:"lastMetadataUpdate"`
	IsValid            bool         `json:"isValid"`
	Source             string       `json:"source"`
	SaveStrategy       SaveStrategy `json:"saveStrategy"`
}

// ChangeTracking records pending unsaved edits per category. PendingSaveType
// is nil when no save is pending; when set it is one of the three save
// strategies (never "unknown").
type ChangeTracking struct {
	HasUnsavedExerciseChanges bool          `json:"hasUnsavedExerciseChanges"`
	HasUnsavedMetadataChanges bool          `json:"hasUnsavedMetadataChanges"`
	LastUserInput             string        `json:"lastUserInput,omitempty"`
	PendingSaveType           *SaveStrategy `json:"pendingSaveType"`
}

// Metadata is the caller-owned free-form record describing workout naming,
// finish state, notes and unit preference. The manager only reads
// "isFinished" (to synchronize the legacy IsWorkoutFinished flag) and writes
// the invalidation/cleanup audit fields.
type Metadata map[string]any

// Clone returns a shallow copy of the metadata map.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

// Entry is one cached workout-log record. The first five fields form the
// legacy shape that every record carries; CacheInfo, ChangeTracking,
// Metadata, CacheKey and Version are the enhanced extension and each is
// independently optional for backward compatibility.
type Entry struct {
	// WorkoutLogID references the remote record; nil means no remote record
	// yet. When non-nil it must be a well-formed UUID.
	WorkoutLogID      *string    `json:"workoutLogId"`
	LastSaved         string     `json:"lastSaved"`
	IsValid           bool       `json:"isValid"`
	Exercises         []Exercise `json:"exercises"`
	IsWorkoutFinished bool       `json:"isWorkoutFinished"`

	CacheInfo      *CacheInfo      `json:"cacheInfo,omitempty"`
	ChangeTracking *ChangeTracking `json:"changeTracking,omitempty"`
	Metadata       Metadata        `json:"metadata,omitempty"`
	CacheKey       string          `json:"cacheKey,omitempty"`
	Version        int             `json:"version,omitempty"`
}

// IsEnhanced reports whether the entry carries both enhanced substructures.
// This is the narrowing predicate distinguishing enhanced records from
// legacy ones.
func (e *Entry) IsEnhanced() bool {
	return e != nil && e.CacheInfo != nil && e.ChangeTracking != nil
}

// Clone returns a deep copy of the entry. Mutating operations work on a
// clone so the record read from the caller's snapshot is never modified in
// place.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.WorkoutLogID != nil {
		id := *e.WorkoutLogID
		c.WorkoutLogID = &id
	}
	if e.Exercises != nil {
		c.Exercises = make([]Exercise, len(e.Exercises))
		for i, ex := range e.Exercises {
			c.Exercises[i] = ex.Clone()
		}
	}
	if e.CacheInfo != nil {
		ci := *e.CacheInfo
		c.CacheInfo = &ci
	}
	if e.ChangeTracking != nil {
		ct := *e.ChangeTracking
		if e.ChangeTracking.PendingSaveType != nil {
			pending := *e.ChangeTracking.PendingSaveType
			ct.PendingSaveType = &pending
		}
		c.ChangeTracking = &ct
	}
	c.Metadata = e.Metadata.Clone()
	return &c
}

// Store is the caller-owned key:record mapping. The manager never retains a
// copy; every operation takes the current snapshot as an argument.
type Store map[string]*Entry

// Setter applies a functional update to the caller-owned store. The updater
// receives the latest snapshot at apply time, which is what lets concurrent
// operations against different keys merge cleanly regardless of
// interleaving.
type Setter func(update func(Store) Store)

// ValidationResult is the outcome of a standalone workout-log id validation.
type ValidationResult struct {
	IsValid   bool           `json:"isValid"`
	Reason    string         `json:"reason,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp string         `json:"timestamp"`
}
