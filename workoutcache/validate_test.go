package workoutcache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoehler14/TrainingPWA2.0-sub004/pkg/timestamp"
)

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected bool
	}{
		{"v4 uuid", "550e8400-e29b-41d4-a716-446655440000", true},
		{"v1 uuid", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"uppercase hex", "550E8400-E29B-41D4-A716-446655440000", true},
		{"generated", uuid.NewString(), true},
		{"empty", "", false},
		{"not a uuid", "not-a-uuid", false},
		{"version 0", "550e8400-e29b-01d4-a716-446655440000", false},
		{"version 6", "550e8400-e29b-61d4-a716-446655440000", false},
		{"bad variant", "550e8400-e29b-41d4-1716-446655440000", false},
		{"braced", "{550e8400-e29b-41d4-a716-446655440000}", false},
		{"no dashes", "550e8400e29b41d4a716446655440000", false},
		{"too short", "550e8400-e29b-41d4-a716", false},
		{"trailing garbage", "550e8400-e29b-41d4-a716-446655440000x", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, IsValidUUID(test.id))
		})
	}
}

func validExercise() Exercise {
	return Exercise{
		ExerciseID: "bench-press",
		Sets:       3,
		Reps:       []any{5, 5, 5},
		Weights:    []any{135, 135, 135},
		Completed:  []bool{true, true, false},
	}
}

func TestValidateExercise(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, ValidateExercise(validExercise()))
		assert.True(t, IsValidExercise(validExercise()))
	})

	tests := []struct {
		name   string
		mutate func(*Exercise)
	}{
		{"empty exercise id", func(e *Exercise) { e.ExerciseID = "" }},
		{"zero sets", func(e *Exercise) { e.Sets = 0 }},
		{"negative sets", func(e *Exercise) { e.Sets = -1 }},
		{"short reps", func(e *Exercise) { e.Reps = []any{5} }},
		{"long reps", func(e *Exercise) { e.Reps = []any{5, 5, 5, 5} }},
		{"short weights", func(e *Exercise) { e.Weights = []any{135} }},
		{"short completed", func(e *Exercise) { e.Completed = []bool{true} }},
		{"nil reps", func(e *Exercise) { e.Reps = nil }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := validExercise()
			test.mutate(&e)
			assert.Error(t, ValidateExercise(e))
			assert.False(t, IsValidExercise(e))
		})
	}
}

func validLegacyEntry() *Entry {
	id := "550e8400-e29b-41d4-a716-446655440000"
	return &Entry{
		WorkoutLogID:      &id,
		LastSaved:         timestamp.NowRFC3339(),
		IsValid:           true,
		Exercises:         []Exercise{validExercise()},
		IsWorkoutFinished: false,
	}
}

func TestValidateStructure(t *testing.T) {
	t.Run("valid legacy record", func(t *testing.T) {
		require.NoError(t, ValidateStructure(validLegacyEntry()))
	})

	t.Run("nil workoutLogId is valid", func(t *testing.T) {
		e := validLegacyEntry()
		e.WorkoutLogID = nil
		require.NoError(t, ValidateStructure(e))
	})

	t.Run("empty exercises is valid", func(t *testing.T) {
		e := validLegacyEntry()
		e.Exercises = []Exercise{}
		require.NoError(t, ValidateStructure(e))
	})

	t.Run("enhanced record is valid", func(t *testing.T) {
		e := NewEntry(EntryData{Exercises: []Exercise{validExercise()}}, EntryOptions{})
		require.NoError(t, ValidateStructure(e))
	})

	tests := []struct {
		name   string
		mutate func(*Entry)
	}{
		{"missing lastSaved", func(e *Entry) { e.LastSaved = "" }},
		{"missing exercises", func(e *Entry) { e.Exercises = nil }},
		{"non-uuid workoutLogId", func(e *Entry) { id := "not-a-uuid"; e.WorkoutLogID = &id }},
		{"invalid exercise", func(e *Entry) { e.Exercises[0].Sets = 0 }},
		{"unknown pendingSaveType", func(e *Entry) {
			pending := SaveStrategy("bogus")
			e.CacheInfo = &CacheInfo{LastSaved: e.LastSaved, IsValid: true}
			e.ChangeTracking = &ChangeTracking{PendingSaveType: &pending}
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := validLegacyEntry()
			test.mutate(e)
			assert.Error(t, ValidateStructure(e))
			assert.False(t, IsValidStructure(e))
		})
	}

	t.Run("nil entry", func(t *testing.T) {
		assert.Error(t, ValidateStructure(nil))
	})

	t.Run("pendingSaveType literals accepted", func(t *testing.T) {
		for _, pending := range []SaveStrategy{SaveStrategyExerciseOnly, SaveStrategyMetadataOnly, SaveStrategyFullSave} {
			e := validLegacyEntry()
			p := pending
			e.CacheInfo = &CacheInfo{LastSaved: e.LastSaved, IsValid: true}
			e.ChangeTracking = &ChangeTracking{PendingSaveType: &p}
			assert.NoError(t, ValidateStructure(e), "pendingSaveType %q", pending)
		}
	})
}

func TestIsTimestampFresh(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		ts       string
		maxAge   time.Duration
		expected bool
	}{
		{"just saved", now.UTC().Format(time.RFC3339Nano), time.Hour, true},
		{"2s old, 1s budget", now.Add(-2 * time.Second).UTC().Format(time.RFC3339Nano), time.Second, false},
		{"2s old, 1h budget", now.Add(-2 * time.Second).UTC().Format(time.RFC3339Nano), time.Hour, true},
		{"unparsable", "yesterday-ish", time.Hour, false},
		{"empty", "", time.Hour, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, isTimestampFresh(test.ts, test.maxAge))
		})
	}
}
