package workoutcache

import (
	"github.com/dkoehler14/TrainingPWA2.0-sub004/pkg/timestamp"
)

// EntryUpdate describes the field replacements applied together with a
// confirmed save. Nil fields leave the entry untouched; SetWorkoutLogID
// distinguishes "replace with nil" from "leave alone".
type EntryUpdate struct {
	Exercises       []Exercise
	Metadata        Metadata
	ReplaceMetadata bool // replace wholesale instead of merging
	WorkoutLogID    *string
	SetWorkoutLogID bool
}

// UpdateWithChangeTracking merges updates into existing and records a
// confirmed save of the given category. It returns a new entry; the input is
// never mutated.
//
// cacheInfo.lastSaved is stamped unconditionally, but the per-category
// update timestamps move only for the categories implied by changeType: an
// exercise-only save must not disturb lastMetadataUpdate, and vice versa.
// That independence is what makes the three save strategies partial. The
// corresponding hasUnsaved*Changes flags are cleared, and pendingSaveType is
// cleared regardless of category, since a successful save of any kind
// resolves the single pending-save indicator.
func UpdateWithChangeTracking(existing *Entry, updates EntryUpdate, changeType ChangeType) *Entry {
	now := timestamp.NowRFC3339()

	entry := ConvertLegacy(existing, EntryOptions{}).Clone()

	if updates.Exercises != nil {
		entry.Exercises = make([]Exercise, len(updates.Exercises))
		for i, ex := range updates.Exercises {
			entry.Exercises[i] = ex.Clone()
		}
	}
	if updates.SetWorkoutLogID {
		if updates.WorkoutLogID != nil {
			id := *updates.WorkoutLogID
			entry.WorkoutLogID = &id
		} else {
			entry.WorkoutLogID = nil
		}
	}
	if updates.Metadata != nil {
		if updates.ReplaceMetadata || entry.Metadata == nil {
			entry.Metadata = updates.Metadata.Clone()
		} else {
			for k, v := range updates.Metadata {
				entry.Metadata[k] = v
			}
		}
		if v, ok := updates.Metadata["isFinished"].(bool); ok {
			entry.IsWorkoutFinished = v
		}
	}

	touchesExercise := changeType == ChangeExercise || changeType == ChangeBoth
	touchesMetadata := changeType == ChangeMetadata || changeType == ChangeBoth

	entry.CacheInfo.LastSaved = now
	if touchesExercise {
		entry.CacheInfo.LastExerciseUpdate = now
	}
	if touchesMetadata {
		entry.CacheInfo.LastMetadataUpdate = now
	}
	entry.CacheInfo.IsValid = true

	if touchesExercise {
		entry.ChangeTracking.HasUnsavedExerciseChanges = false
	}
	if touchesMetadata {
		entry.ChangeTracking.HasUnsavedMetadataChanges = false
	}
	entry.ChangeTracking.PendingSaveType = nil

	// Legacy mirror fields
	entry.LastSaved = now
	entry.IsValid = true

	return entry
}

// MarkAsChanged is the inverse direction: it flags pending unsaved edits of
// the given category, stamps lastUserInput, and records which save type is
// pending. It never touches IsValid or the per-category update timestamps,
// so dirty-marking cannot mask staleness or fake a confirmed save.
func MarkAsChanged(existing *Entry, changeType ChangeType, pendingSaveType SaveStrategy) *Entry {
	entry := ConvertLegacy(existing, EntryOptions{}).Clone()

	if changeType == ChangeExercise || changeType == ChangeBoth {
		entry.ChangeTracking.HasUnsavedExerciseChanges = true
	}
	if changeType == ChangeMetadata || changeType == ChangeBoth {
		entry.ChangeTracking.HasUnsavedMetadataChanges = true
	}
	entry.ChangeTracking.LastUserInput = timestamp.NowRFC3339()

	if pendingSaveType != "" {
		pending := pendingSaveType
		entry.ChangeTracking.PendingSaveType = &pending
	}

	return entry
}
