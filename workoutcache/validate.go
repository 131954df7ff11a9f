package workoutcache

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkoehler14/TrainingPWA2.0-sub004/errors"
	"github.com/dkoehler14/TrainingPWA2.0-sub004/pkg/timestamp"
)

// IsValidUUID reports whether id is a canonical RFC 4122 UUID: 8-4-4-4-12
// hex groups, version 1 through 5, RFC 4122 variant. The empty string and
// every non-canonical rendering (braces, URN, undashed hex) are rejected.
// Note that a nil WorkoutLogID is a valid value ("no remote record yet")
// even though nil is not a valid UUID.
func IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	if v := u.Version(); v < 1 || v > 5 {
		return false
	}
	return u.Variant() == uuid.RFC4122
}

// ValidateExercise checks one exercise record: a non-empty exercise id, a
// positive set count, and reps/weights/completed arrays whose lengths all
// equal the set count.
func ValidateExercise(e Exercise) error {
	if e.ExerciseID == "" {
		return errors.WrapInvalid(errors.ErrInvalidCacheStructure, "StructuralValidator", "ValidateExercise",
			"exerciseId must be non-empty")
	}
	if e.Sets <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidCacheStructure, "StructuralValidator", "ValidateExercise",
			fmt.Sprintf("sets must be positive, got %d", e.Sets))
	}
	if len(e.Reps) != e.Sets {
		return errors.WrapInvalid(errors.ErrInvalidCacheStructure, "StructuralValidator", "ValidateExercise",
			fmt.Sprintf("reps length %d does not match sets %d", len(e.Reps), e.Sets))
	}
	if len(e.Weights) != e.Sets {
		return errors.WrapInvalid(errors.ErrInvalidCacheStructure, "StructuralValidator", "ValidateExercise",
			fmt.Sprintf("weights length %d does not match sets %d", len(e.Weights), e.Sets))
	}
	if len(e.Completed) != e.Sets {
		return errors.WrapInvalid(errors.ErrInvalidCacheStructure, "StructuralValidator", "ValidateExercise",
			fmt.Sprintf("completed length %d does not match sets %d", len(e.Completed), e.Sets))
	}
	return nil
}

// IsValidExercise is the boolean form of ValidateExercise.
func IsValidExercise(e Exercise) bool {
	return ValidateExercise(e) == nil
}

// ValidateStructure checks that an entry satisfies the cache record shape:
// every legacy field present and well-formed, every exercise valid, and,
// when the enhanced substructures are present, their fields well-formed.
// Absence of the enhanced substructures is valid (legacy records pass).
//
// The returned error names the first failing field, so the same check backs
// both the manager's boolean guard and its descriptive log messages.
func ValidateStructure(e *Entry) error {
	if e == nil {
		return errors.WrapInvalid(errors.ErrInvalidCacheStructure, "StructuralValidator", "ValidateStructure",
			"record is nil")
	}
	if e.LastSaved == "" {
		return errors.WrapInvalid(errors.ErrInvalidCacheStructure, "StructuralValidator", "ValidateStructure",
			"lastSaved is missing")
	}
	if e.Exercises == nil {
		return errors.WrapInvalid(errors.ErrInvalidCacheStructure, "StructuralValidator", "ValidateStructure",
			"exercises is missing")
	}
	if e.WorkoutLogID != nil && !IsValidUUID(*e.WorkoutLogID) {
		return errors.WrapInvalid(errors.ErrInvalidCacheStructure, "StructuralValidator", "ValidateStructure",
			fmt.Sprintf("workoutLogId %q is not a valid UUID", *e.WorkoutLogID))
	}
	for i, ex := range e.Exercises {
		if err := ValidateExercise(ex); err != nil {
			return errors.WrapInvalid(err, "StructuralValidator", "ValidateStructure",
				fmt.Sprintf("exercises[%d]", i))
		}
	}
	if e.ChangeTracking != nil {
		if pending := e.ChangeTracking.PendingSaveType; pending != nil {
			switch *pending {
			case SaveStrategyExerciseOnly, SaveStrategyMetadataOnly, SaveStrategyFullSave:
			default:
				return errors.WrapInvalid(errors.ErrInvalidCacheStructure, "StructuralValidator", "ValidateStructure",
					fmt.Sprintf("changeTracking.pendingSaveType %q is not a known save type", *pending))
			}
		}
	}
	return nil
}

// IsValidStructure is the boolean form of ValidateStructure.
func IsValidStructure(e *Entry) bool {
	return ValidateStructure(e) == nil
}

// isTimestampFresh reports whether ts is within maxAge of now. Unparsable
// input is never fresh.
func isTimestampFresh(ts string, maxAge time.Duration) bool {
	return timestamp.Fresh(ts, maxAge)
}
