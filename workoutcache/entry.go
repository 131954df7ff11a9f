package workoutcache

import (
	"github.com/dkoehler14/TrainingPWA2.0-sub004/pkg/timestamp"
)

// EntryData is the partial input accepted by Set and the entry factory.
// Nil pointer fields mean "not supplied" and fall back to a deterministic
// default; a nil Exercises slice defaults to an empty one.
type EntryData struct {
	WorkoutLogID      *string         `json:"workoutLogId,omitempty"`
	LastSaved         string          `json:"lastSaved,omitempty"`
	IsValid           *bool           `json:"isValid,omitempty"`
	Exercises         []Exercise      `json:"exercises,omitempty"`
	IsWorkoutFinished *bool           `json:"isWorkoutFinished,omitempty"`
	Metadata          Metadata        `json:"metadata,omitempty"`
	CacheInfo         *CacheInfo      `json:"cacheInfo,omitempty"`
	ChangeTracking    *ChangeTracking `json:"changeTracking,omitempty"`

	// WeekIndex and DayIndex are the fallback slot coordinates used when the
	// cache key itself cannot be parsed.
	WeekIndex *int `json:"weekIndex,omitempty"`
	DayIndex  *int `json:"dayIndex,omitempty"`
}

// EntryOptions carries the factory context: where the record came from, the
// save strategy to stamp, and the key/version bookkeeping supplied by the
// manager.
type EntryOptions struct {
	UserID       string
	ProgramID    string
	WeekIndex    int
	DayIndex     int
	Source       string
	SaveStrategy SaveStrategy
	CacheKey     string
	Version      int
}

// defaultMetadata returns the deterministic metadata defaults. completedDate
// stays nil until a workout is finished; the unit preference default matches
// the application-wide one.
func defaultMetadata() Metadata {
	return Metadata{
		"name":          "",
		"isFinished":    false,
		"isDraft":       true,
		"duration":      nil,
		"notes":         "",
		"completedDate": nil,
		"weightUnit":    "lbs",
	}
}

// NewEntry builds a fully-populated enhanced cache record from partial
// input. Every field absent from data gets a deterministic default, and the
// legacy mirror fields (LastSaved, IsValid, IsWorkoutFinished) are kept in
// sync with their enhanced counterparts.
func NewEntry(data EntryData, opts EntryOptions) *Entry {
	now := timestamp.NowRFC3339()

	if opts.Source == "" {
		opts.Source = "cache_manager"
	}
	if opts.SaveStrategy == "" {
		opts.SaveStrategy = SaveStrategyUnknown
	}
	if opts.Version <= 0 {
		opts.Version = 1
	}

	metadata := defaultMetadata()
	for k, v := range data.Metadata {
		metadata[k] = v
	}

	lastSaved := data.LastSaved
	if lastSaved == "" {
		lastSaved = now
	}

	cacheInfo := CacheInfo{
		LastSaved:          lastSaved,
		LastExerciseUpdate: now,
		LastMetadataUpdate: now,
		IsValid:            true,
		Source:             opts.Source,
		SaveStrategy:       opts.SaveStrategy,
	}
	if data.CacheInfo != nil {
		supplied := *data.CacheInfo
		if supplied.LastSaved != "" {
			cacheInfo.LastSaved = supplied.LastSaved
		}
		if supplied.LastExerciseUpdate != "" {
			cacheInfo.LastExerciseUpdate = supplied.LastExerciseUpdate
		}
		if supplied.LastMetadataUpdate != "" {
			cacheInfo.LastMetadataUpdate = supplied.LastMetadataUpdate
		}
		cacheInfo.IsValid = supplied.IsValid
		if supplied.Source != "" {
			cacheInfo.Source = supplied.Source
		}
		if supplied.SaveStrategy != "" {
			cacheInfo.SaveStrategy = supplied.SaveStrategy
		}
	}

	changeTracking := ChangeTracking{}
	if data.ChangeTracking != nil {
		changeTracking = *data.ChangeTracking
		if changeTracking.PendingSaveType != nil {
			pending := *changeTracking.PendingSaveType
			changeTracking.PendingSaveType = &pending
		}
	}

	isValid := cacheInfo.IsValid
	if data.IsValid != nil {
		isValid = *data.IsValid
	}

	isFinished := false
	if v, ok := metadata["isFinished"].(bool); ok {
		isFinished = v
	}
	if data.IsWorkoutFinished != nil {
		isFinished = *data.IsWorkoutFinished
	}

	exercises := data.Exercises
	if exercises == nil {
		exercises = []Exercise{}
	}

	var workoutLogID *string
	if data.WorkoutLogID != nil {
		id := *data.WorkoutLogID
		workoutLogID = &id
	}

	return &Entry{
		WorkoutLogID:      workoutLogID,
		LastSaved:         cacheInfo.LastSaved,
		IsValid:           isValid,
		Exercises:         exercises,
		IsWorkoutFinished: isFinished,
		CacheInfo:         &cacheInfo,
		ChangeTracking:    &changeTracking,
		Metadata:          metadata,
		CacheKey:          opts.CacheKey,
		Version:           opts.Version,
	}
}

// ConvertLegacy upgrades a legacy record to the enhanced shape. Identity if
// the record is already enhanced; otherwise the legacy fields are treated as
// factory input and everything else gets the deterministic defaults.
func ConvertLegacy(e *Entry, opts EntryOptions) *Entry {
	if e.IsEnhanced() {
		return e
	}

	isValid := e.IsValid
	isFinished := e.IsWorkoutFinished
	data := EntryData{
		WorkoutLogID:      e.WorkoutLogID,
		LastSaved:         e.LastSaved,
		IsValid:           &isValid,
		Exercises:         e.Exercises,
		IsWorkoutFinished: &isFinished,
		Metadata:          e.Metadata,
	}
	if opts.CacheKey == "" {
		opts.CacheKey = e.CacheKey
	}
	if opts.Version == 0 {
		opts.Version = e.Version
	}
	return NewEntry(data, opts)
}
