package workoutcache

import (
	"math"
	"sort"
)

// Stats is a snapshot of store-wide cache statistics.
type Stats struct {
	TotalEntries            int     `json:"totalEntries"`
	ValidEntries            int     `json:"validEntries"`
	InvalidEntries          int     `json:"invalidEntries"`
	EntriesWithWorkoutLogID int     `json:"entriesWithWorkoutLogId"`
	HitRate                 float64 `json:"hitRate"`

	EnhancedEntries    int     `json:"enhancedEntries"`
	EnhancedPercentage float64 `json:"enhancedPercentage"`

	EntriesWithUnsavedExerciseChanges int `json:"entriesWithUnsavedExerciseChanges"`
	EntriesWithUnsavedMetadataChanges int `json:"entriesWithUnsavedMetadataChanges"`
	EntriesWithPendingSaves           int `json:"entriesWithPendingSaves"`

	SaveStrategies map[SaveStrategy]int `json:"saveStrategies"`
	Keys           []string             `json:"keys"`
}

// Stats computes aggregate statistics over all entries in the store. It is a
// synchronous fold over the snapshot; the store is never mutated. Keys are
// reported in sorted order since Go maps carry no insertion order. When a
// metrics registry is configured the store-size gauge is observed here.
func (m *Manager) Stats(store Store) Stats {
	stats := Stats{
		SaveStrategies: map[SaveStrategy]int{},
		Keys:           make([]string, 0, len(store)),
	}

	for key, entry := range store {
		stats.Keys = append(stats.Keys, key)
		stats.TotalEntries++

		if entry == nil {
			stats.InvalidEntries++
			stats.SaveStrategies[SaveStrategyUnknown]++
			continue
		}

		if entry.IsValid {
			stats.ValidEntries++
		} else {
			stats.InvalidEntries++
		}
		if entry.WorkoutLogID != nil {
			stats.EntriesWithWorkoutLogID++
		}

		if entry.IsEnhanced() {
			stats.EnhancedEntries++
		}
		if ct := entry.ChangeTracking; ct != nil {
			if ct.HasUnsavedExerciseChanges {
				stats.EntriesWithUnsavedExerciseChanges++
			}
			if ct.HasUnsavedMetadataChanges {
				stats.EntriesWithUnsavedMetadataChanges++
			}
			if ct.PendingSaveType != nil {
				stats.EntriesWithPendingSaves++
			}
		}

		strategy := SaveStrategyUnknown
		if entry.CacheInfo != nil && entry.CacheInfo.SaveStrategy != "" {
			strategy = entry.CacheInfo.SaveStrategy
		}
		stats.SaveStrategies[strategy]++
	}

	if stats.TotalEntries > 0 {
		stats.HitRate = roundRate(float64(stats.ValidEntries) / float64(stats.TotalEntries) * 100)
		stats.EnhancedPercentage = roundRate(float64(stats.EnhancedEntries) / float64(stats.TotalEntries) * 100)
	}

	sort.Strings(stats.Keys)

	if m.metrics != nil {
		m.metrics.observeSize(stats.TotalEntries)
	}
	return stats
}

// roundRate rounds a percentage to two decimal places.
func roundRate(rate float64) float64 {
	return math.Round(rate*100) / 100
}
