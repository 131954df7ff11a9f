package workoutcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsEmptyStore(t *testing.T) {
	m := newTestManager(t, Deps{})

	stats := m.Stats(Store{})

	assert.Zero(t, stats.TotalEntries)
	assert.Zero(t, stats.ValidEntries)
	assert.Zero(t, stats.HitRate, "no division by zero on an empty store")
	assert.Zero(t, stats.EnhancedPercentage)
	assert.Empty(t, stats.Keys)
	assert.Empty(t, stats.SaveStrategies)
}

func TestStats(t *testing.T) {
	m := newTestManager(t, Deps{})
	h := newStoreHarness()

	id := "550e8400-e29b-41d4-a716-446655440000"
	require.NoError(t, m.Set("1_1", EntryData{WorkoutLogID: &id}, h.store, h.setter(),
		WithSaveStrategy(SaveStrategyFullSave)))
	require.NoError(t, m.Set("1_2", EntryData{}, h.store, h.setter()))
	require.NoError(t, m.Set("2_1", EntryData{}, h.store, h.setter()))
	m.Invalidate("2_1", h.store, h.setter())
	m.MarkChanged("1_2", ChangeExercise, SaveStrategyExerciseOnly, h.store, h.setter())

	legacy := validLegacyEntry()
	legacy.WorkoutLogID = nil
	h.store["0_1"] = legacy

	stats := m.Stats(h.store)

	assert.Equal(t, 4, stats.TotalEntries)
	assert.Equal(t, 3, stats.ValidEntries)
	assert.Equal(t, 1, stats.InvalidEntries)
	assert.Equal(t, 1, stats.EntriesWithWorkoutLogID)
	assert.Equal(t, 3, stats.EnhancedEntries)
	assert.Equal(t, 1, stats.EntriesWithUnsavedExerciseChanges)
	assert.Zero(t, stats.EntriesWithUnsavedMetadataChanges)
	assert.Equal(t, 1, stats.EntriesWithPendingSaves)

	// 3/4 valid and enhanced.
	assert.Equal(t, 75.0, stats.HitRate)
	assert.Equal(t, 75.0, stats.EnhancedPercentage)

	assert.Equal(t, map[SaveStrategy]int{
		SaveStrategyFullSave: 1,
		SaveStrategyUnknown:  3,
	}, stats.SaveStrategies)

	assert.Equal(t, []string{"0_1", "1_1", "1_2", "2_1"}, stats.Keys, "keys are sorted")
}

func TestStatsHitRateRounding(t *testing.T) {
	m := newTestManager(t, Deps{})
	h := newStoreHarness()

	require.NoError(t, m.Set("1_1", EntryData{}, h.store, h.setter()))
	require.NoError(t, m.Set("1_2", EntryData{}, h.store, h.setter()))
	require.NoError(t, m.Set("1_3", EntryData{}, h.store, h.setter()))
	m.Invalidate("1_3", h.store, h.setter())

	stats := m.Stats(h.store)
	assert.Equal(t, 66.67, stats.HitRate, "2/3 rounds to two decimals")
}

func TestStatsNilEntry(t *testing.T) {
	m := newTestManager(t, Deps{})
	stats := m.Stats(Store{"1_1": nil})

	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.InvalidEntries)
	assert.Equal(t, 1, stats.SaveStrategies[SaveStrategyUnknown])
}
