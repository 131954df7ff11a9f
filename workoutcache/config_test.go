package workoutcache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	config := DefaultConfig()
	assert.False(t, config.ValidateInDatabase)
	assert.True(t, config.AutoCleanup)
	assert.Equal(t, time.Hour, config.MaxCacheAge)
	assert.True(t, config.LogOperations)
	require.NoError(t, config.Validate())

	var zero Config
	zero.SetDefaults()
	assert.Equal(t, time.Hour, zero.MaxCacheAge)
	assert.False(t, zero.AutoCleanup)
}

func TestConfigValidate(t *testing.T) {
	config := Config{MaxCacheAge: -time.Minute}
	assert.Error(t, config.Validate())
}

func TestConfigUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"duration string", `{"max_cache_age": "30m"}`, 30 * time.Minute, false},
		{"compound duration", `{"max_cache_age": "1h30m"}`, 90 * time.Minute, false},
		{"integer nanoseconds", `{"max_cache_age": 3600000000000}`, time.Hour, false},
		{"absent field", `{"auto_cleanup": true}`, 0, false},
		{"bad duration string", `{"max_cache_age": "soonish"}`, 0, true},
		{"wrong type", `{"max_cache_age": [1]}`, 0, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var config Config
			err := json.Unmarshal([]byte(test.input), &config)
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, config.MaxCacheAge)
		})
	}

	t.Run("other fields pass through", func(t *testing.T) {
		var config Config
		input := `{"validate_in_database": true, "auto_cleanup": true, "max_cache_age": "2h", "log_operations": true}`
		require.NoError(t, json.Unmarshal([]byte(input), &config))
		assert.True(t, config.ValidateInDatabase)
		assert.True(t, config.AutoCleanup)
		assert.Equal(t, 2*time.Hour, config.MaxCacheAge)
		assert.True(t, config.LogOperations)
	})
}
