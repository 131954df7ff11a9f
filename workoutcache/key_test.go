package workoutcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	tests := []struct {
		name     string
		week     int
		day      int
		prefix   string
		expected string
	}{
		{"no prefix", 1, 2, "", "1_2"},
		{"zero values", 0, 0, "", "0_0"},
		{"negative week", -1, 2, "", "-1_2"},
		{"negative day", 1, -2, "", "1_-2"},
		{"with prefix", 1, 2, "draft", "draft_1_2"},
		{"prefix with underscore", 3, 4, "program_a", "program_a_3_4"},
		{"large values", 52, 7, "", "52_7"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key, err := GenerateKey(test.week, test.day, test.prefix)
			require.NoError(t, err)
			assert.Equal(t, test.expected, key)
		})
	}
}

func TestGenerateKey_InvalidPrefix(t *testing.T) {
	for _, prefix := range []string{"bad-prefix", "bad prefix", "bad.prefix", "préfix"} {
		t.Run(prefix, func(t *testing.T) {
			_, err := GenerateKey(1, 2, prefix)
			require.Error(t, err)
		})
	}
}

func TestParseKey_RoundTrip(t *testing.T) {
	pairs := []struct{ week, day int }{
		{0, 0}, {1, 2}, {52, 7}, {-1, 2}, {1, -2}, {-10, -10}, {1000, 999},
	}

	for _, pair := range pairs {
		for _, prefix := range []string{"", "draft", "program_a"} {
			key, err := GenerateKey(pair.week, pair.day, prefix)
			require.NoError(t, err)

			week, day, err := ParseKey(key)
			require.NoError(t, err, "key %q", key)
			assert.Equal(t, pair.week, week, "key %q", key)
			assert.Equal(t, pair.day, day, "key %q", key)
		}
	}
}

func TestParseKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "abc", "1", "1_", "_", "1_b", "a_b", "1-2", "1_2 "} {
		t.Run(key, func(t *testing.T) {
			_, _, err := ParseKey(key)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Invalid cache key format")
		})
	}
}

func TestParseKey_ExtraSegmentsSplitFromRight(t *testing.T) {
	// Numeric-looking prefixes are allowed; the rightmost two numeric
	// segments win.
	week, day, err := ParseKey("1_2_3")
	require.NoError(t, err)
	assert.Equal(t, 2, week)
	assert.Equal(t, 3, day)
}

func TestIsValidKey(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{"1_2", true},
		{"0_0", true},
		{"-1_2", true},
		{"draft_1_2", true},
		{"program_a_3_4", true},
		{"1_2_3", true},
		{"abc", false},
		{"", false},
		{"1", false},
		{"1_b", false},
		{"1-2", false},
		{"draft-1_2_3", false},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			assert.Equal(t, test.expected, IsValidKey(test.key))
		})
	}
}
