// Package timestamp provides standardized Unix timestamp handling for cache
// records.
//
// Cache records carry their save and update times as RFC3339 strings written
// by callers that are not always well behaved, so parsing has to be lenient:
// anything unparsable collapses to the zero value rather than an error.
// Internally the canonical format is int64 milliseconds since the Unix epoch
// (UTC), with 0 meaning "not set".
package timestamp

import (
	"strconv"
	"time"
)

// Now returns the current time as Unix milliseconds.
func Now() int64 {
	return time.Now().UnixMilli()
}

// NowRFC3339 returns the current time as an RFC3339 string in UTC.
// This is the on-record format for lastSaved and the per-category update
// timestamps.
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// ToUnixMs converts a time.Time to Unix milliseconds.
func ToUnixMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromUnixMs converts Unix milliseconds to time.Time.
// Returns zero time if timestamp is 0.
func FromUnixMs(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Format converts Unix milliseconds to an RFC3339 string for display.
// Returns empty string if timestamp is 0.
func Format(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// Parse converts various timestamp representations to Unix milliseconds.
// Supports:
//   - string (RFC3339, with or without sub-second precision, or a Unix
//     timestamp rendered as digits)
//   - int64/float64 (assumed milliseconds if > 1e12, otherwise seconds)
//   - time.Time
//   - nil/zero values (returns 0)
//
// Returns 0 for invalid input or parsing errors.
func Parse(input any) int64 {
	if input == nil {
		return 0
	}

	switch v := input.(type) {
	case int64:
		if v == 0 {
			return 0
		}
		// If value is greater than 1e12 (year 2001 in seconds), assume
		// milliseconds. Otherwise assume seconds and convert.
		if v > 1e12 {
			return v
		}
		return v * 1000

	case float64:
		if v == 0 {
			return 0
		}
		if v > 1e12 {
			return int64(v)
		}
		return int64(v * 1000)

	case int:
		return Parse(int64(v))

	case string:
		if v == "" {
			return 0
		}

		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return ToUnixMs(t)
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return ToUnixMs(t)
		}

		// Unix timestamp rendered as a string
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			return Parse(ts)
		}
		if ts, err := strconv.ParseFloat(v, 64); err == nil {
			return Parse(ts)
		}

		return 0

	case time.Time:
		return ToUnixMs(v)

	case *time.Time:
		if v == nil {
			return 0
		}
		return ToUnixMs(*v)

	default:
		return 0
	}
}

// IsZero checks if a timestamp is unset (zero).
func IsZero(ms int64) bool {
	return ms == 0
}

// Since returns the duration since the given timestamp.
// Returns 0 if timestamp is zero.
func Since(ms int64) time.Duration {
	if ms == 0 {
		return 0
	}
	return time.Since(time.UnixMilli(ms))
}

// Fresh reports whether the given timestamp is within maxAge of now.
// An unset or unparsable timestamp is never fresh, so a record that lost its
// lastSaved value ages out instead of living forever.
func Fresh(input any, maxAge time.Duration) bool {
	ms := Parse(input)
	if ms == 0 {
		return false
	}
	return Since(ms) <= maxAge
}
