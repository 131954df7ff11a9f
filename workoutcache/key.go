package workoutcache

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dkoehler14/TrainingPWA2.0-sub004/errors"
)

// Cache keys have the canonical form [prefix_]week_day. The week and day
// segments are base-10 integers (negative values allowed) and are always
// recoverable by splitting on "_" from the right; the optional prefix is
// alphanumeric/underscore. Keys are opaque outside this package.
var (
	keyPattern    = regexp.MustCompile(`^(?:[A-Za-z0-9_]*_)?-?\d+_-?\d+$`)
	prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)
)

// GenerateKey builds the canonical cache key for a (week, day) slot. The
// optional prefix namespaces keys when several cache stores share a page
// (e.g. a draft editor next to the live log).
func GenerateKey(week, day int, prefix string) (string, error) {
	if !prefixPattern.MatchString(prefix) {
		return "", errors.WrapInvalid(errors.ErrInvalidKeyFormat, "KeyCodec", "GenerateKey",
			fmt.Sprintf("prefix %q must be alphanumeric/underscore", prefix))
	}
	if prefix == "" {
		return fmt.Sprintf("%d_%d", week, day), nil
	}
	return fmt.Sprintf("%s_%d_%d", prefix, week, day), nil
}

// ParseKey recovers the (week, day) pair from a cache key.
func ParseKey(key string) (week, day int, err error) {
	if !IsValidKey(key) {
		return 0, 0, errors.WrapInvalid(errors.ErrInvalidKeyFormat, "KeyCodec", "ParseKey",
			fmt.Sprintf("Invalid cache key format: %q", key))
	}

	segments := strings.Split(key, "_")
	dayStr := segments[len(segments)-1]
	weekStr := segments[len(segments)-2]

	week, err = strconv.Atoi(weekStr)
	if err != nil {
		return 0, 0, errors.WrapInvalid(errors.ErrInvalidKeyFormat, "KeyCodec", "ParseKey",
			fmt.Sprintf("Invalid cache key format: week segment %q", weekStr))
	}
	day, err = strconv.Atoi(dayStr)
	if err != nil {
		return 0, 0, errors.WrapInvalid(errors.ErrInvalidKeyFormat, "KeyCodec", "ParseKey",
			fmt.Sprintf("Invalid cache key format: day segment %q", dayStr))
	}
	return week, day, nil
}

// IsValidKey reports whether key matches the canonical pattern. It never
// fails; the manager uses it as a guard before any other processing.
func IsValidKey(key string) bool {
	return keyPattern.MatchString(key)
}
