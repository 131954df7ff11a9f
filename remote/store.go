// Package remote provides the workout-log remote store port and an HTTP
// client implementation for it. The cache manager consumes exactly one
// capability from the remote side: confirming that a workout-log identifier
// still exists.
package remote

import (
	"context"
)

// LogStore is the remote persistence capability consumed by the cache
// manager. Implementations return (false, nil) for a definite "not found"
// and a non-nil error for anything they could not determine; the manager
// normalizes both to "not confirmed".
type LogStore interface {
	WorkoutLogExists(ctx context.Context, id string) (bool, error)
}

// LogStoreFunc adapts a function to the LogStore interface.
type LogStoreFunc func(ctx context.Context, id string) (bool, error)

// WorkoutLogExists implements LogStore.
func (f LogStoreFunc) WorkoutLogExists(ctx context.Context, id string) (bool, error) {
	return f(ctx, id)
}
