// Package trainingcache is the workout-log cache subsystem: an in-memory,
// key-addressed cache of in-progress workout state that sits between a
// workout-logging UI and its remote persistence layer.
//
// # Architecture
//
// The module is organized around a stateless cache manager and the ports it
// consumes:
//
//   - workoutcache: the cache manager. Key codec, structural validation,
//     freshness policy, remote confirmation, change tracking with three save
//     granularities, and store statistics. The store itself is caller-owned;
//     every operation takes the current snapshot as an argument and mutation
//     is expressed as a functional update handed to the caller's setter.
//   - remote: the workout-log remote store port (LogStore) and an HTTP
//     client implementation for PostgREST-style APIs.
//   - config: YAML application configuration aggregating the cache and
//     remote sections.
//   - errors: classified errors (transient/invalid/fatal) used throughout.
//   - metric: optional Prometheus metrics registry.
//   - pkg/retry, pkg/timestamp: retry policies and timestamp handling.
//
// # Design principles
//
// Reads never fail: Get normalizes malformed keys, misses, and every
// validation failure to a nil result, so the UI can call it
// opportunistically and fall back to the remote source of truth. Remote
// confirmation fails closed: an unreachable remote store is treated the same
// as a missing record.
//
// Writes are explicit about what was saved: the three confirmation
// operations (exercise-only, metadata-only, full save) move only the
// timestamps of the categories they cover, which is what keeps partial saves
// honest in the change-tracking state.
package trainingcache
