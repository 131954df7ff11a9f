// Package workoutcache implements the client-side workout-log cache: a
// key-addressed store of in-progress workout state that stays consistent
// with, but not always synchronized to, the remote store.
//
// # Overview
//
// The cache supports three independent save granularities (exercise data
// only, metadata only, or a full save) without losing unsaved edits from the
// others. Each cached record tracks, per category, when it was last
// confirmed saved and whether it carries unsaved edits; a failed remote save
// invalidates the record while preserving those flags so a retry can be
// offered without re-detecting the edit.
//
// # Store ownership
//
// The store itself is owned by the caller (typically a UI state container).
// The manager is a stateless service object: every operation takes the
// current snapshot as an argument, and all mutation is expressed as a
// functional "current snapshot to new snapshot" update handed to the
// caller's setter. Concurrent operations against different keys therefore
// apply cleanly regardless of interleaving; operations against the same key
// race at the last-write-wins level, with the record version counter
// observable but not used to reject stale writes.
//
// # Validation
//
// Reads run a three-stage validation pipeline, short-circuiting at the first
// failure: structural shape, timestamp freshness, then optional remote
// confirmation of the workoutLogId. Every failure degrades to a nil result
// plus a log entry and best-effort cleanup, never an error, so a validation
// failure is indistinguishable from "no cached value yet" and the caller
// simply fetches fresh. Remote confirmation fails closed: an unreachable
// remote store is treated the same as a deleted record.
//
// # Quick start
//
//	manager, err := workoutcache.NewManager(workoutcache.Deps{
//		Config: workoutcache.DefaultConfig(),
//	})
//
//	store := workoutcache.Store{}
//	setStore := func(update func(workoutcache.Store) workoutcache.Store) {
//		store = update(store)
//	}
//
//	key, _ := manager.GenerateKey(1, 2, "")
//	_ = manager.Set(key, workoutcache.EntryData{Exercises: exercises}, store, setStore)
//	entry := manager.Get(ctx, key, store, setStore)
package workoutcache
