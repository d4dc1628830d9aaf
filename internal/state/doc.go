// Package state provides thread-safe state management for Skyline.
//
// # Overview
//
// The Store is the coordination point between the background fetcher, the
// filter panel and the result list. It holds the latest flight envelope
// together with the user's filter and sort selection.
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ Fetch()        │            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│  repeat...     │            │  render UI      │
//	└────────────────┘            └─────────────────┘
//	                                     ↑
//	          panel ── store.Dispatch(intent)
//
// # Intents
//
// Filters are never assigned directly. Every change goes through Dispatch
// with one of the closed set of intents:
//
//   - SetSelectedAirlines
//   - SetPriceRange
//   - SetDurationRange
//   - SetSortKey
//   - ResetFilters
//
// After each intent the Store hands the new selection to its Persister, so
// the selection survives a restart. Persistence failures are returned to the
// caller but never roll back the in-memory change.
//
// # Update Semantics
//
//	// Success case: replace the envelope
//	store.Update(&env, nil)
//	→ snapshot.Envelope = env
//	→ snapshot.LastError = nil
//	→ snapshot.Version++
//
//	// Error case: keep old data, record error
//	store.Update(nil, err)
//	→ snapshot.Envelope = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// # Versioning
//
// Version increments whenever the envelope or the filters change. Loading
// and Busy toggles do not bump it. Consumers that derive expensive views
// (the filtered and sorted list) key their caches on it.
//
// # Defensive Copying
//
// Snapshot clones the flight slice, the airline selection and the error, so
// callers may hold a Snapshot across frames without racing the writers.
package state
