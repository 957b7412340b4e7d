// Package state provides thread-safe state management for the numdeck
// application.
//
// # Overview
//
// This package implements the store where the sync scheduler's wholesale
// snapshot replacements meet the edit coordinator's single-row optimistic
// mutations, and where the UI reads consistent snapshots. It is the only
// place rows and the pending-edit set are held, so every consistency rule
// between them is enforced behind one mutex.
//
// # Architecture
//
//	Producers:                                Consumer (UI):
//	┌──────────────────────┐
//	│ poll.Scheduler       │  Replace/Fail
//	│   (full snapshots)   │──────────────┐
//	└──────────────────────┘              ▼
//	┌──────────────────────┐         ┌─────────┐   Snapshot()   ┌────────┐
//	│ edit.Coordinator     │────────→│  Store  │───────────────→│ render │
//	│ (Begin/Finish/Revert)│ (mutex) └─────────┘                └────────┘
//	└──────────────────────┘
//
// # Rows, Keys, and Duplicates
//
// Rows are indexed by their composite key (MSISDN, assignDate). The sheet
// is supposed to keep those unique; when a snapshot violates that, Replace
// reports the duplicated keys to the caller for logging, records the count
// for the UI to flag, and indexes the later row for each duplicate. The
// rows themselves all stay visible.
//
// # Pending Edit Set
//
// The pending set maps composite keys to "edit in flight". Its lifecycle
// is strict: BeginEdit is the only writer that sets a mark, FinishEdit and
// RevertEdit clear single marks, and Replace clears the whole set because
// a fresh snapshot supersedes anything in flight. No code path can leave
// a mark dangling: every BeginEdit has exactly one matching Finish or
// Revert, and even if that pairing were ever broken the next successful
// refresh sweeps the set clean.
//
// # Edit Atomicity
//
// BeginEdit performs gate-check, optimistic apply, and pending-mark as one
// locked step. A concurrent Replace therefore either runs entirely before
// the edit (the edit applies to the fresh rows) or entirely after (the
// fresh rows overwrite the optimistic value and clear the mark). No
// interleaving can produce a row whose displayed status belongs to neither
// the remote snapshot nor a tracked in-flight edit.
//
// RevertEdit restores the pre-edit status only while the pending mark is
// still present. If a refresh raced in between, the mark is gone, the
// optimistic value was already replaced by authoritative data, and the
// rollback becomes a no-op rather than clobbering fresh remote state.
//
// # Failure Accounting
//
// Fail records a refresh error without dropping the previous rows, so the
// UI keeps rendering the last good data during an outage. Consecutive
// failures are counted; Snapshot.IsOffline turns true at two, which the
// header uses to flip the connection indicator. Fail returns the count so
// the scheduler can emit a notification exactly once per outage, on the
// transition from zero to one.
//
// # Defensive Copying
//
// Snapshot returns cloned row slices and pending maps. The UI can hold a
// snapshot across frames while the scheduler keeps writing; neither side
// can mutate the other's view.
//
// # Testing Considerations
//
// The zero-value Store is ready to use: no rows, empty pending set, zero
// Snapshot. Tests drive it directly with Replace/BeginEdit/... and assert
// on Snapshot; no goroutines or timers are involved at this layer.
package state
