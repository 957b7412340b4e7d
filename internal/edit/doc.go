// Package edit orchestrates optimistic status changes against the sheet.
//
// # Overview
//
// Toggling a number's status must feel instant while the sheet service
// remains the source of truth. The coordinator resolves that tension with
// the classic optimistic protocol: show the new value immediately, submit
// in the background, and either confirm it with a fresh snapshot or roll
// it back and say so. Edits race background refreshes the whole time; the
// rules below keep every interleaving sane.
//
// # Attempt Lifecycle
//
//	idle ──Begin──▶ submitting ──remote ok──▶ confirming ──▶ idle
//	                    │
//	                    └──remote err──▶ rolling_back ──▶ idle
//
// Begin is synchronous: it gates on the pending set (a second edit for a
// row already in flight is a no-op), applies the optimistic status, and
// marks the row pending, all as one atomic store step inside the UI event
// loop. Finish blocks on the remote call and is run from a command
// goroutine. Confirming means clearing the pending mark and forcing a
// reconciliation refresh; rolling back means restoring the pre-edit
// status and reporting the failure, then forcing a refresh anyway, since
// after a failure the remote snapshot is trusted over anything local.
//
// Every attempt terminates in exactly one of applied, reverted, or
// skipped. There is no silent path.
//
// # Interaction with Refreshes
//
// The post-edit refresh bypasses the scheduler's cadence guard. A refresh
// that lands between Begin and Finish replaces the rows wholesale and
// clears the pending set; a later rollback then becomes a no-op instead
// of clobbering authoritative data. That rule lives in the store
// (RevertEdit only acts while the pending mark survives); the coordinator
// just calls it unconditionally.
//
// # Confirmation Prompts
//
// Reserving a number is consequential, so the UI asks before calling
// Begin. A declined prompt never reaches this package: no pending mark,
// no optimistic value, nothing to unwind.
//
// # Logging
//
// Each attempt carries a uuid, and every transition logs it with the
// phase it enters, so one grep over the log file reconstructs any edit's
// story.
package edit
