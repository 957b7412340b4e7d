// Package poll implements the adaptive refresh scheduler that keeps the
// local sheet snapshot synchronized with the sheet service.
//
// # Overview
//
// The scheduler decides when to refetch. It runs a fast cadence while the
// operator is around, a slow cadence while they are not, and squeezes in
// immediate refreshes when something makes staleness visible: user input,
// the window regaining focus, or a just-submitted edit that needs
// confirming. Every refresh is a wholesale snapshot fetch handed to the
// state store; the scheduler itself holds no row data.
//
// # Cadences
//
//	ACTIVE  1000ms   operator present (input within the last minute,
//	                 or window just became visible)
//	IDLE    2000ms   window hidden, or a minute without input
//
// Transitions:
//
//	           activity / visible
//	   ┌──────────────────────────────┐
//	   ▼                              │
//	ACTIVE ──── hidden ────────────▶ IDLE
//	   │                              ▲
//	   └──── 60s without activity ────┘
//
// Activity also restarts a 100ms debounce timer; when a burst of input
// goes quiet the timer fires one immediate refresh. Becoming visible
// refreshes immediately without debouncing.
//
// # Tick Guard and Forced Refreshes
//
// During transitions two timers can fire close together. A cadence tick
// therefore refreshes only if a full current-interval has elapsed since
// the last completed refresh. Forced refreshes (debounce fire, visible,
// manual key, post-edit reconciliation) bypass the guard: they exist
// precisely because someone needs fresh data now.
//
// # Concurrency Model
//
// One goroutine owns the ticker and both timers; the exported methods
// just send signals into it. Fetches run in their own goroutines so a
// stalled request cannot block the next tick; since every fetch is an
// idempotent full snapshot, the last result to resolve simply wins and
// no sequencing tokens are needed. Completions report back to the loop
// only to timestamp the tick guard.
//
//	loop goroutine                      fetch goroutines
//	┌───────────────────────┐           ┌──────────────────┐
//	│ ticker / debounce /   │ spawn ───▶│ FetchAll()       │
//	│ demote / signals      │           │ store.Replace()  │
//	│ lastDone ◀────────────┼─ completion│ or store.Fail() │
//	└───────────────────────┘           └──────────────────┘
//
// # Failure Behavior
//
// A failed fetch records the error in the store (previous rows stay
// visible), logs it, and keeps the cadence running; staleness is
// self-correcting on the next tick, so there is no backoff escalation.
// The notifier hears about an outage exactly once, on the first
// consecutive failure; recovery shows up through the header's connection
// state rather than another notice.
//
// # Teardown
//
// Cancelling the Start context stops the loop, which releases the ticker
// and timers. In-flight fetches are allowed to resolve but their results
// are discarded before touching the store. Done() closes when teardown
// has finished, which tests use to assert nothing fires afterwards.
package poll
