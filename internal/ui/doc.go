// Package ui provides the terminal user interface for numdeck.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program over a single Model. It never talks to
// the sheet service directly: background refreshes run in the poll
// scheduler, edits run through the edit coordinator, and the UI only
// reads state.Store snapshots and derives its table through the view
// pipeline. Keystrokes and mouse events are forwarded to the scheduler
// as activity signals so the refresh cadence tracks real use.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key routing, messages and commands
//   - header.go: status bar and command hint bar
//   - table.go: the number table
//   - footer.go: row counts, paginator, toast display
//   - confirm.go: the reserve confirmation modal
//   - breakdown.go: category breakdown overlay
//   - logs.go: log overlay over numdeck's own log file
//   - toast.go: notification plumbing from background goroutines
//   - keys.go, theme.go, style_helpers.go, layout.go: chrome
//
// # Event Flow
//
//  1. Run() builds the program and attaches the Toaster
//  2. The poll scheduler pushes SnapshotMsg after each refresh settles
//  3. A once-a-second tick re-reads the store as a fallback
//  4. Status edits call Editor.Begin synchronously, so the optimistic
//     value is on screen before the remote call is dispatched
//  5. Context cancellation tears the program down cleanly
package ui
