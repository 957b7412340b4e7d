// Package app wires the numdeck components together: configuration,
// logging, the sheet client, the shared state store, the poll scheduler,
// the edit coordinator, and the TUI.
//
// Run owns the lifecycles. The scheduler starts before the UI so the
// first snapshot is usually in the store by the time the table renders,
// and it is cancelled and drained after the UI exits so no background
// goroutine outlives the logger.
package app
