// Package logtail reads the tail of numdeck's own log file for display in
// the log overlay.
//
// # Overview
//
// Numdeck writes a plain-text log file (see the logging package) because
// the terminal belongs to the TUI. This package extracts the last N lines
// of that file on demand, without loading the whole file into memory, and
// classifies each line's level so the overlay can highlight it.
//
// # Ring Buffer Algorithm
//
// Read scans the file once into a circular buffer of size maxLines:
//
//  1. Allocate ring buffer of size maxLines
//  2. For each line in file:
//     - Store line at current index
//     - Increment index (wrapping at maxLines)
//     - Track total lines seen
//  3. If total < maxLines, return the first 'count' entries
//  4. Otherwise return the buffer starting from the oldest line
//
// Memory use is O(maxLines), not O(file size), so the overlay stays cheap
// even after the log has grown for weeks.
//
// # Line Format
//
// The logging package emits space-separated lines with the level in the
// third field:
//
//	2025-06-01 14:32:15 INFO sheet refresh ok {"rows": 412}
//
// Level inspects only the leading fields, so level words appearing inside
// message text are not misclassified.
//
// # Error Handling
//
// Read returns nil, nil for a file that does not exist yet; the overlay
// shows an empty state instead of an error. Other failures (permissions,
// I/O errors) are returned wrapped.
//
// # Design Rationale
//
// The package is intentionally small:
//   - No streaming or file watching (the UI re-reads on its tick)
//   - No log rotation handling (reads the current file only)
//   - No filtering or searching (that's the overlay's job)
//   - Pure functions with no global state
package logtail
