package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutOwnerWidth is the minimum width to show the owner column.
	LayoutOwnerWidth = 80
)

// Timing constants.
const (
	// uiTickInterval is how often the UI re-reads the store on its own,
	// independent of pushed snapshots.
	uiTickInterval = time.Second

	// toastLifetime is how long a notification stays in the footer.
	toastLifetime = 4 * time.Second
)

// logTailLines is the number of log lines read into the log overlay.
const logTailLines = 500

// pageSizes are the presets the page-size key cycles through. Zero is the
// unbounded sentinel: every row on one page.
var pageSizes = []int{10, 25, 50, 100, 0}
