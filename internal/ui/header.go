package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/numdeck/numdeck/internal/stats"
)

// renderHeader renders the status bar with pool and connection state.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasData {
		return m.renderConnectingHeader(styles, bg)
	}

	content := m.buildStatusContent(styles, bg)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(content)
}

// renderConnectingHeader shows the state before the first snapshot lands.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)

	if m.snapshot.LastError != nil {
		parts := []string{
			bg.Render("numdeck", styles.Logo),
			bg.Render("SHEET "+classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		}
		if !m.snapshot.LastUpdated.IsZero() {
			parts = append(parts, bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.MutedText))
		}
		if m.logPath != "" {
			parts = append(parts,
				bg.Render("logs", styles.FaintText)+bg.Space()+
					bg.Render(truncateMiddle(m.logPath, 50), styles.MutedText))
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("numdeck", styles.Logo) + sep +
			bg.Render("Connecting to sheet...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	breakdown := stats.Compute(m.snapshot.Rows)

	var parts []string

	parts = append(parts, bg.Render("numdeck", styles.Logo))

	// Connection indicator
	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	} else {
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	}

	// Pool split
	if compact {
		parts = append(parts,
			bg.Render("O:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", breakdown.TotalOpen), styles.SuccessText)+
				sep+bg.Render("•", styles.FaintText)+sep+
				bg.Render("R:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", breakdown.TotalReserved), styles.WarningText),
		)
	} else {
		parts = append(parts,
			bg.Render("Open:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", breakdown.TotalOpen), styles.SuccessText)+
				sep+bg.Render("•", styles.FaintText)+sep+
				bg.Render("Reserved:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", breakdown.TotalReserved), styles.WarningText)+
				sep+bg.Render("•", styles.FaintText)+sep+
				bg.Render("Total:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", breakdown.Total), styles.Text),
		)
	}

	// Edits in flight
	if pending := len(m.snapshot.Pending); pending > 0 {
		parts = append(parts,
			bg.Render("Pending:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", pending), styles.InfoText),
		)
	}

	// Duplicate composite keys are a sheet data-quality fault worth flagging
	if m.snapshot.DuplicateKeys > 0 {
		parts = append(parts,
			bg.Render("DUP KEYS", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.snapshot.DuplicateKeys), styles.WarningText),
		)
	}

	if timeStr := m.formatTimestamp(); timeStr != "" {
		parts = append(parts, bg.Render(timeStr, styles.MutedText))
	}

	// Refresh failures while stale data is still on screen
	if m.snapshot.LastError != nil {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		errText := truncate(fmt.Sprintf("%v", m.snapshot.LastError), maxErr)
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(errText, styles.DangerText),
		)
	}

	return bg.Join(parts, "  ")
}

// formatTimestamp formats the last refresh time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.snapshot.LastUpdated.IsZero() {
		return ""
	}

	timeSince := time.Since(m.snapshot.LastUpdated)
	timeStr := m.snapshot.LastUpdated.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	} else if timeSince < 24*time.Hour {
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar, or the live search input
// while a search is being typed.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.searching {
		return styles.Header.Width(m.width).Render(m.searchInput.View())
	}

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"/", "Search"},
		{"s", m.sortLabel()},
		{"z", m.pageSizeLabel()},
		{"Enter", "Toggle"},
		{"y", "Copy"},
		{"b", "Breakdown"},
		{"L", "Logs"},
		{"r", "Refresh"},
		{"?", "More"},
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands))
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Show the active search query
	if m.query.Search != "" {
		pattern := truncate(m.query.Search, 18)
		segments = append(segments,
			bg.Render("/"+pattern, styles.AccentText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// sortLabel names the current sort choice for the command bar.
func (m Model) sortLabel() string {
	if m.query.SortBy == "" {
		return "Sort"
	}
	dir := "↑"
	if m.query.Desc {
		dir = "↓"
	}
	return "Sort " + m.query.SortBy.Title() + dir
}

// pageSizeLabel names the current page size for the command bar.
func (m Model) pageSizeLabel() string {
	if m.query.PageSize <= 0 {
		return "All rows"
	}
	return fmt.Sprintf("%d/page", m.query.PageSize)
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	keep := max - 1 // room for ellipsis rune
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}
