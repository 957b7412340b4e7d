package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/numdeck/numdeck/internal/logtail"
)

// initLogView initializes the log viewport once the terminal size is known.
func (m *Model) initLogView() {
	m.logView = viewport.New(m.width-4, m.height-5)
	m.logView.Style = lipgloss.NewStyle()
}

// resizeLogView tracks terminal resizes. Box height = m.height - 3
// (header, cmdbar, footer hint); inner = box height - 2 for the borders.
func (m *Model) resizeLogView() {
	if m.logView.Width == 0 {
		return
	}
	m.logView.Width = m.width - 4
	m.logView.Height = m.height - 5
}

// updateLogView re-renders the tail into the viewport. When following,
// the view stays pinned to the newest line.
func (m *Model) updateLogView() {
	if m.logView.Width == 0 {
		m.initLogView()
	}

	lines := make([]string, 0, len(m.logLines))
	for _, line := range m.logLines {
		lines = append(lines, m.colorizeLogLine(line))
	}
	m.logView.SetContent(strings.Join(lines, "\n"))

	if m.logFollow {
		m.logView.GotoBottom()
	}
}

// renderLogOverlay renders the log viewport in a titled box.
func (m Model) renderLogOverlay() string {
	styles := m.theme.Styles()

	title := "numdeck log"
	if m.logPath != "" {
		title += " — " + truncateMiddle(m.logPath, 40)
	}

	followHint := "following"
	if !m.logFollow {
		followHint = "G to follow"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(0, 1).
		Width(m.width - 2).
		Height(m.height - 3)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render(followHint))
	b.WriteString("\n")
	b.WriteString(box.Render(m.logView.View()))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("j/k scroll · g/G top/bottom · esc close"))
	return b.String()
}

// colorizeLogLine colors a log line by its level token. Lines numdeck did
// not write pass through unstyled.
func (m Model) colorizeLogLine(line string) string {
	styles := m.theme.Styles()

	level := logLineLevel(line)
	if level == "" {
		return styles.Text.Render(line)
	}

	style := m.levelStyle(level, styles)
	idx := strings.Index(line, level)
	return styles.FaintText.Render(line[:idx]) +
		style.Render(level) +
		styles.Text.Render(line[idx+len(level):])
}

// logLineLevel extracts the level token numdeck's encoder writes, e.g.
// "2025-06-01 14:32:15 INFO refresh completed".
func logLineLevel(line string) string {
	for _, level := range []string{logtail.LevelDebug, logtail.LevelInfo, logtail.LevelWarn, logtail.LevelError} {
		if strings.Contains(line, " "+level+" ") {
			return level
		}
	}
	return ""
}

func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case logtail.LevelInfo:
		return styles.SuccessText
	case logtail.LevelWarn:
		return styles.WarningText
	case logtail.LevelError:
		return styles.DangerText
	case logtail.LevelDebug:
		return styles.InfoText
	default:
		return styles.Text
	}
}
