package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderFooter renders row counts, the paginator, and any active toast.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	var parts []string

	parts = append(parts, bg.Render(m.rowRangeLabel(), styles.Text))

	if len(m.snapshot.Rows) != m.window.Total {
		parts = append(parts,
			bg.Render(fmt.Sprintf("filtered from %d", len(m.snapshot.Rows)), styles.FaintText))
	}

	if m.window.TotalPages > 1 {
		parts = append(parts,
			bg.Render(fmt.Sprintf("Page %d/%d", m.window.Page, m.window.TotalPages), styles.MutedText))
		parts = append(parts, bg.Render(m.pager.View(), styles.AccentText))
	}

	left := bg.Join(parts, sep)

	right := m.renderToast(styles, bg)
	if right == "" {
		return styles.Header.Width(m.width).Render(left)
	}

	// Toast sits flush right; fall back to appending when space is tight
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return styles.Header.Width(m.width).Render(left + sep + right)
	}
	return styles.Header.Width(m.width).Render(left + bg.Spaces(gap) + right)
}

// rowRangeLabel describes the visible slice, e.g. "21–25 of 25".
func (m Model) rowRangeLabel() string {
	if m.window.Total == 0 {
		return "0 rows"
	}
	size := m.query.PageSize
	if size <= 0 {
		return fmt.Sprintf("%d rows", m.window.Total)
	}
	first := (m.window.Page-1)*size + 1
	last := first + len(m.window.Rows) - 1
	return fmt.Sprintf("%d–%d of %d", first, last, m.window.Total)
}
