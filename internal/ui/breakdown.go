package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/numdeck/numdeck/internal/stats"
)

// renderBreakdown renders the per-category reservation breakdown overlay.
func (m Model) renderBreakdown() string {
	styles := m.theme.Styles()
	breakdown := stats.Compute(m.snapshot.Rows)

	catWidth := 12
	for _, c := range breakdown.Categories {
		if len(c.Category) > catWidth {
			catWidth = len(c.Category)
		}
	}
	rowFmt := fmt.Sprintf("%%-%ds  %%6s  %%8s  %%6s", catWidth)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Category Breakdown"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", catWidth+26)))
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render(
		fmt.Sprintf(rowFmt, "Category", "Open", "Reserved", "Total")))
	b.WriteString("\n")

	for _, c := range breakdown.Categories {
		name := c.Category
		if name == "" {
			name = "(none)"
		}
		b.WriteString(styles.Text.Render(fmt.Sprintf(rowFmt,
			name,
			fmt.Sprintf("%d", c.Open),
			fmt.Sprintf("%d", c.Reserved),
			fmt.Sprintf("%d", c.Total))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf(rowFmt,
		"All",
		fmt.Sprintf("%d", breakdown.TotalOpen),
		fmt.Sprintf("%d", breakdown.TotalReserved),
		fmt.Sprintf("%d", breakdown.Total))))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
