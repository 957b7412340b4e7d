package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/numdeck/numdeck/internal/sheet"
)

// renderConfirm renders the reserve confirmation modal. Reserving takes a
// number away from the pool, so it is the one edit that asks first.
func (m Model) renderConfirm() string {
	styles := m.theme.Styles()

	local := sheet.Localize(m.confirmKey.MSISDN, m.pipeline.CountryCode)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(fmt.Sprintf("Reserve %s?", local)))
	b.WriteString("\n")

	if row, ok := m.snapshot.Row(m.confirmKey); ok {
		b.WriteString(styles.MutedText.Render(
			fmt.Sprintf("%s · assigned %s", row.Category, row.AssignDate)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.SuccessText.Render("y") + styles.Text.Render("/enter confirm"))
	b.WriteString("    ")
	b.WriteString(styles.DangerText.Render("n") + styles.Text.Render("/esc cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Warning)).
		Padding(1, 2).
		Width(44)

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
