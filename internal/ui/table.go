package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/numdeck/numdeck/internal/sheet"
)

// Fixed column widths; category and owner share whatever remains.
const (
	colNumberWidth = 14
	colDateWidth   = 12
	colStatusWidth = 12
)

// tableColumns returns the visible schema columns with their widths for
// the current terminal size.
func (m Model) tableColumns() []tableColumn {
	showOwner := m.width >= LayoutOwnerWidth

	fixed := colNumberWidth + colDateWidth + colStatusWidth
	gaps := 3 // one space between columns
	if showOwner {
		gaps = 4
	}
	flexible := max(m.width-fixed-gaps, 20)
	catWidth := flexible
	ownerWidth := 0
	if showOwner {
		catWidth = flexible / 2
		ownerWidth = flexible - catWidth
	}

	cols := []tableColumn{
		{field: sheet.FieldNumber, width: colNumberWidth},
		{field: sheet.FieldAssignDate, width: colDateWidth},
		{field: sheet.FieldCategory, width: catWidth},
	}
	if showOwner {
		cols = append(cols, tableColumn{field: sheet.FieldOwner, width: ownerWidth})
	}
	cols = append(cols, tableColumn{field: sheet.FieldStatus, width: colStatusWidth})
	return cols
}

type tableColumn struct {
	field sheet.Field
	width int
}

// renderTable renders the column headers and the current page of rows,
// padded to fill the space between the command bar and the footer.
func (m Model) renderTable() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 4 // header, cmdbar, table header, footer

	cols := m.tableColumns()
	var b strings.Builder
	b.WriteString(m.renderTableHeader(cols))

	if len(m.window.Rows) == 0 {
		msg := "No numbers in the sheet"
		if m.query.Search != "" {
			msg = "No rows match " + m.query.Search
		}
		empty := lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(msg))
		b.WriteString("\n")
		b.WriteString(empty)
		return b.String()
	}

	for i, row := range m.window.Rows {
		b.WriteString("\n")
		b.WriteString(m.renderTableRow(row, cols, i == m.selected))
	}

	// Pad short pages so the footer stays pinned to the bottom
	for i := len(m.window.Rows); i < contentHeight; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// renderTableHeader renders column titles with the sort indicator.
func (m Model) renderTableHeader(cols []tableColumn) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	cells := make([]string, 0, len(cols))
	for _, col := range cols {
		title := col.field.Title()
		if col.field == m.query.SortBy {
			if m.query.Desc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		cells = append(cells, bg.Render(padCell(title, col.width), styles.AccentText.Bold(true)))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Width(m.width).
		Render(strings.Join(cells, bg.Space()))
}

// renderTableRow renders one number row with inline colors. Selected rows
// use the selection colors throughout so contrast never depends on the
// status palette.
func (m Model) renderTableRow(row sheet.Number, cols []tableColumn, selected bool) string {
	bgColor := m.theme.Background
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	pending := m.snapshot.IsPending(row.Key())

	var numberStyle, textStyle, statusStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		numberStyle, textStyle, statusStyle = selText.Bold(true), selText, selText
	} else {
		styles := m.theme.Styles()
		numberStyle = styles.Text.Bold(true)
		textStyle = styles.MutedText
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForStatus(row, pending)))
	}

	cells := make([]string, 0, len(cols))
	for _, col := range cols {
		switch col.field {
		case sheet.FieldNumber:
			local := row.Local(m.pipeline.CountryCode)
			cells = append(cells, bg.Render(padCell(local, col.width), numberStyle))
		case sheet.FieldStatus:
			label := string(row.Status)
			if pending {
				label += " …"
			}
			cells = append(cells, bg.Render(padCell(label, col.width), statusStyle))
		default:
			value := col.field.Value(row)
			cells = append(cells, bg.Render(padCell(value, col.width), textStyle))
		}
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(bgColor)).
		Width(m.width).
		Render(strings.Join(cells, bg.Space()))
}

// colorForStatus returns the theme color for a row's status. Rows with an
// edit in flight use the pending color regardless of status.
func (m Model) colorForStatus(row sheet.Number, pending bool) string {
	if pending {
		if color, ok := m.theme.StatusColors["pending"]; ok {
			return color
		}
	}
	status := strings.ToLower(strings.TrimSpace(string(row.Status)))
	if color, ok := m.theme.StatusColors[status]; ok {
		return color
	}
	return m.theme.Text
}

// padCell truncates or pads a value to exactly width characters.
func padCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = truncate(s, width)
	if len(s) < width {
		s += strings.Repeat(" ", width-len(s))
	}
	return s
}
