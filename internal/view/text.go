package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles controls how Text decorates a state.
type Styles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
}

// PlainStyles renders without decoration.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Header: plain, Cell: plain, Label: plain, Muted: plain, Selected: plain}
}

// DefaultStyles is the terminal palette.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		Cell:     lipgloss.NewStyle(),
		Label:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		Selected: lipgloss.NewStyle().Reverse(true),
	}
}

const columnGap = "  "

// Text renders s as terminal text. selected is the index of the highlighted
// row or card, or -1.
func Text(s State, st Styles, selected int) string {
	switch v := s.(type) {
	case *Table:
		return tableText(v, st, selected)
	case *Cards:
		return cardsText(v, st, selected)
	default:
		return ""
	}
}

func tableText(t *Table, st Styles, selected int) string {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = lipgloss.Width(col.Label)
	}
	for _, row := range t.Rows {
		for i, c := range row.Cells {
			if i < len(widths) {
				if w := lipgloss.Width(flatten(c)); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var sb strings.Builder
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = pad(col.Label, widths[i], i == len(t.Columns)-1)
	}
	sb.WriteString(st.Header.Render(strings.Join(headers, columnGap)))
	sb.WriteString("\n")

	for r, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range t.Columns {
			var c string
			if i < len(row.Cells) {
				c = flatten(row.Cells[i])
			}
			cells[i] = pad(c, widths[i], i == len(t.Columns)-1)
		}
		line := strings.Join(cells, columnGap)
		if r == selected {
			line = st.Selected.Render(line)
		} else {
			line = st.Cell.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func cardsText(c *Cards, st Styles, selected int) string {
	var sb strings.Builder
	for i, card := range c.Items {
		if i > 0 {
			sb.WriteString("\n")
		}
		marker := "  "
		if i == selected {
			marker = st.Selected.Render(">") + " "
		}
		for _, f := range card.Fields {
			sb.WriteString(marker)
			sb.WriteString(st.Label.Render(f.Label + " :"))
			sb.WriteString(" ")
			sb.WriteString(flatten(f.Value))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// pad right-pads s to width; the last column is left unpadded.
func pad(s string, width int, last bool) string {
	if last {
		return s
	}
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// flatten keeps multi-line values on one line.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
