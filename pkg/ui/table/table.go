// Package table renders listings (sessions, articles, words) either as a
// lipgloss table for a terminal, or as a markdown table for a pipe.
package table

import (
	"fmt"
	"strings"
	"time"

	// Packages
	lipgloss "github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Data is implemented by listings which can be rendered as a table
type Data interface {
	// Header returns the column header labels
	Header() []string

	// Len returns the number of rows
	Len() int

	// Row returns the cell values for row i, or nil to skip the row.
	// Wrap a value in Bold{} to highlight it.
	Row(i int) []any
}

// Bold highlights a cell value
type Bold struct{ Value any }

// Percent formats a fraction between zero and one as a percentage
type Percent float64

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Placeholder for empty cells
	Empty = "-"

	// Layout of time values
	TimeLayout = "2006-01-02 15:04"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	boldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cellStyle   = lipgloss.NewStyle()
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Render returns the data as a bordered table. When width is positive and
// the table is wider, columns are wrapped to fit.
func Render(data Data, width int) string {
	t := lgtable.New().
		Headers(data.Header()...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for i := range data.Len() {
		row := data.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatCell(v)
		}
		t.Row(cells...)
	}

	result := t.Render()
	if width > 0 && lipgloss.Width(result) > width {
		t.Width(width)
		result = t.Render()
	}
	return result
}

// RenderMarkdown returns the data as a markdown table. Missing cells are
// filled with the placeholder.
func RenderMarkdown(data Data) string {
	header := data.Header()
	if len(header) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("|")
	for _, h := range header {
		buf.WriteString(" " + h + " |")
	}
	buf.WriteString("\n|")
	for range header {
		buf.WriteString("---|")
	}
	for i := range data.Len() {
		row := data.Row(i)
		if row == nil {
			continue
		}
		buf.WriteString("\n|")
		for j := range header {
			cell := Empty
			if j < len(row) {
				cell = formatMarkdownCell(row[j])
			}
			buf.WriteString(" " + cell + " |")
		}
	}
	return buf.String()
}

// Truncate shortens s to max runes, collapsing newlines and appending "…"
// if truncated.
func Truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// FormatCell converts a value to the text of a styled table cell
func FormatCell(v any) string {
	if b, ok := v.(Bold); ok {
		return boldStyle.Render(FormatCell(b.Value))
	}
	return format(v)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func formatMarkdownCell(v any) string {
	if b, ok := v.(Bold); ok {
		if inner := formatMarkdownCell(b.Value); inner != Empty {
			return "**" + inner + "**"
		}
		return Empty
	}
	return strings.ReplaceAll(format(v), "|", "\\|")
}

// format returns the plain text of a cell. Zero values are shown as the
// placeholder.
func format(v any) string {
	switch val := v.(type) {
	case nil:
		return Empty
	case string:
		if val == "" {
			return Empty
		}
		return val
	case time.Time:
		if val.IsZero() {
			return Empty
		}
		return val.Format(TimeLayout)
	case *time.Time:
		if val == nil {
			return Empty
		}
		return format(*val)
	case Percent:
		return fmt.Sprintf("%.0f%%", float64(val)*100)
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case int:
		if val == 0 {
			return Empty
		}
		return fmt.Sprint(val)
	case uint64:
		if val == 0 {
			return Empty
		}
		return fmt.Sprint(val)
	default:
		if s := fmt.Sprint(val); s != "" {
			return s
		}
		return Empty
	}
}
