package tui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TableColumn defines a column in a table.
type TableColumn struct {
	Name  string
	Width int
	Align Alignment
}

// Alignment defines text alignment in a column.
type Alignment int

// Alignment constants.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table provides styled table rendering with bold headers and
// width-truncated cells.
type Table struct {
	w       io.Writer
	styles  *TableStyles
	columns []TableColumn
}

// NewTable creates a new table with the given columns.
func NewTable(w io.Writer, columns []TableColumn) *Table {
	return &Table{
		w:       w,
		styles:  NewTableStyles(),
		columns: columns,
	}
}

// FitColumns expands column widths to fit the given rows, so short
// configured widths never truncate real content.
func FitColumns(columns []TableColumn, rows [][]string) []TableColumn {
	out := make([]TableColumn, len(columns))
	copy(out, columns)
	for i := range out {
		if w := utf8.RuneCountInString(out[i].Name); w > out[i].Width {
			out[i].Width = w
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(out) {
				break
			}
			if w := utf8.RuneCountInString(cell); w > out[i].Width {
				out[i].Width = w
			}
		}
	}
	return out
}

// WriteHeader writes the table header row.
func (t *Table) WriteHeader() {
	header := ""
	for i, col := range t.columns {
		if i > 0 {
			header += " "
		}
		header += fmt.Sprintf(t.formatSpec(col), col.Name)
	}
	_, _ = fmt.Fprintln(t.w, t.styles.Header.Render(header))
}

// WriteRow writes a data row to the table.
func (t *Table) WriteRow(values ...string) {
	row := ""
	for i, col := range t.columns {
		if i > 0 {
			row += " "
		}
		value := ""
		if i < len(values) {
			value = values[i]
		}
		// Truncate if needed (require Width > 1 to avoid slice bounds panic)
		if col.Width > 1 && utf8.RuneCountInString(value) > col.Width {
			runes := []rune(value)
			value = string(runes[:col.Width-1]) + "…"
		}
		row += fmt.Sprintf(t.formatSpec(col), value)
	}
	_, _ = fmt.Fprintln(t.w, strings.TrimRight(row, " "))
}

// WriteStyledRow writes a data row with one styled cell. The plain value
// is used for width accounting since ANSI escapes have no visible width.
func (t *Table) WriteStyledRow(values []string, styledIndex int, styledValue, plainValue string) {
	row := ""
	for i, col := range t.columns {
		if i > 0 {
			row += " "
		}
		if i == styledIndex {
			offset := len(styledValue) - len(plainValue)
			row += fmt.Sprintf(t.formatSpecWithOffset(col, offset), styledValue)
			continue
		}
		value := ""
		if i < len(values) {
			value = values[i]
		}
		if col.Width > 1 && utf8.RuneCountInString(value) > col.Width {
			runes := []rune(value)
			value = string(runes[:col.Width-1]) + "…"
		}
		row += fmt.Sprintf(t.formatSpec(col), value)
	}
	_, _ = fmt.Fprintln(t.w, strings.TrimRight(row, " "))
}

// formatSpec returns the format specifier for a column.
func (t *Table) formatSpec(col TableColumn) string {
	if col.Align == AlignRight {
		return fmt.Sprintf("%%%ds", col.Width)
	}
	return fmt.Sprintf("%%-%ds", col.Width)
}

// formatSpecWithOffset returns the format specifier with width adjusted
// for ANSI codes.
func (t *Table) formatSpecWithOffset(col TableColumn, offset int) string {
	width := col.Width + offset
	if col.Align == AlignRight {
		return fmt.Sprintf("%%%ds", width)
	}
	return fmt.Sprintf("%%-%ds", width)
}
