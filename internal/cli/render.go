package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/runar-labs/runar-sqlite/sqlite"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// stdoutIsTerminal reports whether stdout is attached to a terminal.
// Piped output gets plain tab-separated rows instead of a styled table.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// columnsOf returns the union of column names across rows, sorted.
func columnsOf(rows []sqlite.Row) []string {
	seen := map[string]bool{}
	var columns []string
	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

// renderRows writes rows as a styled table on terminals, and as
// tab-separated text otherwise.
func renderRows(w io.Writer, rows []sqlite.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}

	columns := columnsOf(rows)
	if !stdoutIsTerminal() {
		fmt.Fprintln(w, strings.Join(columns, "\t"))
		for _, row := range rows {
			cells := make([]string, len(columns))
			for i, col := range columns {
				cells[i] = row[col].String()
			}
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
		return
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = lipgloss.Width(col)
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			cell := row[col].String()
			cells[r][i] = cell
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = headerStyle.Render(pad(col, widths[i]))
	}
	fmt.Fprintln(w, strings.Join(header, "  "))

	rule := make([]string, len(columns))
	for i, width := range widths {
		rule[i] = borderStyle.Render(strings.Repeat("─", width))
	}
	fmt.Fprintln(w, strings.Join(rule, "  "))

	for _, row := range cells {
		padded := make([]string, len(row))
		for i, cell := range row {
			padded[i] = pad(cell, widths[i])
		}
		fmt.Fprintln(w, strings.Join(padded, "  "))
	}
	fmt.Fprintf(w, "\n%d row(s)\n", len(rows))
}

// pad right-pads s to the given display width. Widths are measured with
// lipgloss so multibyte and wide runes stay aligned.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// renderJSON writes rows as indented JSON.
func renderJSON(w io.Writer, rows []sqlite.Row) error {
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		m := make(map[string]any, len(row))
		for col, v := range row {
			m[col] = v.Any()
		}
		out[i] = m
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling rows: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
