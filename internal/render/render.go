// Package render writes report widgets as terminal text.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/segstat/internal/widget"
)

const terminalWidthBackup = 80

var (
	headStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// Options controls text rendering.
type Options struct {
	Width int
	Color bool
}

// Write renders widgets in order, separated by blank lines.
func Write(w io.Writer, widgets []widget.Widget, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = TerminalWidth()
	}
	for i, wd := range widgets {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		var lines []string
		switch v := wd.(type) {
		case widget.TextWidget:
			lines = textLines(v, opts)
		case widget.TableWidget:
			lines = tableLines(v, opts)
		default:
			return fmt.Errorf("unsupported widget kind %q", wd.Kind())
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func textLines(t widget.TextWidget, opts Options) []string {
	var lines []string
	if t.Label != "" {
		lines = append(lines, decorate(labelStyle, t.Label, opts.Color))
	}
	if t.Head != "" {
		lines = append(lines, decorate(headStyle, t.Head, opts.Color))
	}
	return append(lines, wrapText(t.Text, opts.Width)...)
}

func tableLines(t widget.TableWidget, opts Options) []string {
	headers := make([]string, len(t.Columns))
	rightAlign := map[int]bool{}
	for i, c := range t.Columns {
		headers[i] = c.Label
		if c.CellType == "number" {
			rightAlign[i] = true
		}
	}
	cells := make([][]widget.Cell, len(t.Rows))
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells[r] = make([]widget.Cell, len(t.Columns))
		rows[r] = make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cells[r][i] = row[c.Name]
			rows[r][i] = row[c.Name].Label
		}
	}

	lines := []string{decorate(labelStyle, t.Label, opts.Color)}
	if !opts.Color {
		return append(lines, formatTable(headers, rows, rightAlign)...)
	}
	widths := columnWidths(headers, rows, len(headers))
	lines = append(lines, formatRow(headers, widths, rightAlign, nil))
	for r, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlign, func(col int, padded string) string {
			return backgroundStyle(cells[r][col].Background).Render(padded)
		}))
	}
	return lines
}

// backgroundStyle blends an RGBA cell background over black.
func backgroundStyle(rgba string) lipgloss.Style {
	c, alpha, ok := widget.ParseRGBA(rgba)
	if !ok || alpha <= 0 {
		return lipgloss.NewStyle()
	}
	hex := fmt.Sprintf("#%02X%02X%02X", blend(c.R, alpha), blend(c.G, alpha), blend(c.B, alpha))
	return lipgloss.NewStyle().Background(lipgloss.Color(hex))
}

func blend(v uint8, alpha float64) uint8 {
	return uint8(float64(v)*alpha + 0.5)
}

func decorate(style lipgloss.Style, s string, color bool) string {
	if !color {
		return s
	}
	return style.Render(s)
}

// ShouldUseColor reports whether w is a terminal that accepts ANSI colors.
func ShouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// TerminalWidth returns the stdout width or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
