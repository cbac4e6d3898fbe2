package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks text on spaces so no line exceeds width display cells.
// Words wider than width are placed on their own line unbroken.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	lines = append(lines, line.String())
	return lines
}
