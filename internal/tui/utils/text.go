package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Truncate shortens text to maxWidth terminal cells, ending in "..." when cut
func Truncate(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxWidth, "...")
}

// WrapText breaks text at word boundaries into lines of at most maxWidth cells.
// A single word wider than maxWidth gets a line of its own.
func WrapText(text string, maxWidth int) []string {
	var lines []string
	var line strings.Builder
	width := 0

	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		switch {
		case width == 0:
			line.WriteString(word)
			width = w
		case width+1+w <= maxWidth:
			line.WriteByte(' ')
			line.WriteString(word)
			width += 1 + w
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			width = w
		}
	}

	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// ClampLines wraps text and keeps at most maxLines lines, marking the cut with "..."
func ClampLines(text string, maxLines, maxWidth int) string {
	lines := WrapText(text, maxWidth)
	if maxLines <= 0 || len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}

	kept := lines[:maxLines]
	kept[maxLines-1] = Truncate(kept[maxLines-1]+"...", maxWidth)

	return strings.Join(kept, "\n")
}
