package xgrid

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/ansi"
)

// Measure returns the display width of text. ANSI escape sequences do not
// count toward the width.
func Measure(text string) int {
	return ansi.PrintableRuneWidth(text)
}

// Wrap greedily wraps text into lines no wider than width. Tokens are
// whitespace-delimited; a single token wider than width is placed alone on
// its own line and may exceed width. Tokens are never truncated. The
// original leading and trailing whitespace is not preserved.
func Wrap(text string, width int) ([]string, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}
	lines := make([]string, 0, 1)
	var line strings.Builder
	lineWidth := 0
	for _, word := range words {
		w := Measure(word)
		if lineWidth == 0 {
			line.WriteString(word)
			lineWidth = w
			continue
		}
		if lineWidth+1+w <= width {
			line.WriteByte(' ')
			line.WriteString(word)
			lineWidth += 1 + w
			continue
		}
		lines = append(lines, line.String())
		line.Reset()
		line.WriteString(word)
		lineWidth = w
	}
	lines = append(lines, line.String())
	return lines, nil
}
