package xgrid

import "github.com/mattn/go-runewidth"

// Alignment selects horizontal cell alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Anchor is the top-left grid position of a cell.
type Anchor struct {
	Row, Col int
}

// Cell holds one table cell: its content lines and the rectangle it spans.
type Cell struct {
	// Content is the cell text as pre-wrapped lines. Trailing blank lines
	// are dropped; interior blank lines separate paragraphs.
	Content []string
	// RowSpan and ColSpan are the number of grid rows and columns the cell
	// covers, at least 1.
	RowSpan int
	ColSpan int
	Align   Alignment
}

// widest returns the display width of the widest content line.
func (c *Cell) widest() int {
	w := 0
	for _, line := range c.Content {
		if lw := runewidth.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w
}

// widestToken returns the display width of the widest unbreakable token of
// any paragraph line. Opaque lines count whole.
func (c *Cell) widestToken() int {
	w := 0
	for _, line := range c.Content {
		if !plainLine(line) {
			if lw := runewidth.StringWidth(line); lw > w {
				w = lw
			}
			continue
		}
		for _, tok := range splitWords(line) {
			if tw := runewidth.StringWidth(tok); tw > w {
				w = tw
			}
		}
	}
	return w
}

func (c *Cell) rowSpan() int {
	if c.RowSpan < 1 {
		return 1
	}
	return c.RowSpan
}

func (c *Cell) colSpan() int {
	if c.ColSpan < 1 {
		return 1
	}
	return c.ColSpan
}
