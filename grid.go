package xgrid

import (
	"fmt"
	"sort"
)

// Grid is the structured table model shared by the grid and list-table
// directions. Cells are stored sparsely by anchor; every grid position is
// covered by exactly one cell rectangle.
type Grid struct {
	cols       int
	rows       int
	headerRows int
	cells      map[Anchor]*Cell
	colAligns  []Alignment
	colWidths  []int // width hints, 0 when unknown
	target     int   // retarget hint, 0 = natural
}

// NewGrid returns an empty grid with the given column count.
func NewGrid(cols int) *Grid {
	if cols < 1 {
		cols = 1
	}
	return &Grid{
		cols:      cols,
		cells:     make(map[Anchor]*Cell),
		colAligns: make([]Alignment, cols),
		colWidths: make([]int, cols),
	}
}

// RowCount returns the number of grid rows.
func (g *Grid) RowCount() int { return g.rows }

// ColCount returns the number of grid columns.
func (g *Grid) ColCount() int { return g.cols }

// HeaderRows returns the number of leading header rows.
func (g *Grid) HeaderRows() int { return g.headerRows }

// IsHeader reports whether row is part of the header block.
func (g *Grid) IsHeader(row int) bool { return row >= 0 && row < g.headerRows }

// SetHeaderRows declares the first n rows as the header block.
func (g *Grid) SetHeaderRows(n int) {
	if n < 0 {
		n = 0
	}
	g.headerRows = n
}

// Retarget records a total width hint consumed by RenderGrid. Zero selects
// natural width. Retargeting never changes cell content.
func (g *Grid) Retarget(width int) {
	if width < 0 {
		width = 0
	}
	g.target = width
}

// Target returns the retarget hint, 0 for natural width.
func (g *Grid) Target() int { return g.target }

// SetColumnAlignment sets the alignment hint for a column. Cells anchored in
// that column afterwards default to it.
func (g *Grid) SetColumnAlignment(col int, align Alignment) {
	if col >= 0 && col < g.cols {
		g.colAligns[col] = align
	}
}

// ColumnAlignment returns the alignment hint for a column.
func (g *Grid) ColumnAlignment(col int) Alignment {
	if col >= 0 && col < g.cols {
		return g.colAligns[col]
	}
	return AlignLeft
}

// SetCell anchors a cell at (row, col), growing the row count as needed.
// The cell rectangle must stay inside the column range and must not overlap
// an existing cell.
func (g *Grid) SetCell(row, col int, cell Cell) error {
	if row < 0 || col < 0 {
		return fmt.Errorf("%w: anchor (%d,%d) out of range", ErrMalformedTable, row, col)
	}
	rs, cs := cell.rowSpan(), cell.colSpan()
	if col+cs > g.cols {
		return fmt.Errorf("%w: cell at (%d,%d) spans past column %d", ErrMalformedTable, row, col, g.cols)
	}
	for r := row; r < row+rs; r++ {
		for c := col; c < col+cs; c++ {
			if g.covered(r, c) {
				return fmt.Errorf("%w: position (%d,%d)", ErrOverlappingSpans, r, c)
			}
		}
	}
	cell.RowSpan, cell.ColSpan = rs, cs
	g.cells[Anchor{row, col}] = &cell
	if row+rs > g.rows {
		g.rows = row + rs
	}
	return nil
}

// CellAt resolves the cell covering (row, col), following spans. The second
// return value is the cell's anchor.
func (g *Grid) CellAt(row, col int) (*Cell, Anchor, bool) {
	for a, c := range g.cells {
		if row >= a.Row && row < a.Row+c.rowSpan() && col >= a.Col && col < a.Col+c.colSpan() {
			return c, a, true
		}
	}
	return nil, Anchor{}, false
}

func (g *Grid) covered(row, col int) bool {
	_, _, ok := g.CellAt(row, col)
	return ok
}

// anchors returns all anchors in row-major order.
func (g *Grid) anchors() []Anchor {
	out := make([]Anchor, 0, len(g.cells))
	for a := range g.cells {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// coverage returns a rows x cols matrix mapping every position to its
// anchor, plus synthesized empty cells for uncovered positions so a
// partially filled builder grid still renders. The grid itself is not
// mutated.
func (g *Grid) coverage() ([][]Anchor, map[Anchor]*Cell) {
	cover := make([][]Anchor, g.rows)
	for r := range cover {
		cover[r] = make([]Anchor, g.cols)
		for c := range cover[r] {
			cover[r][c] = Anchor{-1, -1}
		}
	}
	for a, cell := range g.cells {
		for r := a.Row; r < a.Row+cell.rowSpan() && r < g.rows; r++ {
			for c := a.Col; c < a.Col+cell.colSpan() && c < g.cols; c++ {
				cover[r][c] = a
			}
		}
	}
	implicit := make(map[Anchor]*Cell)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if cover[r][c] == (Anchor{-1, -1}) {
				a := Anchor{r, c}
				implicit[a] = &Cell{RowSpan: 1, ColSpan: 1, Align: g.colAligns[c]}
				cover[r][c] = a
			}
		}
	}
	return cover, implicit
}
