package xgrid

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	defaultPadding        = 1
	defaultMinColumnWidth = 1
)

// RenderOption configures grid rendering.
type RenderOption func(*renderConfig)

type renderConfig struct {
	width   int // 0 selects natural width
	minCol  int
	padding int
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{minCol: defaultMinColumnWidth, padding: defaultPadding}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithFixedWidth distributes n total characters across the columns and
// re-wraps cell content. Zero defers to the grid's Retarget hint.
func WithFixedWidth(n int) RenderOption {
	return func(cfg *renderConfig) {
		if n < 0 {
			n = 0
		}
		cfg.width = n
	}
}

// WithMinColumnWidth sets the smallest content width a column may be
// squeezed to under a fixed target width.
func WithMinColumnWidth(n int) RenderOption {
	return func(cfg *renderConfig) {
		if n >= 1 {
			cfg.minCol = n
		}
	}
}

// WithPadding sets the spaces between a border and the cell content on each
// side.
func WithPadding(n int) RenderOption {
	return func(cfg *renderConfig) {
		if n >= 0 {
			cfg.padding = n
		}
	}
}

// RenderGrid serializes a grid back into ASCII-art table text, one trailing
// newline included. Without a fixed width (option or Retarget hint) every
// column takes its natural width and content lines pass through unwrapped;
// with one, content is re-wrapped to the computed column widths.
func RenderGrid(g *Grid, opts ...RenderOption) (string, error) {
	if g == nil || g.RowCount() == 0 || g.ColCount() == 0 {
		return "", nil
	}
	cfg := newRenderConfig(opts)
	if cfg.width == 0 {
		cfg.width = g.target
	}
	cover, implicit := g.coverage()
	lookup := func(a Anchor) *Cell {
		if c, ok := implicit[a]; ok {
			return c
		}
		return g.cells[a]
	}

	widths, err := layoutColumns(g, lookup, cfg)
	if err != nil {
		return "", err
	}

	ncols, nrows := g.cols, g.rows
	span := 2*cfg.padding + 1 // reclaimed per subsumed interior border

	// Wrap (or pass through) cell content at the effective cell width.
	prepared := make(map[Anchor][]string, len(cover))
	for _, a := range anchorsOf(cover) {
		cell := lookup(a)
		eff := sumWidths(widths, a.Col, cell.colSpan()) + (cell.colSpan()-1)*span
		if cfg.width > 0 {
			prepared[a] = wrapCellLines(cell.Content, eff)
		} else {
			prepared[a] = cell.Content
		}
	}

	heights := rowHeights(g, cover, lookup, prepared)

	// Character-grid offsets of every border row and column.
	xb := make([]int, ncols+1)
	for c := 0; c < ncols; c++ {
		xb[c+1] = xb[c] + 2*cfg.padding + widths[c] + 1
	}
	yb := make([]int, nrows+1)
	for r := 0; r < nrows; r++ {
		yb[r+1] = yb[r] + heights[r] + 1
	}

	canvas := make([][]rune, yb[nrows]+1)
	for y := range canvas {
		canvas[y] = make([]rune, xb[ncols]+1)
		for x := range canvas[y] {
			canvas[y][x] = ' '
		}
	}

	closed := func(b, c int) bool {
		if b == 0 || b == nrows {
			return true
		}
		return cover[b-1][c] != cover[b][c]
	}
	edge := func(r, c int) bool {
		if c == 0 || c == ncols {
			return true
		}
		return cover[r][c-1] != cover[r][c]
	}

	markerLine := 0
	if g.headerRows > 0 {
		markerLine = g.headerRows
	}
	for b := 0; b <= nrows; b++ {
		y := yb[b]
		fill := '-'
		if g.headerRows > 0 && b == g.headerRows {
			fill = '='
		}
		for c := 0; c < ncols; c++ {
			if !closed(b, c) {
				continue
			}
			for x := xb[c] + 1; x < xb[c+1]; x++ {
				canvas[y][x] = fill
			}
			canvas[y][xb[c]] = '+'
			canvas[y][xb[c+1]] = '+'
			if b == markerLine && xb[c+1]-xb[c] > 2 {
				switch g.colAligns[c] {
				case AlignCenter:
					canvas[y][xb[c]+1] = ':'
					canvas[y][xb[c+1]-1] = ':'
				case AlignRight:
					canvas[y][xb[c+1]-1] = ':'
				}
			}
		}
	}
	for r := 0; r < nrows; r++ {
		for c := 0; c <= ncols; c++ {
			if !edge(r, c) {
				continue
			}
			for y := yb[r] + 1; y < yb[r+1]; y++ {
				canvas[y][xb[c]] = '|'
			}
		}
	}
	// Boundaries between two side-by-side row spans keep their bar on the
	// separator line that both span through.
	for b := 1; b < nrows; b++ {
		y := yb[b]
		for c := 0; c <= ncols; c++ {
			if canvas[y][xb[c]] == ' ' && edge(b-1, c) && edge(b, c) {
				canvas[y][xb[c]] = '|'
			}
		}
	}

	for _, a := range anchorsOf(cover) {
		cell := lookup(a)
		x0 := xb[a.Col]
		x1 := xb[a.Col+cell.colSpan()]
		eff := x1 - x0 - 1 - 2*cfg.padding
		for i, line := range prepared[a] {
			y := yb[a.Row] + 1 + i
			if y >= yb[a.Row+cell.rowSpan()] {
				break
			}
			drawAligned(canvas[y], line, x0+1+cfg.padding, eff, cell.Align)
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func drawAligned(row []rune, line string, x, width int, align Alignment) {
	lw := runewidth.StringWidth(line)
	switch align {
	case AlignRight:
		if lw < width {
			x += width - lw
		}
	case AlignCenter:
		if lw < width {
			x += (width - lw) / 2
		}
	}
	for _, r := range line {
		if x >= len(row) {
			break
		}
		row[x] = r
		x++
	}
}

// layoutColumns computes per-column content widths for the configured width
// policy.
func layoutColumns(g *Grid, lookup func(Anchor) *Cell, cfg renderConfig) ([]int, error) {
	span := 2*cfg.padding + 1
	nat := attributedWidths(g, lookup, span, (*Cell).widest)
	for c := range nat {
		if nat[c] < g.colWidths[c] {
			nat[c] = g.colWidths[c]
		}
		if nat[c] < cfg.minCol {
			nat[c] = cfg.minCol
		}
	}
	if cfg.width == 0 {
		return nat, nil
	}

	min := attributedWidths(g, lookup, span, (*Cell).widestToken)
	for c := range min {
		if min[c] < cfg.minCol {
			min[c] = cfg.minCol
		}
	}
	overhead := (g.cols + 1) + 2*cfg.padding*g.cols
	budget := cfg.width - overhead
	if budget < sumWidths(min, 0, g.cols) {
		return nil, fmt.Errorf("%w: need %d, have %d",
			ErrWidthTooSmall, sumWidths(min, 0, g.cols)+overhead, cfg.width)
	}

	natSum := sumWidths(nat, 0, g.cols)
	if natSum < 1 {
		natSum = 1
	}
	widths := make([]int, g.cols)
	for c := range widths {
		widths[c] = budget * nat[c] / natSum
		if widths[c] < min[c] {
			widths[c] = min[c]
		}
	}
	// Rounding never distributes randomly: excess is taken back from the
	// rightmost shrinkable columns, any shortfall lands on the last column.
	total := sumWidths(widths, 0, g.cols)
	for c := g.cols - 1; c >= 0 && total > budget; c-- {
		give := widths[c] - min[c]
		if give > total-budget {
			give = total - budget
		}
		widths[c] -= give
		total -= give
	}
	if total < budget {
		widths[g.cols-1] += budget - total
	}
	return widths, nil
}

// attributedWidths sizes each column by the widest measure of the cells in
// it. A spanning cell's requirement is attributed by distributing its
// deficit across the spanned columns proportionally to their current
// widths, so one wide spanning cell does not starve any of them.
func attributedWidths(g *Grid, lookup func(Anchor) *Cell, span int, measure func(*Cell) int) []int {
	widths := make([]int, g.cols)
	var spanning []Anchor
	for _, a := range g.anchors() {
		cell := lookup(a)
		if cell == nil {
			continue
		}
		if cell.colSpan() == 1 {
			if w := measure(cell); w > widths[a.Col] {
				widths[a.Col] = w
			}
		} else {
			spanning = append(spanning, a)
		}
	}
	for pass := 2; pass <= g.cols; pass++ {
		for _, a := range spanning {
			cell := lookup(a)
			cs := cell.colSpan()
			if cs != pass {
				continue
			}
			avail := sumWidths(widths, a.Col, cs) + (cs-1)*span
			deficit := measure(cell) - avail
			if deficit <= 0 {
				continue
			}
			distributeDeficit(widths[a.Col:a.Col+cs], deficit)
		}
	}
	return widths
}

func distributeDeficit(cols []int, deficit int) {
	base := 0
	for _, w := range cols {
		base += w
	}
	given := 0
	for i := range cols {
		var share int
		if base > 0 {
			share = deficit * cols[i] / base
		} else {
			share = deficit / len(cols)
		}
		cols[i] += share
		given += share
	}
	cols[len(cols)-1] += deficit - given
}

func sumWidths(widths []int, from, n int) int {
	total := 0
	for c := from; c < from+n && c < len(widths); c++ {
		total += widths[c]
	}
	return total
}

// rowHeights sizes each grid row by the tallest cell ending in it, then
// grows the last spanned row of any row-spanning cell that still does not
// fit.
func rowHeights(g *Grid, cover [][]Anchor, lookup func(Anchor) *Cell, prepared map[Anchor][]string) []int {
	heights := make([]int, g.rows)
	for r := range heights {
		heights[r] = 1
	}
	var spanning []Anchor
	for _, a := range anchorsOf(cover) {
		cell := lookup(a)
		if cell.rowSpan() > 1 {
			spanning = append(spanning, a)
			continue
		}
		if n := len(prepared[a]); n > heights[a.Row] {
			heights[a.Row] = n
		}
	}
	for pass := 2; pass <= g.rows; pass++ {
		for _, a := range spanning {
			cell := lookup(a)
			rs := cell.rowSpan()
			if rs != pass {
				continue
			}
			avail := rs - 1 // interior separator lines carry content through
			for r := a.Row; r < a.Row+rs; r++ {
				avail += heights[r]
			}
			if deficit := len(prepared[a]) - avail; deficit > 0 {
				heights[a.Row+rs-1] += deficit
			}
		}
	}
	return heights
}

func anchorsOf(cover [][]Anchor) []Anchor {
	seen := make(map[Anchor]bool)
	var out []Anchor
	for r := range cover {
		for _, a := range cover[r] {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out
}

// wrapCellLines re-wraps the plain paragraphs of a cell to width, leaving
// bullets, directives, literal lines and anything else opaque untouched.
func wrapCellLines(lines []string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	var para []string
	flush := func() {
		if len(para) == 0 {
			return
		}
		wrapped, err := Wrap(strings.Join(para, " "), width)
		if err == nil {
			out = append(out, wrapped...)
		} else {
			out = append(out, para...)
		}
		para = para[:0]
	}
	for _, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			flush()
			out = append(out, "")
		case plainLine(line):
			para = append(para, line)
		default:
			flush()
			out = append(out, line)
		}
	}
	flush()
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// plainLine reports whether a content line is re-wrappable paragraph text,
// as opposed to markup a rewrap would destroy.
func plainLine(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == ' ' || s[0] == '\t' || s[0] == ':' {
		return false
	}
	for _, prefix := range []string{"- ", "* ", "+ ", "| ", ".. ", "#. "} {
		if strings.HasPrefix(s, prefix) {
			return false
		}
	}
	if s[0] == '+' && strings.ContainsAny(s, "-=") {
		return false
	}
	if isAdornment(s) {
		return false
	}
	if i := strings.IndexAny(s, ".)"); i > 0 && i+1 < len(s) && s[i+1] == ' ' && allDigits(s[:i]) {
		return false
	}
	return true
}

// isAdornment reports a section title underline or transition line.
func isAdornment(s string) bool {
	if len(s) < 2 {
		return false
	}
	ch := s[0]
	if !strings.ContainsRune("=-~^\"'`#*+._:", rune(ch)) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != ch {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func splitWords(s string) []string {
	return strings.Fields(s)
}
