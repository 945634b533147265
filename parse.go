package xgrid

import (
	"sort"
	"strings"
)

// Grid-table geometry is recovered in two passes over indexed coordinates:
// the first pass collects column boundaries from '+' offsets and classifies
// every physical line, the second walks grid positions and resolves cell
// rectangles from missing border segments. A vertical bar absent at a column
// boundary on every content line of a row merges columns; a horizontal
// segment absent on an interior separator line merges rows.

type segState uint8

const (
	segOpen segState = iota
	segDash
	segEq
)

type tableGeometry struct {
	lines  [][]rune
	base   int   // physical offset of lines[0] within the block, 0-based
	bounds []int // column boundary rune offsets
	segs   [][]segState
	isSep  []bool
	seps   []int // indices into lines of separator lines
}

// ParseGrid reads an ASCII-art grid table block into a Grid. The block must
// start at the table's opening border line and end at its closing border
// line. Parsing never partially succeeds: any failure leaves no grid.
func ParseGrid(block string) (*Grid, error) {
	geo, err := readGeometry(block)
	if err != nil {
		return nil, err
	}
	headerRows, markerLine, err := geo.headerSplit()
	if err != nil {
		return nil, err
	}
	g := NewGrid(len(geo.bounds) - 1)
	g.SetHeaderRows(headerRows)
	for c := 0; c < g.cols; c++ {
		g.colAligns[c] = geo.columnAlignment(markerLine, c)
		if w := geo.bounds[c+1] - geo.bounds[c] - 1 - 2*defaultPadding; w > 0 {
			g.colWidths[c] = w
		}
	}
	if err := geo.resolveCells(g); err != nil {
		return nil, err
	}
	return g, nil
}

func readGeometry(block string) (*tableGeometry, error) {
	raw := strings.Split(strings.TrimRight(block, "\n"), "\n")
	base := 0
	for base < len(raw) && strings.TrimSpace(raw[base]) == "" {
		base++
	}
	end := len(raw)
	for end > base && strings.TrimSpace(raw[end-1]) == "" {
		end--
	}
	raw = raw[base:end]
	if len(raw) < 2 {
		return nil, tableErr(base+1, -1, ErrMalformedTable)
	}
	geo := &tableGeometry{base: base}
	geo.lines = make([][]rune, len(raw))
	for i, s := range raw {
		s = strings.TrimRight(s, " \t\r")
		geo.lines[i] = []rune(s)
		if len(geo.lines[i]) == 0 {
			return nil, geo.errAt(i, 0, ErrMalformedTable)
		}
	}

	// Column boundaries come from '+' offsets on lines that begin with '+';
	// partial separator lines contribute the boundaries a span suppresses
	// elsewhere.
	set := map[int]bool{}
	for _, rl := range geo.lines {
		if rl[0] != '+' {
			continue
		}
		for off, r := range rl {
			if r == '+' {
				set[off] = true
			}
		}
	}
	if len(set) < 2 {
		return nil, geo.errAt(0, 0, ErrMalformedTable)
	}
	for off := range set {
		geo.bounds = append(geo.bounds, off)
	}
	sort.Ints(geo.bounds)
	if geo.bounds[0] != 0 {
		return nil, geo.errAt(0, geo.bounds[0], ErrMalformedTable)
	}
	width := geo.bounds[len(geo.bounds)-1]

	geo.segs = make([][]segState, len(geo.lines))
	geo.isSep = make([]bool, len(geo.lines))
	for i, rl := range geo.lines {
		if len(rl)-1 != width {
			return nil, geo.errAt(i, len(rl)-1, ErrMalformedTable)
		}
		if !isBorderRune(rl[0]) || !isBorderRune(rl[width]) {
			return nil, geo.errAt(i, 0, ErrMalformedTable)
		}
		geo.segs[i] = geo.classifySegments(rl)
		for _, st := range geo.segs[i] {
			if st != segOpen {
				geo.isSep[i] = true
				break
			}
		}
		if !geo.isSep[i] && (rl[0] != '|' || rl[width] != '|') {
			return nil, geo.errAt(i, 0, ErrMalformedTable)
		}
		if geo.isSep[i] {
			geo.seps = append(geo.seps, i)
		}
	}
	if len(geo.seps) < 2 || geo.seps[0] != 0 || geo.seps[len(geo.seps)-1] != len(geo.lines)-1 {
		return nil, geo.errAt(0, 0, ErrMalformedTable)
	}
	for c := range geo.segs[0] {
		if geo.segs[0][c] == segOpen || geo.segs[len(geo.lines)-1][c] == segOpen {
			return nil, geo.errAt(0, geo.bounds[c], ErrMalformedTable)
		}
	}
	return geo, nil
}

func (geo *tableGeometry) errAt(line, col int, err error) error {
	return tableErr(geo.base+line+1, col, err)
}

// classifySegments reports, for each column interval, whether the line draws
// a closed horizontal border segment there and with which fill. Alignment
// colons are permitted at the inner ends of a segment.
func (geo *tableGeometry) classifySegments(rl []rune) []segState {
	segs := make([]segState, len(geo.bounds)-1)
	for c := range segs {
		a, b := geo.bounds[c], geo.bounds[c+1]
		if rl[a] != '+' || rl[b] != '+' {
			continue
		}
		dash, eq, other := 0, 0, 0
		for i := a + 1; i < b; i++ {
			switch rl[i] {
			case '-':
				dash++
			case '=':
				eq++
			case ':':
				if i != a+1 && i != b-1 {
					other++
				}
			default:
				other++
			}
		}
		switch {
		case other > 0, dash > 0 && eq > 0:
		case eq > 0:
			segs[c] = segEq
		default:
			segs[c] = segDash
		}
	}
	return segs
}

// headerSplit locates the '=' separator, returning the header row count and
// the physical line carrying alignment markers.
func (geo *tableGeometry) headerSplit() (int, int, error) {
	headerAt := -1
	for si, li := range geo.seps {
		hasEq := false
		for _, st := range geo.segs[li] {
			if st == segEq {
				hasEq = true
				break
			}
		}
		if !hasEq {
			continue
		}
		if headerAt >= 0 {
			return 0, 0, geo.errAt(li, 0, ErrMultipleHeaderSeparators)
		}
		headerAt = si
	}
	if headerAt <= 0 {
		return 0, geo.seps[0], nil
	}
	return headerAt, geo.seps[headerAt], nil
}

func (geo *tableGeometry) columnAlignment(line, c int) Alignment {
	rl := geo.lines[line]
	a, b := geo.bounds[c], geo.bounds[c+1]
	if b-a < 2 {
		return AlignLeft
	}
	left := rl[a+1] == ':'
	right := rl[b-1] == ':'
	switch {
	case left && right:
		return AlignCenter
	case right:
		return AlignRight
	default:
		return AlignLeft
	}
}

// openVertical reports whether the boundary between columns c-1 and c is
// absent on every content line of grid row r, meaning the two slots merge.
func (geo *tableGeometry) openVertical(r, c int) bool {
	start, end := geo.seps[r], geo.seps[r+1]
	if end-start < 2 {
		return false
	}
	off := geo.bounds[c]
	for i := start + 1; i < end; i++ {
		if geo.isSep[i] {
			continue
		}
		if geo.lines[i][off] == '|' {
			return false
		}
	}
	return true
}

func (geo *tableGeometry) resolveCells(g *Grid) error {
	nrows := len(geo.seps) - 1
	ncols := len(geo.bounds) - 1
	occupied := make([][]bool, nrows)
	for r := range occupied {
		occupied[r] = make([]bool, ncols)
	}
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			if occupied[r][c] {
				continue
			}
			cs := 1
			for c+cs < ncols && geo.openVertical(r, c+cs) {
				cs++
			}
			rs := 1
			for r+rs < nrows {
				li := geo.seps[r+rs]
				open, closed := 0, 0
				for cc := c; cc < c+cs; cc++ {
					if geo.segs[li][cc] == segOpen {
						open++
					} else {
						closed++
					}
				}
				if open == 0 {
					break
				}
				if closed > 0 {
					return geo.errAt(li, geo.bounds[c], ErrMalformedTable)
				}
				rs++
			}
			for rr := r + 1; rr < r+rs; rr++ {
				for cc := c + 1; cc < c+cs; cc++ {
					if !geo.openVertical(rr, cc) {
						return geo.errAt(geo.seps[rr], geo.bounds[cc], ErrMalformedTable)
					}
				}
			}
			for rr := r; rr < r+rs; rr++ {
				for cc := c; cc < c+cs; cc++ {
					if occupied[rr][cc] {
						return geo.errAt(geo.seps[rr], geo.bounds[cc], ErrOverlappingSpans)
					}
					occupied[rr][cc] = true
				}
			}
			content := geo.cellContent(r, c, rs, cs)
			if g.colAligns[c] != AlignLeft {
				for i := range content {
					content[i] = strings.TrimSpace(content[i])
				}
			}
			cell := Cell{
				Content: content,
				RowSpan: rs,
				ColSpan: cs,
				Align:   g.colAligns[c],
			}
			if err := g.SetCell(r, c, cell); err != nil {
				return geo.errAt(geo.seps[r], geo.bounds[c], err)
			}
		}
	}
	return nil
}

// cellContent concatenates the content slices of a cell rectangle,
// including interior separator lines a row span continues through. The one
// space of border padding is trimmed from each side.
func (geo *tableGeometry) cellContent(r, c, rs, cs int) []string {
	left := geo.bounds[c] + 1
	right := geo.bounds[c+cs]
	var content []string
	for i := geo.seps[r] + 1; i < geo.seps[r+rs]; i++ {
		seg := string(geo.lines[i][left:right])
		seg = strings.TrimRight(seg, " \t")
		seg = strings.TrimPrefix(seg, " ")
		content = append(content, seg)
	}
	for len(content) > 0 && content[len(content)-1] == "" {
		content = content[:len(content)-1]
	}
	return content
}

func isBorderRune(r rune) bool {
	return r == '+' || r == '|'
}
