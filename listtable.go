package xgrid

import (
	"fmt"
	"strconv"
	"strings"
)

// listTableDirective is the reST directive the converter reads and writes.
const listTableDirective = ".. list-table::"

// RenderListTable serializes a grid as a reST list-table directive. The
// grid is consumed read-only; no grid-table text is involved. List tables
// carry no span geometry, so spanned cells are emitted at their anchor and
// the shadowed positions become empty cells.
func RenderListTable(g *Grid, opts ...RenderOption) (string, error) {
	if g == nil || g.RowCount() == 0 || g.ColCount() == 0 {
		return "", nil
	}
	cfg := newRenderConfig(opts)
	cover, implicit := g.coverage()
	lookup := func(a Anchor) *Cell {
		if c, ok := implicit[a]; ok {
			return c
		}
		return g.cells[a]
	}
	widths, err := layoutColumns(g, lookup, renderConfig{minCol: cfg.minCol, padding: cfg.padding})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(listTableDirective)
	sb.WriteByte('\n')
	sb.WriteString("   :widths:")
	for _, w := range widths {
		fmt.Fprintf(&sb, " %d", w)
	}
	sb.WriteByte('\n')
	if g.headerRows > 0 {
		fmt.Fprintf(&sb, "   :header-rows: %d\n", g.headerRows)
	}
	sb.WriteByte('\n')

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			marker := "     - "
			if c == 0 {
				marker = "   * - "
			}
			var content []string
			if a := cover[r][c]; a.Row == r && a.Col == c {
				content = lookup(a).Content
			}
			writeListCell(&sb, marker, content)
		}
	}
	return sb.String(), nil
}

func writeListCell(sb *strings.Builder, marker string, content []string) {
	if len(content) == 0 {
		sb.WriteString(strings.TrimRight(marker, " "))
		sb.WriteByte('\n')
		return
	}
	indent := strings.Repeat(" ", len(marker))
	for i, line := range content {
		switch {
		case i == 0:
			sb.WriteString(strings.TrimRight(marker+line, " "))
		case line == "":
		default:
			sb.WriteString(strings.TrimRight(indent+line, " "))
		}
		sb.WriteByte('\n')
	}
}

// ParseListTable reads a reST list-table directive block into a Grid, the
// reverse of RenderListTable. Recognized options are :header-rows: and
// :widths:; others are skipped. Rows must all have the same cell count.
func ParseListTable(block string) (*Grid, error) {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || !strings.HasPrefix(strings.TrimSpace(lines[i]), listTableDirective) {
		return nil, tableErr(i+1, -1, ErrMalformedListTable)
	}
	i++

	headerRows := 0
	var widths []int
	for ; i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if t == "" {
			break
		}
		if !strings.HasPrefix(t, ":") {
			break
		}
		name, value, ok := strings.Cut(t[1:], ":")
		if !ok {
			return nil, tableErr(i+1, -1, fmt.Errorf("%w: bad option %q", ErrMalformedListTable, t))
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(name) {
		case "header-rows":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, tableErr(i+1, -1, fmt.Errorf("%w: header-rows %q", ErrMalformedListTable, value))
			}
			headerRows = n
		case "widths":
			if value == "auto" || value == "grid" {
				break
			}
			for _, f := range strings.Fields(value) {
				n, err := strconv.Atoi(f)
				if err != nil || n < 0 {
					return nil, tableErr(i+1, -1, fmt.Errorf("%w: widths %q", ErrMalformedListTable, value))
				}
				widths = append(widths, n)
			}
		}
	}

	rows, err := parseListItems(lines, i)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, tableErr(i+1, -1, fmt.Errorf("%w: no rows", ErrMalformedListTable))
	}
	cols := len(rows[0])
	for r, row := range rows {
		if len(row) != cols {
			return nil, tableErr(i+1, -1,
				fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedListTable, r+1, len(row), cols))
		}
	}

	g := NewGrid(cols)
	g.SetHeaderRows(headerRows)
	for c := 0; c < cols && c < len(widths); c++ {
		g.colWidths[c] = widths[c]
	}
	for r, row := range rows {
		for c, content := range row {
			cell := Cell{Content: content, RowSpan: 1, ColSpan: 1}
			if err := g.SetCell(r, c, cell); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// parseListItems reads the "* - a" / "  - b" item structure. Cell markers
// sit exactly two columns deeper than the row marker; anything deeper is
// cell content, so bullets inside a cell stay opaque.
func parseListItems(lines []string, start int) ([][][]string, error) {
	var rows [][][]string
	var cur *[]string
	itemIndent := -1
	contentIndent := 0
	trimTrailing := func() {
		if cur == nil {
			return
		}
		for len(*cur) > 0 && (*cur)[len(*cur)-1] == "" {
			*cur = (*cur)[:len(*cur)-1]
		}
	}
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			if cur != nil {
				*cur = append(*cur, "")
			}
			continue
		}
		trimmed := strings.TrimLeft(line, " ")
		ind := len(line) - len(trimmed)
		switch {
		case strings.HasPrefix(trimmed, "* -") && (itemIndent < 0 || ind == itemIndent):
			itemIndent = ind
			trimTrailing()
			rows = append(rows, [][]string{nil})
			cur = &rows[len(rows)-1][0]
			contentIndent = ind + 4
			if rest := strings.TrimPrefix(trimmed, "* -"); strings.HasPrefix(rest, " ") {
				*cur = append(*cur, rest[1:])
			} else if rest != "" {
				return nil, tableErr(i+1, ind, ErrMalformedListTable)
			}
		case strings.HasPrefix(trimmed, "-") && itemIndent >= 0 && ind == itemIndent+2:
			trimTrailing()
			row := &rows[len(rows)-1]
			*row = append(*row, nil)
			cur = &(*row)[len(*row)-1]
			contentIndent = ind + 2
			if rest := strings.TrimPrefix(trimmed, "-"); strings.HasPrefix(rest, " ") {
				*cur = append(*cur, rest[1:])
			} else if rest != "" {
				return nil, tableErr(i+1, ind, ErrMalformedListTable)
			}
		default:
			if cur == nil {
				return nil, tableErr(i+1, ind, ErrMalformedListTable)
			}
			if ind >= contentIndent {
				*cur = append(*cur, line[contentIndent:])
			} else {
				*cur = append(*cur, trimmed)
			}
		}
	}
	trimTrailing()
	return rows, nil
}
