package xgrid

import (
	"errors"
	"strings"
	"testing"
)

const simpleTable = `+-------+-----+
| Name  | Age |
+=======+=====+
| Alice | 30  |
+-------+-----+
`

func mustParse(t *testing.T, src string) *Grid {
	t.Helper()
	g, err := ParseGrid(src)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	return g
}

func TestParseSimpleTable(t *testing.T) {
	g := mustParse(t, simpleTable)
	if g.RowCount() != 2 || g.ColCount() != 2 {
		t.Fatalf("got %dx%d grid, want 2x2", g.RowCount(), g.ColCount())
	}
	if g.HeaderRows() != 1 {
		t.Fatalf("header rows = %d, want 1", g.HeaderRows())
	}
	if !g.IsHeader(0) || g.IsHeader(1) {
		t.Fatalf("IsHeader misclassified rows")
	}
	want := map[Anchor]string{
		{0, 0}: "Name",
		{0, 1}: "Age",
		{1, 0}: "Alice",
		{1, 1}: "30",
	}
	for a, text := range want {
		cell, anchor, ok := g.CellAt(a.Row, a.Col)
		if !ok || anchor != a {
			t.Fatalf("no cell anchored at %v", a)
		}
		if got := strings.Join(cell.Content, "\n"); got != text {
			t.Fatalf("cell %v content = %q, want %q", a, got, text)
		}
		if cell.RowSpan != 1 || cell.ColSpan != 1 {
			t.Fatalf("cell %v has unexpected span %dx%d", a, cell.RowSpan, cell.ColSpan)
		}
	}
}

func TestParseColumnSpanHeader(t *testing.T) {
	src := `+------+-----+
| Span both  |
+======+=====+
| a    | b   |
+------+-----+
`
	g := mustParse(t, src)
	cell, anchor, ok := g.CellAt(0, 1)
	if !ok || anchor != (Anchor{0, 0}) {
		t.Fatalf("position (0,1) not covered by the header span")
	}
	if cell.ColSpan != 2 || cell.RowSpan != 1 {
		t.Fatalf("header cell span = %dx%d, want 1x2", cell.RowSpan, cell.ColSpan)
	}
	if got := strings.Join(cell.Content, "\n"); got != "Span both" {
		t.Fatalf("header cell content = %q", got)
	}
	for c := 0; c < 2; c++ {
		cell, _, ok := g.CellAt(1, c)
		if !ok || cell.ColSpan != 1 {
			t.Fatalf("body cell %d not a plain cell", c)
		}
	}
}

func TestParseRowSpan(t *testing.T) {
	src := `+-----+-----+
| a   | b   |
+-----+     |
| c   |     |
+-----+-----+
`
	g := mustParse(t, src)
	cell, anchor, ok := g.CellAt(1, 1)
	if !ok || anchor != (Anchor{0, 1}) {
		t.Fatalf("position (1,1) not covered by the row span")
	}
	if cell.RowSpan != 2 || cell.ColSpan != 1 {
		t.Fatalf("span = %dx%d, want 2x1", cell.RowSpan, cell.ColSpan)
	}
	if got := strings.Join(cell.Content, "\n"); got != "b" {
		t.Fatalf("spanning cell content = %q, want %q", got, "b")
	}
}

func TestParseMultilineCell(t *testing.T) {
	src := `+----------+-----+
| first    | x   |
| second   |     |
|          |     |
| third    |     |
+----------+-----+
`
	g := mustParse(t, src)
	cell, _, _ := g.CellAt(0, 0)
	want := []string{"first", "second", "", "third"}
	if len(cell.Content) != len(want) {
		t.Fatalf("content lines = %q, want %q", cell.Content, want)
	}
	for i := range want {
		if cell.Content[i] != want[i] {
			t.Fatalf("content line %d = %q, want %q", i, cell.Content[i], want[i])
		}
	}
	// Trailing blanks of the second cell are dropped.
	cell, _, _ = g.CellAt(0, 1)
	if len(cell.Content) != 1 || cell.Content[0] != "x" {
		t.Fatalf("second cell content = %q, want [x]", cell.Content)
	}
}

func TestParseAlignmentMarkers(t *testing.T) {
	src := `+-----+------+-------+
| a   | b    | c     |
+=====+=====:+:=====:+
| x   | 42   | mid   |
+-----+------+-------+
`
	g := mustParse(t, src)
	if g.ColumnAlignment(0) != AlignLeft {
		t.Fatalf("column 0 alignment = %v, want left", g.ColumnAlignment(0))
	}
	if g.ColumnAlignment(1) != AlignRight {
		t.Fatalf("column 1 alignment = %v, want right", g.ColumnAlignment(1))
	}
	if g.ColumnAlignment(2) != AlignCenter {
		t.Fatalf("column 2 alignment = %v, want center", g.ColumnAlignment(2))
	}
}

func TestParseSpanConservation(t *testing.T) {
	for name, src := range map[string]string{
		"simple": simpleTable,
		"colspan": `+------+-----+
| Span both  |
+======+=====+
| a    | b   |
+------+-----+
`,
		"rowspan": `+-----+-----+-----+
| a   | b   | c   |
+-----+     +-----+
| d   |     | e   |
+-----+-----+-----+
`,
	} {
		g := mustParse(t, src)
		total := 0
		for _, a := range g.anchors() {
			c := g.cells[a]
			total += c.RowSpan * c.ColSpan
		}
		if total != g.RowCount()*g.ColCount() {
			t.Fatalf("%s: covered %d positions, want %d", name, total, g.RowCount()*g.ColCount())
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
		line int
	}{
		{
			name: "ragged line",
			src:  "+-----+\n| a\n+-----+\n",
			want: ErrMalformedTable,
			line: 2,
		},
		{
			name: "no border",
			src:  "just text\nmore text\n",
			want: ErrMalformedTable,
			line: 1,
		},
		{
			name: "two header separators",
			src: `+-----+
| a   |
+=====+
| b   |
+=====+
| c   |
+-----+
`,
			want: ErrMultipleHeaderSeparators,
			line: 5,
		},
		{
			name: "broken bottom border",
			src:  "+-----+-----+\n| a   | b   |\n+-----+--+--+\n",
			want: ErrMalformedTable,
			line: 1,
		},
		{
			name: "too short",
			src:  "+-----+\n",
			want: ErrMalformedTable,
			line: 1,
		},
	}
	for _, tc := range cases {
		_, err := ParseGrid(tc.src)
		if err == nil {
			t.Fatalf("%s: no error", tc.name)
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
		var te *TableError
		if !errors.As(err, &te) {
			t.Fatalf("%s: error carries no location: %v", tc.name, err)
		}
		if te.Line != tc.line {
			t.Fatalf("%s: error at line %d, want %d", tc.name, te.Line, tc.line)
		}
	}
}

func TestParseNeverPartial(t *testing.T) {
	src := `+-----+-----+
| a   | b   |
+-----+--+--+
`
	g, err := ParseGrid(src)
	if err == nil {
		t.Fatalf("expected failure")
	}
	if g != nil {
		t.Fatalf("failed parse returned a grid")
	}
}
