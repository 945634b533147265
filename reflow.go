package xgrid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReflowRequest describes one document reflow pass.
type ReflowRequest struct {
	Reader io.Reader
	Writer io.Writer
	// Width is the fixed target width for tables and paragraphs. Zero keeps
	// tables at natural width and leaves paragraphs untouched.
	Width int
	// ToList converts grid tables to list tables; ToGrid the reverse.
	ToList bool
	ToGrid bool
	// Untable folds single-column tables without header or spans into
	// plain paragraphs.
	Untable bool
	// Render options (padding, minimum column width) applied to every table.
	Render []RenderOption
}

// BlockError is a per-block failure with its 1-based document line.
type BlockError struct {
	Line int
	Err  error
}

func (e BlockError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e BlockError) Unwrap() error { return e.Err }

// Report summarizes a reflow pass.
type Report struct {
	Blocks int
	Tables int
	Failed []BlockError
}

// Reflow rewrites a document block by block: grid tables are re-parsed and
// re-rendered (or converted), paragraphs re-wrapped, everything else passed
// through. A failing block is written out unchanged and recorded in the
// report; processing always continues with the next block. The returned
// error covers I/O and invalid input only.
func Reflow(req ReflowRequest) (*Report, error) {
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if err := ValidateInput(src); err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(string(src), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}

	rep := &Report{}
	out := bufio.NewWriter(req.Writer)
	for _, b := range scanBlocks(lines) {
		rep.Blocks++
		text, berr := processBlock(b, req)
		if berr != nil {
			rep.Failed = append(rep.Failed, blockError(b, berr))
			text = strings.Join(b.lines, "\n") + "\n"
		} else if b.kind == blockGridTable || b.kind == blockListTable {
			rep.Tables++
		}
		if _, err := io.WriteString(out, text); err != nil {
			return rep, fmt.Errorf("write output: %w", err)
		}
	}
	if err := out.Flush(); err != nil {
		return rep, fmt.Errorf("write output: %w", err)
	}
	return rep, nil
}

// blockError resolves a block failure to its absolute document line.
func blockError(b block, err error) BlockError {
	line := b.start
	var te *TableError
	if errors.As(err, &te) {
		line = b.start + te.Line - 1
	}
	return BlockError{Line: line, Err: err}
}

func processBlock(b block, req ReflowRequest) (string, error) {
	switch b.kind {
	case blockGridTable:
		return processTable(b, req)
	case blockListTable:
		if !req.ToGrid {
			return strings.Join(b.lines, "\n") + "\n", nil
		}
		g, err := ParseListTable(strings.Join(b.lines, "\n"))
		if err != nil {
			return "", err
		}
		return RenderGrid(g, tableOptions(req)...)
	case blockParagraph:
		if req.Width <= 0 {
			return strings.Join(b.lines, "\n") + "\n", nil
		}
		return strings.Join(wrapCellLines(b.lines, req.Width), "\n") + "\n", nil
	default:
		if len(b.lines) == 0 {
			return "", nil
		}
		return strings.Join(b.lines, "\n") + "\n", nil
	}
}

func processTable(b block, req ReflowRequest) (string, error) {
	g, err := ParseGrid(strings.Join(b.lines, "\n"))
	if err != nil {
		return "", err
	}
	if req.Untable && foldable(g) {
		return foldTable(g, req.Width), nil
	}
	if req.ToList {
		return RenderListTable(g, req.Render...)
	}
	return RenderGrid(g, tableOptions(req)...)
}

func tableOptions(req ReflowRequest) []RenderOption {
	opts := req.Render
	if req.Width > 0 {
		opts = append(opts[:len(opts):len(opts)], WithFixedWidth(req.Width))
	}
	return opts
}

// foldable reports whether a table is trivial enough to collapse back into
// paragraphs: one column, no header, no spans.
func foldable(g *Grid) bool {
	if g.ColCount() != 1 || g.HeaderRows() > 0 {
		return false
	}
	for _, a := range g.anchors() {
		c := g.cells[a]
		if c.rowSpan() != 1 || c.colSpan() != 1 {
			return false
		}
	}
	return true
}

// foldTable emits each cell as a paragraph block separated by blank lines.
func foldTable(g *Grid, width int) string {
	var sb strings.Builder
	for i, a := range g.anchors() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		content := g.cells[a].Content
		if width > 0 {
			content = wrapCellLines(content, width)
		}
		for _, line := range content {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
