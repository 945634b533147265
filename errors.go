package xgrid

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTable reports a line that does not conform to grid-table syntax.
	ErrMalformedTable = errors.New("malformed grid table")
	// ErrMultipleHeaderSeparators reports more than one '=' separator line.
	ErrMultipleHeaderSeparators = errors.New("multiple header separators")
	// ErrOverlappingSpans reports cell rectangles that overlap.
	ErrOverlappingSpans = errors.New("overlapping cell spans")
	// ErrWidthTooSmall reports a fixed target width below the table minimum.
	ErrWidthTooSmall = errors.New("target width too small")
	// ErrInvalidWidth reports a non-positive wrap width.
	ErrInvalidWidth = errors.New("invalid wrap width")
	// ErrMalformedListTable reports a list-table directive that cannot be read.
	ErrMalformedListTable = errors.New("malformed list table")
)

// TableError locates a table failure within its block.
type TableError struct {
	Line int // 1-based physical line within the block
	Col  int // 0-based rune offset, -1 when not applicable
	Err  error
}

func (e *TableError) Error() string {
	if e.Col >= 0 {
		return fmt.Sprintf("line %d, col %d: %v", e.Line, e.Col, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *TableError) Unwrap() error { return e.Err }

func tableErr(line, col int, err error) error {
	return &TableError{Line: line, Col: col, Err: err}
}
