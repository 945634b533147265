// Package xgrid converts reStructuredText tables between grid-table and
// list-table form and reflows tables and paragraphs to a target width.
//
// The grid layer parses ASCII-art tables drawn with '+', '-', '=' and '|'
// into a structured cell model, reconstructing column and row spans from
// the border geometry, and renders a cell model back into correctly
// aligned table text. Rendering at natural width directly after parsing is
// round-trip stable for unedited tables.
//
// Core properties:
//   - Tolerant border parsing with typed, line-tagged failures
//   - One cell owns its whole span rectangle; no shared state between cells
//   - Width policies: natural (content-sized) or fixed with re-wrapping
//   - Best-effort document processing: a malformed table never blocks the
//     rest of the document
//
// Example:
//
//	rep, err := xgrid.Reflow(xgrid.ReflowRequest{
//		Reader: os.Stdin,
//		Writer: os.Stdout,
//		Width:  72,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, f := range rep.Failed {
//		fmt.Fprintln(os.Stderr, f)
//	}
//
// Grids can also be parsed, edited and rendered directly through ParseGrid,
// RenderGrid, ParseListTable and RenderListTable.
package xgrid
