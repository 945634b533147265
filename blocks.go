package xgrid

import "strings"

type blockKind int

const (
	blockBlank blockKind = iota
	blockParagraph
	blockLiteral
	blockGridTable
	blockListTable
)

type block struct {
	kind  blockKind
	lines []string
	start int // 1-based line number of the first line
}

// scanBlocks splits document lines into blank runs, paragraphs, literal
// (indented) blocks, grid-table blocks and list-table blocks. A grid table
// starts at a flush-left top border line and extends over the contiguous
// run of border and content lines.
func scanBlocks(lines []string) []block {
	var blocks []block
	i := 0
	for i < len(lines) {
		start := i
		line := lines[i]
		switch {
		case strings.TrimSpace(line) == "":
			for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
				i++
			}
			blocks = append(blocks, block{blockBlank, lines[start:i], start + 1})
		case isTableTop(line):
			for i < len(lines) && isTableLine(lines[i]) {
				i++
			}
			blocks = append(blocks, block{blockGridTable, lines[start:i], start + 1})
		case strings.HasPrefix(line, listTableDirective):
			i++
			for i < len(lines) {
				if strings.TrimSpace(lines[i]) == "" {
					// Blank lines belong to the directive only when more
					// indented content follows.
					j := i
					for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
						j++
					}
					if j < len(lines) && isIndented(lines[j]) {
						i = j
						continue
					}
					break
				}
				if !isIndented(lines[i]) {
					break
				}
				i++
			}
			blocks = append(blocks, block{blockListTable, lines[start:i], start + 1})
		case isIndented(line):
			for i < len(lines) && strings.TrimSpace(lines[i]) != "" && isIndented(lines[i]) {
				i++
			}
			blocks = append(blocks, block{blockLiteral, lines[start:i], start + 1})
		default:
			for i < len(lines) {
				l := lines[i]
				if strings.TrimSpace(l) == "" || isIndented(l) || isTableTop(l) ||
					strings.HasPrefix(l, listTableDirective) {
					break
				}
				i++
			}
			blocks = append(blocks, block{blockParagraph, lines[start:i], start + 1})
		}
	}
	return blocks
}

func isIndented(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}

// isTableTop matches an opening grid-table border such as "+---+--+".
func isTableTop(line string) bool {
	line = strings.TrimRight(line, " \t\r")
	if len(line) < 2 || line[0] != '+' || line[len(line)-1] != '+' {
		return false
	}
	dashes := 0
	for _, r := range line {
		switch r {
		case '+', ':':
		case '-', '=':
			dashes++
		default:
			return false
		}
	}
	return dashes > 0
}

// isTableLine matches any line that can belong to a grid-table block.
func isTableLine(line string) bool {
	line = strings.TrimRight(line, " \t\r")
	if len(line) < 2 {
		return false
	}
	first, last := line[0], line[len(line)-1]
	return (first == '+' || first == '|') && (last == '+' || last == '|')
}
