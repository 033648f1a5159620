// table_cell.go models table cells and tabular column specifications.
package tex

import (
	"regexp"
	"strconv"
	"strings"
)

// CellAlign is a column or cell alignment.
type CellAlign int

const (
	AlignNone CellAlign = iota // no override
	AlignAuto
	AlignLeft
	AlignCenter
	AlignRight
)

// Typst returns the alignment as a Typst value.
func (a CellAlign) Typst() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "auto"
}

// ParseAlign maps l, c, r (or left, center, right) to an alignment.
func ParseAlign(s string) CellAlign {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left", "start":
		return AlignLeft
	case "c", "center", "centre":
		return AlignCenter
	case "r", "right", "end":
		return AlignRight
	case "auto":
		return AlignAuto
	}
	return AlignNone
}

// ColumnSpec is one column of a tabular preamble.
type ColumnSpec struct {
	Align       CellAlign
	BorderLeft  bool
	BorderRight bool
}

// ParseColumnSpec parses a tabular preamble such as "|l|c|r|" or
// "*{3}{c}p{2cm}". Paragraph columns (p, m, b, X) align left and S columns
// center. @{...}, !{...}, >{...} and <{...} are skipped.
func ParseColumnSpec(raw string) []ColumnSpec {
	return parseColumnSpec([]rune(raw), 0)
}

const maxColumnRepeat = 64

func parseColumnSpec(raw []rune, depth int) []ColumnSpec {
	var specs []ColumnSpec
	pendingBorder := false
	for i := 0; i < len(raw); i++ {
		var align CellAlign
		switch raw[i] {
		case '|':
			if n := len(specs); n > 0 {
				specs[n-1].BorderRight = true
			}
			pendingBorder = true
			continue
		case 'l':
			align = AlignLeft
		case 'c', 'S':
			align = AlignCenter
		case 'r':
			align = AlignRight
		case 'p', 'm', 'b':
			align = AlignLeft
			_, i = bracedArg(raw, i+1)
		case 'X':
			align = AlignLeft
		case '@', '!', '>', '<':
			_, i = bracedArg(raw, i+1)
			continue
		case '*':
			count, next := bracedArg(raw, i+1)
			body, end := bracedArg(raw, next+1)
			i = end
			n, err := strconv.Atoi(strings.TrimSpace(count))
			if err != nil || n < 1 || depth > 4 {
				continue
			}
			if n > maxColumnRepeat {
				n = maxColumnRepeat
			}
			inner := parseColumnSpec([]rune(body), depth+1)
			for k := 0; k < n; k++ {
				specs = append(specs, inner...)
			}
			continue
		default:
			continue
		}
		specs = append(specs, ColumnSpec{Align: align, BorderLeft: pendingBorder})
		pendingBorder = false
	}
	return specs
}

// bracedArg reads a {...} group starting at raw[i], skipping leading
// blanks. It returns the group text and the index of its closing brace.
// Without a group it returns "" and i-1.
func bracedArg(raw []rune, i int) (string, int) {
	for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
		i++
	}
	if i >= len(raw) || raw[i] != '{' {
		return "", i - 1
	}
	depth := 0
	for j := i; j < len(raw); j++ {
		switch raw[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return string(raw[i+1 : j]), j
			}
		}
	}
	return string(raw[i+1:]), len(raw) - 1
}

// ColumnAligns extracts the alignment of each column.
func ColumnAligns(specs []ColumnSpec) []CellAlign {
	aligns := make([]CellAlign, len(specs))
	for i, s := range specs {
		aligns[i] = s.Align
	}
	return aligns
}

// SpecialCellPrefix marks a cell whose span markup was resolved upstream.
const SpecialCellPrefix = "___TYPST_CELL___:"

var specialCellRe = regexp.MustCompile(`(?s)^table\.cell\(([^)]*)\)\[(.*)\]$`)

// GridCell is one cell of the reconstructed grid.
type GridCell struct {
	Content string
	Colspan int
	Rowspan int
	Align   CellAlign
	Header  bool
	Special bool
}

// EmptyCell returns a blank 1x1 cell.
func EmptyCell() GridCell {
	return GridCell{Colspan: 1, Rowspan: 1}
}

// ParseGridCell parses a raw cell string. Special cells carry a
// table.cell(...) call whose rowspan, colspan and align are read back.
// Everything else is plain content.
func ParseGridCell(raw string) GridCell {
	cell := EmptyCell()
	trimmed := strings.TrimSpace(raw)

	rest, ok := strings.CutPrefix(trimmed, SpecialCellPrefix)
	if !ok {
		if trimmed == `\\` {
			return cell
		}
		cell.Content = trimmed
		return cell
	}

	cell.Special = true
	m := specialCellRe.FindStringSubmatch(strings.TrimSpace(rest))
	if m == nil {
		cell.Content = strings.TrimSpace(rest)
		return cell
	}
	for _, arg := range strings.Split(m[1], ",") {
		key, value, found := strings.Cut(arg, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "rowspan":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				cell.Rowspan = n
			}
		case "colspan":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				cell.Colspan = n
			}
		case "align":
			cell.Align = ParseAlign(value)
		}
	}
	cell.Content = strings.TrimSpace(m[2])
	return cell
}

// IsBlank reports whether the cell has no text.
func (c GridCell) IsBlank() bool {
	return strings.TrimSpace(c.Content) == ""
}

// IsPlaceholder reports whether the cell is an empty 1x1 cell with no
// markup, i.e. filler standing under a vertical span.
func (c GridCell) IsPlaceholder() bool {
	return c.IsBlank() && !c.Special && c.Rowspan <= 1 && c.Colspan <= 1 && c.Align == AlignNone
}

// Typst renders the cell. Cells with spans or an alignment override use
// table.cell(...); plain cells are content blocks.
func (c GridCell) Typst() string {
	var args []string
	if c.Rowspan > 1 {
		args = append(args, "rowspan: "+strconv.Itoa(c.Rowspan))
	}
	if c.Colspan > 1 {
		args = append(args, "colspan: "+strconv.Itoa(c.Colspan))
	}
	if c.Align != AlignNone {
		args = append(args, "align: "+c.Align.Typst())
	}
	if len(args) == 0 && !c.Special {
		return "[" + c.Content + "]"
	}
	if len(args) == 0 {
		return "table.cell[" + c.Content + "]"
	}
	return "table.cell(" + strings.Join(args, ", ") + ")[" + c.Content + "]"
}
