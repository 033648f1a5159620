// table_markers.go turns a marker-delimited row/cell stream into a grid.
package tex

import (
	"regexp"
	"strconv"
	"strings"
)

// Markers separating rows, cells and horizontal rules in a flattened table body.
const (
	RowMarker   = "|||ROW|||"
	CellMarker  = "|||CELL|||"
	HLineMarker = "|||HLINE|||"
)

var (
	// ruleCommandRe matches rule commands left over in cell text.
	ruleCommandRe = regexp.MustCompile(`\\(?:toprule|midrule|bottomrule|hline|hhline\{[^}]*\}|cline\{[^}]*\}|cmidrule(?:\([a-z]*\))?\{[^}]*\})`)
	// hlineRangeRe matches a leading partial-rule annotation such as (lr)2-4.
	hlineRangeRe = regexp.MustCompile(`^\s*(?:\([a-z]*\))?\s*\{?\s*(\d+)\s*-\s*(\d+)\s*\}?`)
	// bracedRangeRe matches rule arguments left after a marker, e.g. (lr){2-4}.
	bracedRangeRe = regexp.MustCompile(`^\s*(?:\([a-z]*\))?\{\s*(\d+)\s*-\s*(\d+)\s*\}`)
	// longtableControlRe finds the longtable head/foot keywords, case-insensitively.
	longtableControlRe = regexp.MustCompile(`(?i)\bend(firsthead|head|foot|lastfoot)\b`)
	// longtableCommandRe matches the terminator commands themselves.
	longtableCommandRe = regexp.MustCompile(`(?i)\\end(?:firsthead|head|foot|lastfoot)\b`)
)

// CleanCellContent strips rule commands and longtable terminators from a
// raw cell and trims it.
func CleanCellContent(raw string) string {
	s := ruleCommandRe.ReplaceAllString(raw, "")
	s = longtableCommandRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractHLineRange reads a partial-rule annotation at the start of row,
// e.g. "(lr)2-4". It reports false when the row has none.
func ExtractHLineRange(row string) (start, end int, ok bool) {
	m := hlineRangeRe.FindStringSubmatch(row)
	if m == nil {
		return 0, 0, false
	}
	start, err1 := strconv.Atoi(m[1])
	end, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || start < 1 || end < 1 {
		return 0, 0, false
	}
	return start, end, true
}

// CleanHLineArgs removes a leading partial-rule annotation from row.
func CleanHLineArgs(row string) string {
	return strings.TrimSpace(hlineRangeRe.ReplaceAllString(row, ""))
}

// splitHLines removes rule markers from row and returns one HLine per
// marker. A marker whose preceding segment is only a range annotation, or
// whose following text starts with braced rule arguments, becomes a
// partial rule over that range.
func splitHLines(row string) (string, []HLine) {
	segs := strings.Split(row, HLineMarker)
	var lines []HLine
	for i := 1; i < len(segs); i++ {
		prev := segs[i-1]
		if start, end, ok := ExtractHLineRange(prev); ok && CleanHLineArgs(prev) == "" {
			lines = append(lines, HLine{Start: start, End: end})
			segs[i-1] = ""
			continue
		}
		if m := bracedRangeRe.FindStringSubmatch(segs[i]); m != nil {
			start, _ := strconv.Atoi(m[1])
			end, _ := strconv.Atoi(m[2])
			lines = append(lines, HLine{Start: start, End: end})
			segs[i] = segs[i][len(m[0]):]
			continue
		}
		lines = append(lines, HLine{})
	}
	return strings.Join(segs, ""), lines
}

// longtableKeep records which physical rows of a longtable survive.
type longtableKeep struct {
	headerEnd int // rows before this index are the header; -1 for none
	bodyStart int
}

func (k longtableKeep) keep(idx int) bool {
	return idx < k.headerEnd || idx >= k.bodyStart
}

func (k longtableKeep) header(idx int) bool {
	return idx < k.headerEnd
}

// longtableControls returns the lower-case terminator keywords in s.
func longtableControls(s string) []string {
	var found []string
	for _, m := range longtableControlRe.FindAllStringSubmatch(s, -1) {
		found = append(found, "end"+strings.ToLower(m[1]))
	}
	return found
}

// isControlRow reports whether row holds a longtable terminator and
// nothing else once rules and markers are removed.
func isControlRow(row string) bool {
	if len(longtableControls(row)) == 0 {
		return false
	}
	clean, _ := splitHLines(row)
	for _, c := range strings.Split(clean, CellMarker) {
		if CleanCellContent(c) != "" {
			return false
		}
	}
	return true
}

// controlRowIndex returns the first control row carrying keyword, or -1.
func controlRowIndex(rows []string, keyword string) int {
	for i, r := range rows {
		if !isControlRow(r) {
			continue
		}
		for _, k := range longtableControls(r) {
			if k == keyword {
				return i
			}
		}
	}
	return -1
}

// computeLongtableKeep locates the head/foot terminators. It reports false
// for an ordinary table.
func computeLongtableKeep(rows []string) (longtableKeep, bool) {
	endFirstHead := controlRowIndex(rows, "endfirsthead")
	endHead := controlRowIndex(rows, "endhead")
	endFoot := controlRowIndex(rows, "endfoot")
	endLastFoot := controlRowIndex(rows, "endlastfoot")
	if endFirstHead < 0 && endHead < 0 && endFoot < 0 && endLastFoot < 0 {
		return longtableKeep{}, false
	}

	k := longtableKeep{headerEnd: -1}
	switch {
	case endFirstHead >= 0:
		k.headerEnd = endFirstHead
	case endHead >= 0:
		k.headerEnd = endHead
	}
	for _, idx := range []int{endLastFoot, endFoot, endHead, endFirstHead} {
		if idx >= 0 {
			k.bodyStart = idx + 1
			break
		}
	}
	return k, true
}

// ConvertMarkerStream parses a flattened table body and returns the Typst
// #table call. The declared column count is len(aligns).
func ConvertMarkerStream(content string, aligns []CellAlign, sink LossSink) string {
	p := BuildGrid(content, aligns, sink)
	return p.GenerateTypst(max(len(aligns), 1))
}

// BuildGrid feeds every row of a flattened table body into a new GridParser.
// Longtable repeated heads and feet are dropped; the first head is kept and
// flagged as the table header.
func BuildGrid(content string, aligns []CellAlign, sink LossSink) *GridParser {
	p := NewGridParser(aligns, sink)
	rows := strings.Split(content, RowMarker)
	keep, isLongtable := computeLongtableKeep(rows)

	for idx, row := range rows {
		row = strings.TrimSpace(row)
		if row == "" {
			continue
		}
		if isLongtable && !keep.keep(idx) {
			continue
		}

		body, lines := splitHLines(row)
		for _, h := range lines {
			if h.IsPartial() {
				p.AddPartialHLine(h.Start, h.End)
			} else {
				p.AddHLine()
			}
		}
		if strings.TrimSpace(body) == "" || isControlRow(body) {
			continue
		}

		parts := strings.Split(body, CellMarker)
		cells := make([]string, len(parts))
		for i, c := range parts {
			cells[i] = CleanCellContent(c)
		}
		if isLongtable && keep.header(idx) {
			p.ProcessHeaderRow(cells)
		} else {
			p.ProcessRow(cells)
		}
	}
	return p
}
