// table_grid.go reconstructs a fixed-width table grid from raw rows while
// tracking which columns are still covered by a vertical span.
package tex

import (
	"strconv"
	"strings"
)

// HLine is a horizontal rule. A full rule has Start and End zero.
type HLine struct {
	Start int // first column, 1-based
	End   int // last column, inclusive
}

// IsPartial reports whether the rule covers a column range.
func (h HLine) IsPartial() bool { return h.End > 0 }

// Typst renders the rule. Typst columns are 0-based and end is exclusive.
func (h HLine) Typst() string {
	if !h.IsPartial() {
		return "table.hline()"
	}
	start := h.Start - 1
	if start < 0 {
		start = 0
	}
	return "table.hline(start: " + strconv.Itoa(start) + ", end: " + strconv.Itoa(h.End) + ")"
}

// GridRow is one reconstructed row plus the rules that precede it.
type GridRow struct {
	Cells        []GridCell
	HLinesBefore []HLine
	Header       bool
	// Covered counts columns skipped because a span from above covers them.
	// Set by normalization only.
	Covered int

	starts []int // logical start column of each cell
}

// Width returns the number of grid columns the row occupies.
func (r GridRow) Width() int {
	w := r.Covered
	for _, c := range r.Cells {
		w += c.Colspan
	}
	return w
}

// GridParser rebuilds a table grid one row at a time. A parser holds the
// state for a single table and must not be reused.
type GridParser struct {
	Rows   []GridRow
	Aligns []CellAlign
	sink   LossSink

	coverage     []int // rows each column remains covered by a rowspan
	maxCols      int
	pendingLines []HLine
}

// NewGridParser creates a parser with the declared column alignments.
func NewGridParser(aligns []CellAlign, sink LossSink) *GridParser {
	return &GridParser{Aligns: aligns, sink: sink}
}

// AddHLine buffers a full-width rule for the next row.
func (p *GridParser) AddHLine() {
	p.pendingLines = append(p.pendingLines, HLine{})
}

// AddPartialHLine buffers a rule over columns start..end (1-based, inclusive).
func (p *GridParser) AddPartialHLine(start, end int) {
	if end < start {
		start, end = end, start
	}
	p.pendingLines = append(p.pendingLines, HLine{Start: start, End: end})
}

// PendingHLines returns rules not yet attached to a row.
func (p *GridParser) PendingHLines() []HLine { return p.pendingLines }

// MaxCols returns the widest logical row seen so far.
func (p *GridParser) MaxCols() int { return p.maxCols }

// ProcessRow consumes one row of raw cells.
func (p *GridParser) ProcessRow(raw []string) {
	p.processRow(raw, false)
}

// ProcessHeaderRow consumes one row that belongs to the table header.
func (p *GridParser) ProcessHeaderRow(raw []string) {
	p.processRow(raw, true)
}

func (p *GridParser) processRow(raw []string, header bool) {
	row := GridRow{HLinesBefore: p.pendingLines, Header: header}
	p.pendingLines = nil

	col := 0
	for _, text := range raw {
		p.growCoverage(col + 1)
		cell := ParseGridCell(text)
		span := max(cell.Colspan, 1)

		if p.coverage[col] > 0 && cell.IsBlank() {
			// Filler under a rowspan: consume it without emitting a cell.
			for i := col; i < col+span && i < len(p.coverage); i++ {
				if p.coverage[i] > 0 {
					p.coverage[i]--
				}
			}
			col += span
			continue
		}

		if p.coverage[col] > 0 {
			recordLoss(p.sink, LossContentUnderSpan, text,
				"cell content under an active rowspan at column %d; emitting it as a normal cell", col+1)
		}
		p.growCoverage(col + span)
		for i := col; i < col+span; i++ {
			p.coverage[i] = cell.Rowspan - 1
		}
		cell.Header = header
		row.Cells = append(row.Cells, cell)
		row.starts = append(row.starts, col)
		col += span
	}

	if col > p.maxCols {
		p.maxCols = col
	}
	if len(row.Cells) > 0 || len(row.HLinesBefore) > 0 {
		p.Rows = append(p.Rows, row)
	}
}

func (p *GridParser) growCoverage(n int) {
	for len(p.coverage) < n {
		p.coverage = append(p.coverage, 0)
	}
}

// EffectiveCols returns the emitted table width: the larger of colCount
// and the widest row, and at least one.
func (p *GridParser) EffectiveCols(colCount int) int {
	return max(colCount, p.maxCols, 1)
}

// NormalizedRows replays the rows against a fresh coverage array so every
// row spans exactly effective columns: short rows are padded with empty
// cells, overlong spans are clamped and surplus cells are dropped.
func (p *GridParser) NormalizedRows(effective int) []GridRow {
	return p.normalize(effective, nil)
}

func (p *GridParser) normalize(effective int, sink LossSink) []GridRow {
	out := make([]GridRow, 0, len(p.Rows))
	coverage := make([]int, effective)

	for _, row := range p.Rows {
		norm := GridRow{HLinesBefore: row.HLinesBefore, Header: row.Header}
		padded := false
		idx := 0

		for col := 0; col < effective; {
			if coverage[col] > 0 && !row.startsAt(idx, col) {
				coverage[col]--
				norm.Covered++
				col++
				continue
			}
			if idx >= len(row.Cells) {
				norm.Cells = append(norm.Cells, GridCell{Colspan: 1, Rowspan: 1, Header: row.Header})
				padded = true
				col++
				continue
			}

			cell := row.Cells[idx]
			idx++
			if cell.Colspan < 1 {
				cell.Colspan = 1
			}
			if remaining := effective - col; cell.Colspan > remaining {
				recordLoss(sink, LossSpanClamped, cell.Content,
					"colspan %d clamped to %d", cell.Colspan, remaining)
				cell.Colspan = remaining
			}
			for i := col; i < col+cell.Colspan; i++ {
				coverage[i] = max(cell.Rowspan-1, 0)
			}
			norm.Cells = append(norm.Cells, cell)
			col += cell.Colspan
		}

		if padded {
			recordLoss(sink, LossShortRow, rowText(row),
				"short row padded to %d columns", effective)
		}
		if idx < len(row.Cells) {
			recordLoss(sink, LossCellsDropped, rowText(GridRow{Cells: row.Cells[idx:]}),
				"%d cells beyond column %d dropped", len(row.Cells)-idx, effective)
		}
		out = append(out, norm)
	}
	return out
}

// startsAt reports whether cell idx was placed at col, overriding any
// coverage there. Rows built without start columns fall back to treating
// every non-placeholder cell as an override.
func (r GridRow) startsAt(idx, col int) bool {
	if idx >= len(r.Cells) {
		return false
	}
	if idx < len(r.starts) {
		return r.starts[idx] <= col
	}
	return !r.Cells[idx].IsPlaceholder()
}

func rowText(r GridRow) string {
	parts := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		parts[i] = c.Content
	}
	return strings.Join(parts, " & ")
}

// GenerateTypst renders the grid as a Typst #table call. colCount is the
// declared column count; the effective width may be larger.
func (p *GridParser) GenerateTypst(colCount int) string {
	effective := p.EffectiveCols(colCount)

	var sb strings.Builder
	sb.WriteString("#table(\n")
	sb.WriteString("    columns: (" + strings.TrimSuffix(strings.Repeat("auto, ", effective), ", ") + "),\n")

	if len(p.Aligns) > 0 {
		aligns := make([]string, effective)
		for i := range aligns {
			a := AlignAuto
			if i < len(p.Aligns) {
				a = p.Aligns[i]
			}
			aligns[i] = a.Typst()
		}
		sb.WriteString("    align: (" + strings.Join(aligns, ", ") + "),\n")
	}

	rows := p.normalize(effective, p.sink)
	i := 0
	if len(rows) > 0 && rows[0].Header {
		sb.WriteString("    table.header(\n")
		for ; i < len(rows) && rows[i].Header; i++ {
			writeRow(&sb, rows[i], "      ")
		}
		sb.WriteString("    ),\n")
	}
	for ; i < len(rows); i++ {
		writeRow(&sb, rows[i], "    ")
	}
	for _, h := range p.pendingLines {
		sb.WriteString("    " + h.Typst() + ",\n")
	}

	sb.WriteString(")\n")
	return sb.String()
}

func writeRow(sb *strings.Builder, row GridRow, indent string) {
	for _, h := range row.HLinesBefore {
		sb.WriteString(indent + h.Typst() + ",\n")
	}
	if len(row.Cells) == 0 {
		return
	}
	cells := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		cells[i] = c.Typst()
	}
	sb.WriteString(indent + strings.Join(cells, ", ") + ",\n")
}
