// loss.go defines the degradation hook through which the core reports lossy conversions.
package tex

import (
	"fmt"
	"log"
)

// Degradation kinds recorded by this package.
const (
	LossLoneEscape       = "tokenizer.lone_escape"
	LossUnparsedDef      = "definition.unparsed"
	LossGroupTruncated   = "stream.group_truncated"
	LossMissingDelimiter = "math.missing_delimiter"
	LossContentUnderSpan = "table.content_under_span"
	LossShortRow         = "table.short_row"
	LossSpanClamped      = "table.span_clamped"
	LossCellsDropped     = "table.cells_dropped"
)

// maxSnippetRunes bounds the source snippet kept per record.
const maxSnippetRunes = 80

// LossSink receives a record every time the core takes a lossy fallback path.
// The core never formats or persists these records itself.
type LossSink interface {
	RecordLoss(kind, message, snippet string)
}

// Degradation is one recorded loss.
type Degradation struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Snippet string `json:"snippet,omitempty"`
}

// LossLog is a LossSink that keeps every record in order.
type LossLog struct {
	Entries []Degradation
	Quiet   bool // suppress the log.Printf echo
}

// RecordLoss appends a record and echoes it through the standard logger.
func (l *LossLog) RecordLoss(kind, message, snippet string) {
	l.Entries = append(l.Entries, Degradation{
		Kind:    kind,
		Message: message,
		Snippet: truncateSnippet(snippet),
	})
	if !l.Quiet {
		log.Printf("WARN: %s: %s", kind, message)
	}
}

// Count returns how many records of the given kind were collected.
func (l *LossLog) Count(kind string) int {
	n := 0
	for _, e := range l.Entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the number of collected records.
func (l *LossLog) Len() int {
	return len(l.Entries)
}

// recordLoss forwards to sink when one is configured.
func recordLoss(sink LossSink, kind, snippet, format string, args ...interface{}) {
	if sink == nil {
		return
	}
	sink.RecordLoss(kind, fmt.Sprintf(format, args...), snippet)
}

func truncateSnippet(s string) string {
	r := []rune(s)
	if len(r) <= maxSnippetRunes {
		return s
	}
	return string(r[:maxSnippetRunes-3]) + "..."
}
