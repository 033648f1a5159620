// report.go renders collected degradation records for people.
package tex

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// reportMarkdown is a goldmark instance with the GFM table extension.
var reportMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// RenderLossMarkdown formats entries as a Markdown report: a per-kind
// summary followed by a table of every record.
func RenderLossMarkdown(entries []Degradation) string {
	var sb strings.Builder
	sb.WriteString("# Conversion report\n\n")
	if len(entries) == 0 {
		sb.WriteString("No lossy conversions.\n")
		return sb.String()
	}

	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Fprintf(&sb, "%d lossy conversion(s).\n\n", len(entries))
	for _, k := range kinds {
		fmt.Fprintf(&sb, "- `%s`: %d\n", k, counts[k])
	}

	sb.WriteString("\n| # | Kind | Message | Snippet |\n")
	sb.WriteString("|---|------|---------|---------|\n")
	for i, e := range entries {
		fmt.Fprintf(&sb, "| %d | `%s` | %s | %s |\n",
			i+1, e.Kind, escapeTableCell(e.Message), codeSpan(e.Snippet))
	}
	return sb.String()
}

// RenderLossHTML formats entries as an HTML fragment.
func RenderLossHTML(entries []Degradation) (string, error) {
	var buf bytes.Buffer
	if err := reportMarkdown.Convert([]byte(RenderLossMarkdown(entries)), &buf); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

// escapeTableCell keeps a value inside a single Markdown table cell.
func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// codeSpan wraps s in a code span long enough to hold its backticks.
func codeSpan(s string) string {
	if s == "" {
		return ""
	}
	s = escapeTableCell(s)
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	pad := ""
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		pad = " "
	}
	return fence + pad + s + pad + fence
}
