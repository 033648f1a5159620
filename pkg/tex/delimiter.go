// delimiter.go classifies \left...\right delimiter pairs and emits the matching Typst construct.
package tex

import (
	"strings"
	"unicode/utf8"
)

// Element is one child of a structural node, yielded in source order:
// either a nested sub-node or a literal token.
type Element interface {
	// Text is the element's source text.
	Text() string
	// IsToken reports whether the element is a literal token.
	IsToken() bool
	// IsClause reports whether the element is a \left or \right clause node.
	IsClause() bool
}

// LRNode is a \left <delim> body \right <delim> construct supplied by the
// structural parser.
type LRNode interface {
	Children() []Element
}

// ElementWriter renders one body element into out. The tree walker supplies it.
type ElementWriter func(el Element, out *strings.Builder)

// Delimiter is one side of a pair after mapping to its Typst name.
// Present is false when no \left or \right was found for the side.
type Delimiter struct {
	Name    string
	Present bool
}

// IsEmpty reports whether the delimiter is the null delimiter "."
func (d Delimiter) IsEmpty() bool {
	return d.Present && (d.Name == "." || d.Name == "")
}

// DelimClass is the outcome of classifying a delimiter pair.
type DelimClass int

const (
	DelimNorm        DelimClass = iota // \| ... \|  -> norm(body)
	DelimAbs                           // | ... |    -> abs(body)
	DelimNatural                       // () [] {}   -> no wrapper
	DelimMatched                       // identical exotic pair -> lr()
	DelimCrossPaired                   // recognized mixed pair -> lr()
	DelimOpenSide                      // "." on one side -> lr() with the present side only
	DelimMissing                       // one side absent -> body only
	DelimOther                         // anything else -> lr()
)

var delimClassNames = [...]string{
	DelimNorm:        "norm",
	DelimAbs:         "abs",
	DelimNatural:     "natural",
	DelimMatched:     "matched",
	DelimCrossPaired: "cross-paired",
	DelimOpenSide:    "open-side",
	DelimMissing:     "missing",
	DelimOther:       "other",
}

func (c DelimClass) String() string {
	if c >= 0 && int(c) < len(delimClassNames) {
		return delimClassNames[c]
	}
	return "unknown"
}

// Wraps reports whether the class is emitted inside lr(...).
func (c DelimClass) Wraps() bool {
	switch c {
	case DelimMatched, DelimCrossPaired, DelimOpenSide, DelimOther:
		return true
	}
	return false
}

// delimiterNames maps LaTeX delimiter source text to Typst symbol names.
var delimiterNames = map[string]string{
	".":          ".",
	"(":          "(",
	")":          ")",
	"[":          "[",
	"]":          "]",
	`\{`:         "{",
	`\lbrace`:    "{",
	`\}`:         "}",
	`\rbrace`:    "}",
	"|":          "bar.v",
	`\vert`:      "bar.v",
	`\lvert`:     "bar.v",
	`\rvert`:     "bar.v",
	`\|`:         "bar.v.double",
	`\Vert`:      "bar.v.double",
	`\lVert`:     "bar.v.double",
	`\rVert`:     "bar.v.double",
	`\langle`:    "chevron.l",
	`\rangle`:    "chevron.r",
	`\lfloor`:    "floor.l",
	`\rfloor`:    "floor.r",
	`\lceil`:     "ceil.l",
	`\rceil`:     "ceil.r",
	`\lgroup`:    "paren.l.flat",
	`\rgroup`:    "paren.r.flat",
	`\lbrack`:    "[",
	`\rbrack`:    "]",
	`\uparrow`:   "arrow.t",
	`\downarrow`: "arrow.b",
}

// DelimiterName maps a LaTeX delimiter such as \langle to its Typst name.
// Unknown delimiters pass through unchanged.
func DelimiterName(src string) string {
	src = strings.TrimSpace(src)
	if name, ok := delimiterNames[src]; ok {
		return name
	}
	return src
}

// crossPairs are mixed pairs that lr() renders sensibly.
var crossPairs = map[[2]string]bool{
	{"(", "]"}:                       true,
	{"[", ")"}:                       true,
	{"chevron.l", "chevron.r"}:       true,
	{"floor.l", "floor.r"}:           true,
	{"ceil.l", "ceil.r"}:             true,
	{"paren.l.flat", "paren.r.flat"}: true,
}

// naturalPairs render without lr() since Typst scales them on its own.
var naturalPairs = map[[2]string]bool{
	{"(", ")"}: true,
	{"[", "]"}: true,
	{"{", "}"}: true,
}

type delimRule struct {
	class DelimClass
	match func(l, r Delimiter) bool
}

func both(l, r Delimiter, name string) bool {
	return l.Present && r.Present && l.Name == name && r.Name == name
}

// delimRules is evaluated top to bottom; the first match wins. The
// vertical-bar rules must stay ahead of the generic identical-pair rule.
var delimRules = []delimRule{
	{DelimNorm, func(l, r Delimiter) bool { return both(l, r, "bar.v.double") }},
	{DelimAbs, func(l, r Delimiter) bool { return both(l, r, "bar.v") }},
	{DelimNatural, func(l, r Delimiter) bool {
		return l.Present && r.Present && naturalPairs[[2]string{l.Name, r.Name}]
	}},
	{DelimMatched, func(l, r Delimiter) bool { return l.Present && r.Present && l.Name == r.Name }},
	{DelimCrossPaired, func(l, r Delimiter) bool {
		return l.Present && r.Present && crossPairs[[2]string{l.Name, r.Name}]
	}},
	{DelimOpenSide, func(l, r Delimiter) bool { return l.IsEmpty() && r.Present || r.IsEmpty() && l.Present }},
	{DelimMissing, func(l, r Delimiter) bool { return !l.Present || !r.Present }},
	{DelimOther, func(l, r Delimiter) bool { return true }},
}

// ClassifyDelimiters applies the ordered rule table to a pair.
func ClassifyDelimiters(left, right Delimiter) DelimClass {
	for _, rule := range delimRules {
		if rule.match(left, right) {
			return rule.class
		}
	}
	return DelimOther
}

// ExtractDelimiters finds the \left and \right delimiters among children and
// the index range of the body between them. A clause that carries no
// delimiter of its own takes it from the token that follows.
func ExtractDelimiters(children []Element) (left, right Delimiter, bodyStart, bodyEnd int) {
	bodyEnd = len(children)

	for i, child := range children {
		d, ok := delimiterAfter(child, `\left`)
		if !ok {
			continue
		}
		bodyStart = i + 1
		if !d.Present && i+1 < len(children) && children[i+1].IsToken() {
			d = tokenDelimiter(children[i+1])
			bodyStart = i + 2
		}
		left = d
		break
	}
	for i := len(children) - 1; i >= bodyStart; i-- {
		d, ok := delimiterAfter(children[i], `\right`)
		if !ok {
			continue
		}
		if !d.Present && i+1 < len(children) && children[i+1].IsToken() {
			d = tokenDelimiter(children[i+1])
		}
		right = d
		bodyEnd = i
		break
	}
	return left, right, bodyStart, bodyEnd
}

func tokenDelimiter(el Element) Delimiter {
	text := strings.TrimSpace(el.Text())
	if text == "" {
		return Delimiter{}
	}
	return Delimiter{Name: DelimiterName(firstDelimiter(text)), Present: true}
}

// delimiterAfter recognizes a clause or token starting with prefix and maps
// the delimiter that follows it. An empty remainder leaves the side absent.
func delimiterAfter(el Element, prefix string) (Delimiter, bool) {
	if !el.IsClause() && !el.IsToken() {
		return Delimiter{}, false
	}
	rest, ok := strings.CutPrefix(el.Text(), prefix)
	if !ok {
		return Delimiter{}, false
	}
	// \leftarrow, \rightharpoonup and the like are not clauses.
	if r, _ := utf8.DecodeRuneInString(rest); isLetter(r) {
		return Delimiter{}, false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return Delimiter{}, true
	}
	return Delimiter{Name: DelimiterName(firstDelimiter(rest)), Present: true}, true
}

// firstDelimiter cuts the leading delimiter off text: a control word such
// as \langle, a control symbol such as \|, or a single character.
func firstDelimiter(text string) string {
	after, ok := strings.CutPrefix(text, `\`)
	if !ok {
		_, size := utf8.DecodeRuneInString(text)
		return text[:size]
	}
	if after == "" {
		return `\`
	}
	first, size := utf8.DecodeRuneInString(after)
	if !isLetter(first) {
		return text[:1+size]
	}
	end := strings.IndexFunc(after, func(r rune) bool { return !isLetter(r) })
	if end < 0 {
		end = len(after)
	}
	return text[:1+end]
}

// ConvertLR writes the Typst form of node to out and returns the class used.
// A pair with a missing side degrades to the bare body and is reported to sink.
func ConvertLR(node LRNode, write ElementWriter, out *strings.Builder, sink LossSink) DelimClass {
	children := node.Children()
	left, right, start, end := ExtractDelimiters(children)
	class := ClassifyDelimiters(left, right)
	body := renderBody(children, start, end, write)

	switch class {
	case DelimNorm, DelimAbs:
		out.WriteString(class.String())
		out.WriteByte('(')
		if HasTopLevelComma(body) {
			out.WriteByte('{')
			out.WriteString(strings.TrimSpace(body))
			out.WriteByte('}')
		} else {
			out.WriteString(body)
		}
		out.WriteString(") ")
	case DelimMissing:
		recordLoss(sink, LossMissingDelimiter, sourceText(children),
			"unbalanced \\left/\\right; emitting body without delimiters")
		out.WriteString(body)
	case DelimNatural:
		writeDelimited(out, left, body, right)
		out.WriteByte(' ')
	default:
		out.WriteString("lr(")
		writeDelimited(out, left, body, right)
		out.WriteString(") ")
	}
	return class
}

func writeDelimited(out *strings.Builder, left Delimiter, body string, right Delimiter) {
	if left.Present && !left.IsEmpty() {
		out.WriteString(left.Name)
		out.WriteByte(' ')
	}
	out.WriteString(body)
	if right.Present && !right.IsEmpty() {
		out.WriteByte(' ')
		out.WriteString(right.Name)
	}
}

func renderBody(children []Element, start, end int, write ElementWriter) string {
	var sb strings.Builder
	for i := start; i < end && i < len(children); i++ {
		child := children[i]
		if _, stray := delimiterAfter(child, `\right`); stray {
			continue
		}
		write(child, &sb)
	}
	return strings.TrimSpace(sb.String())
}

func sourceText(children []Element) string {
	var sb strings.Builder
	for _, c := range children {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// HasTopLevelComma reports whether s contains a comma outside any (), [],
// {} group or string literal. Such a body must be grouped before it is
// passed as the single argument of norm() or abs().
func HasTopLevelComma(s string) bool {
	depth := 0
	inString := false
	escaped := false
	for _, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}
