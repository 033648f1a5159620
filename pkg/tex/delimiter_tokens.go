package tex

import "strings"

// ClauseElement is a \left<delim> or \right<delim> clause.
type ClauseElement struct {
	Source string
}

func (c ClauseElement) Text() string { return c.Source }
func (ClauseElement) IsToken() bool  { return false }
func (ClauseElement) IsClause() bool { return true }

// TokenElement wraps a single body token.
type TokenElement struct {
	Token Token
}

func (e TokenElement) Text() string { return e.Token.String() }
func (TokenElement) IsToken() bool  { return true }
func (TokenElement) IsClause() bool { return false }

// NodeElement is a nested \left...\right construct inside a body.
type NodeElement struct {
	Node *TokenNode
}

func (e NodeElement) Text() string { return sourceText(e.Node.Elems) }
func (NodeElement) IsToken() bool  { return false }
func (NodeElement) IsClause() bool { return false }

// TokenNode is an LRNode built directly from tokens, for callers that have
// no structural tree.
type TokenNode struct {
	Elems []Element
}

// Children returns the node's elements in source order.
func (n *TokenNode) Children() []Element { return n.Elems }

// ParseLR builds a node from the first \left in tokens. Nested pairs become
// NodeElement children. When no closing \right is found the node has no
// right clause. Tokens after the matching \right are returned as rest.
func ParseLR(tokens TokenList) (node *TokenNode, rest TokenList, ok bool) {
	for i, t := range tokens {
		if t.IsCS("left") {
			node, rest = parseLRFrom(tokens[i+1:])
			return node, rest, true
		}
	}
	return nil, tokens, false
}

// parseLRFrom parses the remainder of a construct whose \left has been consumed.
func parseLRFrom(tokens TokenList) (*TokenNode, TokenList) {
	s := NewTokenStream(tokens, 0, nil)
	node := &TokenNode{}
	node.Elems = append(node.Elems, ClauseElement{Source: `\left` + readDelimiterSource(s)})

	for {
		t, more := s.Next()
		if !more {
			return node, TokenList{}
		}
		switch {
		case t.IsCS("left"):
			inner, rest := parseLRFrom(s.Rest())
			node.Elems = append(node.Elems, NodeElement{Node: inner})
			s = NewTokenStream(rest, 0, nil)
		case t.IsCS("right"):
			node.Elems = append(node.Elems, ClauseElement{Source: `\right` + readDelimiterSource(s)})
			return node, s.Rest()
		default:
			node.Elems = append(node.Elems, TokenElement{Token: t})
		}
	}
}

// readDelimiterSource consumes the delimiter token after \left or \right.
func readDelimiterSource(s *TokenStream) string {
	s.SkipSpaces()
	t, ok := s.Next()
	if !ok {
		return ""
	}
	return t.String()
}

// NewTokenWriter returns an ElementWriter for token-backed nodes. Blank
// tokens collapse to one space, control words are followed by one, and
// nested constructs are converted in place, reporting to sink.
func NewTokenWriter(sink LossSink) ElementWriter {
	var write ElementWriter
	write = func(el Element, out *strings.Builder) {
		switch el := el.(type) {
		case NodeElement:
			ConvertLR(el.Node, write, out, sink)
		case TokenElement:
			if el.Token.IsBlank() {
				if out.Len() > 0 && !strings.HasSuffix(out.String(), " ") {
					out.WriteByte(' ')
				}
				return
			}
			out.WriteString(el.Text())
			if el.Token.Kind == TokenControlSeq && isControlWord(el.Token.Text) {
				out.WriteByte(' ')
			}
		default:
			out.WriteString(el.Text())
		}
	}
	return write
}

// ConvertLRTokens is ConvertLR over the first \left...\right pair in tokens.
// It returns the Typst text, the class used and the tokens after the pair.
func ConvertLRTokens(tokens TokenList, sink LossSink) (string, DelimClass, TokenList, bool) {
	node, rest, ok := ParseLR(tokens)
	if !ok {
		return "", DelimMissing, tokens, false
	}
	var out strings.Builder
	class := ConvertLR(node, NewTokenWriter(sink), &out, sink)
	return out.String(), class, rest, true
}
