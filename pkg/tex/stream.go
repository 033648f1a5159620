// stream.go provides a cursor over a token list with the reading primitives
// shared by the definition sub-parsers.
package tex

// DefaultMaxGroupTokens is the default ceiling on tokens read for a single
// balanced group or bracket span. Reading stops there and returns what was
// read so far, which bounds memory on unclosed braces.
const DefaultMaxGroupTokens = 10000

// TokenStream is a read cursor over a token list.
type TokenStream struct {
	toks  TokenList
	pos   int
	limit int
	sink  LossSink
}

// NewTokenStream creates a cursor over toks. A non-positive limit selects
// DefaultMaxGroupTokens. sink may be nil.
func NewTokenStream(toks TokenList, limit int, sink LossSink) *TokenStream {
	if limit <= 0 {
		limit = DefaultMaxGroupTokens
	}
	return &TokenStream{toks: toks, limit: limit, sink: sink}
}

// Pos returns the index of the next unread token.
func (s *TokenStream) Pos() int { return s.pos }

// Rest returns the unread tokens.
func (s *TokenStream) Rest() TokenList { return s.toks[s.pos:] }

// Done reports whether every token has been read.
func (s *TokenStream) Done() bool { return s.pos >= len(s.toks) }

// Peek returns the next token without consuming it.
func (s *TokenStream) Peek() (Token, bool) {
	if s.pos >= len(s.toks) {
		return Token{}, false
	}
	return s.toks[s.pos], true
}

// Next consumes and returns the next token.
func (s *TokenStream) Next() (Token, bool) {
	t, ok := s.Peek()
	if ok {
		s.pos++
	}
	return t, ok
}

// PeekKind reports whether the next token has kind k.
func (s *TokenStream) PeekKind(k TokenKind) bool {
	t, ok := s.Peek()
	return ok && t.Kind == k
}

// PeekChar reports whether the next token is the character r.
func (s *TokenStream) PeekChar(r rune) bool {
	t, ok := s.Peek()
	return ok && t.IsChar(r)
}

// SkipSpaces drops space and comment tokens.
func (s *TokenStream) SkipSpaces() {
	for s.pos < len(s.toks) && s.toks[s.pos].IsBlank() {
		s.pos++
	}
}

// AcceptChar consumes the next token if it is the character r.
func (s *TokenStream) AcceptChar(r rune) bool {
	if s.PeekChar(r) {
		s.pos++
		return true
	}
	return false
}

// ReadControlSeqName skips blanks and reads a control-sequence name.
func (s *TokenStream) ReadControlSeqName() (string, bool) {
	s.SkipSpaces()
	t, ok := s.Peek()
	if !ok || t.Kind != TokenControlSeq {
		return "", false
	}
	s.pos++
	return t.Text, true
}

// ReadNumber skips blanks and reads a run of decimal digit characters.
func (s *TokenStream) ReadNumber() (int, bool) {
	s.SkipSpaces()
	n, digits := 0, 0
	for {
		t, ok := s.Peek()
		if !ok || t.Kind != TokenChar || t.Char < '0' || t.Char > '9' {
			break
		}
		if n < 1_000_000 {
			n = n*10 + int(t.Char-'0')
		}
		digits++
		s.pos++
	}
	return n, digits > 0
}

// ReadBalancedGroup reads the body of a group whose opening brace has
// already been consumed, stopping after the matching closing brace. The
// closing brace is not part of the result.
func (s *TokenStream) ReadBalancedGroup() TokenList {
	var out TokenList
	depth := 1
	for {
		t, ok := s.Peek()
		if !ok {
			return out
		}
		if len(out) >= s.limit {
			recordLoss(s.sink, LossGroupTruncated, out.String(),
				"group truncated after %d tokens", s.limit)
			return out
		}
		s.pos++
		switch t.Kind {
		case TokenBeginGroup:
			depth++
		case TokenEndGroup:
			depth--
			if depth == 0 {
				return out
			}
		}
		out = append(out, t)
	}
}

// ReadUntilChar reads tokens up to an unnested end character, which is
// consumed but not returned. Used for bracket spans such as [default].
func (s *TokenStream) ReadUntilChar(end rune) TokenList {
	var out TokenList
	depth := 0
	for {
		t, ok := s.Peek()
		if !ok {
			return out
		}
		if len(out) >= s.limit {
			recordLoss(s.sink, LossGroupTruncated, out.String(),
				"bracket span truncated after %d tokens", s.limit)
			return out
		}
		s.pos++
		switch {
		case t.Kind == TokenBeginGroup:
			depth++
		case t.Kind == TokenEndGroup:
			if depth > 0 {
				depth--
			}
		case depth == 0 && t.IsChar(end):
			return out
		}
		out = append(out, t)
	}
}

// ReadGroup skips blanks and reads a mandatory {...} group.
// It reports false, without consuming the next token, when none follows.
func (s *TokenStream) ReadGroup() (TokenList, bool) {
	s.SkipSpaces()
	if !s.PeekKind(TokenBeginGroup) {
		return nil, false
	}
	s.pos++
	body := s.ReadBalancedGroup()
	if body == nil {
		body = TokenList{}
	}
	return body, true
}

// ReadOptional skips blanks and reads an optional [...] span.
func (s *TokenStream) ReadOptional() (TokenList, bool) {
	s.SkipSpaces()
	if !s.AcceptChar('[') {
		return nil, false
	}
	span := s.ReadUntilChar(']')
	if span == nil {
		span = TokenList{}
	}
	return span, true
}

// ReadArgument reads a macro argument: a braced group or a single token.
func (s *TokenStream) ReadArgument() TokenList {
	if group, ok := s.ReadGroup(); ok {
		return group
	}
	t, ok := s.Next()
	if !ok {
		return TokenList{}
	}
	return TokenList{t}
}
