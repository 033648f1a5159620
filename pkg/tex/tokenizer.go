// tokenizer.go converts LaTeX source text into a TeX token stream.
package tex

// Lexer scans source text one character at a time following TeX's lexical rules.
// It never fails: every input has a defined token sequence.
type Lexer struct {
	input []rune
	pos   int
	sink  LossSink

	// set after an alphabetic control word; the following blanks are dropped
	swallow bool
}

// NewLexer creates a lexer over input. sink may be nil.
func NewLexer(input string, sink LossSink) *Lexer {
	return &Lexer{
		input: []rune(input),
		sink:  sink,
	}
}

// Tokenize converts input into a token list.
func Tokenize(input string) TokenList {
	return NewLexer(input, nil).All()
}

// TokenizeWithLoss is Tokenize with soft failures reported to sink.
func TokenizeWithLoss(input string, sink LossSink) TokenList {
	return NewLexer(input, sink).All()
}

// All drains the lexer into a token list.
func (l *Lexer) All() TokenList {
	var tokens TokenList
	for {
		tok, ok := l.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token, or ok=false at end of input.
func (l *Lexer) Next() (Token, bool) {
	if l.swallow {
		l.swallow = false
		if l.skipAfterControlWord() {
			return CS("par"), true
		}
	}

	c, ok := l.read()
	if !ok {
		return Token{}, false
	}

	switch c {
	case '\\':
		return l.readControlSeq(), true
	case '{':
		return BeginGroup, true
	case '}':
		return EndGroup, true
	case '#':
		return l.readParam(), true
	case '%':
		return Comment(l.readComment()), true
	case '$':
		return MathShift, true
	case '&':
		return AlignTab, true
	case '^':
		return Superscript, true
	case '_':
		return Subscript, true
	case '~':
		return Active('~'), true
	case ' ', '\t':
		l.skipBlanks()
		return Space, true
	case '\n', '\r':
		l.consumeCRLF(c)
		if l.skipLineBreaks() {
			return CS("par"), true
		}
		return Space, true
	}
	return Char(c), true
}

func (l *Lexer) peek() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *Lexer) read() (rune, bool) {
	c, ok := l.peek()
	if ok {
		l.pos++
	}
	return c, ok
}

// readControlSeq reads the name after a backslash.
func (l *Lexer) readControlSeq() Token {
	c, ok := l.peek()
	if !ok {
		recordLoss(l.sink, LossLoneEscape, `\`, "lone backslash at end of input")
		return Char('\\')
	}
	if !isLetter(c) {
		l.pos++
		return CS(string(c))
	}
	start := l.pos
	for l.pos < len(l.input) && isLetter(l.input[l.pos]) {
		l.pos++
	}
	l.swallow = true
	return CS(string(l.input[start:l.pos]))
}

// readParam handles the character after '#'.
func (l *Lexer) readParam() Token {
	c, ok := l.peek()
	switch {
	case ok && isParamDigit(c):
		l.pos++
		return Param(int(c - '0'))
	case ok && c == '#':
		// ## without a digit collapses to a single literal #.
		l.pos++
		if d, ok := l.peek(); ok && isParamDigit(d) {
			l.pos++
			return DeferredParam(int(d - '0'))
		}
	}
	return Char('#')
}

// readComment reads to the end of the line and consumes the terminator.
func (l *Lexer) readComment() string {
	start := l.pos
	for l.pos < len(l.input) && !isNewline(l.input[l.pos]) {
		l.pos++
	}
	text := string(l.input[start:l.pos])
	if c, ok := l.read(); ok {
		l.consumeCRLF(c)
	}
	return text
}

func (l *Lexer) skipBlanks() {
	for l.pos < len(l.input) && isBlank(l.input[l.pos]) {
		l.pos++
	}
}

// consumeCRLF treats \r\n as a single line terminator once c has been read.
func (l *Lexer) consumeCRLF(c rune) {
	if c == '\r' {
		if next, ok := l.peek(); ok && next == '\n' {
			l.pos++
		}
	}
}

// skipLineBreaks runs after a line terminator. It consumes the rest of the
// whitespace and reports whether another terminator followed (a blank line).
func (l *Lexer) skipLineBreaks() bool {
	blankLine := false
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case isBlank(c):
			l.pos++
		case isNewline(c):
			l.pos++
			l.consumeCRLF(c)
			blankLine = true
		default:
			return blankLine
		}
	}
	return blankLine
}

// skipAfterControlWord drops the blanks and at most one line terminator
// following a control word. A blank line after it still yields \par.
func (l *Lexer) skipAfterControlWord() bool {
	l.skipBlanks()
	c, ok := l.peek()
	if !ok || !isNewline(c) {
		return false
	}
	l.pos++
	l.consumeCRLF(c)
	l.skipBlanks()
	if c, ok := l.peek(); ok && isNewline(c) {
		l.pos++
		l.consumeCRLF(c)
		l.skipLineBreaks()
		return true
	}
	return false
}

func isParamDigit(c rune) bool { return c >= '1' && c <= '9' }

func isBlank(c rune) bool { return c == ' ' || c == '\t' }

func isNewline(c rune) bool { return c == '\n' || c == '\r' }
