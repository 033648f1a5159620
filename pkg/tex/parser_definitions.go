// parser_definitions.go extracts macro and environment definitions from a token stream.
package tex

import "strings"

// definitionForm selects the sub-grammar for a definition command.
type definitionForm int

const (
	formCommand definitionForm = iota
	formDocumentCommand
	formMathOperator
	formEnvironment
	formPrimitive
	formLet
	formNewIf
)

// definitionCommands maps every recognized definition command to its grammar.
// Adding a new definition command = adding one entry here.
var definitionCommands = map[string]definitionForm{
	"newcommand":           formCommand,
	"renewcommand":         formCommand,
	"providecommand":       formCommand,
	"DeclareRobustCommand": formCommand,
	"NewDocumentCommand":   formDocumentCommand,
	"RenewDocumentCommand": formDocumentCommand,
	"DeclareMathOperator":  formMathOperator,
	"newenvironment":       formEnvironment,
	"renewenvironment":     formEnvironment,
	"def":                  formPrimitive,
	"gdef":                 formPrimitive,
	"edef":                 formPrimitive,
	"xdef":                 formPrimitive,
	"let":                  formLet,
	"newif":                formNewIf,
}

// maxArity is the largest argument count TeX allows.
const maxArity = 9

// IsDefinitionCommand reports whether \name introduces a definition.
// Matching is case-sensitive, as in TeX.
func IsDefinitionCommand(name string) bool {
	_, ok := definitionCommands[name]
	return ok
}

// DefinitionParser scans token lists for definition sites.
type DefinitionParser struct {
	// MaxGroupTokens bounds a single balanced group or bracket span.
	// Zero selects DefaultMaxGroupTokens.
	MaxGroupTokens int
	// Sink receives a record for every definition command whose grammar
	// did not match. May be nil.
	Sink LossSink
}

// NewDefinitionParser creates a parser with the given ceiling and loss sink.
func NewDefinitionParser(maxGroupTokens int, sink LossSink) *DefinitionParser {
	return &DefinitionParser{MaxGroupTokens: maxGroupTokens, Sink: sink}
}

// ParseDefinitions extracts definitions with the default settings.
func ParseDefinitions(tokens TokenList) ([]Definition, TokenList) {
	return (&DefinitionParser{}).ParseDefinitions(tokens)
}

// ParseDefinitions scans tokens left to right. Each recognized definition is
// removed from the stream and returned as a record; everything else,
// including a definition command whose grammar fails, is kept in order.
func (p *DefinitionParser) ParseDefinitions(tokens TokenList) ([]Definition, TokenList) {
	var defs []Definition
	remaining := make(TokenList, 0, len(tokens))

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if tok.Kind != TokenControlSeq || !IsDefinitionCommand(tok.Text) {
			remaining = append(remaining, tok)
			i++
			continue
		}

		def, rest, ok := p.ParseDefinition(tok.Text, tokens[i+1:])
		if !ok {
			recordLoss(p.Sink, LossUnparsedDef, Detokenize(snippetAt(tokens, i)),
				"could not parse \\%s definition; kept as content", tok.Text)
			remaining = append(remaining, tok)
			i++
			continue
		}
		defs = append(defs, def)
		i = len(tokens) - len(rest)
	}
	return defs, remaining
}

// ParseDefinition runs the sub-grammar for \cmd against tokens, which start
// right after the command. On success it returns the record and the tokens
// following the definition. On any grammar violation it returns tokens
// unchanged and ok=false.
func (p *DefinitionParser) ParseDefinition(cmd string, tokens TokenList) (Definition, TokenList, bool) {
	form, ok := definitionCommands[cmd]
	if !ok {
		return nil, tokens, false
	}

	s := NewTokenStream(tokens, p.MaxGroupTokens, p.Sink)
	var def Definition
	switch form {
	case formCommand:
		def, ok = parseCommandStyle(cmd, s)
	case formDocumentCommand:
		def, ok = parseDocumentCommand(cmd, s)
	case formMathOperator:
		def, ok = parseMathOperator(s)
	case formEnvironment:
		def, ok = parseEnvironment(cmd, s)
	case formPrimitive:
		def, ok = parsePrimitive(cmd, s)
	case formLet:
		def, ok = parseLet(s)
	case formNewIf:
		def, ok = parseNewIf(s)
	}
	if !ok {
		return nil, tokens, false
	}
	return def, s.Rest(), true
}

// parseCommandStyle handles \newcommand*{\name}[n][default]{body} and friends.
func parseCommandStyle(cmd string, s *TokenStream) (Definition, bool) {
	s.SkipSpaces()
	s.AcceptChar('*')

	name, ok := readDefinedName(s)
	if !ok {
		return nil, false
	}
	numArgs, def, hasDef, ok := readArityAndDefault(s)
	if !ok {
		return nil, false
	}
	body, ok := s.ReadGroup()
	if !ok {
		return nil, false
	}

	mode := CommandNew
	switch cmd {
	case "renewcommand":
		mode = CommandRenew
	case "providecommand":
		mode = CommandProvide
	}
	return CommandDef{
		Command:    cmd,
		Mode:       mode,
		Name:       name,
		NumArgs:    numArgs,
		Default:    def,
		HasDefault: hasDef,
		Body:       body,
	}, true
}

// parseDocumentCommand handles \NewDocumentCommand{\name}{spec}{body}.
// Only mandatory arguments are counted; the rest of the spec is ignored.
func parseDocumentCommand(cmd string, s *TokenStream) (Definition, bool) {
	name, ok := readDefinedName(s)
	if !ok {
		return nil, false
	}
	spec, ok := s.ReadGroup()
	if !ok {
		return nil, false
	}
	numArgs := countMandatoryArgs(spec)
	if numArgs > maxArity {
		return nil, false
	}
	body, ok := s.ReadGroup()
	if !ok {
		return nil, false
	}

	mode := CommandNew
	if cmd == "RenewDocumentCommand" {
		mode = CommandRenew
	}
	return CommandDef{
		Command: cmd,
		Mode:    mode,
		Name:    name,
		NumArgs: numArgs,
		Body:    body,
	}, true
}

// parseMathOperator handles \DeclareMathOperator*{\name}{body}.
func parseMathOperator(s *TokenStream) (Definition, bool) {
	s.SkipSpaces()
	starred := s.AcceptChar('*')

	name, ok := readDefinedName(s)
	if !ok {
		return nil, false
	}
	body, ok := s.ReadGroup()
	if !ok {
		return nil, false
	}
	return MathOperatorDef{Name: name, Body: body, Starred: starred}, true
}

// parseEnvironment handles \newenvironment*{name}[n][default]{begin}{end}.
func parseEnvironment(cmd string, s *TokenStream) (Definition, bool) {
	s.SkipSpaces()
	s.AcceptChar('*')

	nameTokens, ok := s.ReadGroup()
	if !ok {
		return nil, false
	}
	name := nameTokens.PlainText()
	if name == "" {
		return nil, false
	}
	numArgs, def, hasDef, ok := readArityAndDefault(s)
	if !ok {
		return nil, false
	}
	begin, ok := s.ReadGroup()
	if !ok {
		return nil, false
	}
	end, ok := s.ReadGroup()
	if !ok {
		return nil, false
	}
	return EnvironmentDef{
		Command:    cmd,
		Renew:      cmd == "renewenvironment",
		Name:       name,
		NumArgs:    numArgs,
		Default:    def,
		HasDefault: hasDef,
		Begin:      begin,
		End:        end,
	}, true
}

// parsePrimitive handles \def\name<parameter text>{body}. The parameter text
// alternates between literal token runs and #n placeholders.
func parsePrimitive(cmd string, s *TokenStream) (Definition, bool) {
	name, ok := s.ReadControlSeqName()
	if !ok {
		return nil, false
	}

	var parts []PatternPart
	var literal TokenList
	for {
		t, ok := s.Peek()
		if !ok || t.Kind == TokenEndGroup {
			return nil, false
		}
		if t.Kind == TokenBeginGroup {
			break
		}
		s.Next()
		if t.Kind == TokenParam {
			if len(literal) > 0 {
				parts = append(parts, LiteralPart{Tokens: literal})
				literal = nil
			}
			parts = append(parts, ArgumentPart{N: t.Num})
			continue
		}
		literal = append(literal, t)
	}
	if len(literal) > 0 {
		parts = append(parts, LiteralPart{Tokens: literal})
	}

	body, ok := s.ReadGroup()
	if !ok {
		return nil, false
	}
	return PrimitiveDef{
		Command:   cmd,
		Name:      name,
		Signature: newSignature(parts),
		Body:      body,
		Expanded:  cmd == "edef" || cmd == "xdef",
		Global:    cmd == "gdef" || cmd == "xdef",
	}, true
}

// parseLet handles \let\name=\target and \let\name\target.
func parseLet(s *TokenStream) (Definition, bool) {
	name, ok := s.ReadControlSeqName()
	if !ok {
		return nil, false
	}
	s.SkipSpaces()
	s.AcceptChar('=')
	target, ok := s.ReadControlSeqName()
	if !ok {
		return nil, false
	}
	return LetDef{Name: name, Target: target}, true
}

// parseNewIf handles \newif\ifname.
func parseNewIf(s *TokenStream) (Definition, bool) {
	full, ok := s.ReadControlSeqName()
	if !ok {
		return nil, false
	}
	base, found := strings.CutPrefix(full, "if")
	if !found || base == "" {
		return nil, false
	}
	return NewIfDef{BaseName: base}, true
}

// readDefinedName reads {\name} or a bare \name.
func readDefinedName(s *TokenStream) (string, bool) {
	s.SkipSpaces()
	t, ok := s.Peek()
	if !ok {
		return "", false
	}
	switch t.Kind {
	case TokenControlSeq:
		s.Next()
		return t.Text, true
	case TokenBeginGroup:
		s.Next()
		name, ok := s.ReadControlSeqName()
		if !ok {
			return "", false
		}
		s.SkipSpaces()
		if !s.PeekKind(TokenEndGroup) {
			return "", false
		}
		s.Next()
		return name, true
	}
	return "", false
}

// readArityAndDefault reads the optional [n] and [default] spans.
// A present but non-numeric or out-of-range arity is a grammar violation.
func readArityAndDefault(s *TokenStream) (numArgs int, def TokenList, hasDef, ok bool) {
	if span, present := s.ReadOptional(); present {
		n, valid := parseArity(span)
		if !valid {
			return 0, nil, false, false
		}
		numArgs = n
	}
	if span, present := s.ReadOptional(); present {
		def, hasDef = span, true
	}
	return numArgs, def, hasDef, true
}

func parseArity(span TokenList) (int, bool) {
	inner := NewTokenStream(span, 0, nil)
	n, ok := inner.ReadNumber()
	if !ok {
		return 0, false
	}
	inner.SkipSpaces()
	if !inner.Done() || n > maxArity {
		return 0, false
	}
	return n, true
}

// countMandatoryArgs counts the m/M markers at the top level of an
// argument spec, so defaults such as O{mm} do not contribute.
func countMandatoryArgs(spec TokenList) int {
	n, depth := 0, 0
	for _, t := range spec {
		switch {
		case t.Kind == TokenBeginGroup:
			depth++
		case t.Kind == TokenEndGroup:
			if depth > 0 {
				depth--
			}
		case depth == 0 && (t.IsChar('m') || t.IsChar('M')):
			n++
		}
	}
	return n
}

// snippetAt returns a short window of tokens starting at i for loss records.
func snippetAt(tokens TokenList, i int) TokenList {
	const window = 24
	end := i + window
	if end > len(tokens) {
		end = len(tokens)
	}
	return tokens[i:end]
}
