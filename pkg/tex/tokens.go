// Package tex converts the LaTeX constructs a Typst translator needs to understand:
// TeX tokens, macro definitions, \left...\right delimiters and tabular grids.
package tex

import (
	"strconv"
	"strings"
)

// TokenKind enumerates the closed set of token shapes.
type TokenKind int

const (
	TokenControlSeq    TokenKind = iota // \name or \x (Text holds the name without backslash)
	TokenBeginGroup                     // {
	TokenEndGroup                       // }
	TokenParam                          // #1..#9
	TokenDeferredParam                  // ##1..##9
	TokenChar                           // any other character
	TokenSpace                          // collapsed run of blanks, or a lone newline
	TokenComment                        // % to end of line (Text holds the text after %)
	TokenMathShift                      // $
	TokenAlignTab                       // &
	TokenSuperscript                    // ^
	TokenSubscript                      // _
	TokenActiveChar                     // ~
)

var tokenKindNames = map[TokenKind]string{
	TokenControlSeq:    "ControlSeq",
	TokenBeginGroup:    "BeginGroup",
	TokenEndGroup:      "EndGroup",
	TokenParam:         "Param",
	TokenDeferredParam: "DeferredParam",
	TokenChar:          "Char",
	TokenSpace:         "Space",
	TokenComment:       "Comment",
	TokenMathShift:     "MathShift",
	TokenAlignTab:      "AlignTab",
	TokenSuperscript:   "Superscript",
	TokenSubscript:     "Subscript",
	TokenActiveChar:    "ActiveChar",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a single TeX token. Tokens are plain values and compare with ==.
type Token struct {
	Kind TokenKind
	Text string // set for ControlSeq and Comment
	Char rune   // set for Char and ActiveChar
	Num  int    // set for Param and DeferredParam (1-9)
}

// Fixed tokens that carry no payload.
var (
	BeginGroup  = Token{Kind: TokenBeginGroup}
	EndGroup    = Token{Kind: TokenEndGroup}
	Space       = Token{Kind: TokenSpace}
	MathShift   = Token{Kind: TokenMathShift}
	AlignTab    = Token{Kind: TokenAlignTab}
	Superscript = Token{Kind: TokenSuperscript}
	Subscript   = Token{Kind: TokenSubscript}
)

// CS returns a control-sequence token. name excludes the backslash.
func CS(name string) Token { return Token{Kind: TokenControlSeq, Text: name} }

// Char returns a literal character token.
func Char(r rune) Token { return Token{Kind: TokenChar, Char: r} }

// Param returns a parameter token #n.
func Param(n int) Token { return Token{Kind: TokenParam, Num: n} }

// DeferredParam returns a deferred parameter token ##n.
func DeferredParam(n int) Token { return Token{Kind: TokenDeferredParam, Num: n} }

// Comment returns a comment token holding the text after %.
func Comment(text string) Token { return Token{Kind: TokenComment, Text: text} }

// Active returns an active character token such as ~.
func Active(r rune) Token { return Token{Kind: TokenActiveChar, Char: r} }

// IsCS reports whether t is the control sequence \name.
func (t Token) IsCS(name string) bool {
	return t.Kind == TokenControlSeq && t.Text == name
}

// IsChar reports whether t is the literal character r.
func (t Token) IsChar(r rune) bool {
	return t.Kind == TokenChar && t.Char == r
}

// IsLetter reports whether t is an ASCII letter character token.
func (t Token) IsLetter() bool {
	return t.Kind == TokenChar && isLetter(t.Char)
}

// IsBlank reports whether t is a space or a comment.
func (t Token) IsBlank() bool {
	return t.Kind == TokenSpace || t.Kind == TokenComment
}

// String renders the token as TeX source without any context-dependent spacing.
func (t Token) String() string {
	switch t.Kind {
	case TokenControlSeq:
		return `\` + t.Text
	case TokenBeginGroup:
		return "{"
	case TokenEndGroup:
		return "}"
	case TokenParam:
		return "#" + strconv.Itoa(t.Num)
	case TokenDeferredParam:
		return "##" + strconv.Itoa(t.Num)
	case TokenChar, TokenActiveChar:
		return string(t.Char)
	case TokenSpace:
		return " "
	case TokenComment:
		return "%" + t.Text + "\n"
	case TokenMathShift:
		return "$"
	case TokenAlignTab:
		return "&"
	case TokenSuperscript:
		return "^"
	case TokenSubscript:
		return "_"
	}
	return ""
}

// Describe returns a debugging form such as ControlSeq(frac) or Param(1).
func (t Token) Describe() string {
	switch t.Kind {
	case TokenControlSeq, TokenComment:
		return t.Kind.String() + "(" + t.Text + ")"
	case TokenChar, TokenActiveChar:
		return t.Kind.String() + "(" + strconv.QuoteRune(t.Char) + ")"
	case TokenParam, TokenDeferredParam:
		return t.Kind.String() + "(" + strconv.Itoa(t.Num) + ")"
	}
	return t.Kind.String()
}

// TokenList is an ordered, owned sequence of tokens.
type TokenList []Token

// String concatenates the tokens without separating spaces.
// Use Detokenize when the text must re-tokenize to the same list.
func (tl TokenList) String() string {
	var sb strings.Builder
	for _, t := range tl {
		sb.WriteString(t.String())
	}
	return sb.String()
}

// Clone returns a copy that does not share storage with tl.
func (tl TokenList) Clone() TokenList {
	if tl == nil {
		return nil
	}
	out := make(TokenList, len(tl))
	copy(out, tl)
	return out
}

// PromoteDeferred returns a copy of tl in which every ##n becomes #n.
// A macro body that defines a nested macro is rewritten this way when the
// outer macro is invoked.
func (tl TokenList) PromoteDeferred() TokenList {
	out := tl.Clone()
	for i, t := range out {
		if t.Kind == TokenDeferredParam {
			out[i] = Param(t.Num)
		}
	}
	return out
}

// PlainText collects the Char tokens of tl, dropping everything else.
func (tl TokenList) PlainText() string {
	var sb strings.Builder
	for _, t := range tl {
		if t.Kind == TokenChar {
			sb.WriteRune(t.Char)
		}
	}
	return sb.String()
}

// Detokenize converts a token list back to source text. A space is inserted
// after an alphabetic control word when the next token is a letter or
// another control sequence, so the result tokenizes back to tl.
func Detokenize(tl TokenList) string {
	var sb strings.Builder
	for i, t := range tl {
		sb.WriteString(t.String())
		if t.Kind != TokenControlSeq || !isControlWord(t.Text) || i+1 >= len(tl) {
			continue
		}
		next := tl[i+1]
		if next.IsLetter() || next.Kind == TokenControlSeq {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isControlWord reports whether name is a non-empty run of ASCII letters.
func isControlWord(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !isLetter(r) {
			return false
		}
	}
	return true
}
