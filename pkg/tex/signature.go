// signature.go defines the normalized argument model every macro definition is reduced to.
package tex

import (
	"strconv"
	"strings"
)

// Signature describes how a macro's arguments are matched at a call site.
// It is either a SimpleSignature or a PatternSignature.
type Signature interface {
	NumArgs() int
	String() string
	isSignature()
}

// SimpleSignature is the fast path: exactly Arity undelimited arguments #1..#N.
type SimpleSignature struct {
	Arity int
}

// PatternSignature holds TeX-style delimited parameter text, e.g. #1=#2.
type PatternSignature struct {
	Parts []PatternPart
}

// PatternPart is one element of a PatternSignature: ArgumentPart or LiteralPart.
type PatternPart interface {
	isPatternPart()
}

// ArgumentPart is a parameter placeholder #N.
type ArgumentPart struct {
	N int
}

// LiteralPart is a run of tokens that must appear verbatim at the call site.
type LiteralPart struct {
	Tokens TokenList
}

func (SimpleSignature) isSignature()  {}
func (PatternSignature) isSignature() {}
func (ArgumentPart) isPatternPart()   {}
func (LiteralPart) isPatternPart()    {}

// NumArgs returns the declared arity.
func (s SimpleSignature) NumArgs() int { return s.Arity }

// NumArgs returns the highest argument number in the pattern.
func (s PatternSignature) NumArgs() int {
	n := 0
	for _, p := range s.Parts {
		if a, ok := p.(ArgumentPart); ok && a.N > n {
			n = a.N
		}
	}
	return n
}

func (s SimpleSignature) String() string {
	return "Simple(" + strconv.Itoa(s.Arity) + ")"
}

func (s PatternSignature) String() string {
	parts := make([]string, 0, len(s.Parts))
	for _, p := range s.Parts {
		switch p := p.(type) {
		case ArgumentPart:
			parts = append(parts, "#"+strconv.Itoa(p.N))
		case LiteralPart:
			parts = append(parts, strconv.Quote(p.Tokens.String()))
		}
	}
	return "Pattern(" + strings.Join(parts, " ") + ")"
}

// Literals returns the literal runs of the pattern rendered as text.
func (s PatternSignature) Literals() []string {
	var out []string
	for _, p := range s.Parts {
		if l, ok := p.(LiteralPart); ok {
			out = append(out, l.Tokens.String())
		}
	}
	return out
}

// newSignature collapses parts to a SimpleSignature when they are exactly
// the placeholders #1..#N in order with no literal tokens between them.
func newSignature(parts []PatternPart) Signature {
	for i, p := range parts {
		a, ok := p.(ArgumentPart)
		if !ok || a.N != i+1 {
			return PatternSignature{Parts: parts}
		}
	}
	return SimpleSignature{Arity: len(parts)}
}
