package tex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStream_ReadGroup(t *testing.T) {
	s := NewTokenStream(Tokenize(` {a{b}c} d`), 0, nil)

	group, ok := s.ReadGroup()
	require.True(t, ok)
	assert.Equal(t, "a{b}c", group.String())
	assert.Equal(t, TokenList{Space, Char('d')}, s.Rest())
}

func TestTokenStream_ReadGroupEmpty(t *testing.T) {
	s := NewTokenStream(Tokenize(`{}`), 0, nil)

	group, ok := s.ReadGroup()
	require.True(t, ok)
	assert.NotNil(t, group)
	assert.Empty(t, group)
	assert.True(t, s.Done())
}

func TestTokenStream_ReadGroupMissing(t *testing.T) {
	s := NewTokenStream(Tokenize(`x{y}`), 0, nil)

	_, ok := s.ReadGroup()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Pos())
}

func TestTokenStream_ReadOptional(t *testing.T) {
	s := NewTokenStream(Tokenize(` [a{]}b] c`), 0, nil)

	span, ok := s.ReadOptional()
	require.True(t, ok)
	assert.Equal(t, "a{]}b", span.String())
	assert.Equal(t, TokenList{Space, Char('c')}, s.Rest())

	_, ok = NewTokenStream(Tokenize(`{x}`), 0, nil).ReadOptional()
	assert.False(t, ok)
}

func TestTokenStream_ReadArgument(t *testing.T) {
	s := NewTokenStream(Tokenize(`x {yz} \w`), 0, nil)

	assert.Equal(t, TokenList{Char('x')}, s.ReadArgument())
	assert.Equal(t, TokenList{Char('y'), Char('z')}, s.ReadArgument())
	assert.Equal(t, TokenList{CS("w")}, s.ReadArgument())
	assert.Equal(t, TokenList{}, s.ReadArgument())
}

func TestTokenStream_ReadNumber(t *testing.T) {
	s := NewTokenStream(Tokenize(" 12x"), 0, nil)

	n, ok := s.ReadNumber()
	require.True(t, ok)
	assert.Equal(t, 12, n)
	assert.True(t, s.PeekChar('x'))

	_, ok = s.ReadNumber()
	assert.False(t, ok)
}

func TestTokenStream_ReadControlSeqName(t *testing.T) {
	s := NewTokenStream(Tokenize(`  \foo x`), 0, nil)

	name, ok := s.ReadControlSeqName()
	require.True(t, ok)
	assert.Equal(t, "foo", name)

	_, ok = s.ReadControlSeqName()
	assert.False(t, ok)
}

func TestTokenStream_GroupCeiling(t *testing.T) {
	log := &LossLog{Quiet: true}
	s := NewTokenStream(Tokenize(`{abcdef}`), 3, log)

	group, ok := s.ReadGroup()
	require.True(t, ok)
	assert.Equal(t, "abc", group.String())
	assert.Equal(t, "def}", s.Rest().String())
	assert.Equal(t, 1, log.Count(LossGroupTruncated))
}

func TestTokenStream_BracketCeiling(t *testing.T) {
	log := &LossLog{Quiet: true}
	s := NewTokenStream(Tokenize(`[`+strings.Repeat("a", 10)+`]`), 4, log)

	span, ok := s.ReadOptional()
	require.True(t, ok)
	assert.Len(t, span, 4)
	assert.Equal(t, 1, log.Count(LossGroupTruncated))
}

func TestNewSignature(t *testing.T) {
	tests := []struct {
		name  string
		parts []PatternPart
		want  string
		args  int
	}{
		{"no parts", nil, "Simple(0)", 0},
		{"in order", []PatternPart{ArgumentPart{1}, ArgumentPart{2}}, "Simple(2)", 2},
		{"out of order", []PatternPart{ArgumentPart{2}, ArgumentPart{1}}, "Pattern(#2 #1)", 2},
		{"literal between", []PatternPart{
			ArgumentPart{1}, LiteralPart{TokenList{Char('=')}}, ArgumentPart{2},
		}, `Pattern(#1 "=" #2)`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := newSignature(tt.parts)
			assert.Equal(t, tt.want, sig.String())
			assert.Equal(t, tt.args, sig.NumArgs())
		})
	}
}

func TestPatternSignature_Literals(t *testing.T) {
	sig := PatternSignature{Parts: []PatternPart{
		LiteralPart{TokenList{Char('(')}},
		ArgumentPart{1},
		LiteralPart{TokenList{Char(')')}},
	}}
	assert.Equal(t, []string{"(", ")"}, sig.Literals())
}
