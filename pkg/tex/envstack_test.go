package tex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvStack_PushPop(t *testing.T) {
	var s EnvStack

	_, ok := s.Pop()
	assert.False(t, ok)

	s.Push("document")
	s.Push("tabular")
	top, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, "tabular", top)
	assert.Equal(t, 2, s.Depth())
	assert.True(t, s.Within("document"))
	assert.False(t, s.Within("longtable"))

	name, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, "tabular", name)
	assert.Equal(t, 1, s.Depth())
}

func TestEnvStack_Enter(t *testing.T) {
	var s EnvStack
	s.Push("document")

	err := s.Enter("align", func() error {
		assert.True(t, s.Within("align"))
		return s.Enter("cases", func() error {
			assert.Equal(t, 3, s.Depth())
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Depth())
}

func TestEnvStack_EnterRestoresOnError(t *testing.T) {
	var s EnvStack
	sentinel := errors.New("boom")

	err := s.Enter("tabular", func() error {
		s.Push("leaked")
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Zero(t, s.Depth())
}

func TestEnvStack_EnterRestoresOnPanic(t *testing.T) {
	var s EnvStack
	s.Push("document")

	assert.Panics(t, func() {
		_ = s.Enter("matrix", func() error {
			panic("malformed node")
		})
	})
	assert.Equal(t, 1, s.Depth())
	top, _ := s.Top()
	assert.Equal(t, "document", top)
}

func TestEnvStack_Track(t *testing.T) {
	toks := Tokenize(`\begin{document}\begin{tabular}x\end{tabular}\begin{align}\end{document}y\end{bogus}`)
	var s EnvStack
	var depths []int
	for i := range toks {
		if s.Track(toks, i) {
			depths = append(depths, s.Depth())
		}
	}

	assert.Equal(t, []int{1, 2, 1, 2, 0, 0}, depths)
	assert.False(t, s.Track(toks, len(toks)))
	assert.False(t, s.Track(Tokenize(`\begin x`), 0))
}
