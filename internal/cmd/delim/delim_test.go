package delim

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/latex-typst/internal/cmd/cmdutil"
	"github.com/open-cli-collective/latex-typst/internal/config"
)

func newTestOptions(t *testing.T) (*cmdutil.Options, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	for _, v := range config.EnvVars() {
		t.Setenv(v, "")
	}
	var out, errOut bytes.Buffer
	return &cmdutil.Options{
		ConfigPath: filepath.Join(t.TempDir(), "config.yml"),
		NoColor:    true,
		Out:        &out,
		Err:        &errOut,
	}, &out, &errOut
}

func TestRunDelim(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		wantClass string
		wantTypst string
	}{
		{"abs", `\left| x \right|`, "abs", "abs(x)"},
		{"norm", `\left\| v \right\|`, "norm", "norm(v)"},
		{"natural", `\left( a+b \right)`, "natural", "( a+b )"},
		{"cross paired", `\left[ 0, 1 \right)`, "cross-paired", "lr([ 0, 1 ))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, out, _ := newTestOptions(t)
			opts.Output = "json"

			err := runDelim(tt.expr, opts)
			require.NoError(t, err)

			var result delimResult
			require.NoError(t, json.Unmarshal(out.Bytes(), &result))
			assert.Equal(t, tt.wantClass, result.Class)
			assert.Equal(t, tt.wantTypst, result.Typst)
			assert.Empty(t, result.Rest)
		})
	}
}

func TestRunDelim_TableOutput(t *testing.T) {
	opts, out, _ := newTestOptions(t)

	err := runDelim(`\left| x \right| + y`, opts)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Class: abs")
	assert.Contains(t, output, "Typst: abs(x)")
	assert.Contains(t, output, "Rest: + y")
}

func TestRunDelim_Stdin(t *testing.T) {
	opts, out, _ := newTestOptions(t)
	opts.In = strings.NewReader("\\left\\langle u \\right\\rangle\n")

	err := runDelim("-", opts)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "lr(chevron.l u chevron.r)")
}

func TestRunDelim_MissingRight(t *testing.T) {
	opts, out, errOut := newTestOptions(t)
	opts.Report = true

	err := runDelim(`\left( x`, opts)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Class: missing")
	assert.Contains(t, errOut.String(), "math.missing_delimiter")
}

func TestRunDelim_NoLeft(t *testing.T) {
	opts, _, _ := newTestOptions(t)

	err := runDelim(`x + y`, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no \left found`)
}
