package table

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

func newTestOptions(t *testing.T, input string) (*tableOptions, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	for _, v := range config.EnvVars() {
		t.Setenv(v, "")
	}
	var out, errOut bytes.Buffer
	return &tableOptions{Options: &cmdutil.Options{
		ConfigPath: filepath.Join(t.TempDir(), "config.yml"),
		NoColor:    true,
		In:         strings.NewReader(input),
		Out:        &out,
		Err:        &errOut,
	}}, &out, &errOut
}

func TestRunTable_WithSpec(t *testing.T) {
	opts, out, errOut := newTestOptions(t, "A|||CELL|||B|||ROW|||1|||CELL|||2\n")
	opts.spec = "|l|r|"

	err := runTable(nil, opts)
	require.NoError(t, err)

	want := "#table(\n" +
		"    columns: (auto, auto),\n" +
		"    align: (left, right),\n" +
		"    [A], [B],\n" +
		"    [1], [2],\n" +
		")\n"
	assert.Equal(t, want, out.String())
	assert.Empty(t, errOut.String())
}

func TestRunTable_DefaultAlign(t *testing.T) {
	opts, out, _ := newTestOptions(t, "A|||CELL|||B|||CELL|||C")
	t.Setenv("L2T_DEFAULT_ALIGN", "c")

	err := runTable(nil, opts)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "align: (center, center, center)")
}

func TestRunTable_JSON(t *testing.T) {
	opts, out, _ := newTestOptions(t, "A|||CELL|||___TYPST_CELL___:table.cell(colspan: 2)[W]|||ROW|||x")
	opts.spec = "lc"
	opts.Output = "json"

	err := runTable(nil, opts)
	require.NoError(t, err)

	var result tableResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 3, result.Columns)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, []string{"left", "center", "auto"}, result.Aligns)
	assert.Contains(t, result.Typst, "table.cell(colspan: 2)[W]")
}

func TestRunTable_LossSummary(t *testing.T) {
	opts, out, errOut := newTestOptions(t, "Only|||ROW|||A|||CELL|||B")
	opts.spec = "ll"

	err := runTable(nil, opts)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[Only], []")
	assert.Contains(t, errOut.String(), "table.short_row")
}

func TestNewCmdTable(t *testing.T) {
	cmd := NewCmdTable()

	assert.Equal(t, "table [file|-]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("spec"))
	assert.Contains(t, cmd.Long, "|||ROW|||")
}
