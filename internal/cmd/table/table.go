// Package table provides the table command.
package table

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/latex-typst/internal/cmd/cmdutil"
	"github.com/open-cli-collective/latex-typst/pkg/tex"
)

type tableOptions struct {
	*cmdutil.Options
	spec string
}

// tableResult is the JSON form of a converted table.
type tableResult struct {
	Columns int      `json:"columns"`
	Rows    int      `json:"rows"`
	Aligns  []string `json:"aligns"`
	Typst   string   `json:"typst"`
}

// NewCmdTable creates the table command.
func NewCmdTable() *cobra.Command {
	opts := &tableOptions{}

	cmd := &cobra.Command{
		Use:   "table [file|-]",
		Short: "Convert a marker-delimited table to a Typst table",
		Long: `Convert a table body in marker form to a Typst #table(...) call.

Rows are separated by ` + tex.RowMarker + `, cells by ` + tex.CellMarker + ` and horizontal
rules by ` + tex.HLineMarker + `. A cell starting with ` + tex.SpecialCellPrefix + ` carries a
pre-rendered table.cell(...) with row and column spans.

Column alignment comes from --spec, a tabular preamble such as "|l|c|r|".
Without it every column uses default_align from the configuration.`,
		Example: `  # Convert with an explicit column spec
  l2t table body.txt --spec "lcr"

  # Read from standard input
  printf 'A|||CELL|||B|||ROW|||1|||CELL|||2' | l2t table --spec "|l|r|"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Options = cmdutil.FromCommand(cmd)
			return runTable(args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.spec, "spec", "", "Tabular column spec, e.g. \"l|c|r\"")

	return cmd
}

func runTable(args []string, opts *tableOptions) error {
	s, err := opts.Start()
	if err != nil {
		return err
	}

	src, err := opts.ReadInput(args)
	if err != nil {
		return err
	}

	aligns := tex.ColumnAligns(tex.ParseColumnSpec(opts.spec))
	grid := tex.BuildGrid(src, aligns, s.Loss)
	cols := grid.EffectiveCols(len(aligns))
	if len(aligns) == 0 {
		// No spec: every column takes the configured default alignment.
		grid.Aligns = make([]tex.CellAlign, cols)
		for i := range grid.Aligns {
			grid.Aligns[i] = s.Config.Align()
		}
	}
	out := grid.GenerateTypst(max(len(aligns), 1))

	if !s.JSON() {
		s.Renderer.RenderText(strings.TrimSuffix(out, "\n"))
		return s.Finish()
	}

	result := tableResult{
		Columns: cols,
		Rows:    len(grid.Rows),
		Aligns:  make([]string, cols),
		Typst:   out,
	}
	for i := range result.Aligns {
		a := tex.AlignAuto
		if i < len(grid.Aligns) {
			a = grid.Aligns[i]
		}
		result.Aligns[i] = a.Typst()
	}
	if err := s.Renderer.RenderJSON(result); err != nil {
		return err
	}
	return s.Finish()
}
