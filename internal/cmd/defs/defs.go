// Package defs provides the defs command.
package defs

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/latex-typst/internal/cmd/cmdutil"
	"github.com/open-cli-collective/latex-typst/pkg/tex"
)

type defsOptions struct {
	*cmdutil.Options
	remaining bool
}

// definitionRow is the JSON form of one definition record.
type definitionRow struct {
	Kind      string   `json:"kind"`
	Name      string   `json:"name"`
	Source    string   `json:"source"`
	Arity     int      `json:"arity"`
	Signature string   `json:"signature"`
	Names     []string `json:"names,omitempty"`
}

// NewCmdDefs creates the defs command.
func NewCmdDefs() *cobra.Command {
	opts := &defsOptions{}

	cmd := &cobra.Command{
		Use:   "defs [file|-]",
		Short: "Extract macro and environment definitions",
		Long: `Extract the macro, environment, conditional and operator definitions
from LaTeX source.

Recognized forms include \newcommand, \renewcommand, \providecommand,
\DeclareRobustCommand, \NewDocumentCommand, \def, \gdef, \edef, \xdef,
\let, \newenvironment, \newif and \DeclareMathOperator. Definitions whose
syntax does not parse are left in the source and noted in the loss report.`,
		Example: `  # List the definitions in a preamble
  l2t defs preamble.tex

  # Strip the definitions and print what is left
  l2t defs paper.tex --remaining

  # JSON output
  l2t defs preamble.tex -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Options = cmdutil.FromCommand(cmd)
			return runDefs(args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.remaining, "remaining", false, "Print the source with definitions removed")

	return cmd
}

func runDefs(args []string, opts *defsOptions) error {
	s, err := opts.Start()
	if err != nil {
		return err
	}

	src, err := opts.ReadInput(args)
	if err != nil {
		return err
	}

	parser := tex.NewDefinitionParser(s.Config.GroupLimit(), s.Loss)
	defs, rest := parser.ParseDefinitions(tex.TokenizeWithLoss(src, s.Loss))

	if opts.remaining {
		s.Renderer.RenderText(tex.Detokenize(rest))
		return s.Finish()
	}

	rows := make([]definitionRow, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, newDefinitionRow(d))
	}

	if s.JSON() {
		if err := s.Renderer.RenderJSON(rows); err != nil {
			return err
		}
		return s.Finish()
	}

	table := make([][]string, len(rows))
	for i, r := range rows {
		name := `\` + r.Name
		if len(r.Names) > 0 {
			name = `\` + strings.Join(r.Names, `, \`)
		}
		table[i] = []string{r.Kind, name, `\` + r.Source, strconv.Itoa(r.Arity), r.Signature}
	}
	s.Renderer.RenderTable([]string{"KIND", "NAME", "SOURCE", "ARITY", "SIGNATURE"}, table)

	return s.Finish()
}

func newDefinitionRow(d tex.Definition) definitionRow {
	row := definitionRow{
		Kind:      tex.DefinitionKind(d),
		Name:      d.MacroName(),
		Source:    d.Source(),
		Arity:     d.Arity(),
		Signature: tex.DescribeSignature(d),
	}
	switch d := d.(type) {
	case tex.EnvironmentDef:
		row.Names = d.MacroNames()
	case tex.NewIfDef:
		row.Names = d.MacroNames()
	}
	return row
}
