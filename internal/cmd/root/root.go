// Package root provides the root command for the l2t CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/latex-typst/internal/cmd/completion"
	"github.com/open-cli-collective/latex-typst/internal/cmd/configcmd"
	"github.com/open-cli-collective/latex-typst/internal/cmd/defs"
	"github.com/open-cli-collective/latex-typst/internal/cmd/delim"
	initcmd "github.com/open-cli-collective/latex-typst/internal/cmd/init"
	"github.com/open-cli-collective/latex-typst/internal/cmd/table"
	"github.com/open-cli-collective/latex-typst/internal/cmd/tokenize"
	"github.com/open-cli-collective/latex-typst/internal/version"
)

// NewCmdRoot creates the root command for l2t.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "l2t",
		Short: "Inspect and convert LaTeX constructs for Typst",
		Long: `l2t reads LaTeX source and shows how it maps onto Typst.

It tokenizes source, extracts macro definitions, classifies
\left...\right delimiter pairs and rebuilds tabular grids as
Typst table() calls. Anything that cannot be converted exactly
is recorded and can be printed with --report.

Get started by running: l2t init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/l2t/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, plain (default from config, else table)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().Bool("report", false, "print the lossy-conversion report to stderr")
	cmd.PersistentFlags().String("report-format", "", "report format: markdown, html")

	cmd.SetVersionTemplate("l2t version " + version.String() + "\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(tokenize.NewCmdTokenize())
	cmd.AddCommand(defs.NewCmdDefs())
	cmd.AddCommand(table.NewCmdTable())
	cmd.AddCommand(delim.NewCmdDelim())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
