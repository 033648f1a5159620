// Package delim provides the delim command.
package delim

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/latex-typst/internal/cmd/cmdutil"
	"github.com/open-cli-collective/latex-typst/pkg/tex"
)

// delimResult is the JSON form of a converted \left...\right group.
type delimResult struct {
	Class string `json:"class"`
	Typst string `json:"typst"`
	Rest  string `json:"rest,omitempty"`
}

// NewCmdDelim creates the delim command.
func NewCmdDelim() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delim <expr|->",
		Short: "Convert a \\left...\\right group to Typst",
		Long: `Classify the delimiters of the first \left...\right group in a math
expression and print the Typst it converts to.

Vertical bars become abs(...), double bars norm(...), natural pairs such as
( ) [ ] { } are kept bare, and everything else is wrapped in lr(...).
Pass "-" to read the expression from standard input.`,
		Example: `  # Absolute value
  l2t delim '\left| x \right|'

  # Half-open interval
  l2t delim '\left[ 0, 1 \right)'

  # JSON output
  l2t delim '\left\langle u, v \right\rangle' -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelim(args[0], cmdutil.FromCommand(cmd))
		},
	}

	return cmd
}

func runDelim(expr string, opts *cmdutil.Options) error {
	s, err := opts.Start()
	if err != nil {
		return err
	}

	if expr == "-" {
		if expr, err = opts.ReadInput(nil); err != nil {
			return err
		}
	}

	out, class, rest, ok := tex.ConvertLRTokens(tex.TokenizeWithLoss(strings.TrimSpace(expr), s.Loss), s.Loss)
	if !ok {
		return errors.New(`no \left found in expression`)
	}

	result := delimResult{
		Class: class.String(),
		Typst: strings.TrimSpace(out),
		Rest:  strings.TrimSpace(tex.Detokenize(rest)),
	}

	if s.JSON() {
		if err := s.Renderer.RenderJSON(result); err != nil {
			return err
		}
		return s.Finish()
	}

	s.Renderer.RenderKeyValue("Class", result.Class)
	s.Renderer.RenderKeyValue("Typst", result.Typst)
	if result.Rest != "" {
		s.Renderer.RenderKeyValue("Rest", result.Rest)
	}
	return s.Finish()
}
