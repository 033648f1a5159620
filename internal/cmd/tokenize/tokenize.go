// Package tokenize provides the tokenize command.
package tokenize

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/latex-typst/internal/cmd/cmdutil"
	"github.com/open-cli-collective/latex-typst/pkg/tex"
)

type tokenizeOptions struct {
	*cmdutil.Options
	detokenize bool
}

// tokenRow is the JSON form of one token.
type tokenRow struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Token string `json:"token"`
	Text  string `json:"text"`
	Env   string `json:"env,omitempty"`
}

// NewCmdTokenize creates the tokenize command.
func NewCmdTokenize() *cobra.Command {
	opts := &tokenizeOptions{}

	cmd := &cobra.Command{
		Use:   "tokenize [file|-]",
		Short: "Split LaTeX source into TeX tokens",
		Long: `Tokenize LaTeX source the way TeX's input processor does.

Each token is listed with the innermost environment it appears in.
Reads from standard input when no file is given.`,
		Example: `  # List the tokens of a file
  l2t tokenize paper.tex

  # Tokenize standard input as JSON
  echo '\frac{a}{b}' | l2t tokenize -o json

  # Print the canonical source text of the token stream
  l2t tokenize paper.tex --detokenize`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Options = cmdutil.FromCommand(cmd)
			return runTokenize(args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.detokenize, "detokenize", false, "Print the detokenized text instead of the token list")

	return cmd
}

func runTokenize(args []string, opts *tokenizeOptions) error {
	s, err := opts.Start()
	if err != nil {
		return err
	}

	src, err := opts.ReadInput(args)
	if err != nil {
		return err
	}

	tokens := tex.TokenizeWithLoss(src, s.Loss)

	if opts.detokenize {
		s.Renderer.RenderText(tex.Detokenize(tokens))
		return s.Finish()
	}

	var env tex.EnvStack
	rows := make([]tokenRow, 0, len(tokens))
	for i, tok := range tokens {
		// \begin is listed inside the environment it opens; \end inside the one it closes.
		closing := tok.IsCS("end")
		before, _ := env.Top()
		env.Track(tokens, i)
		top, _ := env.Top()
		if closing {
			top = before
		}
		rows = append(rows, tokenRow{
			Index: i,
			Kind:  tok.Kind.String(),
			Token: tok.Describe(),
			Text:  tok.String(),
			Env:   top,
		})
	}

	if s.JSON() {
		if err := s.Renderer.RenderJSON(rows); err != nil {
			return err
		}
		return s.Finish()
	}

	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{strconv.Itoa(r.Index), r.Token, r.Env}
	}
	s.Renderer.RenderTable([]string{"INDEX", "TOKEN", "ENV"}, table)

	return s.Finish()
}
