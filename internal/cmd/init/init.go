// Package init provides the init command for l2t.
package init

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/latex-typst/internal/config"
	"github.com/open-cli-collective/latex-typst/internal/view"
)

type initOptions struct {
	maxGroupTokens int
	defaultAlign   string
	defaults       bool
	force          bool
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize l2t configuration",
		Long: `Initialize l2t with your conversion preferences.

This command will guide you through choosing the output format, the loss
report format, the default table column alignment and the token ceiling
for a single braced group. The configuration will be saved to
~/.config/l2t/config.yml.`,
		Example: `  # Interactive setup
  l2t init

  # Write the defaults without prompting
  l2t init --defaults

  # Pre-populate the group ceiling
  l2t init --max-group-tokens 5000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runInit(path, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.maxGroupTokens, "max-group-tokens", 0, "Token ceiling for a single braced group (default 10000)")
	cmd.Flags().StringVar(&opts.defaultAlign, "default-align", "", "Default column alignment: l, c, r")
	cmd.Flags().BoolVar(&opts.defaults, "defaults", false, "Save without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config without asking")

	return cmd
}

func runInit(configPath string, opts *initOptions, w io.Writer) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.defaults {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		MaxGroupTokens: opts.maxGroupTokens,
		OutputFormat:   string(view.FormatTable),
		ReportFormat:   config.ReportMarkdown,
		DefaultAlign:   "l",
	}
	if opts.defaultAlign != "" {
		cfg.DefaultAlign = opts.defaultAlign
	}

	if !opts.defaults {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(w, "\nYou're all set! Try running:")
	fmt.Fprintln(w, "  l2t tokenize paper.tex")
	fmt.Fprintln(w, "  l2t defs preamble.tex")
	fmt.Fprintln(w, `  l2t delim '\left| x \right|'`)

	return nil
}

func promptConfig(cfg *config.Config) error {
	ceiling := ""
	if cfg.MaxGroupTokens > 0 {
		ceiling = strconv.Itoa(cfg.MaxGroupTokens)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Description("How commands print their results").
				Options(huh.NewOptions(view.ValidFormats()...)...).
				Value(&cfg.OutputFormat),

			huh.NewSelect[string]().
				Title("Report format").
				Description("Format of the loss report printed with --report").
				Options(huh.NewOptions(config.ReportMarkdown, config.ReportHTML)...).
				Value(&cfg.ReportFormat),

			huh.NewSelect[string]().
				Title("Default column alignment").
				Description("Used when a table is converted without a column spec").
				Options(
					huh.NewOption("left", "l"),
					huh.NewOption("center", "c"),
					huh.NewOption("right", "r"),
				).
				Value(&cfg.DefaultAlign),

			huh.NewInput().
				Title("Group token ceiling (optional)").
				Description("Maximum tokens read for one braced group; empty keeps the default").
				Placeholder("10000").
				Value(&ceiling).
				Validate(func(s string) error {
					_, err := parseGroupLimit(s)
					return err
				}),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	n, err := parseGroupLimit(ceiling)
	if err != nil {
		return err
	}
	cfg.MaxGroupTokens = n
	return nil
}

// parseGroupLimit reads the ceiling prompt. Empty means the default (0).
func parseGroupLimit(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("ceiling must be a positive whole number")
	}
	return n, nil
}
