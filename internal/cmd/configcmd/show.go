package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/latex-typst/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective l2t configuration and where each value comes from.`,
		Example: `  # Show current config
  l2t config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(configPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(configPath string, noColor bool, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, fallback, envVar string) {
		_, _ = bold.Fprintf(w, "%-18s", label+":")

		source := "config"
		switch {
		case value == "":
			value, source = fallback, "default"
		case os.Getenv(envVar) != "":
			source = envVar
		case fileValue != value:
			source = "-"
		}

		fmt.Fprint(w, value)
		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	itoa := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}

	printField("Max group tokens", itoa(cfg.MaxGroupTokens), itoa(fileCfg.MaxGroupTokens),
		strconv.Itoa(cfg.GroupLimit()), "L2T_MAX_GROUP_TOKENS")
	printField("Output format", cfg.OutputFormat, fileCfg.OutputFormat, "table", "L2T_OUTPUT_FORMAT")
	printField("Report format", cfg.ReportFormat, fileCfg.ReportFormat, config.ReportMarkdown, "L2T_REPORT_FORMAT")
	printField("Default align", cfg.DefaultAlign, fileCfg.DefaultAlign, cfg.Align().Typst(), "L2T_DEFAULT_ALIGN")

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}
