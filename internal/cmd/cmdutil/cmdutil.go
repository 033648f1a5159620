// Package cmdutil holds the plumbing shared by the conversion commands:
// global flags, config resolution, input reading and the loss report.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/latex-typst/internal/config"
	"github.com/open-cli-collective/latex-typst/internal/view"
	"github.com/open-cli-collective/latex-typst/pkg/tex"
)

// Options carries the global flags and the streams a command reads and writes.
type Options struct {
	ConfigPath   string
	Output       string
	NoColor      bool
	Report       bool
	ReportFormat string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// FromCommand collects the global flags of cmd and its standard streams.
func FromCommand(cmd *cobra.Command) *Options {
	opts := &Options{
		In:  cmd.InOrStdin(),
		Out: cmd.OutOrStdout(),
		Err: cmd.ErrOrStderr(),
	}
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.Output, _ = cmd.Flags().GetString("output")
	opts.NoColor, _ = cmd.Flags().GetBool("no-color")
	opts.Report, _ = cmd.Flags().GetBool("report")
	opts.ReportFormat, _ = cmd.Flags().GetString("report-format")
	return opts
}

// Session is the resolved state of one command invocation.
type Session struct {
	Config   *config.Config
	Renderer *view.Renderer
	Loss     *tex.LossLog

	opts *Options
}

// Start resolves the configuration, applies flag overrides and prepares
// the renderer and loss log.
func (o *Options) Start() (*Session, error) {
	if err := view.ValidateFormat(o.Output); err != nil {
		return nil, err
	}

	path := o.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'l2t init' to configure)", err)
	}

	if o.Output != "" {
		cfg.OutputFormat = o.Output
	}
	if o.ReportFormat != "" {
		cfg.ReportFormat = o.ReportFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'l2t init' to configure)", err)
	}

	renderer := view.NewRenderer(view.Format(cfg.OutputFormat), o.NoColor)
	renderer.SetWriter(o.stdout())

	return &Session{
		Config:   cfg,
		Renderer: renderer,
		Loss:     &tex.LossLog{Quiet: true},
		opts:     o,
	}, nil
}

// ErrNoInput is returned when source would be read from an interactive terminal.
var ErrNoInput = errors.New("no input: pass a file or pipe LaTeX on standard input")

// ReadInput returns the source named by args: a file path, or standard
// input for "-" or when no argument is given.
func (o *Options) ReadInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		in := o.In
		if in == nil {
			in = os.Stdin
		}
		if len(args) == 0 && isTerminal(in) {
			return "", ErrNoInput
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (o *Options) stdout() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func (o *Options) stderr() io.Writer {
	if o.Err == nil {
		return os.Stderr
	}
	return o.Err
}

// JSON reports whether the session renders JSON.
func (s *Session) JSON() bool {
	return s.Renderer.Format() == view.FormatJSON
}

// Finish writes the loss report to the error stream. With --report the full
// report is written in the configured format; otherwise only a summary, and
// only when something was lost.
func (s *Session) Finish() error {
	w := s.opts.stderr()

	if !s.opts.Report {
		r := view.NewRenderer(view.FormatTable, s.opts.NoColor)
		r.SetWriter(w)
		r.RenderLossSummary(s.Loss.Entries)
		return nil
	}

	if s.Config.ReportFormat == config.ReportHTML {
		html, err := tex.RenderLossHTML(s.Loss.Entries)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	}

	_, err := io.WriteString(w, tex.RenderLossMarkdown(s.Loss.Entries))
	return err
}
