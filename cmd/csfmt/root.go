package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"csfmt/internal/config"
	"csfmt/internal/csharp"
	fmterrors "csfmt/internal/errors"
	"csfmt/internal/format"
	"csfmt/internal/slogutil"
	"csfmt/internal/version"
	"csfmt/internal/workspace"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	// Persistent flags.
	configPath string
	verbosity  int
	quiet      bool
	colorMode  string
	jobs       int

	// parser overrides the C# parser; tests inject fakes here.
	parser workspace.Parser
	fs     afero.Fs
	stdin  io.Reader

	// Set by the root PersistentPreRunE.
	cfg       *config.Config
	logger    *slog.Logger
	formatter *format.Formatter
}

func newRootCmd(a *app) *cobra.Command {
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.stdin == nil {
		a.stdin = os.Stdin
	}

	root := &cobra.Command{
		Use:   "csfmt",
		Short: "csfmt - deterministic C# source formatter",
		Long: `csfmt rewrites C# source files in a single canonical layout.

Formatting is deterministic and idempotent: the same syntax tree always
produces the same text, and formatting formatted output changes nothing.
Files with syntax errors are reported and left untouched.`,
		Version:           version.Info(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate("csfmt version {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmterrors.New(fmterrors.ConfigInvalid, err.Error(), nil)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a config file (default: .csfmt.{toml,json,yaml} in the working directory)")
	flags.CountVarP(&a.verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Suppress all log output")
	flags.StringVar(&a.colorMode, "color", "auto", "Color output: auto, always or never")
	flags.IntVarP(&a.jobs, "jobs", "j", 0, "Files formatted concurrently (default: config files.jobs, then GOMAXPROCS)")

	root.AddCommand(newFmtCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// setup loads the configuration and builds the logger and formatter.
// Precedence: CLI flags > CSFMT_* environment > config file > defaults.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	switch a.colorMode {
	case "auto", "always", "never":
	default:
		return fmterrors.New(fmterrors.ConfigInvalid, "--color must be auto, always or never", nil)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("jobs") {
		if a.jobs < 0 {
			return fmterrors.New(fmterrors.ConfigInvalid, "--jobs must not be negative", nil)
		}
		cfg.Files.Jobs = a.jobs
	}
	a.cfg = cfg

	a.logger = slogutil.FromConfig(cmd.ErrOrStderr(), cfg, slogutil.Flags{
		Verbosity: a.verbosity,
		Quiet:     a.quiet,
	})

	a.formatter, err = format.New(cfg.FormatStyle())
	if err != nil {
		return fmterrors.New(fmterrors.ConfigInvalid, "invalid style", err)
	}
	a.logger.Debug("configuration loaded", "config", a.configPath, "jobs", cfg.Files.Jobs)
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.LoadConfigFromPath(a.configPath)
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmterrors.New(fmterrors.IOFailure, "cannot determine working directory", err)
	}
	return config.LoadConfig(dir)
}

// newRunner creates a workspace runner for mode. Without cgo the C# parser
// is unavailable and every formatting command fails.
func (a *app) newRunner(mode workspace.Mode) (*workspace.Runner, error) {
	parser := a.parser
	if parser == nil {
		if !csharp.IsAvailable() {
			return nil, fmterrors.New(fmterrors.InternalError,
				"C# parser unavailable: csfmt was built without cgo", csharp.ErrNoCGO)
		}
		parser = csharp.NewParser()
	}

	r := workspace.NewRunner(parser, a.formatter, workspace.Options{
		Mode:    mode,
		Include: a.cfg.Files.Include,
		Exclude: a.cfg.Files.Exclude,
		Jobs:    a.cfg.Files.Jobs,
	}, a.logger)
	r.SetFS(a.fs)
	return r, nil
}

func (a *app) useColor(w io.Writer) bool {
	return workspace.ShouldColor(a.colorMode, w)
}
