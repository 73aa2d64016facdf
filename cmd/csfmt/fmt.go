package main

import (
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"csfmt/internal/csharp"
	fmterrors "csfmt/internal/errors"
	"csfmt/internal/workspace"
)

type fmtOptions struct {
	list   bool
	stdout bool
	watch  bool
}

func newFmtCmd(a *app) *cobra.Command {
	var opts fmtOptions

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format C# files in place",
		Long: `Rewrite C# files in canonical form.

Directories are walked recursively for files matching files.include,
skipping directories named in files.exclude. With no paths the working
directory is formatted. A single "-" formats standard input to standard
output.

Examples:
  csfmt fmt                     # Format everything under .
  csfmt fmt -l src              # List files that would change
  csfmt fmt --stdout Program.cs # Print the formatted file
  csfmt fmt - < Program.cs      # Format stdin
  csfmt fmt --watch src         # Reformat files as they are saved`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFmt(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "List files whose formatting differs instead of rewriting them")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print the formatted output of a single file instead of rewriting it")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Keep running and reformat files when they change")
	return cmd
}

func (a *app) runFmt(cmd *cobra.Command, args []string, opts fmtOptions) error {
	if opts.list && opts.stdout {
		return fmterrors.New(fmterrors.ConfigInvalid, "--list and --stdout are mutually exclusive", nil)
	}
	if opts.watch && (opts.list || opts.stdout) {
		return fmterrors.New(fmterrors.ConfigInvalid, "--watch cannot be combined with --list or --stdout", nil)
	}

	if len(args) == 1 && args[0] == "-" && !opts.watch {
		return a.formatStdin(cmd)
	}
	for _, arg := range args {
		if arg == "-" {
			return fmterrors.New(fmterrors.ConfigInvalid, `"-" cannot be combined with other paths or --watch`, nil)
		}
	}

	if opts.stdout {
		if len(args) != 1 {
			return fmterrors.New(fmterrors.ConfigInvalid, "--stdout takes exactly one file", nil)
		}
		return a.formatToStdout(cmd, args[0])
	}

	mode := workspace.ModeWrite
	if opts.list {
		mode = workspace.ModeList
	}
	err := a.runBatch(cmd, mode, args, workspace.FormatHuman)
	if !opts.watch {
		return err
	}
	if err != nil {
		if _, ok := fmterrors.From(err); !ok || fmterrors.Is(err, fmterrors.IOFailure) {
			return err
		}
		a.logger.Warn("initial run had failures", "error", err)
	}
	return a.watch(cmd, args)
}

func (a *app) formatStdin(cmd *cobra.Command) error {
	src, err := io.ReadAll(a.stdin)
	if err != nil {
		return fmterrors.New(fmterrors.IOFailure, "cannot read stdin", err)
	}
	return a.printFormatted(cmd, src, "<stdin>")
}

func (a *app) formatToStdout(cmd *cobra.Command, path string) error {
	info, err := a.fs.Stat(path)
	if err != nil {
		return fmterrors.New(fmterrors.IOFailure, "cannot stat path", err).WithPath(path)
	}
	if info.IsDir() {
		return fmterrors.New(fmterrors.ConfigInvalid, "--stdout needs a file, not a directory", nil).WithPath(path)
	}
	src, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return fmterrors.New(fmterrors.IOFailure, "cannot read file", err).WithPath(path)
	}
	return a.printFormatted(cmd, src, path)
}

func (a *app) printFormatted(cmd *cobra.Command, src []byte, name string) error {
	r, err := a.newRunner(workspace.ModeWrite)
	if err != nil {
		return err
	}
	out, err := r.FormatSource(cmd.Context(), src)
	if err != nil {
		if fe, ok := fmterrors.From(err); ok {
			return fe.WithPath(name)
		}
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

// runBatch formats paths in mode and renders the report to stdout.
func (a *app) runBatch(cmd *cobra.Command, mode workspace.Mode, paths []string, rf workspace.ReportFormat) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	a.warnNonSource(paths)

	r, err := a.newRunner(mode)
	if err != nil {
		return err
	}
	rep, err := r.Run(cmd.Context(), paths)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	useColor := rf == workspace.FormatHuman && a.useColor(w)
	if err := rep.Write(w, rf, useColor); err != nil {
		return fmterrors.New(fmterrors.IOFailure, "cannot write report", err)
	}
	return reportError(rep)
}

// warnNonSource logs explicitly named files that do not look like C#. They
// are still formatted.
func (a *app) warnNonSource(paths []string) {
	for _, p := range paths {
		info, err := a.fs.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if !csharp.IsSourceFile(p) {
			a.logger.Warn("file does not have a C# extension", "path", p)
		}
	}
}

