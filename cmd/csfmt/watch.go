package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"csfmt/internal/watcher"
	"csfmt/internal/workspace"
)

// watch reformats files under paths as they change until the command's
// context is cancelled.
func (a *app) watch(cmd *cobra.Command, paths []string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	r, err := a.newRunner(workspace.ModeWrite)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	useColor := a.useColor(out)
	handler := func(ctx context.Context, changed []string) {
		var existing []string
		for _, p := range changed {
			if _, err := a.fs.Stat(p); err == nil {
				existing = append(existing, p)
			}
		}
		if len(existing) == 0 {
			return
		}
		rep, err := r.Run(ctx, existing)
		if err != nil {
			a.logger.Warn("reformat failed", "error", err)
			return
		}
		if rep.Summary.Changed == 0 && rep.Summary.Failed == 0 {
			// Our own rewrites come back as events; they are already canonical.
			return
		}
		if err := rep.Write(out, workspace.FormatHuman, useColor); err != nil {
			a.logger.Warn("cannot write report", "error", err)
		}
	}

	w, err := watcher.New(watcher.Config{
		Include: a.cfg.Files.Include,
		Exclude: a.cfg.Files.Exclude,
	}, a.logger, handler)
	if err != nil {
		return err
	}

	for _, p := range paths {
		info, err := a.fs.Stat(p)
		if err == nil && !info.IsDir() {
			p = filepath.Dir(p)
		}
		if err := w.Add(p); err != nil {
			return err
		}
	}
	return w.Run(cmd.Context())
}
