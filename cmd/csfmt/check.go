package main

import (
	"github.com/spf13/cobra"

	"csfmt/internal/workspace"
)

func newCheckCmd(a *app) *cobra.Command {
	var report string

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report files that are not formatted",
		Long: `Check that C# files are in canonical form without modifying them.

Exits 1 when any file is unformatted or has syntax errors, which makes it
suitable for CI.

Examples:
  csfmt check                   # Check everything under .
  csfmt check --report json src # Machine-readable report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := workspace.ParseReportFormat(report)
			if err != nil {
				return err
			}
			return a.runBatch(cmd, workspace.ModeCheck, args, rf)
		},
	}
	cmd.Flags().StringVar(&report, "report", "human", "Report format (human, json, yaml)")
	return cmd
}
