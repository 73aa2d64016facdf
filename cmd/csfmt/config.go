package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"csfmt/internal/config"
	fmterrors "csfmt/internal/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage csfmt configuration",
		Long:  "View and create csfmt configuration stored in .csfmt.toml",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default .csfmt.toml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			target := filepath.Join(dir, config.FileName)
			if _, err := os.Stat(target); err == nil && !force {
				return fmterrors.New(fmterrors.ConfigInvalid, "config file already exists (use --force to overwrite)", nil).WithPath(target)
			}

			path, err := config.DefaultConfig().Save(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Display the configuration after defaults, config file and CSFMT_*
environment overrides are applied.

Examples:
  csfmt config show                # TOML
  csfmt config show --format json  # JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := renderConfig(a.cfg, format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "Output format (toml, json, yaml)")
	return cmd
}

func renderConfig(cfg *config.Config, format string) (string, error) {
	var b strings.Builder
	var err error

	switch strings.ToLower(format) {
	case "toml":
		err = toml.NewEncoder(&b).Encode(cfg)
	case "json":
		enc := json.NewEncoder(&b)
		enc.SetIndent("", "  ")
		err = enc.Encode(cfg)
	case "yaml":
		enc := yaml.NewEncoder(&b)
		enc.SetIndent(2)
		if err = enc.Encode(cfg); err == nil {
			err = enc.Close()
		}
	default:
		return "", fmterrors.New(fmterrors.ConfigInvalid,
			fmt.Sprintf("unknown format %q (want toml, json or yaml)", format), nil)
	}
	if err != nil {
		return "", fmterrors.New(fmterrors.InternalError, "cannot encode config", err)
	}
	return b.String(), nil
}
