// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toeirei/dkgtestbed/config"
	"github.com/toeirei/dkgtestbed/internal/i18n"
)

func newConfigCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(opts))
	return cmd
}

func newConfigInitCommand(opts *RootOptions) *cobra.Command {
	var system, force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config path",
		Long: `init writes the currently effective settings (defaults, environment and
flags merged) as dkgtestbed.yaml. The private key is never written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath(system)
			if err != nil {
				return WrapExitError(ExitCommandError, "could not determine config path", err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return NewExitError(ExitCommandError, fmt.Sprintf("%s already exists (use --force to overwrite)", path))
			}
			if err := config.WriteConfigFile(&opts.Config, system); err != nil {
				return WrapExitError(ExitCommandError, "could not write config", err)
			}
			return opts.formatter(cmd).Success(map[string]string{"path": path}, i18n.T("cli.config.written", map[string]any{"Path": path}))
		},
	}
	cmd.Flags().BoolVar(&system, "system", false, "write the system-wide file instead of the user file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
