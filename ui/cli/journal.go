// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/toeirei/dkgtestbed/internal/i18n"
)

func newJournalCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the operation journal",
		Long: `The journal records every initialize, publish and retrieve with its
outcome and duration. Credentials and asset content are never stored.
The default journal lives in memory and is discarded when the process
exits, so in a fresh process "journal list" and "journal export" report
nothing. Point journal.dsn at a file (for example
"file:dkgtestbed-journal.db") or a database server to keep entries
between runs.`,
	}
	cmd.AddCommand(newJournalListCommand(opts), newJournalExportCommand(opts))
	return cmd
}

func newJournalListCommand(opts *RootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := opts.openJournal()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open journal", err)
			}
			entries, err := j.List(cmd.Context(), limit)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list journal", err)
			}
			if len(entries) == 0 {
				return opts.formatter(cmd).Success(entries, i18n.T("cli.journal.empty"))
			}
			var b strings.Builder
			for _, e := range entries {
				result := "ok"
				if !e.OK() {
					result = e.Kind + ": " + e.Message
				}
				fmt.Fprintf(&b, "%s  %-10s %-8s %s %s\n",
					e.StartedAt.Local().Format(time.DateTime), e.Op, e.Duration.Round(time.Millisecond), e.UAL, result)
			}
			return opts.formatter(cmd).Success(entries, strings.TrimRight(b.String(), "\n"))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of entries (0 for all)")
	return cmd
}

func newJournalExportCommand(opts *RootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the journal as zstd-compressed JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := opts.openJournal()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open journal", err)
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
				if err != nil {
					return WrapExitError(ExitCommandError, "could not create export file", err)
				}
				defer f.Close()
				w = f
			}
			if err := j.Export(cmd.Context(), w); err != nil {
				return WrapExitError(ExitFailure, "export failed", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "file", "f", "-", `destination file ("-" for stdout)`)
	return cmd
}
