// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/toeirei/dkgtestbed/internal/i18n"
	"github.com/toeirei/dkgtestbed/internal/tui"
)

func newPublishCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "publish [file|-]",
		Short: "Publish a JSON-LD document as a knowledge asset",
		Long: `Publish reads a JSON object from file (or stdin when the argument is "-")
and creates a knowledge asset from it. Without an argument a sample
schema.org Person document is published.

The private key is taken from the configured environment variable or, when
running in a terminal, prompted for without echo.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readContent(cmd, args)
			if err != nil {
				return err
			}
			coord, err := opts.session(cmd)
			if err != nil {
				return err
			}
			res, err := coord.Publish(cmd.Context(), raw)
			if err != nil {
				return fromCore(err)
			}
			return opts.formatter(cmd).Success(res, i18n.T("create.success", map[string]any{"UAL": res.UAL}))
		},
	}
}

func newGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <ual>",
		Short: "Retrieve the latest finalized assertion of a knowledge asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := opts.session(cmd)
			if err != nil {
				return err
			}
			res, err := coord.Retrieve(cmd.Context(), args[0])
			if err != nil {
				return fromCore(err)
			}
			text, err := json.MarshalIndent(res.Assertion, "", "  ")
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(res, string(text))
		},
	}
}

// readContent returns the document to publish. The file is read as-is;
// parsing happens in the coordinator so errors carry the usual kinds.
func readContent(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		return tui.DefaultAsset(time.Now()), nil
	}
	var (
		b   []byte
		err error
	)
	if args[0] == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", WrapExitError(ExitCommandError, fmt.Sprintf("could not read %s", args[0]), err)
	}
	return string(b), nil
}
