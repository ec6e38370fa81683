// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toeirei/dkgtestbed/client"
	"github.com/toeirei/dkgtestbed/internal/credential"
	"github.com/toeirei/dkgtestbed/internal/i18n"
	"github.com/toeirei/dkgtestbed/internal/security"
	"github.com/toeirei/dkgtestbed/internal/tui"
)

func newValidateKeyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-key",
		Short: "Check the format of a private key read from stdin",
		Long: `validate-key reads one line from stdin and reports whether it is a
64 character hex string, optionally prefixed with 0x. Nothing is sent
anywhere. The exit code is non-zero for an invalid key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return WrapExitError(ExitCommandError, "could not read key from stdin", err)
			}
			sec := security.FromString(strings.TrimRight(line, "\r\n"))
			defer sec.Zero()

			valid := credential.Validate(sec.Reveal())
			text := i18n.T("cli.validate.ok")
			if !valid {
				text = i18n.T("cli.validate.bad")
			}
			if err := opts.formatter(cmd).Success(map[string]bool{"valid": valid}, text); err != nil {
				return err
			}
			if !valid {
				return NewExitError(ExitCommandError, i18n.T("wallet.invalid"))
			}
			return nil
		},
	}
}

func newWalletCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wallet",
		Short: "Show the wallet address and network for the configured key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := opts.loadSecret(cmd)
			if err != nil {
				return err
			}
			defer sec.Zero()
			w, err := client.DeriveWallet(sec)
			if err != nil {
				return WrapExitError(ExitCommandError, i18n.T("wallet.invalid"), err)
			}
			data := map[string]string{
				"address": w.String(),
				"network": opts.Network.Address(),
				"chain":   opts.Network.Blockchain.Name,
				"faucet":  tui.FaucetURL,
			}
			text := fmt.Sprintf("%s\n%s\n%s",
				i18n.T("wallet.connected", map[string]any{"Address": w.String()}),
				i18n.T("app.network", map[string]any{"Network": opts.Network.Address(), "Chain": opts.Network.Blockchain.Name}),
				i18n.T("wallet.faucet", map[string]any{"URL": tui.FaucetURL}),
			)
			return opts.formatter(cmd).Success(data, text)
		},
	}
}
