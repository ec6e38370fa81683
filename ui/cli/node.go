// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/toeirei/dkgtestbed/internal/i18n"
	"github.com/toeirei/dkgtestbed/internal/logging"
	"github.com/toeirei/dkgtestbed/internal/node"
	"github.com/toeirei/dkgtestbed/internal/transport/grpcnode"
)

func newNodeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Run the bundled local knowledge-asset node",
	}
	cmd.AddCommand(newNodeServeCommand(opts))
	return cmd
}

func newNodeServeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the node over gRPC until interrupted",
		Long: `serve starts a node for the configured network's chain and hub contract.
With node.data_dir set, assets are kept on disk and survive restarts;
otherwise they live in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := OpenNodeStore(opts.Config.Node.DataDir)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open node store", err)
			}
			defer closeStore()

			svc := node.NewService(opts.Network.Blockchain.Name, opts.Network.Blockchain.HubContract, store)
			lis, err := net.Listen("tcp", opts.Config.Node.Listen)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("could not listen on %s", opts.Config.Node.Listen), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.node.listening", map[string]any{"Addr": lis.Addr().String(), "Chain": svc.Chain()}))
			if err := grpcnode.Serve(cmd.Context(), lis, svc); err != nil {
				return WrapExitError(ExitFailure, "node stopped", err)
			}
			return nil
		},
	}
	cmd.Flags().String("node.listen", "", "listen address")
	cmd.Flags().String("node.data_dir", "", "directory for persistent assets (empty keeps them in memory)")
	return cmd
}

// OpenNodeStore returns a FileStore rooted at dir, or a MemoryStore when dir
// is empty. The returned func releases the store.
func OpenNodeStore(dir string) (node.Store, func(), error) {
	if dir == "" {
		logging.Infof("node store: in memory")
		return node.NewMemoryStore(), func() {}, nil
	}
	fs, err := node.NewFileStore(dir)
	if err != nil {
		return nil, nil, err
	}
	logging.Infof("node store: %s", dir)
	return fs, fs.Close, nil
}
