// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

// Command dkgnode runs the bundled knowledge-asset node on its own.
//
// Usage:
//
//	dkgnode [--listen 127.0.0.1:8900] [--data-dir ./data] [--network local]
//
// Settings are read like the main CLI: flags, then DKGTESTBED_* environment
// variables, then dkgtestbed.yaml.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toeirei/dkgtestbed/config"
	"github.com/toeirei/dkgtestbed/internal/logging"
	"github.com/toeirei/dkgtestbed/internal/node"
	"github.com/toeirei/dkgtestbed/internal/transport/grpcnode"
	"github.com/toeirei/dkgtestbed/ui/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:          "dkgnode",
		Short:        "Serve knowledge assets over gRPC",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.SetVerbose(verbose)
			cfg, err := config.LoadConfig[config.Config](cmd, config.Defaults(), nil)
			if err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return fmt.Errorf("error loading config: %w", err)
			}
			network, err := config.Preset(cfg.Network)
			if err != nil {
				return err
			}

			store, closeStore, err := cli.OpenNodeStore(cfg.Node.DataDir)
			if err != nil {
				return err
			}
			defer closeStore()

			svc := node.NewService(network.Blockchain.Name, network.Blockchain.HubContract, store)
			lis, err := net.Listen("tcp", cfg.Node.Listen)
			if err != nil {
				return err
			}
			logging.Infof("dkgnode listening on %s (%s)", lis.Addr(), svc.Chain())
			return grpcnode.Serve(cmd.Context(), lis, svc)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().String("node.listen", "", "listen address")
	cmd.Flags().String("node.data_dir", "", "directory for persistent assets")
	cmd.Flags().String("network", "", fmt.Sprintf("network preset %v", config.PresetNames()))
	return cmd
}
