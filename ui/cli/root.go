// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toeirei/dkgtestbed/client"
	"github.com/toeirei/dkgtestbed/config"
	"github.com/toeirei/dkgtestbed/core"
	"github.com/toeirei/dkgtestbed/internal/credential"
	"github.com/toeirei/dkgtestbed/internal/i18n"
	"github.com/toeirei/dkgtestbed/internal/journal"
	"github.com/toeirei/dkgtestbed/internal/logging"
	"github.com/toeirei/dkgtestbed/internal/security"
	"github.com/toeirei/dkgtestbed/internal/transport/grpcnode"
	"github.com/toeirei/dkgtestbed/internal/tui"
)

// ValidFormats lists the accepted --output values.
var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags and the state shared by all commands.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Format     string

	Config  config.Config
	Network config.NetworkConfig

	// Registry resolves the provider named in the configuration.
	Registry *client.Registry
	// Credentials supplies the private key for non-interactive commands.
	// When nil, the configured environment variable and a terminal prompt
	// are tried in that order.
	Credentials credential.Source
	// RunTUI starts the interactive interface.
	RunTUI func(ctx context.Context, s tui.Session) error

	journal *journal.Journal
}

// Execute runs the CLI entrypoint. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &RootOptions{Registry: client.DefaultRegistry}
	defer opts.Close()

	cmd := NewRootCommand(opts)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		(&OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}).Error(err)
	}
	return err
}

// NewRootCommand creates the root command. opts may be pre-populated by
// tests with a registry, credential source and TUI runner.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts.Registry == nil {
		opts.Registry = client.NewRegistry()
	}
	if opts.RunTUI == nil {
		opts.RunTUI = func(ctx context.Context, s tui.Session) error { return tui.Run(ctx, s) }
	}

	cmd := &cobra.Command{
		Use:   "dkgtestbed",
		Short: "Publish and retrieve knowledge assets on the OriginTrail DKG.",
		Long: `DKG Testbed connects a wallet to a Decentralized Knowledge Graph node,
publishes JSON-LD documents as knowledge assets and reads them back by UAL.

Running without a subcommand will launch the interactive TUI.`,
		Version:       compositeVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			coord := opts.coordinator()
			return opts.RunTUI(cmd.Context(), coord)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&opts.ConfigFile, "config", "", "config file")
	pf.StringVarP(&opts.Format, "output", "o", "text", "output format (text|json)")
	pf.String("network", "", fmt.Sprintf("network preset %v", config.PresetNames()))
	pf.String("provider", "", `client provider ("grpc", "echo")`)
	pf.String("language", "", `interface language ("en", "de")`)
	pf.String("journal.type", "", "journal database type (sqlite, postgres, mysql)")
	pf.String("journal.dsn", "", "journal connection string (DSN)")

	cmd.AddCommand(newPublishCommand(opts))
	cmd.AddCommand(newGetCommand(opts))
	cmd.AddCommand(newValidateKeyCommand(opts))
	cmd.AddCommand(newWalletCommand(opts))
	cmd.AddCommand(newJournalCommand(opts))
	cmd.AddCommand(newNodeCommand(opts))
	cmd.AddCommand(newConfigCommand(opts))

	return cmd
}

// setup loads configuration and prepares the shared services.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid output format %q: must be one of %v", o.Format, ValidFormats))
	}
	logging.SetVerbose(o.Verbose)

	path, err := configPathFromFlag(cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --config", err)
	}
	cfg, err := config.LoadConfig[config.Config](cmd, config.Defaults(), path)
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		logging.Debugf("no configuration file found, using defaults")
	} else if err != nil {
		return WrapExitError(ExitCommandError, "error loading config", err)
	}
	o.Config = cfg

	if err := i18n.Init(cfg.Language); err != nil {
		logging.Warnf("language %q unavailable, falling back to English: %v", cfg.Language, err)
		_ = i18n.Init("en")
	}

	o.Network, err = config.Preset(cfg.Network)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid network", err)
	}
	registerProviders(o.Registry)
	return nil
}

// registerProviders makes the built-in providers available by name.
func registerProviders(reg *client.Registry) {
	reg.Register(client.EchoProviderName, client.EchoProvider{})
	reg.Register(grpcnode.ProviderName, grpcnode.Provider{Timeout: 2 * time.Minute})
}

// coordinator builds a session for the configured provider. Outcomes are
// journaled when the journal can be opened.
func (o *RootOptions) coordinator() *core.Coordinator {
	factory := client.Factory{Registry: o.Registry, Name: o.Config.Provider}
	var copts []core.Option
	if j, err := o.openJournal(); err != nil {
		logging.Warnf("journal disabled: %v", err)
	} else {
		copts = append(copts, core.WithObserver(j.Observer()))
	}
	return core.NewCoordinator(factory, o.Network, copts...)
}

func (o *RootOptions) openJournal() (*journal.Journal, error) {
	if o.journal != nil {
		return o.journal, nil
	}
	j, err := journal.Open(o.Config.Journal.Type, o.Config.Journal.Dsn)
	if err != nil {
		return nil, err
	}
	o.journal = j
	return j, nil
}

// Close releases the journal if one was opened.
func (o *RootOptions) Close() {
	if o.journal == nil {
		return
	}
	if err := o.journal.Close(); err != nil {
		logging.Warnf("closing journal: %v", err)
	}
	o.journal = nil
}

// loadSecret fetches the private key from the configured sources.
func (o *RootOptions) loadSecret(cmd *cobra.Command) (security.Secret, error) {
	src := o.Credentials
	if src == nil {
		src = credential.Chain{
			credential.Env{Var: o.Config.Credential.Env},
			&credential.Prompt{Out: cmd.ErrOrStderr(), Prompt: i18n.T("wallet.prompt_terminal")},
		}
	}
	sec, err := src.Load(cmd.Context())
	if errors.Is(err, credential.ErrNoCredential) {
		return nil, NewExitError(ExitCommandError,
			fmt.Sprintf("no private key: set $%s or run in a terminal", envVarOrDefault(o.Config.Credential.Env)))
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, i18n.T("wallet.invalid"), err)
	}
	logging.Debugf("private key loaded from %s: %s", src.Name(), sec)
	return sec, nil
}

// session loads the credential and returns an initialized coordinator.
func (o *RootOptions) session(cmd *cobra.Command) (*core.Coordinator, error) {
	sec, err := o.loadSecret(cmd)
	if err != nil {
		return nil, err
	}
	defer sec.Zero()

	coord := o.coordinator()
	if err := coord.Initialize(sec.Reveal()); err != nil {
		return nil, fromCore(err)
	}
	return coord, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

func envVarOrDefault(name string) string {
	if name == "" {
		return credential.DefaultEnvVar
	}
	return name
}

func configPathFromFlag(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid silently running on defaults.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
