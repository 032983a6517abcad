// Package cli implements invoicectl, the operator tool for the invoicing
// data directory.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/invoicer/internal/config"
	"github.com/mmynk/invoicer/pkg/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DataDir    string
	Backend    string
	Verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand creates the root command for invoicectl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "invoicectl",
		Short: "Manage invoicer data",
		Long:  "Create, reset and inspect the collections behind the invoicer server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data", "", "data directory (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "store backend: file|sqlite (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewInvoicesCommand(opts))
	cmd.AddCommand(NewClientsCommand(opts))

	return cmd
}

func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.cfg = cfg
	o.logger = logging.New(cmd.ErrOrStderr(), level)
	return nil
}
