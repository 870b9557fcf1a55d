// Package cmd provides the ledgerctl commands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/ledger-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/ledger-backend-go/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the payroll ledger from the command line",
		Long: `ledgerctl runs payroll maintenance against the configured store.

Configuration is read from the environment and .env, the same way the
API server reads it.

Example:
  ledgerctl payroll post --month 2025-03 --payment-method bank
  ledgerctl migrate-tags --dry-run
  ledgerctl token --role admin`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel := slog.LevelInfo
			if debug {
				logLevel = slog.LevelDebug
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: logLevel,
			}))
			slog.SetDefault(logger)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newPayrollCmd())
	rootCmd.AddCommand(newMigrateTagsCmd())
	rootCmd.AddCommand(newTokenCmd())

	return rootCmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// withApp loads config, opens the store and hands the wired services to fn.
func withApp(ctx context.Context, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	repos, err := bootstrap.OpenRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.Close(); err != nil {
			slog.Warn("Failed to close store", "error", err)
		}
	}()

	return fn(ctx, bootstrap.NewApp(cfg, repos))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
