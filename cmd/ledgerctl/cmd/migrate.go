package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ledger-backend-go/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newMigrateTagsCmd() *cobra.Command {
	var dryRun bool

	migrateCmd := &cobra.Command{
		Use:   "migrate-tags",
		Short: "Backfill source references from legacy description tags",
		Long: `Scan transactions that carry a legacy "kind:NAME@YYYY-MM" description
and no source reference, resolve the employee and time log, and store the
reference on the transaction. Rows that cannot be resolved are reported.

Example:
  ledgerctl migrate-tags --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				report, err := app.Payroll.MigrateLegacyTags(ctx, dryRun)
				if err != nil {
					return fmt.Errorf("migrate tags: %w", err)
				}
				slog.Info("Legacy tag migration finished",
					"dry_run", report.DryRun,
					"scanned", report.Scanned,
					"linked", report.Linked,
					"unresolved", report.Unresolved,
				)
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}

	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")

	return migrateCmd
}
