package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ledger-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/spf13/cobra"
)

func newPayrollCmd() *cobra.Command {
	payrollCmd := &cobra.Command{
		Use:   "payroll",
		Short: "Payroll operations",
	}
	payrollCmd.AddCommand(newPayrollPostCmd())
	return payrollCmd
}

func newPayrollPostCmd() *cobra.Command {
	var (
		month         string
		paymentMethod string
	)

	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Post the monthly salary summary per role",
		Long: `Write one expense per employee role holding the month's base salaries.
Running it again for the same month updates the existing rows.

Example:
  ledgerctl payroll post --month 2025-03 --payment-method bank`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				result, err := app.Payroll.PostMonthlyPayroll(ctx, payroll.BulkPostRequest{
					Month:         month,
					PaymentMethod: paymentMethod,
				})
				if err != nil {
					return fmt.Errorf("post payroll: %w", err)
				}
				if result.Empty() {
					slog.Info("No salaries to post", "month", month)
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}

	postCmd.Flags().StringVar(&month, "month", "", "month to post (YYYY-MM)")
	postCmd.Flags().StringVar(&paymentMethod, "payment-method", "bank", "payment method (bank or cash)")
	_ = postCmd.MarkFlagRequired("month")

	return postCmd
}
