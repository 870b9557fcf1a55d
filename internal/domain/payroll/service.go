package payroll

import (
	"context"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
)

// PayrollService tracks monthly work time and settlements and keeps the
// ledger in step with them.
type PayrollService interface {
	ledger.Reconciler

	// Settlement tracking
	RecordHours(ctx context.Context, req RecordHoursRequest) (ActionResponse, error)
	AddAdvance(ctx context.Context, req AmountRequest) (ActionResponse, error)
	SetAdvanceTotal(ctx context.Context, req AmountRequest) (ActionResponse, error)
	RefundAdvance(ctx context.Context, req AmountRequest) (ActionResponse, error)
	SetTravelExpense(ctx context.Context, req AmountRequest) (ActionResponse, error)
	Settle(ctx context.Context, req PeriodRequest) (ActionResponse, error)
	CancelSettlement(ctx context.Context, req PeriodRequest) (ActionResponse, error)

	// Read models
	GetSummary(ctx context.Context, req PeriodRequest) (SummaryResponse, error)
	GetStatement(ctx context.Context, month string) (StatementResponse, error)
	RenderStatementPDF(ctx context.Context, month string) ([]byte, error)

	// Bulk and maintenance
	PostMonthlyPayroll(ctx context.Context, req BulkPostRequest) (BulkResult, error)
	MigrateLegacyTags(ctx context.Context, dryRun bool) (MigrationReport, error)
}
