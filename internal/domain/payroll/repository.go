package payroll

import (
	"context"

	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
)

type TimeLogRepository interface {
	GetByID(ctx context.Context, id string) (TimeLog, error)
	GetByEmployeeMonth(ctx context.Context, employeeID string, month period.Month) (TimeLog, error)
	// GetLatestByEmployee returns the log with the greatest month.
	GetLatestByEmployee(ctx context.Context, employeeID string) (TimeLog, error)
	ListByMonth(ctx context.Context, month period.Month) ([]TimeLog, error)
	Create(ctx context.Context, log TimeLog) (TimeLog, error)
	Update(ctx context.Context, log TimeLog) (TimeLog, error)
}
