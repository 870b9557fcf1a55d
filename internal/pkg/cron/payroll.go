package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
)

// PayrollJobs keeps the monthly payroll summary in the ledger current
type PayrollJobs struct {
	payrollService payroll.PayrollService
	paymentMethod  string
	now            func() time.Time
}

// NewPayrollJobs creates payroll cron jobs
func NewPayrollJobs(payrollService payroll.PayrollService, paymentMethod string, now func() time.Time) *PayrollJobs {
	if now == nil {
		now = time.Now
	}
	return &PayrollJobs{
		payrollService: payrollService,
		paymentMethod:  paymentMethod,
		now:            now,
	}
}

// RegisterJobs registers the auto-post job; a zero interval leaves it disabled
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("post_monthly_payroll", interval, j.PostCurrentMonth)
}

// PostCurrentMonth re-posts the per-role salary summary for the current month.
// Posting is idempotent: existing summary rows are updated in place.
func (j *PayrollJobs) PostCurrentMonth(ctx context.Context) error {
	month := period.Of(j.now().UTC())

	result, err := j.payrollService.PostMonthlyPayroll(ctx, payroll.BulkPostRequest{
		Month:         month.String(),
		PaymentMethod: j.paymentMethod,
	})
	if err != nil {
		return err
	}

	slog.Info("Monthly payroll posted",
		"month", month,
		"payment_method", j.paymentMethod,
		"created", result.Created,
		"updated", result.Updated,
		"total", result.Total.StringFixed(2),
	)
	return nil
}
