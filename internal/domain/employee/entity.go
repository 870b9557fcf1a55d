package employee

import (
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// Employee is a payee. Role doubles as the salary expense category.
type Employee struct {
	ID            string
	Name          string
	Role          string
	HourlyRate    *decimal.Decimal
	DailyRate     *decimal.Decimal
	PaymentMethod ledger.PaymentMethod
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasHourlyRate reports whether an hourly rate is configured. An hourly rate
// takes precedence over a daily one.
func (e Employee) HasHourlyRate() bool {
	return e.HourlyRate != nil && e.HourlyRate.IsPositive()
}

func (e Employee) HasDailyRate() bool {
	return e.DailyRate != nil && e.DailyRate.IsPositive()
}
