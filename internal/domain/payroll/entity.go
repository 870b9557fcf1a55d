package payroll

import (
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// TimeLog - Work time and partial payments of one employee for one month.
// At most one exists per (EmployeeID, Month).
type TimeLog struct {
	ID             string
	EmployeeID     string
	Month          period.Month
	DailyHours     map[int]decimal.Decimal // day of month -> hours, sparse
	Advances       SubLedger
	TravelExpenses SubLedger
	IsPaid         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTimeLog returns an empty, unpaid log.
func NewTimeLog(employeeID string, month period.Month) TimeLog {
	return TimeLog{
		EmployeeID: employeeID,
		Month:      month,
		DailyHours: make(map[int]decimal.Decimal),
	}
}

func (l TimeLog) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, h := range l.DailyHours {
		total = total.Add(h)
	}
	return total
}

// DaysWorked counts days with a positive number of hours.
func (l TimeLog) DaysWorked() int {
	n := 0
	for _, h := range l.DailyHours {
		if h.IsPositive() {
			n++
		}
	}
	return n
}

// WithHours returns a copy of the log with the given day set.
func (l TimeLog) WithHours(day int, hours decimal.Decimal) TimeLog {
	next := make(map[int]decimal.Decimal, len(l.DailyHours)+1)
	for d, h := range l.DailyHours {
		next[d] = h
	}
	if hours.IsZero() {
		delete(next, day)
	} else {
		next[day] = hours
	}
	l.DailyHours = next
	return l
}
