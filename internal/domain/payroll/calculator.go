package payroll

import (
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// SalaryBreakdown is the derived salary position of one time log.
type SalaryBreakdown struct {
	TotalHours      decimal.Decimal
	DaysWorked      int
	BaseSalary      decimal.Decimal
	TravelTotal     decimal.Decimal
	FinalSalary     decimal.Decimal
	AdvancesTotal   decimal.Decimal
	RemainingSalary decimal.Decimal
}

// Calculate derives salary figures from recorded time and the employee's rate.
// Hourly pay wins over daily pay; an employee without a rate earns nothing
// beyond travel reimbursement.
func Calculate(emp employee.Employee, log TimeLog) SalaryBreakdown {
	b := SalaryBreakdown{
		TotalHours:    log.TotalHours(),
		DaysWorked:    log.DaysWorked(),
		BaseSalary:    decimal.Zero,
		TravelTotal:   log.TravelExpenses.Total(),
		AdvancesTotal: log.Advances.Total(),
	}

	switch {
	case emp.HasHourlyRate():
		b.BaseSalary = b.TotalHours.Mul(*emp.HourlyRate)
	case emp.HasDailyRate():
		b.BaseSalary = decimal.NewFromInt(int64(b.DaysWorked)).Mul(*emp.DailyRate)
	}

	b.FinalSalary = b.BaseSalary.Add(b.TravelTotal)

	b.RemainingSalary = b.FinalSalary.Sub(b.AdvancesTotal)
	if b.RemainingSalary.IsNegative() {
		b.RemainingSalary = decimal.Zero
	}

	return b
}
