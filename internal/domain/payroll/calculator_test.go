package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func logWith(hours map[int]string, advances, travel []string) TimeLog {
	l := NewTimeLog("emp-1", period.Month("2025-03"))
	for day, h := range hours {
		l = l.WithHours(day, dec(h))
	}
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, a := range advances {
		l.Advances = l.Advances.Append(Entry{Amount: dec(a), Date: date})
	}
	for _, tr := range travel {
		l.TravelExpenses = l.TravelExpenses.Append(Entry{Amount: dec(tr), Date: date})
	}
	return l
}

func TestCalculate_HourlyRate(t *testing.T) {
	emp := employee.Employee{HourlyRate: decPtr("10")}
	log := logWith(map[int]string{1: "8", 2: "8", 3: "4"}, nil, nil)

	// Act
	b := Calculate(emp, log)

	// Assert
	assert.True(t, dec("20").Equal(b.TotalHours))
	assert.Equal(t, 3, b.DaysWorked)
	assert.True(t, dec("200").Equal(b.BaseSalary))
	assert.True(t, dec("200").Equal(b.FinalSalary))
	assert.True(t, dec("200").Equal(b.RemainingSalary))
}

func TestCalculate_DailyRateWithTravelAndAdvance(t *testing.T) {
	emp := employee.Employee{DailyRate: decPtr("50")}
	log := logWith(map[int]string{1: "8", 2: "8", 3: "4"}, []string{"30"}, []string{"20"})

	// Act
	b := Calculate(emp, log)

	// Assert
	assert.True(t, dec("150").Equal(b.BaseSalary))
	assert.True(t, dec("170").Equal(b.FinalSalary))
	assert.True(t, dec("30").Equal(b.AdvancesTotal))
	assert.True(t, dec("140").Equal(b.RemainingSalary))
}

func TestCalculate_HourlyWinsOverDaily(t *testing.T) {
	emp := employee.Employee{HourlyRate: decPtr("10"), DailyRate: decPtr("1000")}
	log := logWith(map[int]string{1: "7.5"}, nil, nil)

	b := Calculate(emp, log)

	assert.True(t, dec("75").Equal(b.BaseSalary))
}

func TestCalculate_NoRate(t *testing.T) {
	emp := employee.Employee{HourlyRate: decPtr("0")}
	log := logWith(map[int]string{1: "8"}, nil, []string{"12.5"})

	b := Calculate(emp, log)

	assert.True(t, b.BaseSalary.IsZero())
	assert.True(t, dec("12.5").Equal(b.FinalSalary))
}

func TestCalculate_RemainingNeverNegative(t *testing.T) {
	emp := employee.Employee{HourlyRate: decPtr("10")}
	log := logWith(map[int]string{1: "1"}, []string{"50"}, nil)

	b := Calculate(emp, log)

	assert.True(t, b.RemainingSalary.IsZero())
	assert.True(t, dec("50").Equal(b.AdvancesTotal))
}

func TestCalculate_NegativeCompensatingAdvance(t *testing.T) {
	emp := employee.Employee{HourlyRate: decPtr("10")}
	log := logWith(map[int]string{1: "10"}, []string{"40", "-40"}, nil)

	b := Calculate(emp, log)

	assert.True(t, b.AdvancesTotal.IsZero())
	assert.True(t, dec("100").Equal(b.RemainingSalary))
}

func TestTimeLog_WithHoursZeroRemovesDay(t *testing.T) {
	log := logWith(map[int]string{1: "8", 2: "6"}, nil, nil)

	next := log.WithHours(2, decimal.Zero)

	assert.Len(t, next.DailyHours, 1)
	assert.Len(t, log.DailyHours, 2, "original must not change")
}

func TestParseHours(t *testing.T) {
	h, err := ParseHours("7,5")
	assert.NoError(t, err)
	assert.True(t, dec("7.5").Equal(h))

	h, err = ParseHours("")
	assert.NoError(t, err)
	assert.True(t, h.IsZero())

	_, err = ParseHours("abc")
	assert.Error(t, err)
}
