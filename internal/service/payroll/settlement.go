package payroll

import (
	"context"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var maxDailyHours = decimal.NewFromInt(24)

// RecordHours sets the hours worked on one day. Setting the same value again
// changes nothing; zero clears the day.
func (s *PayrollServiceImpl) RecordHours(ctx context.Context, req payroll.RecordHoursRequest) (payroll.ActionResponse, error) {
	if err := req.Validate(); err != nil {
		recordOutcome("record_hours", err)
		return payroll.ActionResponse{}, err
	}
	hours, _ := payroll.ParseHours(req.Hours)

	return s.mutate(ctx, "record_hours", req.PeriodRequest, true, func(ctx context.Context, m *mutation) error {
		if req.Day < 1 || req.Day > m.log.Month.Days() {
			return payroll.ErrInvalidDay
		}
		if hours.IsNegative() || hours.GreaterThan(maxDailyHours) {
			return payroll.ErrInvalidHours
		}

		current, ok := m.log.DailyHours[req.Day]
		if (ok && current.Equal(hours)) || (!ok && hours.IsZero()) {
			return nil
		}

		m.log = m.log.WithHours(req.Day, hours)
		m.dirty = true
		return nil
	})
}

// AddAdvance pays part of the salary ahead of settlement and posts it to the ledger.
func (s *PayrollServiceImpl) AddAdvance(ctx context.Context, req payroll.AmountRequest) (payroll.ActionResponse, error) {
	return s.mutateAmount(ctx, "add_advance", req, func(ctx context.Context, m *mutation, amount decimal.Decimal) error {
		if !amount.IsPositive() {
			return payroll.ErrInvalidAmount
		}
		remaining := payroll.Calculate(m.emp, m.log).RemainingSalary
		if remaining.IsPositive() && amount.GreaterThan(remaining) {
			return payroll.ErrAdvanceExceedsRemaining
		}

		m.log.Advances = m.log.Advances.Append(payroll.Entry{Amount: amount, Date: s.today()})
		m.dirty = true

		if err := s.ensureLog(ctx, m); err != nil {
			return err
		}
		return s.postAdvance(ctx, m, amount)
	})
}

// SetAdvanceTotal overwrites the advances with a single entry and posts only the difference.
func (s *PayrollServiceImpl) SetAdvanceTotal(ctx context.Context, req payroll.AmountRequest) (payroll.ActionResponse, error) {
	return s.mutateAmount(ctx, "set_advance_total", req, func(ctx context.Context, m *mutation, amount decimal.Decimal) error {
		if amount.IsNegative() {
			return payroll.ErrNegativeAmount
		}

		diff := amount.Sub(m.log.Advances.Total())
		m.log.Advances = m.log.Advances.ReplaceWithTotal(amount, s.today())
		m.dirty = true

		if diff.IsZero() {
			return nil
		}
		if err := s.ensureLog(ctx, m); err != nil {
			return err
		}
		return s.adjustAdvances(ctx, m, diff)
	})
}

// RefundAdvance records money handed back by the employee.
func (s *PayrollServiceImpl) RefundAdvance(ctx context.Context, req payroll.AmountRequest) (payroll.ActionResponse, error) {
	return s.mutateAmount(ctx, "refund_advance", req, func(ctx context.Context, m *mutation, amount decimal.Decimal) error {
		if !amount.IsPositive() {
			return payroll.ErrInvalidAmount
		}
		if amount.GreaterThan(m.log.Advances.Total()) {
			return payroll.ErrRefundExceedsAdvances
		}

		m.log.Advances = m.log.Advances.Append(payroll.Entry{Amount: amount.Neg(), Date: s.today()})
		m.dirty = true

		if err := s.ensureLog(ctx, m); err != nil {
			return err
		}
		return s.postRefund(ctx, m, amount)
	})
}

// SetTravelExpense replaces the month's travel reimbursements. The ledger is
// only touched at settlement.
func (s *PayrollServiceImpl) SetTravelExpense(ctx context.Context, req payroll.AmountRequest) (payroll.ActionResponse, error) {
	return s.mutateAmount(ctx, "set_travel", req, func(ctx context.Context, m *mutation, amount decimal.Decimal) error {
		if amount.IsNegative() {
			return payroll.ErrNegativeAmount
		}
		m.log.TravelExpenses = m.log.TravelExpenses.ReplaceWithTotal(amount, s.today())
		m.dirty = true
		return nil
	})
}

// Settle pays out what is left for the month and marks it paid.
func (s *PayrollServiceImpl) Settle(ctx context.Context, req payroll.PeriodRequest) (payroll.ActionResponse, error) {
	return s.mutate(ctx, "settle", req, false, func(ctx context.Context, m *mutation) error {
		if m.log.IsPaid {
			return payroll.ErrAlreadyPaid
		}
		if err := s.postSettlement(ctx, m); err != nil {
			return err
		}
		m.log.IsPaid = true
		m.dirty = true
		return nil
	})
}

// CancelSettlement removes the final payment rows and reopens the month.
// Advances are left as they are.
func (s *PayrollServiceImpl) CancelSettlement(ctx context.Context, req payroll.PeriodRequest) (payroll.ActionResponse, error) {
	return s.mutate(ctx, "cancel_settlement", req, false, func(ctx context.Context, m *mutation) error {
		if !m.log.IsPaid {
			return payroll.ErrNotPaid
		}
		if err := s.removeSettlement(ctx, m); err != nil {
			return err
		}
		m.log.IsPaid = false
		m.dirty = true
		return nil
	})
}
