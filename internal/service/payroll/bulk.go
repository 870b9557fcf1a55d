package payroll

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// monthData is everything needed to compute a month's salaries.
type monthData struct {
	employees []employee.Employee
	logs      map[string]payroll.TimeLog // by employee ID
}

// loadMonth reads employees and the month's time logs concurrently.
func (s *PayrollServiceImpl) loadMonth(ctx context.Context, month period.Month) (monthData, error) {
	var (
		employees []employee.Employee
		logs      []payroll.TimeLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.employeeRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = s.timeLogRepo.ListByMonth(gctx, month)
		return err
	})
	if err := g.Wait(); err != nil {
		return monthData{}, err
	}

	data := monthData{employees: employees, logs: make(map[string]payroll.TimeLog, len(logs))}
	for _, l := range logs {
		data.logs[l.EmployeeID] = l
	}
	return data, nil
}

// PostMonthlyPayroll writes one expense per role holding the month's base
// salaries of that role. Existing bulk rows for the month are updated in
// place, so running it again only corrects the amounts. Travel and advances
// are settled per employee and are not included.
func (s *PayrollServiceImpl) PostMonthlyPayroll(ctx context.Context, req payroll.BulkPostRequest) (payroll.BulkResult, error) {
	if err := req.Validate(); err != nil {
		recordOutcome("bulk_post", err)
		return payroll.BulkResult{}, err
	}
	month, _ := period.ParseMonth(req.Month)
	method := ledger.PaymentMethod(req.PaymentMethod)

	result := payroll.BulkResult{
		Month:         month.String(),
		PaymentMethod: string(method),
		Total:         decimal.Zero,
		PerRole:       []payroll.RolePosting{},
	}

	var (
		data     monthData
		existing []ledger.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = s.loadMonth(gctx, month)
		return err
	})
	g.Go(func() error {
		var err error
		existing, err = s.ledgerRepo.List(gctx, ledger.TransactionFilter{Type: ledger.TypeExpense})
		return err
	})
	if err := g.Wait(); err != nil {
		recordOutcome("bulk_post", err)
		return payroll.BulkResult{}, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, emp := range data.employees {
		if emp.Role == "" {
			continue
		}
		log, ok := data.logs[emp.ID]
		if !ok {
			continue
		}
		base := payroll.Calculate(emp, log).BaseSalary
		if !base.IsPositive() {
			continue
		}
		totals[emp.Role] = totals[emp.Role].Add(base)
	}

	if len(totals) == 0 {
		recordOutcome("bulk_post", nil)
		return result, nil
	}

	roles := make([]string, 0, len(totals))
	for role := range totals {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	var effect ledger.Effect
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		for _, role := range roles {
			amount := totals[role].Round(2)
			source := &ledger.Source{Kind: ledger.SourceBulkPayroll, Month: month}
			posting := payroll.RolePosting{Role: role, Amount: amount}

			if t, ok := findBulkRow(existing, role, month); ok {
				t.Amount = amount
				t.Description = ledger.BulkDescription(month, method)
				t.PaymentMethod = method
				t.Source = source
				updated, err := s.ledgerRepo.Update(ctx, t)
				if err != nil {
					return err
				}
				effect.Updated = append(effect.Updated, updated)
				posting.TransactionID = updated.ID
				result.Updated++
			} else {
				created, err := s.ledgerRepo.Create(ctx, ledger.Transaction{
					Type:          ledger.TypeExpense,
					Amount:        amount,
					Category:      role,
					Date:          month.PostingDate(s.cfg.Now()),
					Description:   ledger.BulkDescription(month, method),
					PaymentMethod: method,
					Source:        source,
				})
				if err != nil {
					return err
				}
				effect.Created = append(effect.Created, created)
				posting.TransactionID = created.ID
				posting.Created = true
				result.Created++
			}

			result.Total = result.Total.Add(amount)
			result.PerRole = append(result.PerRole, posting)
		}
		return nil
	})
	recordOutcome("bulk_post", err)
	if err != nil {
		return payroll.BulkResult{}, err
	}

	metrics.BulkPostings.WithLabelValues("created").Add(float64(result.Created))
	metrics.BulkPostings.WithLabelValues("updated").Add(float64(result.Updated))
	s.notifier.Notify(effect)

	return result, nil
}

// findBulkRow picks the bulk row for (role, month), preferring rows with an
// explicit source over ones matched by description.
func findBulkRow(rows []ledger.Transaction, role string, month period.Month) (ledger.Transaction, bool) {
	var (
		legacy      ledger.Transaction
		legacyFound bool
	)
	for _, t := range rows {
		if t.Type != ledger.TypeExpense || t.Category != role {
			continue
		}
		if t.Source != nil {
			if t.Source.Kind == ledger.SourceBulkPayroll && t.Source.Month == month {
				return t, true
			}
			continue
		}
		if m, ok := ledger.ParseBulkDescription(t.Description); ok && m == month && !legacyFound {
			legacy, legacyFound = t, true
		}
	}
	return legacy, legacyFound
}
