package payroll

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/metrics"
)

// MigrateLegacyTags links ledger rows that only carry a description tag to
// their employee and time log. Rows whose employee cannot be found are
// reported as unresolved and left untouched. With dryRun nothing is written.
func (s *PayrollServiceImpl) MigrateLegacyTags(ctx context.Context, dryRun bool) (payroll.MigrationReport, error) {
	report := payroll.MigrationReport{DryRun: dryRun, Items: []payroll.MigrationItem{}}

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		rows, err := s.ledgerRepo.List(ctx, ledger.TransactionFilter{ManualOnly: true})
		if err != nil {
			return err
		}

		for _, t := range rows {
			source, reason, ok, err := s.recoverSource(ctx, t)
			if err != nil {
				return err
			}
			if source == nil && !ok {
				continue // not a payroll row
			}
			report.Scanned++

			item := payroll.MigrationItem{TransactionID: t.ID, Description: t.Description}
			if source != nil {
				item.Kind = string(source.Kind)
			}
			if !ok {
				item.Status = payroll.MigrationUnresolved
				item.Reason = reason
				report.Unresolved++
				report.Items = append(report.Items, item)
				continue
			}

			item.Status = payroll.MigrationLinked
			item.TimeLogID = source.TimeLogID
			report.Linked++
			report.Items = append(report.Items, item)

			if dryRun {
				continue
			}
			t.Source = source
			if _, err := s.ledgerRepo.Update(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return payroll.MigrationReport{}, err
	}

	slog.Info("Legacy tag migration finished",
		"dry_run", dryRun, "scanned", report.Scanned, "linked", report.Linked, "unresolved", report.Unresolved)
	return report, nil
}

// recoverSource derives an explicit source from a row's description.
// source is nil and ok false for rows that carry no payroll tag at all.
func (s *PayrollServiceImpl) recoverSource(ctx context.Context, t ledger.Transaction) (source *ledger.Source, reason string, ok bool, err error) {
	if month, isBulk := ledger.ParseBulkDescription(t.Description); isBulk {
		return &ledger.Source{Kind: ledger.SourceBulkPayroll, Month: month}, "", true, nil
	}

	tag, isTag := ledger.ParseTag(t.Description)
	if !isTag {
		return nil, "", false, nil
	}
	source = &ledger.Source{Kind: tag.Kind, Month: tag.Month}

	emp, err := s.employeeRepo.GetByName(ctx, tag.Name)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return source, "employee not found", false, nil
	}
	if err != nil {
		return nil, "", false, err
	}
	source.EmployeeID = emp.ID

	var log payroll.TimeLog
	if tag.Month == "" {
		log, err = s.timeLogRepo.GetLatestByEmployee(ctx, emp.ID)
	} else {
		log, err = s.timeLogRepo.GetByEmployeeMonth(ctx, emp.ID, tag.Month)
	}
	switch {
	case errors.Is(err, payroll.ErrTimeLogNotFound):
		if tag.Month == "" {
			return source, "month missing and employee has no time logs", false, nil
		}
		// employee and month are enough to find the log once it exists
		return source, "", true, nil
	case err != nil:
		return nil, "", false, err
	}

	if tag.Month == "" {
		slog.Warn("Legacy tag without month linked to most recent time log",
			"transaction_id", t.ID, "kind", tag.Kind, "employee", tag.Name, "month", log.Month)
		metrics.LegacyTagFallbacks.WithLabelValues(string(tag.Kind)).Inc()
	}

	source.TimeLogID = log.ID
	source.Month = log.Month
	return source, "", true, nil
}
