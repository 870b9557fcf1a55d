package payroll

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
)

// sourceRef is where a deleted transaction came from, however it was recovered.
type sourceRef struct {
	kind       ledger.SourceKind
	timeLogID  string
	employeeID string
	name       string
	month      period.Month
	legacy     bool
}

func resolveSource(t ledger.Transaction) (sourceRef, bool) {
	if t.Source != nil {
		return sourceRef{
			kind:       t.Source.Kind,
			timeLogID:  t.Source.TimeLogID,
			employeeID: t.Source.EmployeeID,
			month:      t.Source.Month,
		}, true
	}

	tag, ok := ledger.ParseTag(t.Description)
	if !ok {
		return sourceRef{}, false
	}
	return sourceRef{kind: tag.Kind, name: tag.Name, month: tag.Month, legacy: true}, true
}

// ReverseDeletion undoes the payroll effect of a transaction that is being
// deleted. It must run in the same store transaction as the deletion.
// A time log that cannot be found is not an error: the deletion goes ahead
// and the outcome says the reversal was skipped.
func (s *PayrollServiceImpl) ReverseDeletion(ctx context.Context, t ledger.Transaction) (ledger.Reversal, error) {
	ref, ok := resolveSource(t)
	if !ok {
		metrics.ReverseReconciliations.WithLabelValues("manual", string(ledger.ReversalNone)).Inc()
		return ledger.Reversal{Outcome: ledger.ReversalNone}, nil
	}

	var reversal ledger.Reversal
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		reversal, err = s.reverse(ctx, t, ref)
		return err
	})
	if err != nil {
		return ledger.Reversal{}, err
	}

	metrics.ReverseReconciliations.WithLabelValues(string(ref.kind), string(reversal.Outcome)).Inc()
	return reversal, nil
}

func (s *PayrollServiceImpl) reverse(ctx context.Context, t ledger.Transaction, ref sourceRef) (ledger.Reversal, error) {
	reversal := ledger.Reversal{Outcome: ledger.ReversalNone, Kind: ref.kind, Legacy: ref.legacy}

	if ref.kind != ledger.SourceAdvance && ref.kind != ledger.SourceRefundedAdvance && !ref.kind.IsSettlement() {
		return reversal, nil
	}

	log, fallback, err := s.locateLog(ctx, ref)
	if errors.Is(err, payroll.ErrTimeLogNotFound) || errors.Is(err, employee.ErrEmployeeNotFound) {
		slog.Warn("Reverse reconciliation skipped, time log not found",
			"transaction_id", t.ID, "kind", ref.kind, "month", ref.month, "legacy", ref.legacy)
		reversal.Outcome = ledger.ReversalSkippedNoTimeLog
		return reversal, nil
	}
	if err != nil {
		return ledger.Reversal{}, err
	}
	reversal.TimeLogID = log.ID
	reversal.Fallback = fallback

	switch {
	case ref.kind == ledger.SourceAdvance:
		if next, removed := log.Advances.RemoveMatching(t.Amount, payroll.MatchTolerance); removed {
			log.Advances = next
			reversal.Outcome = ledger.ReversalAdvanceRemoved
		} else {
			log.Advances = log.Advances.Append(payroll.Entry{Amount: t.Amount.Neg(), Date: s.today()})
			reversal.Outcome = ledger.ReversalAdvanceCompensated
		}

	case ref.kind.IsSettlement():
		log.IsPaid = false
		reversal.Outcome = ledger.ReversalSettlementReopened

	case ref.kind == ledger.SourceRefundedAdvance:
		// the refund never happened, so the money is owed again
		log.Advances = log.Advances.Append(payroll.Entry{Amount: t.Amount, Date: s.today()})
		reversal.Outcome = ledger.ReversalAdvanceRestored
	}

	if _, err := s.timeLogRepo.Update(ctx, log); err != nil {
		return ledger.Reversal{}, err
	}
	return reversal, nil
}

// locateLog finds the time log a source points at. Legacy refunded-advance
// tags carry no month; they fall back to the employee's most recent log and
// report fallback=true.
func (s *PayrollServiceImpl) locateLog(ctx context.Context, ref sourceRef) (payroll.TimeLog, bool, error) {
	if ref.timeLogID != "" {
		log, err := s.timeLogRepo.GetByID(ctx, ref.timeLogID)
		return log, false, err
	}

	employeeID := ref.employeeID
	if employeeID == "" {
		emp, err := s.employeeRepo.GetByName(ctx, ref.name)
		if err != nil {
			return payroll.TimeLog{}, false, err
		}
		employeeID = emp.ID
	}

	if ref.month != "" {
		log, err := s.timeLogRepo.GetByEmployeeMonth(ctx, employeeID, ref.month)
		return log, false, err
	}

	log, err := s.timeLogRepo.GetLatestByEmployee(ctx, employeeID)
	if err != nil {
		return payroll.TimeLog{}, false, err
	}
	slog.Warn("Legacy tag without month resolved to most recent time log",
		"kind", ref.kind, "employee", ref.name, "month", log.Month)
	metrics.LegacyTagFallbacks.WithLabelValues(string(ref.kind)).Inc()
	return log, true, nil
}
