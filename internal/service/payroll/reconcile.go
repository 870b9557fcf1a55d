package payroll

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

func (s *PayrollServiceImpl) source(kind ledger.SourceKind, m *mutation) *ledger.Source {
	return &ledger.Source{
		Kind:       kind,
		TimeLogID:  m.log.ID,
		EmployeeID: m.emp.ID,
		Month:      m.log.Month,
	}
}

// post writes one tagged ledger row for the mutation's time log.
func (s *PayrollServiceImpl) post(
	ctx context.Context,
	m *mutation,
	typ ledger.TransactionType,
	kind ledger.SourceKind,
	category string,
	amount decimal.Decimal,
) error {
	created, err := s.ledgerRepo.Create(ctx, ledger.Transaction{
		Type:          typ,
		Amount:        amount.Round(2),
		Category:      category,
		Date:          m.log.Month.PostingDate(s.cfg.Now()),
		Description:   ledger.FormatTag(kind, m.emp.Name, m.log.Month),
		PaymentMethod: m.emp.PaymentMethod,
		Source:        s.source(kind, m),
	})
	if err != nil {
		return fmt.Errorf("post %s transaction: %w", kind, err)
	}
	m.effect.Created = append(m.effect.Created, created)
	return nil
}

func (s *PayrollServiceImpl) update(ctx context.Context, m *mutation, t ledger.Transaction) error {
	updated, err := s.ledgerRepo.Update(ctx, t)
	if err != nil {
		return fmt.Errorf("update transaction %s: %w", t.ID, err)
	}
	m.effect.Updated = append(m.effect.Updated, updated)
	return nil
}

func (s *PayrollServiceImpl) remove(ctx context.Context, m *mutation, t ledger.Transaction) error {
	if err := s.ledgerRepo.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("delete transaction %s: %w", t.ID, err)
	}
	m.effect.Deleted = append(m.effect.Deleted, t)
	return nil
}

// linked returns the ledger rows of the given kinds that belong to the
// mutation's time log, newest first. Rows written before explicit sources
// existed are found through their description tag.
func (s *PayrollServiceImpl) linked(ctx context.Context, m *mutation, kinds ...ledger.SourceKind) ([]ledger.Transaction, error) {
	var out []ledger.Transaction
	if m.log.ID != "" {
		explicit, err := s.ledgerRepo.ListBySource(ctx, m.log.ID, kinds...)
		if err != nil {
			return nil, err
		}
		out = append(out, explicit...)
	}

	legacy, err := s.ledgerRepo.List(ctx, ledger.TransactionFilter{
		ManualOnly: true,
		Search:     m.emp.Name + "@" + m.log.Month.String(),
	})
	if err != nil {
		return nil, err
	}
	for _, t := range legacy {
		tag, ok := ledger.ParseTag(t.Description)
		if !ok || !tag.Matches(m.emp.Name, m.log.Month) {
			continue
		}
		for _, k := range kinds {
			if tag.Kind == k {
				out = append(out, t)
				break
			}
		}
	}

	newestFirst(out)
	return out, nil
}

func (s *PayrollServiceImpl) postAdvance(ctx context.Context, m *mutation, amount decimal.Decimal) error {
	return s.post(ctx, m, ledger.TypeExpense, ledger.SourceAdvance, s.salaryCategory(m.emp), amount)
}

func (s *PayrollServiceImpl) postRefund(ctx context.Context, m *mutation, amount decimal.Decimal) error {
	return s.post(ctx, m, ledger.TypeIncome, ledger.SourceRefundedAdvance, s.salaryCategory(m.emp), amount)
}

// adjustAdvances moves the ledger by diff after an advance total edit.
// A reduction consumes advance rows newest first, deleting rows that fit in
// what is left and shrinking the first one that does not; anything the rows
// cannot absorb is booked as correction income. An increase grows the newest
// advance row, or posts a new one.
func (s *PayrollServiceImpl) adjustAdvances(ctx context.Context, m *mutation, diff decimal.Decimal) error {
	if diff.IsZero() {
		return nil
	}

	advances, err := s.linked(ctx, m, ledger.SourceAdvance)
	if err != nil {
		return err
	}

	if diff.IsPositive() {
		if len(advances) == 0 {
			return s.postAdvance(ctx, m, diff)
		}
		newest := advances[0]
		newest.Amount = newest.Amount.Add(diff).Round(2)
		return s.update(ctx, m, newest)
	}

	remaining := diff.Neg()
	for _, t := range advances {
		if !remaining.IsPositive() {
			break
		}
		if t.Amount.LessThanOrEqual(remaining) {
			if err := s.remove(ctx, m, t); err != nil {
				return err
			}
			remaining = remaining.Sub(t.Amount)
			continue
		}
		t.Amount = t.Amount.Sub(remaining).Round(2)
		if err := s.update(ctx, m, t); err != nil {
			return err
		}
		remaining = decimal.Zero
	}

	if remaining.IsPositive() {
		return s.post(ctx, m, ledger.TypeIncome, ledger.SourceCorrection, s.cfg.CorrectionCategory, remaining)
	}
	return nil
}

// postSettlement books the final payment: the salary still owed net of
// travel, and travel as its own row. Zero amounts are not posted.
func (s *PayrollServiceImpl) postSettlement(ctx context.Context, m *mutation) error {
	b := payroll.Calculate(m.emp, m.log)

	salary := b.RemainingSalary.Sub(b.TravelTotal).Round(2)
	if salary.IsPositive() {
		if err := s.post(ctx, m, ledger.TypeExpense, ledger.SourceRemainingSettlement, s.salaryCategory(m.emp), salary); err != nil {
			return err
		}
	}

	travel := b.TravelTotal.Round(2)
	if travel.IsPositive() {
		if err := s.post(ctx, m, ledger.TypeExpense, ledger.SourceTravel, s.cfg.TravelCategory, travel); err != nil {
			return err
		}
	}
	return nil
}

func (s *PayrollServiceImpl) removeSettlement(ctx context.Context, m *mutation) error {
	rows, err := s.linked(ctx, m, ledger.SourceRemainingSettlement, ledger.SourceFullSettlement, ledger.SourceTravel)
	if err != nil {
		return err
	}
	for _, t := range rows {
		if err := s.remove(ctx, m, t); err != nil {
			return err
		}
	}
	return nil
}
