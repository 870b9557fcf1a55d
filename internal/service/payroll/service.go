package payroll

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Config tunes ledger postings made by the payroll engine.
type Config struct {
	CorrectionCategory    string // income category for unabsorbed advance reductions
	TravelCategory        string // expense category for travel reimbursements
	DefaultSalaryCategory string // used when an employee has no role
	Now                   func() time.Time
}

func (c Config) withDefaults() Config {
	if c.CorrectionCategory == "" {
		c.CorrectionCategory = "correction"
	}
	if c.TravelCategory == "" {
		c.TravelCategory = "travel"
	}
	if c.DefaultSalaryCategory == "" {
		c.DefaultSalaryCategory = "salaries"
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

type PayrollServiceImpl struct {
	txm          database.TxManager
	timeLogRepo  payroll.TimeLogRepository
	employeeRepo employee.EmployeeRepository
	ledgerRepo   ledger.TransactionRepository
	notifier     ledger.Notifier
	cfg          Config
}

func NewPayrollService(
	txm database.TxManager,
	timeLogRepo payroll.TimeLogRepository,
	employeeRepo employee.EmployeeRepository,
	ledgerRepo ledger.TransactionRepository,
	notifier ledger.Notifier,
	cfg Config,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		txm:          txm,
		timeLogRepo:  timeLogRepo,
		employeeRepo: employeeRepo,
		ledgerRepo:   ledgerRepo,
		notifier:     notifier,
		cfg:          cfg.withDefaults(),
	}
}

// mutation is the working state of one payroll operation.
type mutation struct {
	emp    employee.Employee
	log    payroll.TimeLog
	dirty  bool
	effect ledger.Effect
}

// mutate loads the employee and the month's time log inside one store
// transaction, runs fn and persists the log when fn marked it dirty. When the
// log does not exist yet and create is false, ErrTimeLogNotFound is returned.
func (s *PayrollServiceImpl) mutate(
	ctx context.Context,
	op string,
	req payroll.PeriodRequest,
	create bool,
	fn func(ctx context.Context, m *mutation) error,
) (payroll.ActionResponse, error) {
	if err := req.Validate(); err != nil {
		recordOutcome(op, err)
		return payroll.ActionResponse{}, err
	}
	month, _ := period.ParseMonth(req.Month)

	var m mutation
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		log, err := s.timeLogRepo.GetByEmployeeMonth(ctx, emp.ID, month)
		if errors.Is(err, payroll.ErrTimeLogNotFound) && create {
			log, err = payroll.NewTimeLog(emp.ID, month), nil
		}
		if err != nil {
			return err
		}

		m = mutation{emp: emp, log: log}
		if err := fn(ctx, &m); err != nil {
			return err
		}

		if m.dirty {
			return s.saveLog(ctx, &m)
		}
		return nil
	})
	recordOutcome(op, err)
	if err != nil {
		return payroll.ActionResponse{}, err
	}

	if !m.effect.Empty() {
		s.notifier.Notify(m.effect)
	}

	return payroll.ActionResponse{
		TimeLog: toTimeLogResponse(m.emp, m.log),
		Ledger:  ledger.NewEffectResponse(m.effect),
	}, nil
}

// mutateAmount validates an amount request and runs fn through mutate, creating
// the log when needed.
func (s *PayrollServiceImpl) mutateAmount(
	ctx context.Context,
	op string,
	req payroll.AmountRequest,
	fn func(ctx context.Context, m *mutation, amount decimal.Decimal) error,
) (payroll.ActionResponse, error) {
	if err := req.Validate(); err != nil {
		recordOutcome(op, err)
		return payroll.ActionResponse{}, err
	}
	amount := *req.Amount
	return s.mutate(ctx, op, req.PeriodRequest, true, func(ctx context.Context, m *mutation) error {
		return fn(ctx, m, amount)
	})
}

// ensureLog persists a freshly created log so that ledger rows can reference its ID.
func (s *PayrollServiceImpl) ensureLog(ctx context.Context, m *mutation) error {
	if m.log.ID != "" {
		return nil
	}
	created, err := s.timeLogRepo.Create(ctx, m.log)
	if err != nil {
		return err
	}
	m.log = created
	return nil
}

func (s *PayrollServiceImpl) saveLog(ctx context.Context, m *mutation) error {
	if m.log.ID == "" {
		return s.ensureLog(ctx, m)
	}
	updated, err := s.timeLogRepo.Update(ctx, m.log)
	if err != nil {
		return err
	}
	m.log = updated
	return nil
}

func (s *PayrollServiceImpl) today() time.Time {
	now := s.cfg.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *PayrollServiceImpl) salaryCategory(emp employee.Employee) string {
	if emp.Role != "" {
		return emp.Role
	}
	return s.cfg.DefaultSalaryCategory
}

// recordOutcome counts an operation as ok, rejected, not_found or error.
func recordOutcome(op string, err error) {
	metrics.PayrollOperations.WithLabelValues(op, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &validationErrs),
		errors.Is(err, payroll.ErrInvalidAmount),
		errors.Is(err, payroll.ErrNegativeAmount),
		errors.Is(err, payroll.ErrAdvanceExceedsRemaining),
		errors.Is(err, payroll.ErrRefundExceedsAdvances),
		errors.Is(err, payroll.ErrAlreadyPaid),
		errors.Is(err, payroll.ErrNotPaid),
		errors.Is(err, payroll.ErrInvalidDay),
		errors.Is(err, payroll.ErrInvalidHours):
		return "rejected"
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, payroll.ErrTimeLogNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// ========== MAPPERS ==========

func toEntryResponses(s payroll.SubLedger) []payroll.EntryResponse {
	out := make([]payroll.EntryResponse, 0, len(s))
	for _, e := range s {
		out = append(out, payroll.EntryResponse{Amount: e.Amount, Date: e.Date.Format("2006-01-02")})
	}
	return out
}

func toTimeLogResponse(emp employee.Employee, log payroll.TimeLog) payroll.TimeLogResponse {
	hours := make(map[int]decimal.Decimal, len(log.DailyHours))
	for d, h := range log.DailyHours {
		hours[d] = h
	}
	return payroll.TimeLogResponse{
		ID:             log.ID,
		EmployeeID:     log.EmployeeID,
		Month:          log.Month.String(),
		DailyHours:     hours,
		Advances:       toEntryResponses(log.Advances),
		TravelExpenses: toEntryResponses(log.TravelExpenses),
		IsPaid:         log.IsPaid,
		Breakdown:      payroll.NewBreakdownResponse(payroll.Calculate(emp, log)),
		UpdatedAt:      log.UpdatedAt,
	}
}

// newestFirst orders ledger rows the way advances are consumed.
func newestFirst(txs []ledger.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
