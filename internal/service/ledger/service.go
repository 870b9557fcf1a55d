package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/validator"
)

// Config holds the category vocabulary. Payroll categories are always allowed
// so that users can re-enter rows the payroll engine would post.
type Config struct {
	Categories         ledger.Categories
	CorrectionCategory string
	TravelCategory     string
}

type LedgerServiceImpl struct {
	txm          database.TxManager
	repo         ledger.TransactionRepository
	employeeRepo employee.EmployeeRepository
	reconciler   ledger.Reconciler
	hub          *sse.Hub
	notifier     ledger.Notifier
	cfg          Config
}

func NewLedgerService(
	txm database.TxManager,
	repo ledger.TransactionRepository,
	employeeRepo employee.EmployeeRepository,
	reconciler ledger.Reconciler,
	hub *sse.Hub,
	cfg Config,
) ledger.LedgerService {
	return &LedgerServiceImpl{
		txm:          txm,
		repo:         repo,
		employeeRepo: employeeRepo,
		reconciler:   reconciler,
		hub:          hub,
		notifier:     NewHubNotifier(hub),
		cfg:          cfg,
	}
}

func (s *LedgerServiceImpl) Categories(ctx context.Context) (ledger.Categories, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return ledger.Categories{}, err
	}

	income := appendUnique(nil, s.cfg.Categories.Income...)
	income = appendUnique(income, s.cfg.CorrectionCategory)

	expense := appendUnique(nil, s.cfg.Categories.Expense...)
	expense = appendUnique(expense, s.cfg.TravelCategory)
	for _, e := range employees {
		expense = appendUnique(expense, e.Role)
	}

	return ledger.Categories{Income: income, Expense: expense}, nil
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if v == "" || validator.IsInSlice(v, list) {
			continue
		}
		list = append(list, v)
	}
	return list
}

func (s *LedgerServiceImpl) checkCategory(ctx context.Context, t ledger.TransactionType, category string) error {
	cats, err := s.Categories(ctx)
	if err != nil {
		return err
	}
	if !cats.Allows(t, category) {
		return fmt.Errorf("%w: %q", ledger.ErrInvalidCategory, category)
	}
	return nil
}

func (s *LedgerServiceImpl) CreateTransaction(ctx context.Context, req ledger.CreateTransactionRequest) (ledger.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return ledger.TransactionResponse{}, err
	}

	t := ledger.Transaction{
		Type:          ledger.TransactionType(req.Type),
		Amount:        req.Amount,
		Category:      strings.TrimSpace(req.Category),
		Description:   strings.TrimSpace(req.Description),
		PaymentMethod: ledger.PaymentMethod(req.PaymentMethod),
	}
	t.Date, _ = time.Parse("2006-01-02", req.Date)

	if err := s.checkCategory(ctx, t.Type, t.Category); err != nil {
		return ledger.TransactionResponse{}, err
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return ledger.TransactionResponse{}, err
	}

	s.notifier.Notify(ledger.Effect{Created: []ledger.Transaction{created}})
	return ledger.NewTransactionResponse(created), nil
}

func (s *LedgerServiceImpl) UpdateTransaction(ctx context.Context, req ledger.UpdateTransactionRequest) (ledger.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return ledger.TransactionResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return ledger.TransactionResponse{}, err
	}

	if req.Type != nil {
		current.Type = ledger.TransactionType(*req.Type)
	}
	if req.Amount != nil {
		current.Amount = *req.Amount
	}
	if req.Category != nil {
		current.Category = strings.TrimSpace(*req.Category)
	}
	if req.Date != nil {
		current.Date, _ = time.Parse("2006-01-02", *req.Date)
	}
	if req.Description != nil {
		current.Description = strings.TrimSpace(*req.Description)
	}
	if req.PaymentMethod != nil {
		current.PaymentMethod = ledger.PaymentMethod(*req.PaymentMethod)
	}

	if req.Type != nil || req.Category != nil {
		if err := s.checkCategory(ctx, current.Type, current.Category); err != nil {
			return ledger.TransactionResponse{}, err
		}
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return ledger.TransactionResponse{}, err
	}

	s.notifier.Notify(ledger.Effect{Updated: []ledger.Transaction{updated}})
	return ledger.NewTransactionResponse(updated), nil
}

func (s *LedgerServiceImpl) GetTransaction(ctx context.Context, id string) (ledger.TransactionResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ledger.TransactionResponse{}, err
	}
	return ledger.NewTransactionResponse(t), nil
}

func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, filter ledger.TransactionFilter) (ledger.ListTransactionResponse, error) {
	txs, err := s.repo.List(ctx, filter)
	if err != nil {
		return ledger.ListTransactionResponse{}, err
	}
	return ledger.ListTransactionResponse{
		Data:   ledger.NewTransactionResponses(txs),
		Totals: ledger.ComputeTotals(txs),
	}, nil
}

// DeleteTransaction removes the row and undoes its payroll effect atomically.
// A missing time log does not block the deletion.
func (s *LedgerServiceImpl) DeleteTransaction(ctx context.Context, id string) (ledger.DeleteTransactionResponse, error) {
	var (
		deleted  ledger.Transaction
		reversal ledger.Reversal
	)

	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		reversal, err = s.reconciler.ReverseDeletion(ctx, deleted)
		if err != nil {
			return fmt.Errorf("reverse payroll effect: %w", err)
		}

		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return ledger.DeleteTransactionResponse{}, err
	}

	s.notifier.Notify(ledger.Effect{Deleted: []ledger.Transaction{deleted}})

	return ledger.DeleteTransactionResponse{
		Transaction: ledger.NewTransactionResponse(deleted),
		Reversal: ledger.ReversalResponse{
			Outcome:   string(reversal.Outcome),
			Kind:      string(reversal.Kind),
			TimeLogID: reversal.TimeLogID,
			Legacy:    reversal.Legacy,
			Fallback:  reversal.Fallback,
		},
	}, nil
}

func (s *LedgerServiceImpl) Subscribe(ctx context.Context) (<-chan ledger.StreamEvent, func()) {
	return subscribe(ctx, s.hub)
}
