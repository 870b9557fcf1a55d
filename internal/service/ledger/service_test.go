package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/ledger-backend-go/internal/repository/boltdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReconciler records what it was asked to reverse.
type stubReconciler struct {
	reversed []ledger.Transaction
	outcome  ledger.ReversalOutcome
	err      error
}

func (r *stubReconciler) ReverseDeletion(ctx context.Context, t ledger.Transaction) (ledger.Reversal, error) {
	r.reversed = append(r.reversed, t)
	if r.err != nil {
		return ledger.Reversal{}, r.err
	}
	return ledger.Reversal{Outcome: r.outcome}, nil
}

type ledgerFixture struct {
	ctx        context.Context
	svc        ledger.LedgerService
	repo       ledger.TransactionRepository
	employees  employee.EmployeeRepository
	reconciler *stubReconciler
	hub        *sse.Hub
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	store, err := boltdb.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	repo := boltdb.NewLedgerRepository(store)
	employees := boltdb.NewEmployeeRepository(store)
	reconciler := &stubReconciler{outcome: ledger.ReversalNone}
	hub := sse.NewHub()

	svc := NewLedgerService(store, repo, employees, reconciler, hub, Config{
		Categories:         ledger.Categories{Income: []string{"sales"}, Expense: []string{"rent", "supplies"}},
		CorrectionCategory: "correction",
		TravelCategory:     "travel",
	})

	return &ledgerFixture{
		ctx:        context.Background(),
		svc:        svc,
		repo:       repo,
		employees:  employees,
		reconciler: reconciler,
		hub:        hub,
	}
}

func createRequest(typ, category, amount, date string) ledger.CreateTransactionRequest {
	return ledger.CreateTransactionRequest{
		Type:          typ,
		Amount:        decimal.RequireFromString(amount),
		Category:      category,
		Date:          date,
		Description:   "  office rent  ",
		PaymentMethod: "bank",
	}
}

func TestLedgerService_Categories_IncludesRoles(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := f.employees.Create(f.ctx, employee.Employee{Name: "Alice", Role: "cleaner", PaymentMethod: ledger.PaymentCash})
	require.NoError(t, err)
	_, err = f.employees.Create(f.ctx, employee.Employee{Name: "Bob", Role: "cleaner", PaymentMethod: ledger.PaymentCash})
	require.NoError(t, err)

	// Act
	cats, err := f.svc.Categories(f.ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"sales", "correction"}, cats.Income)
	assert.Equal(t, []string{"rent", "supplies", "travel", "cleaner"}, cats.Expense)
}

func TestLedgerService_CreateTransaction_Success(t *testing.T) {
	f := newLedgerFixture(t)
	events, cleanup := f.svc.Subscribe(f.ctx)
	defer cleanup()

	// Act
	resp, err := f.svc.CreateTransaction(f.ctx, createRequest("expense", "rent", "1200.45", "2025-03-01"))

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "office rent", resp.Description)
	assert.Equal(t, "2025-03-01", resp.Date)
	assert.True(t, decimal.RequireFromString("1200.45").Equal(resp.Amount))
	assert.Nil(t, resp.Source)

	select {
	case ev := <-events:
		assert.Equal(t, EventCreated, ev.Event)
		assert.Equal(t, resp.ID, ev.Data.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a created event")
	}
}

func TestLedgerService_CreateTransaction_UnknownCategory(t *testing.T) {
	f := newLedgerFixture(t)

	// Act
	_, errType := f.svc.CreateTransaction(f.ctx, createRequest("income", "rent", "10", "2025-03-01"))
	_, errName := f.svc.CreateTransaction(f.ctx, createRequest("expense", "yachts", "10", "2025-03-01"))

	// Assert
	assert.ErrorIs(t, errType, ledger.ErrInvalidCategory)
	assert.ErrorIs(t, errName, ledger.ErrInvalidCategory)
}

func TestLedgerService_CreateTransaction_Validation(t *testing.T) {
	f := newLedgerFixture(t)

	// Act
	_, err := f.svc.CreateTransaction(f.ctx, ledger.CreateTransactionRequest{
		Type:          "gift",
		Amount:        decimal.Zero,
		Date:          "2025-02-30",
		PaymentMethod: "card",
	})

	// Assert
	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	fields := validationErrs.ToMap()
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "amount")
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "payment_method")
}

func TestLedgerService_Transactions_RejectSubCentAmounts(t *testing.T) {
	f := newLedgerFixture(t)
	created, err := f.svc.CreateTransaction(f.ctx, createRequest("expense", "rent", "100", "2025-03-01"))
	require.NoError(t, err)
	amount := decimal.RequireFromString("10.005")

	// Act
	_, errCreate := f.svc.CreateTransaction(f.ctx, createRequest("expense", "rent", "0.004", "2025-03-01"))
	_, errUpdate := f.svc.UpdateTransaction(f.ctx, ledger.UpdateTransactionRequest{ID: created.ID, Amount: &amount})

	// Assert
	for _, err := range []error{errCreate, errUpdate} {
		var validationErrs validator.ValidationErrors
		require.True(t, errors.As(err, &validationErrs))
		assert.Contains(t, validationErrs.ToMap(), "amount")
	}
	stored, err := f.repo.GetByID(f.ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(stored.Amount))
}

func TestLedgerService_UpdateTransaction_PartialFields(t *testing.T) {
	f := newLedgerFixture(t)
	created, err := f.svc.CreateTransaction(f.ctx, createRequest("expense", "rent", "100", "2025-03-01"))
	require.NoError(t, err)

	amount := decimal.NewFromInt(150)
	category := "supplies"

	// Act
	updated, err := f.svc.UpdateTransaction(f.ctx, ledger.UpdateTransactionRequest{
		ID:       created.ID,
		Amount:   &amount,
		Category: &category,
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, amount.Equal(updated.Amount))
	assert.Equal(t, "supplies", updated.Category)
	assert.Equal(t, created.Date, updated.Date)
	assert.Equal(t, created.Description, updated.Description)
}

func TestLedgerService_UpdateTransaction_TypeChangeRechecksCategory(t *testing.T) {
	f := newLedgerFixture(t)
	created, err := f.svc.CreateTransaction(f.ctx, createRequest("expense", "rent", "100", "2025-03-01"))
	require.NoError(t, err)
	income := "income"

	// Act
	_, err = f.svc.UpdateTransaction(f.ctx, ledger.UpdateTransactionRequest{ID: created.ID, Type: &income})

	// Assert
	assert.ErrorIs(t, err, ledger.ErrInvalidCategory)
}

func TestLedgerService_UpdateTransaction_NotFound(t *testing.T) {
	f := newLedgerFixture(t)
	amount := decimal.NewFromInt(1)

	// Act
	_, err := f.svc.UpdateTransaction(f.ctx, ledger.UpdateTransactionRequest{ID: "missing", Amount: &amount})

	// Assert
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
}

func TestLedgerService_ListTransactions_Totals(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := f.svc.CreateTransaction(f.ctx, createRequest("expense", "rent", "100", "2025-03-01"))
	require.NoError(t, err)
	_, err = f.svc.CreateTransaction(f.ctx, createRequest("income", "sales", "250", "2025-03-02"))
	require.NoError(t, err)
	_, err = f.svc.CreateTransaction(f.ctx, createRequest("income", "sales", "999", "2025-04-02"))
	require.NoError(t, err)

	// Act
	resp, err := f.svc.ListTransactions(f.ctx, ledger.TransactionFilter{Month: "2025-03"})

	// Assert
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "2025-03-02", resp.Data[0].Date)
	assert.True(t, decimal.NewFromInt(250).Equal(resp.Totals.Income))
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Totals.Expense))
	assert.True(t, decimal.NewFromInt(150).Equal(resp.Totals.Net))
}

func TestLedgerService_DeleteTransaction_RunsReversal(t *testing.T) {
	f := newLedgerFixture(t)
	f.reconciler.outcome = ledger.ReversalAdvanceRemoved
	created, err := f.svc.CreateTransaction(f.ctx, createRequest("expense", "rent", "100", "2025-03-01"))
	require.NoError(t, err)

	// Act
	resp, err := f.svc.DeleteTransaction(f.ctx, created.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, string(ledger.ReversalAdvanceRemoved), resp.Reversal.Outcome)
	require.Len(t, f.reconciler.reversed, 1)
	assert.Equal(t, created.ID, f.reconciler.reversed[0].ID)

	_, err = f.repo.GetByID(f.ctx, created.ID)
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
}

func TestLedgerService_DeleteTransaction_ReversalFailureKeepsRow(t *testing.T) {
	f := newLedgerFixture(t)
	f.reconciler.err = errors.New("store unavailable")
	created, err := f.svc.CreateTransaction(f.ctx, createRequest("expense", "rent", "100", "2025-03-01"))
	require.NoError(t, err)

	// Act
	_, err = f.svc.DeleteTransaction(f.ctx, created.ID)

	// Assert
	require.Error(t, err)
	_, err = f.repo.GetByID(f.ctx, created.ID)
	assert.NoError(t, err)
}

func TestLedgerService_DeleteTransaction_NotFound(t *testing.T) {
	f := newLedgerFixture(t)

	// Act
	_, err := f.svc.DeleteTransaction(f.ctx, "missing")

	// Assert
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
	assert.Empty(t, f.reconciler.reversed)
}

func TestLedgerService_Subscribe_StopsOnCancel(t *testing.T) {
	f := newLedgerFixture(t)
	ctx, cancel := context.WithCancel(f.ctx)

	events, cleanup := f.svc.Subscribe(ctx)
	defer cleanup()
	assert.Equal(t, 1, f.hub.SubscriberCount(ledger.StreamTopic))

	// Act
	cancel()

	// Assert
	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream was not closed")
	}
}
