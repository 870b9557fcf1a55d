package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/ledger-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository_NameIsUnique(t *testing.T) {
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(newTestDatabase(t))

	_, err := employees.Create(ctx, employee.Employee{Name: "Alice", PaymentMethod: ledger.PaymentCash})
	require.NoError(t, err)

	// Act
	_, err = employees.Create(ctx, employee.Employee{Name: "Alice", PaymentMethod: ledger.PaymentCash})

	// Assert
	assert.ErrorIs(t, err, employee.ErrNameExists)
}

func TestTimeLogRepository_RoundTripAndUniqueMonth(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	employees := postgresql.NewEmployeeRepository(db)
	logs := postgresql.NewTimeLogRepository(db)

	emp, err := employees.Create(ctx, employee.Employee{Name: "Alice", PaymentMethod: ledger.PaymentBank})
	require.NoError(t, err)

	log := payroll.NewTimeLog(emp.ID, "2025-03").WithHours(4, decimal.RequireFromString("6.5"))
	log.Advances = payroll.SubLedger{{Amount: decimal.NewFromInt(40), Date: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)}}

	// Act
	created, err := logs.Create(ctx, log)
	require.NoError(t, err)
	_, errDuplicate := logs.Create(ctx, payroll.NewTimeLog(emp.ID, "2025-03"))
	got, err := logs.GetByEmployeeMonth(ctx, emp.ID, "2025-03")

	// Assert
	require.NoError(t, err)
	assert.ErrorIs(t, errDuplicate, payroll.ErrTimeLogExists)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, period.Month("2025-03"), got.Month)
	assert.True(t, decimal.RequireFromString("6.5").Equal(got.DailyHours[4]))
	require.Len(t, got.Advances, 1)
	assert.True(t, decimal.NewFromInt(40).Equal(got.Advances[0].Amount))
}

func TestLedgerRepository_SourceQueries(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	employees := postgresql.NewEmployeeRepository(db)
	logs := postgresql.NewTimeLogRepository(db)
	txs := postgresql.NewLedgerRepository(db)

	emp, err := employees.Create(ctx, employee.Employee{Name: "Alice", PaymentMethod: ledger.PaymentBank})
	require.NoError(t, err)
	log, err := logs.Create(ctx, payroll.NewTimeLog(emp.ID, "2025-03"))
	require.NoError(t, err)

	advance, err := txs.Create(ctx, ledger.Transaction{
		Type:          ledger.TypeExpense,
		Amount:        decimal.NewFromInt(40),
		Category:      "cleaner",
		Date:          time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		PaymentMethod: ledger.PaymentBank,
		Source:        &ledger.Source{Kind: ledger.SourceAdvance, TimeLogID: log.ID, EmployeeID: emp.ID, Month: "2025-03"},
	})
	require.NoError(t, err)
	_, err = txs.Create(ctx, ledger.Transaction{
		Type:          ledger.TypeIncome,
		Amount:        decimal.NewFromInt(250),
		Category:      "sales",
		Date:          time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Description:   "Front desk",
		PaymentMethod: ledger.PaymentCash,
	})
	require.NoError(t, err)

	// Act
	linked, err := txs.ListBySource(ctx, log.ID, ledger.SourceAdvance)
	require.NoError(t, err)
	march, err := txs.List(ctx, ledger.TransactionFilter{Month: "2025-03"})
	require.NoError(t, err)
	manual, err := txs.List(ctx, ledger.TransactionFilter{ManualOnly: true, Search: "front"})
	require.NoError(t, err)

	// Assert
	require.Len(t, linked, 1)
	assert.Equal(t, advance.ID, linked[0].ID)
	require.NotNil(t, linked[0].Source)
	assert.Equal(t, emp.ID, linked[0].Source.EmployeeID)
	require.Len(t, march, 1)
	require.Len(t, manual, 1)
	assert.Equal(t, "Front desk", manual[0].Description)
}

func TestTxManager_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	txm := postgresql.NewTxManager(db)
	employees := postgresql.NewEmployeeRepository(db)
	boom := errors.New("boom")

	// Act
	err := txm.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := employees.Create(ctx, employee.Employee{Name: "Alice", PaymentMethod: ledger.PaymentCash}); err != nil {
			return err
		}
		return boom
	})

	// Assert
	assert.ErrorIs(t, err, boom)
	_, err = employees.GetByName(ctx, "Alice")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
