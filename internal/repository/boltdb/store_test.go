package boltdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_WithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	employees := NewEmployeeRepository(store)
	boom := errors.New("boom")

	// Act
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := employees.Create(ctx, employee.Employee{Name: "Alice"}); err != nil {
			return err
		}
		return boom
	})

	// Assert
	assert.ErrorIs(t, err, boom)
	_, err = employees.GetByName(ctx, "Alice")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestStore_WithinTx_NestedCallsJoin(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	employees := NewEmployeeRepository(store)

	// Act
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		return store.WithinTx(ctx, func(ctx context.Context) error {
			_, err := employees.Create(ctx, employee.Employee{Name: "Alice"})
			return err
		})
	})

	// Assert
	require.NoError(t, err)
	_, err = employees.GetByName(ctx, "Alice")
	assert.NoError(t, err)
}

func TestEmployeeRepository_NameIsUnique(t *testing.T) {
	ctx := context.Background()
	employees := NewEmployeeRepository(openTestStore(t))

	alice, err := employees.Create(ctx, employee.Employee{Name: "Alice"})
	require.NoError(t, err)
	bob, err := employees.Create(ctx, employee.Employee{Name: "Bob"})
	require.NoError(t, err)

	// Act
	_, errCreate := employees.Create(ctx, employee.Employee{Name: "Alice"})
	bob.Name = "Alice"
	_, errUpdate := employees.Update(ctx, bob)
	alice.Role = "driver"
	_, errSelf := employees.Update(ctx, alice)

	// Assert
	assert.ErrorIs(t, errCreate, employee.ErrNameExists)
	assert.ErrorIs(t, errUpdate, employee.ErrNameExists)
	assert.NoError(t, errSelf)
}

func TestEmployeeRepository_DeleteRemovesTimeLogs(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	employees := NewEmployeeRepository(store)
	logs := NewTimeLogRepository(store)

	emp, err := employees.Create(ctx, employee.Employee{Name: "Alice"})
	require.NoError(t, err)
	_, err = logs.Create(ctx, payroll.NewTimeLog(emp.ID, "2025-03"))
	require.NoError(t, err)

	// Act
	err = employees.Delete(ctx, emp.ID)

	// Assert
	require.NoError(t, err)
	_, err = logs.GetByEmployeeMonth(ctx, emp.ID, "2025-03")
	assert.ErrorIs(t, err, payroll.ErrTimeLogNotFound)
	assert.ErrorIs(t, employees.Delete(ctx, emp.ID), employee.ErrEmployeeNotFound)
}

func TestTimeLogRepository_OnePerEmployeeMonth(t *testing.T) {
	ctx := context.Background()
	logs := NewTimeLogRepository(openTestStore(t))

	_, err := logs.Create(ctx, payroll.NewTimeLog("emp-1", "2025-03"))
	require.NoError(t, err)

	// Act
	_, errDuplicate := logs.Create(ctx, payroll.NewTimeLog("emp-1", "2025-03"))
	_, errOtherMonth := logs.Create(ctx, payroll.NewTimeLog("emp-1", "2025-04"))

	// Assert
	assert.ErrorIs(t, errDuplicate, payroll.ErrTimeLogExists)
	assert.NoError(t, errOtherMonth)
}

func TestTimeLogRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	logs := NewTimeLogRepository(openTestStore(t))
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	log := payroll.NewTimeLog("emp-1", "2025-03").WithHours(3, decimal.RequireFromString("7.5"))
	log.Advances = payroll.SubLedger{{Amount: decimal.NewFromInt(40), Date: date}}
	created, err := logs.Create(ctx, log)
	require.NoError(t, err)

	created.IsPaid = true
	created.Month = "2030-01"

	// Act
	updated, err := logs.Update(ctx, created)
	require.NoError(t, err)
	got, err := logs.GetByID(ctx, created.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, period.Month("2025-03"), updated.Month)
	assert.True(t, got.IsPaid)
	assert.True(t, decimal.RequireFromString("7.5").Equal(got.DailyHours[3]))
	require.Len(t, got.Advances, 1)
	assert.True(t, got.Advances[0].Date.Equal(date))
}

func TestTimeLogRepository_GetLatestByEmployee(t *testing.T) {
	ctx := context.Background()
	logs := NewTimeLogRepository(openTestStore(t))

	for _, m := range []period.Month{"2024-12", "2025-02", "2025-01"} {
		_, err := logs.Create(ctx, payroll.NewTimeLog("emp-1", m))
		require.NoError(t, err)
	}
	_, err := logs.Create(ctx, payroll.NewTimeLog("emp-2", "2025-06"))
	require.NoError(t, err)

	// Act
	latest, err := logs.GetLatestByEmployee(ctx, "emp-1")
	_, errNone := logs.GetLatestByEmployee(ctx, "emp-3")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, period.Month("2025-02"), latest.Month)
	assert.ErrorIs(t, errNone, payroll.ErrTimeLogNotFound)
}

func TestLedgerRepository_ListOrderAndSource(t *testing.T) {
	ctx := context.Background()
	txs := NewLedgerRepository(openTestStore(t))

	older, err := txs.Create(ctx, ledger.Transaction{
		Type:   ledger.TypeExpense,
		Amount: decimal.NewFromInt(10),
		Date:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Source: &ledger.Source{Kind: ledger.SourceAdvance, TimeLogID: "log-1", Month: "2025-03"},
	})
	require.NoError(t, err)
	newer, err := txs.Create(ctx, ledger.Transaction{
		Type:        ledger.TypeExpense,
		Amount:      decimal.NewFromInt(20),
		Date:        time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Description: "advance:Alice@2025-03",
	})
	require.NoError(t, err)
	_, err = txs.Create(ctx, ledger.Transaction{
		Type:   ledger.TypeExpense,
		Amount: decimal.NewFromInt(30),
		Date:   time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Source: &ledger.Source{Kind: ledger.SourceTravel, TimeLogID: "log-1", Month: "2025-03"},
	})
	require.NoError(t, err)

	// Act
	all, err := txs.List(ctx, ledger.TransactionFilter{})
	require.NoError(t, err)
	manual, err := txs.List(ctx, ledger.TransactionFilter{ManualOnly: true, Search: "alice@2025-03"})
	require.NoError(t, err)
	advances, err := txs.ListBySource(ctx, "log-1", ledger.SourceAdvance)
	require.NoError(t, err)
	linked, err := txs.ListBySource(ctx, "log-1")
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 3)
	assert.Equal(t, older.ID, all[2].ID)
	require.Len(t, manual, 1)
	assert.Equal(t, newer.ID, manual[0].ID)
	require.Len(t, advances, 1)
	assert.Equal(t, older.ID, advances[0].ID)
	assert.Len(t, linked, 2)
}

func TestLedgerRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	txs := NewLedgerRepository(openTestStore(t))

	_, errGet := txs.GetByID(ctx, "missing")
	_, errUpdate := txs.Update(ctx, ledger.Transaction{ID: "missing"})
	errDelete := txs.Delete(ctx, "missing")

	assert.ErrorIs(t, errGet, ledger.ErrTransactionNotFound)
	assert.ErrorIs(t, errUpdate, ledger.ErrTransactionNotFound)
	assert.ErrorIs(t, errDelete, ledger.ErrTransactionNotFound)
}
