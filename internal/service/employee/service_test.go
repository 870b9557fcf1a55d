package employee

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/ledger-backend-go/internal/repository/boltdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) employee.EmployeeService {
	t.Helper()
	store, err := boltdb.Open(filepath.Join(t.TempDir(), "employees.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewEmployeeService(boltdb.NewEmployeeRepository(store))
}

func TestEmployeeService_CreateEmployee_Defaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	// Act
	resp, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "  Alice  ", Role: " cleaner "})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Alice", resp.Name)
	assert.Equal(t, "cleaner", resp.Role)
	assert.Equal(t, "cash", resp.PaymentMethod)
}

func TestEmployeeService_CreateEmployee_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	negative := decimal.NewFromInt(-1)

	// Act
	_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		Name:          "Alice@2025-03",
		HourlyRate:    &negative,
		PaymentMethod: "card",
	})

	// Assert
	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))
	fields := validationErrs.ToMap()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "hourly_rate")
	assert.Contains(t, fields, "payment_method")
}

func TestEmployeeService_UpdateEmployee_Partial(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	rate := decimal.NewFromInt(20)
	created, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "Alice", Role: "cleaner", HourlyRate: &rate})
	require.NoError(t, err)

	role := "driver"
	method := "bank"

	// Act
	updated, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: created.ID, Role: &role, PaymentMethod: &method})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "driver", updated.Role)
	assert.Equal(t, "bank", updated.PaymentMethod)
	require.NotNil(t, updated.HourlyRate)
	assert.True(t, rate.Equal(*updated.HourlyRate))
}

func TestEmployeeService_UpdateEmployee_DuplicateName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "Alice"})
	require.NoError(t, err)
	bob, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "Bob"})
	require.NoError(t, err)
	name := "Alice"

	// Act
	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: bob.ID, Name: &name})

	// Assert
	assert.ErrorIs(t, err, employee.ErrNameExists)
}

func TestEmployeeService_ListAndRoles(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	for _, req := range []employee.CreateEmployeeRequest{
		{Name: "Alice", Role: "cleaner"},
		{Name: "Bob", Role: "driver"},
		{Name: "Carol", Role: "cleaner"},
		{Name: "Dan"},
	} {
		_, err := svc.CreateEmployee(ctx, req)
		require.NoError(t, err)
	}

	// Act
	cleaners, err := svc.ListEmployees(ctx, employee.EmployeeFilter{Role: "cleaner"})
	require.NoError(t, err)
	search, err := svc.ListEmployees(ctx, employee.EmployeeFilter{Search: "CAR"})
	require.NoError(t, err)
	roles, err := svc.Roles(ctx)

	// Assert
	require.NoError(t, err)
	assert.Len(t, cleaners, 2)
	require.Len(t, search, 1)
	assert.Equal(t, "Carol", search[0].Name)
	assert.Equal(t, []string{"cleaner", "driver"}, roles)
}

func TestEmployeeService_DeleteEmployee_NotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.DeleteEmployee(context.Background(), "missing")

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
