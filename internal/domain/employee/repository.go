package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetByName resolves the display name used in legacy ledger descriptions.
	GetByName(ctx context.Context, name string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
	// List returns all employees ordered by name.
	List(ctx context.Context) ([]Employee, error)
}
