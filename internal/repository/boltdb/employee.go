package boltdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var e employee.Employee
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		found, err := getJSON(tx.Bucket([]byte(BucketEmployees)), id, &e)
		if err != nil {
			return err
		}
		if !found {
			return employee.ErrEmployeeNotFound
		}
		return nil
	})
	return e, err
}

func (r *employeeRepository) GetByName(ctx context.Context, name string) (employee.Employee, error) {
	var (
		e     employee.Employee
		found bool
	)
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		var err error
		e, found, err = findByName(tx, name, "")
		return err
	})
	if err != nil {
		return employee.Employee{}, err
	}
	if !found {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// findByName scans the bucket for name, ignoring the record with excludeID.
func findByName(tx *bolt.Tx, name, excludeID string) (employee.Employee, bool, error) {
	var (
		match employee.Employee
		found bool
	)
	err := tx.Bucket([]byte(BucketEmployees)).ForEach(func(k, v []byte) error {
		if found || string(k) == excludeID {
			return nil
		}
		var e employee.Employee
		if err := jsonUnmarshal(v, &e); err != nil {
			return err
		}
		if e.Name == name {
			match, found = e, true
		}
		return nil
	})
	return match, found, err
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	e := newEmployee
	e.ID = id.String()
	e.CreatedAt = now()
	e.UpdatedAt = e.CreatedAt

	err = r.store.update(ctx, func(tx *bolt.Tx) error {
		if _, exists, err := findByName(tx, e.Name, ""); err != nil {
			return err
		} else if exists {
			return employee.ErrNameExists
		}
		return putJSON(tx.Bucket([]byte(BucketEmployees)), e.ID, e)
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	err := r.store.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketEmployees))

		var current employee.Employee
		found, err := getJSON(b, e.ID, &current)
		if err != nil {
			return err
		}
		if !found {
			return employee.ErrEmployeeNotFound
		}
		if _, exists, err := findByName(tx, e.Name, e.ID); err != nil {
			return err
		} else if exists {
			return employee.ErrNameExists
		}

		e.CreatedAt = current.CreatedAt
		e.UpdatedAt = now()
		return putJSON(b, e.ID, e)
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

// Delete removes the employee together with their time logs. Ledger rows stay.
func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	return r.store.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketEmployees))
		if b.Get([]byte(id)) == nil {
			return employee.ErrEmployeeNotFound
		}
		if err := deleteTimeLogsOf(tx, id); err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
}

func (r *employeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	var employees []employee.Employee
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketEmployees)).ForEach(func(_, v []byte) error {
			var e employee.Employee
			if err := jsonUnmarshal(v, &e); err != nil {
				return err
			}
			employees = append(employees, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees, nil
}
