package boltdb

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

type timeLogRepository struct {
	store *Store
}

func NewTimeLogRepository(store *Store) payroll.TimeLogRepository {
	return &timeLogRepository{store: store}
}

func timeLogKey(employeeID string, month period.Month) string {
	return employeeID + "|" + month.String()
}

func getTimeLog(tx *bolt.Tx, id string) (payroll.TimeLog, error) {
	var l payroll.TimeLog
	found, err := getJSON(tx.Bucket([]byte(BucketTimeLogs)), id, &l)
	if err != nil {
		return payroll.TimeLog{}, err
	}
	if !found {
		return payroll.TimeLog{}, payroll.ErrTimeLogNotFound
	}
	return l, nil
}

func forEachTimeLog(tx *bolt.Tx, fn func(l payroll.TimeLog) error) error {
	return tx.Bucket([]byte(BucketTimeLogs)).ForEach(func(_, v []byte) error {
		var l payroll.TimeLog
		if err := jsonUnmarshal(v, &l); err != nil {
			return err
		}
		return fn(l)
	})
}

func deleteTimeLogsOf(tx *bolt.Tx, employeeID string) error {
	var doomed []payroll.TimeLog
	err := forEachTimeLog(tx, func(l payroll.TimeLog) error {
		if l.EmployeeID == employeeID {
			doomed = append(doomed, l)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logs := tx.Bucket([]byte(BucketTimeLogs))
	keys := tx.Bucket([]byte(BucketTimeLogKeys))
	for _, l := range doomed {
		if err := logs.Delete([]byte(l.ID)); err != nil {
			return err
		}
		if err := keys.Delete([]byte(timeLogKey(l.EmployeeID, l.Month))); err != nil {
			return err
		}
	}
	return nil
}

func (r *timeLogRepository) GetByID(ctx context.Context, id string) (payroll.TimeLog, error) {
	var l payroll.TimeLog
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		var err error
		l, err = getTimeLog(tx, id)
		return err
	})
	return l, err
}

func (r *timeLogRepository) GetByEmployeeMonth(ctx context.Context, employeeID string, month period.Month) (payroll.TimeLog, error) {
	var l payroll.TimeLog
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		id := tx.Bucket([]byte(BucketTimeLogKeys)).Get([]byte(timeLogKey(employeeID, month)))
		if id == nil {
			return payroll.ErrTimeLogNotFound
		}
		var err error
		l, err = getTimeLog(tx, string(id))
		return err
	})
	return l, err
}

func (r *timeLogRepository) GetLatestByEmployee(ctx context.Context, employeeID string) (payroll.TimeLog, error) {
	var (
		latest payroll.TimeLog
		found  bool
	)
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		return forEachTimeLog(tx, func(l payroll.TimeLog) error {
			if l.EmployeeID == employeeID && (!found || latest.Month.Before(l.Month)) {
				latest, found = l, true
			}
			return nil
		})
	})
	if err != nil {
		return payroll.TimeLog{}, err
	}
	if !found {
		return payroll.TimeLog{}, payroll.ErrTimeLogNotFound
	}
	return latest, nil
}

func (r *timeLogRepository) ListByMonth(ctx context.Context, month period.Month) ([]payroll.TimeLog, error) {
	var logs []payroll.TimeLog
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		return forEachTimeLog(tx, func(l payroll.TimeLog) error {
			if l.Month == month {
				logs = append(logs, l)
			}
			return nil
		})
	})
	return logs, err
}

func (r *timeLogRepository) Create(ctx context.Context, log payroll.TimeLog) (payroll.TimeLog, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return payroll.TimeLog{}, fmt.Errorf("failed to generate time log id: %w", err)
	}

	l := log
	l.ID = id.String()
	l.CreatedAt = now()
	l.UpdatedAt = l.CreatedAt

	err = r.store.update(ctx, func(tx *bolt.Tx) error {
		keys := tx.Bucket([]byte(BucketTimeLogKeys))
		key := []byte(timeLogKey(l.EmployeeID, l.Month))
		if keys.Get(key) != nil {
			return payroll.ErrTimeLogExists
		}
		if err := keys.Put(key, []byte(l.ID)); err != nil {
			return err
		}
		return putJSON(tx.Bucket([]byte(BucketTimeLogs)), l.ID, l)
	})
	if err != nil {
		return payroll.TimeLog{}, err
	}
	return l, nil
}

func (r *timeLogRepository) Update(ctx context.Context, log payroll.TimeLog) (payroll.TimeLog, error) {
	l := log
	err := r.store.update(ctx, func(tx *bolt.Tx) error {
		current, err := getTimeLog(tx, l.ID)
		if err != nil {
			return err
		}
		// identity fields are immutable
		l.EmployeeID = current.EmployeeID
		l.Month = current.Month
		l.CreatedAt = current.CreatedAt
		l.UpdatedAt = now()
		return putJSON(tx.Bucket([]byte(BucketTimeLogs)), l.ID, l)
	})
	if err != nil {
		return payroll.TimeLog{}, err
	}
	return l, nil
}
