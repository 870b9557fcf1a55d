package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const timeLogColumns = `id, employee_id, month, daily_hours, advances, travel_expenses, is_paid, created_at, updated_at`

type timeLogRepository struct {
	db *database.DB
}

func NewTimeLogRepository(db *database.DB) payroll.TimeLogRepository {
	return &timeLogRepository{db: db}
}

func scanTimeLog(row pgx.Row) (payroll.TimeLog, error) {
	var (
		l                                payroll.TimeLog
		month                            string
		hoursRaw, advancesRaw, travelRaw []byte
	)
	if err := row.Scan(&l.ID, &l.EmployeeID, &month, &hoursRaw, &advancesRaw, &travelRaw, &l.IsPaid, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return payroll.TimeLog{}, err
	}
	l.Month = period.Month(month)

	if err := json.Unmarshal(hoursRaw, &l.DailyHours); err != nil {
		return payroll.TimeLog{}, fmt.Errorf("decode daily_hours: %w", err)
	}
	if err := json.Unmarshal(advancesRaw, &l.Advances); err != nil {
		return payroll.TimeLog{}, fmt.Errorf("decode advances: %w", err)
	}
	if err := json.Unmarshal(travelRaw, &l.TravelExpenses); err != nil {
		return payroll.TimeLog{}, fmt.Errorf("decode travel_expenses: %w", err)
	}
	return l, nil
}

// encodeTimeLog returns the JSONB payloads; nil sub-ledgers are stored as empty arrays.
func encodeTimeLog(l payroll.TimeLog) (hours, advances, travel []byte, err error) {
	if l.DailyHours == nil {
		hours = []byte("{}")
	} else if hours, err = json.Marshal(l.DailyHours); err != nil {
		return nil, nil, nil, err
	}
	if advances, err = json.Marshal(nonNil(l.Advances)); err != nil {
		return nil, nil, nil, err
	}
	if travel, err = json.Marshal(nonNil(l.TravelExpenses)); err != nil {
		return nil, nil, nil, err
	}
	return hours, advances, travel, nil
}

func nonNil(s payroll.SubLedger) payroll.SubLedger {
	if s == nil {
		return payroll.SubLedger{}
	}
	return s
}

func (r *timeLogRepository) getOne(ctx context.Context, query string, args ...interface{}) (payroll.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanTimeLog(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.TimeLog{}, payroll.ErrTimeLogNotFound
		}
		return payroll.TimeLog{}, fmt.Errorf("failed to get time log: %w", err)
	}
	return l, nil
}

func (r *timeLogRepository) GetByID(ctx context.Context, id string) (payroll.TimeLog, error) {
	return r.getOne(ctx, `SELECT `+timeLogColumns+` FROM time_logs WHERE id = $1`, id)
}

func (r *timeLogRepository) GetByEmployeeMonth(ctx context.Context, employeeID string, month period.Month) (payroll.TimeLog, error) {
	return r.getOne(ctx, `SELECT `+timeLogColumns+` FROM time_logs WHERE employee_id = $1 AND month = $2`, employeeID, month.String())
}

func (r *timeLogRepository) GetLatestByEmployee(ctx context.Context, employeeID string) (payroll.TimeLog, error) {
	return r.getOne(ctx, `
		SELECT `+timeLogColumns+`
		FROM time_logs
		WHERE employee_id = $1
		ORDER BY month DESC
		LIMIT 1
	`, employeeID)
}

func (r *timeLogRepository) ListByMonth(ctx context.Context, month period.Month) ([]payroll.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+timeLogColumns+` FROM time_logs WHERE month = $1`, month.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list time logs: %w", err)
	}
	defer rows.Close()

	var logs []payroll.TimeLog
	for rows.Next() {
		l, err := scanTimeLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time logs: %w", err)
	}
	return logs, nil
}

func (r *timeLogRepository) Create(ctx context.Context, log payroll.TimeLog) (payroll.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.TimeLog{}, fmt.Errorf("failed to generate time log id: %w", err)
	}
	hours, advances, travel, err := encodeTimeLog(log)
	if err != nil {
		return payroll.TimeLog{}, fmt.Errorf("failed to encode time log: %w", err)
	}

	query := `
		INSERT INTO time_logs (id, employee_id, month, daily_hours, advances, travel_expenses, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + timeLogColumns

	created, err := scanTimeLog(q.QueryRow(ctx, query,
		id.String(), log.EmployeeID, log.Month.String(), hours, advances, travel, log.IsPaid,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_time_logs_employee_month") {
			return payroll.TimeLog{}, payroll.ErrTimeLogExists
		}
		return payroll.TimeLog{}, fmt.Errorf("failed to create time log: %w", err)
	}
	return created, nil
}

func (r *timeLogRepository) Update(ctx context.Context, log payroll.TimeLog) (payroll.TimeLog, error) {
	q := GetQuerier(ctx, r.db)

	hours, advances, travel, err := encodeTimeLog(log)
	if err != nil {
		return payroll.TimeLog{}, fmt.Errorf("failed to encode time log: %w", err)
	}

	query := `
		UPDATE time_logs
		SET daily_hours = $2, advances = $3, travel_expenses = $4, is_paid = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + timeLogColumns

	updated, err := scanTimeLog(q.QueryRow(ctx, query, log.ID, hours, advances, travel, log.IsPaid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.TimeLog{}, payroll.ErrTimeLogNotFound
		}
		return payroll.TimeLog{}, fmt.Errorf("failed to update time log: %w", err)
	}
	return updated, nil
}
