package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `
	id, type, amount, category, date, description, payment_method,
	source_kind, source_time_log_id, source_employee_id, source_month,
	created_at, updated_at`

const transactionOrder = `ORDER BY date DESC, created_at DESC, id DESC`

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) ledger.TransactionRepository {
	return &ledgerRepository{db: db}
}

func scanTransaction(row pgx.Row) (ledger.Transaction, error) {
	var (
		t                                ledger.Transaction
		kind, timeLogID, employeeID, mon *string
	)
	err := row.Scan(
		&t.ID, &t.Type, &t.Amount, &t.Category, &t.Date, &t.Description, &t.PaymentMethod,
		&kind, &timeLogID, &employeeID, &mon,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return ledger.Transaction{}, err
	}

	if kind != nil {
		t.Source = &ledger.Source{Kind: ledger.SourceKind(*kind)}
		if timeLogID != nil {
			t.Source.TimeLogID = *timeLogID
		}
		if employeeID != nil {
			t.Source.EmployeeID = *employeeID
		}
		if mon != nil {
			t.Source.Month = period.Month(*mon)
		}
	}
	return t, nil
}

// sourceArgs flattens the optional source into nullable column values.
func sourceArgs(s *ledger.Source) (kind, timeLogID, employeeID, month *string) {
	if s == nil {
		return nil, nil, nil, nil
	}
	k := string(s.Kind)
	kind = &k
	if s.TimeLogID != "" {
		timeLogID = &s.TimeLogID
	}
	if s.EmployeeID != "" {
		employeeID = &s.EmployeeID
	}
	if s.Month != "" {
		m := s.Month.String()
		month = &m
	}
	return kind, timeLogID, employeeID, month
}

func (r *ledgerRepository) Create(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("failed to generate transaction id: %w", err)
	}
	kind, timeLogID, employeeID, month := sourceArgs(tx.Source)

	query := `
		INSERT INTO transactions (
			id, type, amount, category, date, description, payment_method,
			source_kind, source_time_log_id, source_employee_id, source_month
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + transactionColumns

	created, err := scanTransaction(q.QueryRow(ctx, query,
		id.String(), tx.Type, tx.Amount, tx.Category, tx.Date, tx.Description, tx.PaymentMethod,
		kind, timeLogID, employeeID, month,
	))
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	return created, nil
}

func (r *ledgerRepository) GetByID(ctx context.Context, id string) (ledger.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTransaction(q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Transaction{}, ledger.ErrTransactionNotFound
		}
		return ledger.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *ledgerRepository) Update(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	kind, timeLogID, employeeID, month := sourceArgs(tx.Source)

	query := `
		UPDATE transactions
		SET type = $2, amount = $3, category = $4, date = $5, description = $6, payment_method = $7,
			source_kind = $8, source_time_log_id = $9, source_employee_id = $10, source_month = $11,
			updated_at = clock_timestamp()
		WHERE id = $1
		RETURNING ` + transactionColumns

	updated, err := scanTransaction(q.QueryRow(ctx, query,
		tx.ID, tx.Type, tx.Amount, tx.Category, tx.Date, tx.Description, tx.PaymentMethod,
		kind, timeLogID, employeeID, month,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Transaction{}, ledger.ErrTransactionNotFound
		}
		return ledger.Transaction{}, fmt.Errorf("failed to update transaction: %w", err)
	}
	return updated, nil
}

func (r *ledgerRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

func (r *ledgerRepository) List(ctx context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Month != "" {
		first := filter.Month.FirstDay()
		add("date >= $%d", first)
		add("date < $%d", first.AddDate(0, 1, 0))
	}
	if filter.Type != "" {
		add("type = $%d", string(filter.Type))
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Kind != "" {
		add("source_kind = $%d", string(filter.Kind))
	}
	if filter.ManualOnly {
		where = append(where, "source_kind IS NULL")
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(description ILIKE $%d OR category ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ` + transactionOrder

	return r.query(ctx, query, args...)
}

func (r *ledgerRepository) ListBySource(ctx context.Context, timeLogID string, kinds ...ledger.SourceKind) ([]ledger.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE source_time_log_id = $1`
	args := []interface{}{timeLogID}

	if len(kinds) > 0 {
		names := make([]string, 0, len(kinds))
		for _, k := range kinds {
			names = append(names, string(k))
		}
		query += ` AND source_kind = ANY($2)`
		args = append(args, names)
	}
	query += ` ` + transactionOrder

	return r.query(ctx, query, args...)
}

func (r *ledgerRepository) query(ctx context.Context, query string, args ...interface{}) ([]ledger.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}
