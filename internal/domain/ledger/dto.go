package ledger

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== TRANSACTION DTOs ==========

type CreateTransactionRequest struct {
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Date          string          `json:"date"` // YYYY-MM-DD
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"`
}

func (r *CreateTransactionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !TransactionType(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'income' or 'expense'"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	} else if !validator.IsCents(r.Amount) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must have at most 2 decimal places"})
	}
	if validator.IsEmpty(r.Category) {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
	}
	if !PaymentMethod(r.PaymentMethod).Valid() {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "must be 'cash' or 'bank'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateTransactionRequest struct {
	ID            string           `json:"-"`
	Type          *string          `json:"type,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Date          *string          `json:"date,omitempty"`
	Description   *string          `json:"description,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
}

func (r *UpdateTransactionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Type != nil && !TransactionType(*r.Type).Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'income' or 'expense'"})
	}
	if r.Amount != nil {
		if !r.Amount.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
		} else if !validator.IsCents(*r.Amount) {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "must have at most 2 decimal places"})
		}
	}
	if r.Category != nil && validator.IsEmpty(*r.Category) {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "cannot be empty"})
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.PaymentMethod != nil && !PaymentMethod(*r.PaymentMethod).Valid() {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "must be 'cash' or 'bank'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SourceResponse struct {
	Kind       string `json:"kind"`
	TimeLogID  string `json:"time_log_id,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Month      string `json:"month,omitempty"`
}

type TransactionResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"`
	Source        *SourceResponse `json:"source,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func NewTransactionResponse(t Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:            t.ID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Category:      t.Category,
		Date:          t.Date.Format("2006-01-02"),
		Description:   t.Description,
		PaymentMethod: string(t.PaymentMethod),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.Source != nil {
		resp.Source = &SourceResponse{
			Kind:       string(t.Source.Kind),
			TimeLogID:  t.Source.TimeLogID,
			EmployeeID: t.Source.EmployeeID,
			Month:      t.Source.Month.String(),
		}
	}
	return resp
}

func NewTransactionResponses(txs []Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, NewTransactionResponse(t))
	}
	return out
}

// TransactionFilter narrows List. Zero values mean "any".
type TransactionFilter struct {
	Month      period.Month
	Type       TransactionType
	Category   string
	Kind       SourceKind
	Search     string // case-insensitive substring of description or category
	ManualOnly bool   // only rows without an explicit source
}

func (f TransactionFilter) Match(t Transaction) bool {
	if f.Month != "" && !f.Month.Contains(t.Date) {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Kind != "" && t.SourceKind() != f.Kind {
		return false
	}
	if f.ManualOnly && t.Source != nil {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Description), needle) &&
			!strings.Contains(strings.ToLower(t.Category), needle) {
			return false
		}
	}
	return true
}

type LedgerTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

func ComputeTotals(txs []Transaction) LedgerTotals {
	totals := LedgerTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txs {
		switch t.Type {
		case TypeIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case TypeExpense:
			totals.Expense = totals.Expense.Add(t.Amount)
		}
	}
	totals.Net = totals.Income.Sub(totals.Expense)
	return totals
}

type ListTransactionResponse struct {
	Data   []TransactionResponse `json:"data"`
	Totals LedgerTotals          `json:"totals"`
}

type ReversalResponse struct {
	Outcome   string `json:"outcome"`
	Kind      string `json:"kind,omitempty"`
	TimeLogID string `json:"time_log_id,omitempty"`
	Legacy    bool   `json:"legacy,omitempty"`
	Fallback  bool   `json:"fallback,omitempty"`
}

type DeleteTransactionResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Reversal    ReversalResponse    `json:"reversal"`
}

// EffectResponse lists ledger rows touched by a payroll operation.
type EffectResponse struct {
	Created []TransactionResponse `json:"created"`
	Updated []TransactionResponse `json:"updated"`
	Deleted []TransactionResponse `json:"deleted"`
}

func NewEffectResponse(e Effect) EffectResponse {
	return EffectResponse{
		Created: NewTransactionResponses(e.Created),
		Updated: NewTransactionResponses(e.Updated),
		Deleted: NewTransactionResponses(e.Deleted),
	}
}

// ========== CATEGORY DTOs ==========

// Categories is the configured vocabulary. Employee roles are added to the
// expense side at runtime since they double as salary categories.
type Categories struct {
	Income  []string `json:"income"`
	Expense []string `json:"expense"`
}

func (c Categories) Allows(t TransactionType, category string) bool {
	switch t {
	case TypeIncome:
		return validator.IsInSlice(category, c.Income)
	case TypeExpense:
		return validator.IsInSlice(category, c.Expense)
	}
	return false
}

// ========== STREAM DTOs ==========

const StreamTopic = "ledger"

type StreamEvent struct {
	Event string              `json:"event"` // transaction.created / transaction.updated / transaction.deleted
	Data  TransactionResponse `json:"data"`
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
