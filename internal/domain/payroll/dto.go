package payroll

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ParseHours accepts "7.5", "7,5" and "" (zero).
func ParseHours(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// ========== REQUEST DTOs ==========

// PeriodRequest addresses one employee's time log for a month.
type PeriodRequest struct {
	EmployeeID string `json:"-"`
	Month      string `json:"-"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors
	r.validateInto(&errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *PeriodRequest) validateInto(errs *validator.ValidationErrors) {
	if validator.IsEmpty(r.EmployeeID) {
		*errs = append(*errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, err := period.ParseMonth(r.Month); err != nil {
		*errs = append(*errs, validator.ValidationError{Field: "month", Message: "must be in YYYY-MM format"})
	}
}

type RecordHoursRequest struct {
	PeriodRequest
	Day   int    `json:"-"`
	Hours string `json:"hours"`
}

func (r *RecordHoursRequest) Validate() error {
	var errs validator.ValidationErrors
	r.validateInto(&errs)
	if _, err := ParseHours(r.Hours); err != nil {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "must be a number"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AmountRequest carries an amount for advances, refunds and travel.
// Amount is a pointer so a missing field is rejected instead of read as zero.
type AmountRequest struct {
	PeriodRequest
	Amount *decimal.Decimal `json:"amount"`
}

func (r *AmountRequest) Validate() error {
	var errs validator.ValidationErrors
	r.validateInto(&errs)
	switch {
	case r.Amount == nil:
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "is required"})
	case !validator.IsCents(*r.Amount):
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must have at most 2 decimal places"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkPostRequest struct {
	Month         string `json:"-"`
	PaymentMethod string `json:"payment_method"`
}

func (r *BulkPostRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, err := period.ParseMonth(r.Month); err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be in YYYY-MM format"})
	}
	if !ledger.PaymentMethod(r.PaymentMethod).Valid() {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "must be 'cash' or 'bank'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type EntryResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

type BreakdownResponse struct {
	TotalHours      decimal.Decimal `json:"total_hours"`
	DaysWorked      int             `json:"days_worked"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	TravelTotal     decimal.Decimal `json:"travel_total"`
	FinalSalary     decimal.Decimal `json:"final_salary"`
	AdvancesTotal   decimal.Decimal `json:"advances_total"`
	RemainingSalary decimal.Decimal `json:"remaining_salary"`
}

func NewBreakdownResponse(b SalaryBreakdown) BreakdownResponse {
	return BreakdownResponse{
		TotalHours:      b.TotalHours,
		DaysWorked:      b.DaysWorked,
		BaseSalary:      b.BaseSalary,
		TravelTotal:     b.TravelTotal,
		FinalSalary:     b.FinalSalary,
		AdvancesTotal:   b.AdvancesTotal,
		RemainingSalary: b.RemainingSalary,
	}
}

type TimeLogResponse struct {
	ID             string                  `json:"id"`
	EmployeeID     string                  `json:"employee_id"`
	Month          string                  `json:"month"`
	DailyHours     map[int]decimal.Decimal `json:"daily_hours"`
	Advances       []EntryResponse         `json:"advances"`
	TravelExpenses []EntryResponse         `json:"travel_expenses"`
	IsPaid         bool                    `json:"is_paid"`
	Breakdown      BreakdownResponse       `json:"breakdown"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// ActionResponse is returned by every payroll mutation.
type ActionResponse struct {
	TimeLog TimeLogResponse       `json:"time_log"`
	Ledger  ledger.EffectResponse `json:"ledger"`
}

type SummaryResponse struct {
	EmployeeID   string                       `json:"employee_id"`
	EmployeeName string                       `json:"employee_name"`
	Month        string                       `json:"month"`
	HasTimeLog   bool                         `json:"has_time_log"`
	IsPaid       bool                         `json:"is_paid"`
	Breakdown    BreakdownResponse            `json:"breakdown"`
	TimeLog      *TimeLogResponse             `json:"time_log,omitempty"`
	Transactions []ledger.TransactionResponse `json:"transactions"`
}

type StatementRow struct {
	EmployeeID      string          `json:"employee_id"`
	Name            string          `json:"name"`
	Role            string          `json:"role"`
	PaymentMethod   string          `json:"payment_method"`
	TotalHours      decimal.Decimal `json:"total_hours"`
	DaysWorked      int             `json:"days_worked"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	TravelTotal     decimal.Decimal `json:"travel_total"`
	AdvancesTotal   decimal.Decimal `json:"advances_total"`
	FinalSalary     decimal.Decimal `json:"final_salary"`
	RemainingSalary decimal.Decimal `json:"remaining_salary"`
	IsPaid          bool            `json:"is_paid"`
}

type StatementTotals struct {
	BaseSalary      decimal.Decimal `json:"base_salary"`
	TravelTotal     decimal.Decimal `json:"travel_total"`
	AdvancesTotal   decimal.Decimal `json:"advances_total"`
	FinalSalary     decimal.Decimal `json:"final_salary"`
	RemainingSalary decimal.Decimal `json:"remaining_salary"`
	PaidCount       int             `json:"paid_count"`
}

type StatementResponse struct {
	Month  string          `json:"month"`
	Rows   []StatementRow  `json:"rows"`
	Totals StatementTotals `json:"totals"`
}

type RolePosting struct {
	Role          string          `json:"role"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	Created       bool            `json:"created"`
}

// BulkResult reports a monthly bulk posting.
type BulkResult struct {
	Month         string          `json:"month"`
	PaymentMethod string          `json:"payment_method"`
	Created       int             `json:"created"`
	Updated       int             `json:"updated"`
	Total         decimal.Decimal `json:"total"`
	PerRole       []RolePosting   `json:"per_role"`
}

// Empty reports that no role had a salary obligation for the month.
func (r BulkResult) Empty() bool {
	return r.Created == 0 && r.Updated == 0
}

type MigrationStatus string

const (
	MigrationLinked     MigrationStatus = "linked"
	MigrationUnresolved MigrationStatus = "unresolved"
)

type MigrationItem struct {
	TransactionID string          `json:"transaction_id"`
	Description   string          `json:"description"`
	Kind          string          `json:"kind"`
	TimeLogID     string          `json:"time_log_id,omitempty"`
	Status        MigrationStatus `json:"status"`
	Reason        string          `json:"reason,omitempty"`
}

// MigrationReport summarises a legacy tag backfill.
type MigrationReport struct {
	DryRun     bool            `json:"dry_run"`
	Scanned    int             `json:"scanned"`
	Linked     int             `json:"linked"`
	Unresolved int             `json:"unresolved"`
	Items      []MigrationItem `json:"items"`
}
