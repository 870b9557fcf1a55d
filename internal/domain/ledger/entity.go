package ledger

import (
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// TransactionType enum
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentBank PaymentMethod = "bank"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentBank
}

// SourceKind identifies which payroll event produced a transaction.
type SourceKind string

const (
	SourceAdvance             SourceKind = "advance"
	SourceRemainingSettlement SourceKind = "remaining-settlement"
	SourceFullSettlement      SourceKind = "full-settlement"
	SourceTravel              SourceKind = "travel"
	SourceRefundedAdvance     SourceKind = "refunded-advance"
	SourceCorrection          SourceKind = "correction"
	SourceBulkPayroll         SourceKind = "bulk-payroll"
)

func (k SourceKind) Valid() bool {
	switch k {
	case SourceAdvance, SourceRemainingSettlement, SourceFullSettlement, SourceTravel,
		SourceRefundedAdvance, SourceCorrection, SourceBulkPayroll:
		return true
	}
	return false
}

// IsSettlement reports whether the kind marks a final salary payment.
func (k SourceKind) IsSettlement() bool {
	return k == SourceRemainingSettlement || k == SourceFullSettlement
}

// Source links a transaction back to the payroll record that produced it.
// TimeLogID is empty for bulk postings and for sources recovered from legacy
// description tags that have not been resolved yet.
type Source struct {
	Kind       SourceKind
	TimeLogID  string
	EmployeeID string
	Month      period.Month
}

// Transaction - Ledger entry
type Transaction struct {
	ID            string
	Type          TransactionType
	Amount        decimal.Decimal
	Category      string
	Date          time.Time
	Description   string
	PaymentMethod PaymentMethod
	Source        *Source // nil for manual entries
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SourceKind returns the kind of the explicit source, or "" for manual entries.
func (t Transaction) SourceKind() SourceKind {
	if t.Source == nil {
		return ""
	}
	return t.Source.Kind
}

// Effect collects the ledger rows touched by one payroll operation.
type Effect struct {
	Created []Transaction
	Updated []Transaction
	Deleted []Transaction
}

func (e Effect) Empty() bool {
	return len(e.Created) == 0 && len(e.Updated) == 0 && len(e.Deleted) == 0
}

// ReversalOutcome describes what deleting a transaction did to payroll state.
type ReversalOutcome string

const (
	ReversalNone               ReversalOutcome = "none"
	ReversalAdvanceRemoved     ReversalOutcome = "advance-removed"
	ReversalAdvanceCompensated ReversalOutcome = "advance-compensated"
	ReversalSettlementReopened ReversalOutcome = "settlement-reopened"
	ReversalAdvanceRestored    ReversalOutcome = "advance-restored"
	ReversalSkippedNoTimeLog   ReversalOutcome = "skipped-no-time-log"
)

// Reversal is the result of reverse reconciliation for one deleted transaction.
type Reversal struct {
	Outcome   ReversalOutcome
	Kind      SourceKind
	TimeLogID string
	// Legacy is set when the source was recovered from the description text.
	Legacy bool
	// Fallback is set when the time log was guessed as the employee's most recent one.
	Fallback bool
}
