package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchTolerance is the largest difference at which two amounts are treated as equal.
var MatchTolerance = decimal.RequireFromString("0.01")

// Entry is one movement in a SubLedger. Negative amounts compensate earlier entries.
type Entry struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// SubLedger is an ordered list of entries, oldest first. Methods never
// modify the receiver; they return a new value.
type SubLedger []Entry

func (s SubLedger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s {
		total = total.Add(e.Amount)
	}
	return total
}

func (s SubLedger) Append(e Entry) SubLedger {
	out := make(SubLedger, 0, len(s)+1)
	out = append(out, s...)
	return append(out, e)
}

// RemoveMatching drops the newest entry whose amount is within tolerance of
// amount. The bool reports whether an entry was removed.
func (s SubLedger) RemoveMatching(amount, tolerance decimal.Decimal) (SubLedger, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Amount.Sub(amount).Abs().LessThanOrEqual(tolerance) {
			out := make(SubLedger, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...), true
		}
	}
	return s.clone(), false
}

// ReplaceWithTotal collapses the ledger into a single entry. A zero total
// yields an empty ledger.
func (s SubLedger) ReplaceWithTotal(total decimal.Decimal, date time.Time) SubLedger {
	if total.IsZero() {
		return SubLedger{}
	}
	return SubLedger{{Amount: total, Date: date}}
}

func (s SubLedger) clone() SubLedger {
	out := make(SubLedger, len(s))
	copy(out, s)
	return out
}
