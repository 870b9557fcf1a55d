package period

import (
	"errors"
	"time"
)

const monthLayout = "2006-01"

var ErrInvalidMonth = errors.New("month must be in YYYY-MM format")

// Month is a calendar month in YYYY-MM form. All derived dates are UTC.
type Month string

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return "", ErrInvalidMonth
	}
	return Month(t.Format(monthLayout)), nil
}

// Of returns the month containing t.
func Of(t time.Time) Month {
	return Month(t.Format(monthLayout))
}

func (m Month) String() string {
	return string(m)
}

func (m Month) Valid() bool {
	_, err := time.Parse(monthLayout, string(m))
	return err == nil
}

// FirstDay returns midnight UTC of the first day of the month.
func (m Month) FirstDay() time.Time {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	first := m.FirstDay()
	if first.IsZero() {
		return 0
	}
	return first.AddDate(0, 1, -1).Day()
}

func (m Month) Contains(t time.Time) bool {
	first := m.FirstDay()
	return t.Year() == first.Year() && t.Month() == first.Month()
}

// PostingDate is the ledger date used for entries that belong to the month:
// today when today falls inside it, otherwise the first day.
func (m Month) PostingDate(now time.Time) time.Time {
	if m.Contains(now) {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return m.FirstDay()
}

func (m Month) Before(other Month) bool {
	return m.FirstDay().Before(other.FirstDay())
}
