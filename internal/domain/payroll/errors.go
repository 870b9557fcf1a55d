package payroll

import "errors"

var (
	ErrTimeLogNotFound         = errors.New("time log not found")
	ErrTimeLogExists           = errors.New("time log already exists for this employee and month")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrNegativeAmount          = errors.New("amount must not be negative")
	ErrAdvanceExceedsRemaining = errors.New("advance exceeds remaining salary")
	ErrRefundExceedsAdvances   = errors.New("refund exceeds advances paid")
	ErrAlreadyPaid             = errors.New("salary for this month is already settled")
	ErrNotPaid                 = errors.New("salary for this month is not settled")
	ErrInvalidDay              = errors.New("day is outside the month")
	ErrInvalidHours            = errors.New("hours must be between 0 and 24")
)
