package ledger

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidCategory     = errors.New("category is not allowed for this transaction type")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidPayment      = errors.New("invalid payment method")
)
