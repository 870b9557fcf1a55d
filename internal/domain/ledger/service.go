package ledger

import "context"

type LedgerService interface {
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (TransactionResponse, error)
	UpdateTransaction(ctx context.Context, req UpdateTransactionRequest) (TransactionResponse, error)
	GetTransaction(ctx context.Context, id string) (TransactionResponse, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) (ListTransactionResponse, error)
	// DeleteTransaction removes the row and reverses its payroll side effects in one store transaction.
	DeleteTransaction(ctx context.Context, id string) (DeleteTransactionResponse, error)
	Categories(ctx context.Context) (Categories, error)
	Subscribe(ctx context.Context) (<-chan StreamEvent, func())
}

// Reconciler reverses the payroll effect of a transaction that is about to be deleted.
type Reconciler interface {
	ReverseDeletion(ctx context.Context, tx Transaction) (Reversal, error)
}

// Notifier receives ledger changes after they are committed.
type Notifier interface {
	Notify(effect Effect)
}
