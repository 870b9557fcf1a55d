package ledger

import "context"

// TransactionRepository persists ledger rows. List returns rows ordered by
// date descending, then creation time descending.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	GetByID(ctx context.Context, id string) (Transaction, error)
	Update(ctx context.Context, tx Transaction) (Transaction, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	// ListBySource returns rows linked to a time log, restricted to kinds when given.
	ListBySource(ctx context.Context, timeLogID string, kinds ...SourceKind) ([]Transaction, error)
}
