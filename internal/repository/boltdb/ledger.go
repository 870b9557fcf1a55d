package boltdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

type ledgerRepository struct {
	store *Store
}

func NewLedgerRepository(store *Store) ledger.TransactionRepository {
	return &ledgerRepository{store: store}
}

func (r *ledgerRepository) Create(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("failed to generate transaction id: %w", err)
	}

	t := tx
	t.ID = id.String()
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt

	err = r.store.update(ctx, func(btx *bolt.Tx) error {
		return putJSON(btx.Bucket([]byte(BucketTransactions)), t.ID, t)
	})
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	return t, nil
}

func (r *ledgerRepository) GetByID(ctx context.Context, id string) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := r.store.view(ctx, func(btx *bolt.Tx) error {
		found, err := getJSON(btx.Bucket([]byte(BucketTransactions)), id, &t)
		if err != nil {
			return err
		}
		if !found {
			return ledger.ErrTransactionNotFound
		}
		return nil
	})
	return t, err
}

func (r *ledgerRepository) Update(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	t := tx
	err := r.store.update(ctx, func(btx *bolt.Tx) error {
		b := btx.Bucket([]byte(BucketTransactions))

		var current ledger.Transaction
		found, err := getJSON(b, t.ID, &current)
		if err != nil {
			return err
		}
		if !found {
			return ledger.ErrTransactionNotFound
		}
		t.CreatedAt = current.CreatedAt
		t.UpdatedAt = now()
		return putJSON(b, t.ID, t)
	})
	if err != nil {
		return ledger.Transaction{}, err
	}
	return t, nil
}

func (r *ledgerRepository) Delete(ctx context.Context, id string) error {
	return r.store.update(ctx, func(btx *bolt.Tx) error {
		b := btx.Bucket([]byte(BucketTransactions))
		if b.Get([]byte(id)) == nil {
			return ledger.ErrTransactionNotFound
		}
		return b.Delete([]byte(id))
	})
}

func (r *ledgerRepository) List(ctx context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	return r.collect(ctx, filter.Match)
}

func (r *ledgerRepository) ListBySource(ctx context.Context, timeLogID string, kinds ...ledger.SourceKind) ([]ledger.Transaction, error) {
	return r.collect(ctx, func(t ledger.Transaction) bool {
		if t.Source == nil || t.Source.TimeLogID != timeLogID {
			return false
		}
		if len(kinds) == 0 {
			return true
		}
		for _, k := range kinds {
			if t.Source.Kind == k {
				return true
			}
		}
		return false
	})
}

func (r *ledgerRepository) collect(ctx context.Context, keep func(ledger.Transaction) bool) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	err := r.store.view(ctx, func(btx *bolt.Tx) error {
		return btx.Bucket([]byte(BucketTransactions)).ForEach(func(_, v []byte) error {
			var t ledger.Transaction
			if err := jsonUnmarshal(v, &t); err != nil {
				return err
			}
			if keep(t) {
				txs = append(txs, t)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return txs, nil
}
