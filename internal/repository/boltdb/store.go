// Package boltdb is the embedded single-file store. It backs single-node
// deployments and the service tests.
package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names.
const (
	BucketEmployees    = "employees"
	BucketTimeLogs     = "time_logs"
	BucketTimeLogKeys  = "time_log_keys" // employee_id|month -> time log id
	BucketTransactions = "transactions"
)

var errReadOnlyTx = errors.New("write attempted inside a read-only transaction")

type txKey struct{}

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the database file and initializes buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketEmployees, BucketTimeLogs, BucketTimeLogKeys, BucketTransactions} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithinTx runs fn inside one read-write transaction. bbolt allows a single
// writer, so concurrent callers are serialized.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*bolt.Tx); ok {
		return fn(ctx)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (s *Store) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if tx, ok := ctx.Value(txKey{}).(*bolt.Tx); ok {
		return fn(tx)
	}
	return s.db.View(fn)
}

func (s *Store) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if tx, ok := ctx.Value(txKey{}).(*bolt.Tx); ok {
		if !tx.Writable() {
			return errReadOnlyTx
		}
		return fn(tx)
	}
	return s.db.Update(fn)
}

func putJSON(b *bolt.Bucket, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return b.Put([]byte(key), data)
}

// getJSON decodes the value stored at key. The bool is false when the key is absent.
func getJSON(b *bolt.Bucket, key string, value interface{}) (bool, error) {
	data := b.Get([]byte(key))
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, value); err != nil {
		return false, fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return true, nil
}

func now() time.Time {
	return time.Now().UTC()
}

func jsonUnmarshal(data []byte, value interface{}) error {
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}
