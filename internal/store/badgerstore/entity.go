package badgerstore

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"

	"github.com/dgraph-io/badger/v4"

	"github.com/ichigoapp/ichigo-server/internal/store"
)

// Entity provides generic CRUD operations over one key-prefix
// partition. Each record is a single JSON blob; reads always unmarshal
// a fresh copy so callers can never alias stored state.
type Entity[T any] struct {
	store    *Store
	prefix   string
	notFound *store.Error
}

// NewEntity creates an Entity for type T under the given prefix.
// notFound is the sentinel returned for missing records.
func NewEntity[T any](s *Store, prefix string, notFound *store.Error) *Entity[T] {
	return &Entity[T]{
		store:    s,
		prefix:   prefix,
		notFound: notFound,
	}
}

// Create creates a new record with the given ID.
// Returns ErrAlreadyExists if a record with this ID already exists.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return store.ErrStorageFailure.WithCause(fmt.Errorf("marshal %s: %w", key, err))
	}

	err = e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return store.ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check existing key: %w", err)
		}
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return err
		}
		return store.ErrStorageFailure.WithCause(err)
	}

	return nil
}

// Get retrieves a record by ID, or the entity's notFound sentinel.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := e.prefix + id
	var entity T

	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return e.notFound
		}
		if err != nil {
			return store.ErrStorageFailure.WithCause(fmt.Errorf("get %s: %w", key, err))
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entity); err != nil {
				return store.ErrStorageFailure.WithCause(fmt.Errorf("unmarshal %s: %w", key, err))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// Set writes a record unconditionally, creating or overwriting it.
func (e *Entity[T]) Set(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return store.ErrStorageFailure.WithCause(fmt.Errorf("marshal %s: %w", key, err))
	}

	err = e.store.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return store.ErrStorageFailure.WithCause(err)
	}
	return nil
}

// Update overwrites an existing record.
// Returns the entity's notFound sentinel if it does not exist.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return store.ErrStorageFailure.WithCause(fmt.Errorf("marshal %s: %w", key, err))
	}

	err = e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return e.notFound
		}
		if err != nil {
			return fmt.Errorf("get existing key: %w", err)
		}
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		if errors.Is(err, e.notFound) {
			return err
		}
		return store.ErrStorageFailure.WithCause(err)
	}

	return nil
}

// Delete deletes a record by ID.
// This operation is idempotent - it does not return an error if the record does not exist.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	err := e.store.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return store.ErrStorageFailure.WithCause(err)
	}
	return nil
}

// List returns an iterator over all records in the partition, in key
// order.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		_ = e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})
				if err != nil {
					err = store.ErrStorageFailure.WithCause(err)
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
	}
}

// collect drains an entity iterator into a slice.
func collect[T any](seq iter.Seq2[*T, error]) ([]*T, error) {
	var out []*T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
