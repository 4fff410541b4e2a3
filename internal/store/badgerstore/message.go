package badgerstore

import (
	"context"
	"encoding/json/v2"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// messageKey builds the ordered key for one message. The zero-padded
// sequence number makes Badger's key order the thread's insertion
// order, so listing a thread never needs a sort.
func messageKey(threadID string, seq int64, messageID string) []byte {
	return fmt.Appendf(nil, "%s%s:%020d:%s", prefixMessage, threadID, seq, messageID)
}

// threadPrefix is the key prefix covering one thread's messages.
func threadPrefix(threadID string) []byte {
	return fmt.Appendf(nil, "%s%s:", prefixMessage, threadID)
}

// AppendMessage appends a message to its thread. There is no check
// that the thread's question exists; a stale question id produces an
// orphaned message, which readers tolerate.
func (s *Store) AppendMessage(ctx context.Context, m *domain.ThreadMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(m)
	if err != nil {
		return store.ErrStorageFailure.WithCause(fmt.Errorf("marshal message: %w", err))
	}

	key := messageKey(m.ThreadID, s.nextSeq(), m.ID)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return store.ErrStorageFailure.WithCause(err)
	}
	return nil
}

// GetMessage finds one message within a thread. Threads are short
// enough that a prefix scan beats maintaining a second index.
func (s *Store) GetMessage(ctx context.Context, threadID, messageID string) (*domain.ThreadMessage, error) {
	msg, _, err := s.findMessage(ctx, threadID, messageID)
	return msg, err
}

// UpdateMessage rewrites a message in place under its original key,
// preserving thread order. Only triage metadata ever changes this way.
func (s *Store) UpdateMessage(ctx context.Context, m *domain.ThreadMessage) error {
	_, key, err := s.findMessage(ctx, m.ThreadID, m.ID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(m)
	if err != nil {
		return store.ErrStorageFailure.WithCause(fmt.Errorf("marshal message: %w", err))
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return store.ErrStorageFailure.WithCause(err)
	}
	return nil
}

// ListMessages returns a thread's messages in insertion order.
func (s *Store) ListMessages(ctx context.Context, threadID string) ([]*domain.ThreadMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := threadPrefix(threadID)
	var messages []*domain.ThreadMessage

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			var m domain.ThreadMessage
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			})
			if err != nil {
				return store.ErrStorageFailure.WithCause(err)
			}
			messages = append(messages, &m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return messages, nil
}

// findMessage scans a thread for a message id and returns the record
// together with its key.
func (s *Store) findMessage(ctx context.Context, threadID, messageID string) (*domain.ThreadMessage, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	prefix := threadPrefix(threadID)
	var (
		found *domain.ThreadMessage
		key   []byte
	)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var m domain.ThreadMessage
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			})
			if err != nil {
				return store.ErrStorageFailure.WithCause(err)
			}
			if m.ID == messageID {
				found = &m
				key = it.Item().KeyCopy(nil)
				return nil
			}
		}
		return store.ErrMessageNotFound
	})
	if err != nil {
		return nil, nil, err
	}

	return found, key, nil
}
