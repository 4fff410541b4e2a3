// Package badgerstore implements the persistence contract on an
// embedded Badger database. This is the "demo mode" backend: no
// external services, everything under one data directory.
package badgerstore

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// Key prefixes, one per partition.
const (
	prefixUser      = "user:"
	prefixCred      = "cred:"
	prefixSettings  = "settings:"
	prefixQuestion  = "question:"
	prefixMessage   = "msg:"
	prefixTag       = "tag:"
	prefixAdmin     = "admin:"
	keyCurrentUser  = "sys:current-user"
	keyAdminSetting = "sys:admin-settings"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// seq hands out strictly increasing message sequence numbers so
	// key order always equals insertion order, even when the clock
	// stalls within a nanosecond.
	seq atomic.Int64

	users     *Entity[domain.User]
	creds     *Entity[domain.Credential]
	settings  *Entity[domain.UserSettings]
	questions *Entity[domain.Question]
	tags      *Entity[domain.Tag]
	admins    *Entity[domain.AdminNotificationTarget]
}

var _ store.Store = (*Store)(nil)

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}
	s.seq.Store(time.Now().UnixNano())

	s.users = NewEntity[domain.User](s, prefixUser, store.ErrUserNotFound)
	s.creds = NewEntity[domain.Credential](s, prefixCred, store.ErrUserNotFound)
	s.settings = NewEntity[domain.UserSettings](s, prefixSettings, store.ErrUserNotFound)
	s.questions = NewEntity[domain.Question](s, prefixQuestion, store.ErrQuestionNotFound)
	s.tags = NewEntity[domain.Tag](s, prefixTag, store.ErrTagNotFound)
	s.admins = NewEntity[domain.AdminNotificationTarget](s, prefixAdmin, store.ErrAdminNotFound)

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return s, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// nextSeq returns a message sequence number that is strictly greater
// than every previously returned one and never behind the wall clock.
func (s *Store) nextSeq() int64 {
	for {
		prev := s.seq.Load()
		next := time.Now().UnixNano()
		if next <= prev {
			next = prev + 1
		}
		if s.seq.CompareAndSwap(prev, next) {
			return next
		}
	}
}

// normalizeEmail lowercases and trims an email for use as a lookup key,
// making the email index case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// getRaw reads and unmarshals a singleton key into dest.
// Returns badger.ErrKeyNotFound untouched so callers can default.
func (s *Store) getRaw(key string, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// setRaw marshals and writes a singleton key.
func (s *Store) setRaw(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return store.ErrStorageFailure.WithCause(fmt.Errorf("marshal %s: %w", key, err))
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return store.ErrStorageFailure.WithCause(err)
	}
	return nil
}

// isNotFound reports whether err is badger's missing-key error.
func isNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}
