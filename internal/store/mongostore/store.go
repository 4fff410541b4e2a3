// Package mongostore implements the persistence contract on MongoDB.
// This is the cloud backend; it honors the exact field names and
// semantics of the embedded store so callers never know which one they
// are talking to.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ichigoapp/ichigo-server/internal/store"
)

// Collection names, one per partition.
const (
	collUsers     = "users"
	collCreds     = "credentials"
	collSettings  = "user_settings"
	collQuestions = "questions"
	collMessages  = "messages"
	collTags      = "tags"
	collAdmins    = "admin_roster"
	collSystem    = "system"
)

// System collection document ids.
const (
	docCurrentUser   = "current-user"
	docAdminSettings = "admin-settings"
)

// Store wraps a MongoDB database handle.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger

	// seq hands out strictly increasing message sequence numbers, same
	// scheme as the embedded store.
	seq atomic.Int64
}

var _ store.Store = (*Store)(nil)

// New connects to MongoDB, verifies the connection, and creates the
// indexes the contract relies on.
func New(ctx context.Context, uri, database string, logger *slog.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Store{
		client: client,
		db:     client.Database(database),
		logger: logger,
	}
	s.seq.Store(time.Now().UnixNano())

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	if logger != nil {
		logger.Info("MongoDB connected successfully", "database", database)
	}

	return s, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing MongoDB connection")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// ensureIndexes creates the unique and ordering indexes. Safe to call
// on every startup.
func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	indexSets := map[string][]mongo.IndexModel{
		collUsers:     {unique("uid")},
		collCreds:     {unique("email")},
		collSettings:  {unique("userId")},
		collQuestions: {unique("id")},
		collTags:      {unique("id")},
		collAdmins:    {unique("id")},
		collMessages: {
			{Keys: bson.D{{Key: "threadId", Value: 1}, {Key: "seq", Value: 1}}},
			{Keys: bson.D{{Key: "threadId", Value: 1}, {Key: "id", Value: 1}}},
		},
	}

	for coll, models := range indexSets {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes for %s: %w", coll, err)
		}
	}
	return nil
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

// normalizeEmail lowercases and trims an email, matching the embedded
// store's case-insensitive lookup behavior.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// storageErr wraps unexpected driver failures as the contract's
// storage-failure kind.
func storageErr(op string, err error) error {
	return store.ErrStorageFailure.WithCause(fmt.Errorf("%s: %w", op, err))
}
