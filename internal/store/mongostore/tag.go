package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// CreateTag inserts a new tag. Duplicate names are allowed here; only
// duplicate ids are rejected.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	if _, err := s.db.Collection(collTags).InsertOne(ctx, tag); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyExists
		}
		return storageErr("insert tag", err)
	}
	return nil
}

// GetTag retrieves a tag by id.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	var tag domain.Tag
	err := s.db.Collection(collTags).FindOne(ctx, bson.M{"id": id}).Decode(&tag)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrTagNotFound
	}
	if err != nil {
		return nil, storageErr("find tag", err)
	}
	return &tag, nil
}

// DeleteTag removes a tag. Idempotent.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	if _, err := s.db.Collection(collTags).DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return storageErr("delete tag", err)
	}
	return nil
}

// ListTags returns all tags.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return findAll[domain.Tag](ctx, s.db.Collection(collTags), bson.M{}, nil)
}
