package badgerstore

import (
	"context"

	"github.com/ichigoapp/ichigo-server/internal/domain"
)

// CreateTag stores a new tag. Name uniqueness is the caller's
// responsibility; the partition happily holds duplicates.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	return s.tags.Create(ctx, tag.ID, tag)
}

// GetTag retrieves a tag by id.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	return s.tags.Get(ctx, id)
}

// DeleteTag removes a tag. Idempotent; messages still referencing the
// id are left to the service-level cascade.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	return s.tags.Delete(ctx, id)
}

// ListTags returns all tags.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return collect(s.tags.List(ctx))
}
