package badgerstore

import (
	"context"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// CreateQuestion stores a new question record.
func (s *Store) CreateQuestion(ctx context.Context, q *domain.Question) error {
	return s.questions.Create(ctx, q.ID, q)
}

// GetQuestion retrieves a question by id.
func (s *Store) GetQuestion(ctx context.Context, id string) (*domain.Question, error) {
	return s.questions.Get(ctx, id)
}

// UpdateQuestion overwrites an existing question. The status lifecycle
// is enforced here, inside the repository, so no caller can push a
// resolved question back to life.
func (s *Store) UpdateQuestion(ctx context.Context, q *domain.Question) error {
	existing, err := s.questions.Get(ctx, q.ID)
	if err != nil {
		return err
	}

	if !existing.Status.CanTransitionTo(q.Status) {
		return store.ErrInvalidTransition
	}

	return s.questions.Update(ctx, q.ID, q)
}

// ListQuestions returns all questions. No ordering is guaranteed;
// sorting and filtering belong to callers.
func (s *Store) ListQuestions(ctx context.Context) ([]*domain.Question, error) {
	return collect(s.questions.List(ctx))
}
