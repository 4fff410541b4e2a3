package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// CreateQuestion inserts a new question document.
func (s *Store) CreateQuestion(ctx context.Context, q *domain.Question) error {
	if _, err := s.db.Collection(collQuestions).InsertOne(ctx, q); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyExists
		}
		return storageErr("insert question", err)
	}
	return nil
}

// GetQuestion retrieves a question by id.
func (s *Store) GetQuestion(ctx context.Context, id string) (*domain.Question, error) {
	var q domain.Question
	err := s.db.Collection(collQuestions).FindOne(ctx, bson.M{"id": id}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrQuestionNotFound
	}
	if err != nil {
		return nil, storageErr("find question", err)
	}
	return &q, nil
}

// UpdateQuestion replaces a question document after validating the
// status lifecycle against the stored state.
func (s *Store) UpdateQuestion(ctx context.Context, q *domain.Question) error {
	existing, err := s.GetQuestion(ctx, q.ID)
	if err != nil {
		return err
	}

	if !existing.Status.CanTransitionTo(q.Status) {
		return store.ErrInvalidTransition
	}

	res, err := s.db.Collection(collQuestions).ReplaceOne(ctx, bson.M{"id": q.ID}, q)
	if err != nil {
		return storageErr("replace question", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrQuestionNotFound
	}
	return nil
}

// ListQuestions returns all questions. No ordering is guaranteed.
func (s *Store) ListQuestions(ctx context.Context) ([]*domain.Question, error) {
	return findAll[domain.Question](ctx, s.db.Collection(collQuestions), bson.M{}, nil)
}
