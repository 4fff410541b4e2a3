package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
	"github.com/ichigoapp/ichigo-server/internal/id"
	"github.com/ichigoapp/ichigo-server/internal/search"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// TagService manages triage tags. Name uniqueness and the delete
// cascade live here so both store backends share one policy.
type TagService struct {
	store  store.Store
	index  *search.MessageIndex
	logger *slog.Logger
}

// NewTagService creates a new tag service. index may be nil when
// search is disabled.
func NewTagService(store store.Store, index *search.MessageIndex, logger *slog.Logger) *TagService {
	return &TagService{store: store, index: index, logger: logger}
}

// CreateTagRequest contains a new tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateTag registers a tag. Names are unique by exact match.
func (s *TagService) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	existing, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	for _, tag := range existing {
		if tag.Name == req.Name {
			return nil, domainerrors.AlreadyExists("tag name already in use")
		}
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	tag := &domain.Tag{
		ID:        tagID,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Tag created", "tag_id", tagID, "name", req.Name)
	}
	return tag, nil
}

// GetTag returns one tag by id.
func (s *TagService) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if errors.Is(err, store.ErrTagNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// ListTags returns every tag.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// DeleteTag removes a tag and strips its id from every message that
// carries it, across the shared thread and all question threads.
// Deleting an unknown tag still runs the sweep, so a half-finished
// earlier delete can be completed by calling again.
func (s *TagService) DeleteTag(ctx context.Context, tagID string) error {
	if tagID == "" {
		return domainerrors.Validation("tag id is required")
	}

	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	stripped, err := s.stripTagFromMessages(ctx, tagID)
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("Tag deleted", "tag_id", tagID, "messages_updated", stripped)
	}
	return nil
}

func (s *TagService) stripTagFromMessages(ctx context.Context, tagID string) (int, error) {
	threadIDs := []string{domain.SharedThreadID}
	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list questions: %w", err)
	}
	for _, q := range questions {
		threadIDs = append(threadIDs, q.ID)
	}

	stripped := 0
	for _, threadID := range threadIDs {
		messages, err := s.store.ListMessages(ctx, threadID)
		if err != nil {
			return stripped, fmt.Errorf("list messages %s: %w", threadID, err)
		}
		for _, msg := range messages {
			if !msg.RemoveTag(tagID) {
				continue
			}
			if err := s.store.UpdateMessage(ctx, msg); err != nil {
				return stripped, fmt.Errorf("update message %s: %w", msg.ID, err)
			}
			s.syncIndex(msg)
			stripped++
		}
	}
	return stripped, nil
}

// TagNames resolves tag ids to names. Dangling ids (tags deleted while
// a reference survived somewhere) are skipped rather than failing the
// whole lookup.
func (s *TagService) TagNames(ctx context.Context, tagIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(tagIDs))
	for _, tagID := range tagIDs {
		tag, err := s.store.GetTag(ctx, tagID)
		if err != nil {
			if errors.Is(err, store.ErrTagNotFound) {
				continue
			}
			return nil, fmt.Errorf("get tag %s: %w", tagID, err)
		}
		names[tagID] = tag.Name
	}
	return names, nil
}

func (s *TagService) syncIndex(msg *domain.ThreadMessage) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexMessage(search.DocumentFromMessage(msg)); err != nil && s.logger != nil {
		s.logger.Warn("Failed to index message", "message_id", msg.ID, "error", err)
	}
}
