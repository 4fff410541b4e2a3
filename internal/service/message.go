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

// MessageService manages thread messages. Threads are either the
// shared consultation log or a per-question thread keyed by the
// question id. Messages are append-only; only triage metadata changes
// after the fact.
type MessageService struct {
	store  store.Store
	index  *search.MessageIndex
	logger *slog.Logger
}

// NewMessageService creates a new message service. index may be nil
// when search is disabled.
func NewMessageService(store store.Store, index *search.MessageIndex, logger *slog.Logger) *MessageService {
	return &MessageService{store: store, index: index, logger: logger}
}

// AddMessageRequest contains one new thread message. An empty ThreadID
// posts to the shared consultation log.
type AddMessageRequest struct {
	ThreadID string `json:"threadId,omitempty" validate:"omitempty,max=100"`
	Text     string `json:"text" validate:"required,max=5000"`
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,max=2000"`
}

// AddMessage appends a message to a thread. Posting to a per-question
// thread requires the question to exist.
func (s *MessageService) AddMessage(ctx context.Context, user *domain.User, req AddMessageRequest) (*domain.ThreadMessage, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	threadID := req.ThreadID
	if threadID == "" {
		threadID = domain.SharedThreadID
	}
	if threadID != domain.SharedThreadID {
		if _, err := s.store.GetQuestion(ctx, threadID); err != nil {
			if errors.Is(err, store.ErrQuestionNotFound) {
				return nil, domainerrors.NotFound("thread not found")
			}
			return nil, fmt.Errorf("get question: %w", err)
		}
	}

	messageID, err := id.Generate("msg")
	if err != nil {
		return nil, fmt.Errorf("generate message ID: %w", err)
	}

	msg := &domain.ThreadMessage{
		ID:          messageID,
		ThreadID:    threadID,
		Text:        req.Text,
		ImageURL:    req.ImageURL,
		UserID:      user.UID,
		UserEmail:   user.Email,
		DisplayName: user.Name(),
		Timestamp:   time.Now(),
	}

	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	s.syncIndex(msg)

	if s.logger != nil {
		s.logger.Debug("Message appended", "message_id", messageID, "thread_id", threadID)
	}
	return msg, nil
}

// GetMessage returns one message from a thread.
func (s *MessageService) GetMessage(ctx context.Context, threadID, messageID string) (*domain.ThreadMessage, error) {
	msg, err := s.store.GetMessage(ctx, threadID, messageID)
	if err != nil {
		if errors.Is(err, store.ErrMessageNotFound) {
			return nil, domainerrors.NotFound("message not found")
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// ListThread returns a thread's messages in insertion order. An empty
// threadID reads the shared consultation log. Unknown threads list as
// empty, matching a thread nobody has posted to yet.
func (s *MessageService) ListThread(ctx context.Context, threadID string) ([]*domain.ThreadMessage, error) {
	if threadID == "" {
		threadID = domain.SharedThreadID
	}
	messages, err := s.store.ListMessages(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// ReindexAll rebuilds the search index from the stored messages in the
// shared thread and every question thread. Used after an index schema
// change or corruption.
func (s *MessageService) ReindexAll(ctx context.Context) error {
	if s.index == nil {
		return nil
	}

	threadIDs := []string{domain.SharedThreadID}
	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	for _, q := range questions {
		threadIDs = append(threadIDs, q.ID)
	}

	var docs []search.MessageDocument
	for _, threadID := range threadIDs {
		messages, err := s.store.ListMessages(ctx, threadID)
		if err != nil {
			return fmt.Errorf("list messages %s: %w", threadID, err)
		}
		for _, msg := range messages {
			docs = append(docs, search.DocumentFromMessage(msg))
		}
	}

	if err := s.index.IndexMessages(docs); err != nil {
		return fmt.Errorf("index messages: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Reindexed messages", "count", len(docs))
	}
	return nil
}

// syncIndex mirrors a message into the search index. Index trouble is
// logged, not surfaced; the write already succeeded and a reindex can
// repair the gap.
func (s *MessageService) syncIndex(msg *domain.ThreadMessage) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexMessage(search.DocumentFromMessage(msg)); err != nil && s.logger != nil {
		s.logger.Warn("Failed to index message", "message_id", msg.ID, "error", err)
	}
}
