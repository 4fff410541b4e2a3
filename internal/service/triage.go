package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
	"github.com/ichigoapp/ichigo-server/internal/search"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// TriageService is the admin-side workbench over thread messages:
// tagging, merging duplicates, searching, and exporting a knowledge
// base draft.
type TriageService struct {
	store      store.Store
	tagService *TagService
	messages   *MessageService
	index      *search.MessageIndex
	logger     *slog.Logger
}

// NewTriageService creates a new triage service. index may be nil when
// search is disabled.
func NewTriageService(store store.Store, tagService *TagService, messages *MessageService, index *search.MessageIndex, logger *slog.Logger) *TriageService {
	return &TriageService{
		store:      store,
		tagService: tagService,
		messages:   messages,
		index:      index,
		logger:     logger,
	}
}

// AddTagToMessage attaches a tag to a message. The tag must exist;
// tagging twice with the same tag is a no-op.
func (s *TriageService) AddTagToMessage(ctx context.Context, threadID, messageID, tagID string) (*domain.ThreadMessage, error) {
	if _, err := s.tagService.GetTag(ctx, tagID); err != nil {
		return nil, err
	}

	msg, err := s.messages.GetMessage(ctx, threadID, messageID)
	if err != nil {
		return nil, err
	}
	if !msg.AddTag(tagID) {
		return msg, nil
	}

	if err := s.store.UpdateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	s.syncIndex(msg)
	return msg, nil
}

// RemoveTagFromMessage detaches a tag from a message. Removing a tag
// the message does not carry is a no-op.
func (s *TriageService) RemoveTagFromMessage(ctx context.Context, threadID, messageID, tagID string) (*domain.ThreadMessage, error) {
	msg, err := s.messages.GetMessage(ctx, threadID, messageID)
	if err != nil {
		return nil, err
	}
	if !msg.RemoveTag(tagID) {
		return msg, nil
	}

	if err := s.store.UpdateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	s.syncIndex(msg)
	return msg, nil
}

// MergeMessages folds the source messages into the target within one
// thread. The target collects the union of everyone's tags; sources
// are marked merged and drop out of triage views but keep their text.
func (s *TriageService) MergeMessages(ctx context.Context, threadID, targetID string, sourceIDs []string) (*domain.ThreadMessage, error) {
	if len(sourceIDs) == 0 {
		return nil, domainerrors.Validation("at least one source message is required")
	}
	for _, sourceID := range sourceIDs {
		if sourceID == targetID {
			return nil, domainerrors.Validation("a message cannot be merged into itself")
		}
	}

	target, err := s.messages.GetMessage(ctx, threadID, targetID)
	if err != nil {
		return nil, err
	}
	if target.IsMerged {
		return nil, domainerrors.Conflict("target message is already merged into another")
	}

	sources := make([]*domain.ThreadMessage, 0, len(sourceIDs))
	for _, sourceID := range sourceIDs {
		msg, err := s.messages.GetMessage(ctx, threadID, sourceID)
		if err != nil {
			return nil, err
		}
		sources = append(sources, msg)
	}

	changed := false
	for _, msg := range sources {
		for _, tagID := range msg.Tags {
			if target.AddTag(tagID) {
				changed = true
			}
		}
	}
	if changed {
		if err := s.store.UpdateMessage(ctx, target); err != nil {
			return nil, fmt.Errorf("update target message: %w", err)
		}
		s.syncIndex(target)
	}

	for _, msg := range sources {
		if msg.IsMerged && msg.MergedInto == targetID {
			continue
		}
		msg.MergeInto(targetID)
		if err := s.store.UpdateMessage(ctx, msg); err != nil {
			return nil, fmt.Errorf("update source message %s: %w", msg.ID, err)
		}
		s.syncIndex(msg)
	}

	if s.logger != nil {
		s.logger.Info("Messages merged",
			"thread_id", threadID, "target_id", targetID, "sources", len(sourceIDs))
	}
	return target, nil
}

// Search runs a triage search over indexed messages.
func (s *TriageService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	if s.index == nil {
		return nil, domainerrors.Internal("search is not configured")
	}
	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	return result, nil
}

// ExportMarkdown renders the tagged messages of a thread as a Markdown
// document grouped by tag, skipping merged messages. The result is the
// raw material for a cultivation knowledge base article.
func (s *TriageService) ExportMarkdown(ctx context.Context, threadID string) (string, error) {
	messages, err := s.messages.ListThread(ctx, threadID)
	if err != nil {
		return "", err
	}

	byTag := make(map[string][]*domain.ThreadMessage)
	tagIDs := make([]string, 0)
	for _, msg := range messages {
		if msg.IsMerged {
			continue
		}
		for _, tagID := range msg.Tags {
			if _, seen := byTag[tagID]; !seen {
				tagIDs = append(tagIDs, tagID)
			}
			byTag[tagID] = append(byTag[tagID], msg)
		}
	}

	names, err := s.tagService.TagNames(ctx, tagIDs)
	if err != nil {
		return "", err
	}

	// Stable section order: tag name, dangling ids last.
	sort.SliceStable(tagIDs, func(i, j int) bool {
		ni, iok := names[tagIDs[i]]
		nj, jok := names[tagIDs[j]]
		if iok != jok {
			return iok
		}
		if ni != nj {
			return ni < nj
		}
		return tagIDs[i] < tagIDs[j]
	})

	var b strings.Builder
	b.WriteString("# Consultation notes\n")
	for _, tagID := range tagIDs {
		name, ok := names[tagID]
		if !ok {
			name = "(deleted tag)"
		}
		fmt.Fprintf(&b, "\n## %s\n\n", name)
		for _, msg := range byTag[tagID] {
			author := msg.DisplayName
			if author == "" {
				author = msg.UserEmail
			}
			fmt.Fprintf(&b, "- **%s** (%s): %s\n",
				author,
				msg.Timestamp.Format("2006-01-02 15:04"),
				strings.ReplaceAll(msg.Text, "\n", " "),
			)
		}
	}
	return b.String(), nil
}

func (s *TriageService) syncIndex(msg *domain.ThreadMessage) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexMessage(search.DocumentFromMessage(msg)); err != nil && s.logger != nil {
		s.logger.Warn("Failed to index message", "message_id", msg.ID, "error", err)
	}
}
