package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ichigoapp/ichigo-server/internal/search"
)

func (s *Server) registerTriageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "tagMessage",
		Method:      http.MethodPost,
		Path:        "/api/v1/triage/messages/{messageId}/tags/{tagId}",
		Summary:     "Tag message",
		Description: "Attaches a tag to a message. Admin only.",
		Tags:        []string{"Triage"},
	}, s.handleTagMessage)

	huma.Register(s.api, huma.Operation{
		OperationID: "untagMessage",
		Method:      http.MethodDelete,
		Path:        "/api/v1/triage/messages/{messageId}/tags/{tagId}",
		Summary:     "Untag message",
		Description: "Detaches a tag from a message. Admin only.",
		Tags:        []string{"Triage"},
	}, s.handleUntagMessage)

	huma.Register(s.api, huma.Operation{
		OperationID: "mergeMessages",
		Method:      http.MethodPost,
		Path:        "/api/v1/triage/merge",
		Summary:     "Merge messages",
		Description: "Folds duplicate messages into a target, unioning their tags. Admin only.",
		Tags:        []string{"Triage"},
	}, s.handleMergeMessages)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchMessages",
		Method:      http.MethodGet,
		Path:        "/api/v1/triage/search",
		Summary:     "Search messages",
		Description: "Full-text search with optional tag and thread filters. Admin only.",
		Tags:        []string{"Triage"},
	}, s.handleSearchMessages)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportMarkdown",
		Method:      http.MethodGet,
		Path:        "/api/v1/triage/export",
		Summary:     "Export markdown",
		Description: "Renders a thread's tagged messages as a Markdown document. Admin only.",
		Tags:        []string{"Triage"},
	}, s.handleExportMarkdown)
}

// === DTOs ===

// TriageTagInput identifies a message and tag for triage operations.
type TriageTagInput struct {
	MessageID string `path:"messageId" doc:"Message ID"`
	TagID     string `path:"tagId" doc:"Tag ID"`
	ThreadID  string `query:"threadId" doc:"Question ID, or empty for the shared log"`
}

// MergeMessagesRequest is the request body for merging messages.
type MergeMessagesRequest struct {
	ThreadID  string   `json:"threadId,omitempty" doc:"Question ID, or empty for the shared log"`
	TargetID  string   `json:"targetId" doc:"Message collecting the duplicates"`
	SourceIDs []string `json:"sourceIds" doc:"Messages to fold into the target"`
}

// MergeMessagesInput wraps the merge request for Huma.
type MergeMessagesInput struct {
	Body MergeMessagesRequest
}

// SearchMessagesInput contains query parameters for triage search.
type SearchMessagesInput struct {
	Query         string `query:"q" doc:"Free text query"`
	TagID         string `query:"tagId" doc:"Exact tag filter"`
	ThreadID      string `query:"threadId" doc:"Restrict to one thread"`
	IncludeMerged bool   `query:"includeMerged" doc:"Include messages folded into another"`
	Limit         int    `query:"limit" doc:"Page size, default 50"`
	Offset        int    `query:"offset" doc:"Page offset"`
}

// SearchMessagesOutput wraps the search result for Huma.
type SearchMessagesOutput struct {
	Body search.SearchResult
}

// ExportMarkdownInput contains query parameters for the export.
type ExportMarkdownInput struct {
	ThreadID string `query:"threadId" doc:"Question ID, or empty for the shared log"`
}

// ExportMarkdownResponse contains the rendered document.
type ExportMarkdownResponse struct {
	Markdown string `json:"markdown" doc:"Rendered Markdown document"`
}

// ExportMarkdownOutput wraps the export response for Huma.
type ExportMarkdownOutput struct {
	Body ExportMarkdownResponse
}

// === Handlers ===

func (s *Server) handleTagMessage(ctx context.Context, input *TriageTagInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	threadID := sharedThreadDefault(input.ThreadID)
	msg, err := s.services.Triage.AddTagToMessage(ctx, threadID, input.MessageID, input.TagID)
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: toMessageResponse(msg)}, nil
}

func (s *Server) handleUntagMessage(ctx context.Context, input *TriageTagInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	threadID := sharedThreadDefault(input.ThreadID)
	msg, err := s.services.Triage.RemoveTagFromMessage(ctx, threadID, input.MessageID, input.TagID)
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: toMessageResponse(msg)}, nil
}

func (s *Server) handleMergeMessages(ctx context.Context, input *MergeMessagesInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	threadID := sharedThreadDefault(input.Body.ThreadID)
	target, err := s.services.Triage.MergeMessages(ctx, threadID, input.Body.TargetID, input.Body.SourceIDs)
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: toMessageResponse(target)}, nil
}

func (s *Server) handleSearchMessages(ctx context.Context, input *SearchMessagesInput) (*SearchMessagesOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.TagID = input.TagID
	params.ThreadID = input.ThreadID
	params.ExcludeMerged = !input.IncludeMerged
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset

	result, err := s.services.Triage.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SearchMessagesOutput{Body: *result}, nil
}

func (s *Server) handleExportMarkdown(ctx context.Context, input *ExportMarkdownInput) (*ExportMarkdownOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	doc, err := s.services.Triage.ExportMarkdown(ctx, sharedThreadDefault(input.ThreadID))
	if err != nil {
		return nil, err
	}
	return &ExportMarkdownOutput{Body: ExportMarkdownResponse{Markdown: doc}}, nil
}
