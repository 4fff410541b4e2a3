package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/service"
)

func (s *Server) registerMessageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "postMessage",
		Method:      http.MethodPost,
		Path:        "/api/v1/messages",
		Summary:     "Post message",
		Description: "Appends a message to the shared log or a question thread",
		Tags:        []string{"Messages"},
	}, s.handlePostMessage)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMessages",
		Method:      http.MethodGet,
		Path:        "/api/v1/messages",
		Summary:     "List messages",
		Description: "Returns a thread's messages in insertion order",
		Tags:        []string{"Messages"},
	}, s.handleListMessages)
}

// === DTOs ===

// MessageResponse contains message data in API responses.
type MessageResponse struct {
	ID          string   `json:"id" doc:"Message ID"`
	ThreadID    string   `json:"threadId" doc:"Thread ID"`
	Text        string   `json:"text" doc:"Message body"`
	ImageURL    string   `json:"imageUrl,omitempty" doc:"Attached image URL"`
	UserID      string   `json:"userId" doc:"Author's user ID"`
	DisplayName string   `json:"displayName" doc:"Author's display name"`
	Timestamp   string   `json:"timestamp" doc:"Posting time"`
	Tags        []string `json:"tags,omitempty" doc:"Attached tag IDs"`
	MergedInto  string   `json:"mergedInto,omitempty" doc:"Target message when folded"`
	IsMerged    bool     `json:"isMerged,omitempty" doc:"Whether folded into another message"`
}

func toMessageResponse(m *domain.ThreadMessage) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		ThreadID:    m.ThreadID,
		Text:        m.Text,
		ImageURL:    m.ImageURL,
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Timestamp:   formatTime(m.Timestamp),
		Tags:        m.Tags,
		MergedInto:  m.MergedInto,
		IsMerged:    m.IsMerged,
	}
}

// PostMessageRequest is the request body for posting a message.
type PostMessageRequest struct {
	ThreadID string `json:"threadId,omitempty" doc:"Question ID, or empty for the shared log"`
	Text     string `json:"text" doc:"Message body"`
	ImageURL string `json:"imageUrl,omitempty" doc:"Attached image URL"`
}

// PostMessageInput wraps the message posting request for Huma.
type PostMessageInput struct {
	Body PostMessageRequest
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// ListMessagesInput contains query parameters for listing messages.
type ListMessagesInput struct {
	ThreadID string `query:"threadId" doc:"Question ID, or empty for the shared log"`
}

// ListMessagesResponse contains a thread's messages.
type ListMessagesResponse struct {
	ThreadID string            `json:"threadId" doc:"Thread ID"`
	Messages []MessageResponse `json:"messages" doc:"Messages in insertion order"`
}

// ListMessagesOutput wraps the message list for Huma.
type ListMessagesOutput struct {
	Body ListMessagesResponse
}

// === Handlers ===

func (s *Server) handlePostMessage(ctx context.Context, input *PostMessageInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := s.services.Message.AddMessage(ctx, user, service.AddMessageRequest{
		ThreadID: input.Body.ThreadID,
		Text:     input.Body.Text,
		ImageURL: input.Body.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: toMessageResponse(msg)}, nil
}

func (s *Server) handleListMessages(ctx context.Context, input *ListMessagesInput) (*ListMessagesOutput, error) {
	if _, err := s.authenticateRequest(ctx); err != nil {
		return nil, err
	}

	messages, err := s.services.Message.ListThread(ctx, input.ThreadID)
	if err != nil {
		return nil, err
	}

	threadID := input.ThreadID
	if threadID == "" {
		threadID = domain.SharedThreadID
	}

	resp := make([]MessageResponse, len(messages))
	for i, m := range messages {
		resp[i] = toMessageResponse(m)
	}
	return &ListMessagesOutput{Body: ListMessagesResponse{ThreadID: threadID, Messages: resp}}, nil
}
