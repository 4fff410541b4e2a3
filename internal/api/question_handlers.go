package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/service"
)

func (s *Server) registerQuestionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createQuestion",
		Method:      http.MethodPost,
		Path:        "/api/v1/questions",
		Summary:     "Create question",
		Description: "Submits a consultation question and notifies admins",
		Tags:        []string{"Questions"},
	}, s.handleCreateQuestion)

	huma.Register(s.api, huma.Operation{
		OperationID: "listQuestions",
		Method:      http.MethodGet,
		Path:        "/api/v1/questions",
		Summary:     "List questions",
		Description: "Returns questions, newest first, with optional filters",
		Tags:        []string{"Questions"},
	}, s.handleListQuestions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getQuestion",
		Method:      http.MethodGet,
		Path:        "/api/v1/questions/{id}",
		Summary:     "Get question",
		Tags:        []string{"Questions"},
	}, s.handleGetQuestion)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateQuestion",
		Method:      http.MethodPatch,
		Path:        "/api/v1/questions/{id}",
		Summary:     "Update question",
		Description: "Applies a partial update. Status can only move forward.",
		Tags:        []string{"Questions"},
	}, s.handleUpdateQuestion)

	huma.Register(s.api, huma.Operation{
		OperationID: "resolveQuestion",
		Method:      http.MethodPost,
		Path:        "/api/v1/questions/{id}/resolve",
		Summary:     "Resolve question",
		Description: "Closes the question. Idempotent.",
		Tags:        []string{"Questions"},
	}, s.handleResolveQuestion)
}

// === DTOs ===

// QuestionResponse contains question data in API responses.
type QuestionResponse struct {
	ID            string  `json:"id" doc:"Question ID"`
	Category      string  `json:"category" doc:"Consultation category"`
	Title         string  `json:"title" doc:"Question title"`
	Text          string  `json:"text" doc:"Question body"`
	ImageURL      string  `json:"imageUrl,omitempty" doc:"Attached image URL"`
	UserID        string  `json:"userId" doc:"Author's user ID"`
	DisplayName   string  `json:"displayName" doc:"Author's display name"`
	Status        string  `json:"status" doc:"Lifecycle status"`
	AdminNotified bool    `json:"adminNotified" doc:"Whether admins were notified"`
	CreatedAt     string  `json:"createdAt" doc:"Creation time"`
	ResolvedAt    *string `json:"resolvedAt,omitempty" doc:"Resolution time"`
}

func toQuestionResponse(q *domain.Question) QuestionResponse {
	resp := QuestionResponse{
		ID:            q.ID,
		Category:      q.Category,
		Title:         q.Title,
		Text:          q.Text,
		ImageURL:      q.ImageURL,
		UserID:        q.UserID,
		DisplayName:   q.DisplayName,
		Status:        string(q.Status),
		AdminNotified: q.AdminNotified,
		CreatedAt:     formatTime(q.CreatedAt),
	}
	if q.ResolvedAt != nil {
		resolvedAt := formatTime(*q.ResolvedAt)
		resp.ResolvedAt = &resolvedAt
	}
	return resp
}

// CreateQuestionRequest is the request body for question creation.
type CreateQuestionRequest struct {
	Category string `json:"category" doc:"Consultation category"`
	Title    string `json:"title" doc:"Question title"`
	Text     string `json:"text" doc:"Question body"`
	ImageURL string `json:"imageUrl,omitempty" doc:"Attached image URL"`
}

// CreateQuestionInput wraps the question creation request for Huma.
type CreateQuestionInput struct {
	Body CreateQuestionRequest
}

// ListQuestionsInput contains query parameters for listing questions.
type ListQuestionsInput struct {
	Mine       bool   `query:"mine" doc:"Only the signed-in user's questions"`
	Status     string `query:"status" doc:"Filter by lifecycle status"`
	ByCategory bool   `query:"byCategory" doc:"Category priority order"`
}

// ListQuestionsResponse contains a list of questions.
type ListQuestionsResponse struct {
	Questions []QuestionResponse `json:"questions" doc:"Matching questions"`
}

// ListQuestionsOutput wraps the question list for Huma.
type ListQuestionsOutput struct {
	Body ListQuestionsResponse
}

// QuestionIDInput identifies a question by path parameter.
type QuestionIDInput struct {
	ID string `path:"id" doc:"Question ID"`
}

// UpdateQuestionRequest is the request body for question updates.
type UpdateQuestionRequest struct {
	Category *string `json:"category,omitempty" doc:"Consultation category"`
	Title    *string `json:"title,omitempty" doc:"Question title"`
	Text     *string `json:"text,omitempty" doc:"Question body"`
	ImageURL *string `json:"imageUrl,omitempty" doc:"Attached image URL"`
	Status   *string `json:"status,omitempty" doc:"Lifecycle status, forward only"`
}

// UpdateQuestionInput wraps the question update for Huma.
type UpdateQuestionInput struct {
	ID   string `path:"id" doc:"Question ID"`
	Body UpdateQuestionRequest
}

// QuestionOutput wraps a question response for Huma.
type QuestionOutput struct {
	Body QuestionResponse
}

// === Handlers ===

func (s *Server) handleCreateQuestion(ctx context.Context, input *CreateQuestionInput) (*QuestionOutput, error) {
	user, err := s.authenticateRequest(ctx)
	if err != nil {
		return nil, err
	}

	q, err := s.services.Question.AddQuestion(ctx, user, service.AddQuestionRequest{
		Category: input.Body.Category,
		Title:    input.Body.Title,
		Text:     input.Body.Text,
		ImageURL: input.Body.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	return &QuestionOutput{Body: toQuestionResponse(q)}, nil
}

func (s *Server) handleListQuestions(ctx context.Context, input *ListQuestionsInput) (*ListQuestionsOutput, error) {
	user, err := s.authenticateRequest(ctx)
	if err != nil {
		return nil, err
	}

	params := service.ListQuestionsParams{
		Status:     domain.QuestionStatus(input.Status),
		ByCategory: input.ByCategory,
	}
	if input.Mine {
		params.UserID = user.UID
	}

	questions, err := s.services.Question.ListQuestions(ctx, params)
	if err != nil {
		return nil, err
	}

	resp := make([]QuestionResponse, len(questions))
	for i, q := range questions {
		resp[i] = toQuestionResponse(q)
	}
	return &ListQuestionsOutput{Body: ListQuestionsResponse{Questions: resp}}, nil
}

func (s *Server) handleGetQuestion(ctx context.Context, input *QuestionIDInput) (*QuestionOutput, error) {
	if _, err := s.authenticateRequest(ctx); err != nil {
		return nil, err
	}

	q, err := s.services.Question.GetQuestion(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &QuestionOutput{Body: toQuestionResponse(q)}, nil
}

func (s *Server) handleUpdateQuestion(ctx context.Context, input *UpdateQuestionInput) (*QuestionOutput, error) {
	if _, err := s.authenticateRequest(ctx); err != nil {
		return nil, err
	}

	req := service.UpdateQuestionRequest{
		Category: input.Body.Category,
		Title:    input.Body.Title,
		Text:     input.Body.Text,
		ImageURL: input.Body.ImageURL,
	}
	if input.Body.Status != nil {
		status := domain.QuestionStatus(*input.Body.Status)
		req.Status = &status
	}

	q, err := s.services.Question.UpdateQuestion(ctx, input.ID, req)
	if err != nil {
		return nil, err
	}
	return &QuestionOutput{Body: toQuestionResponse(q)}, nil
}

func (s *Server) handleResolveQuestion(ctx context.Context, input *QuestionIDInput) (*QuestionOutput, error) {
	if _, err := s.authenticateRequest(ctx); err != nil {
		return nil, err
	}

	q, err := s.services.Question.ResolveQuestion(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &QuestionOutput{Body: toQuestionResponse(q)}, nil
}
