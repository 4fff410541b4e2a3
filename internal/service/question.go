package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
	"github.com/ichigoapp/ichigo-server/internal/id"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// categoryPriority orders consultation categories on list screens.
// Unknown categories sort after the known ones, newest first within a
// category.
var categoryPriority = map[string]int{
	"disease":     0,
	"pest":        1,
	"nutrition":   2,
	"environment": 3,
	"harvest":     4,
	"other":       5,
}

// QuestionService manages the consultation question lifecycle.
type QuestionService struct {
	store        store.Store
	adminService *AdminService
	notifier     Notifier
	logger       *slog.Logger
}

// NewQuestionService creates a new question service.
func NewQuestionService(store store.Store, adminService *AdminService, notifier Notifier, logger *slog.Logger) *QuestionService {
	return &QuestionService{
		store:        store,
		adminService: adminService,
		notifier:     notifier,
		logger:       logger,
	}
}

// AddQuestionRequest contains a new consultation question.
type AddQuestionRequest struct {
	Category string `json:"category" validate:"required,max=50"`
	Title    string `json:"title" validate:"required,max=200"`
	Text     string `json:"text" validate:"required,max=5000"`
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,max=2000"`
}

// UpdateQuestionRequest is a partial question update. Absent fields
// keep their stored value.
type UpdateQuestionRequest struct {
	Category *string                `json:"category,omitempty" validate:"omitempty,max=50"`
	Title    *string                `json:"title,omitempty" validate:"omitempty,max=200"`
	Text     *string                `json:"text,omitempty" validate:"omitempty,max=5000"`
	ImageURL *string                `json:"imageUrl,omitempty" validate:"omitempty,max=2000"`
	Status   *domain.QuestionStatus `json:"status,omitempty"`
}

// ListQuestionsParams filters and shapes a question listing.
type ListQuestionsParams struct {
	UserID     string                // Only this user's questions (empty = all)
	Status     domain.QuestionStatus // Only this status (empty = all)
	ByCategory bool                  // Category priority order instead of plain newest-first
}

// AddQuestion creates a question for user and notifies the admin
// roster. The question is persisted as pending first, then moved to
// admin-notified once the roster has been told, so a crash between the
// two steps leaves a pending question rather than a lost notification.
func (s *QuestionService) AddQuestion(ctx context.Context, user *domain.User, req AddQuestionRequest) (*domain.Question, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	questionID, err := id.Generate("q")
	if err != nil {
		return nil, fmt.Errorf("generate question ID: %w", err)
	}

	q := &domain.Question{
		ID:          questionID,
		Category:    req.Category,
		Title:       req.Title,
		Text:        req.Text,
		ImageURL:    req.ImageURL,
		UserID:      user.UID,
		UserEmail:   user.Email,
		DisplayName: user.Name(),
		CreatedAt:   time.Now(),
		Status:      domain.StatusPending,
	}

	if err := s.store.CreateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	if err := s.notifyAdmins(ctx, q); err != nil {
		// The question stays pending; a later sweep or retry can
		// notify again. The user still gets their question back.
		if s.logger != nil {
			s.logger.Warn("Admin notification failed, question stays pending",
				"question_id", q.ID, "error", err)
		}
		return q, nil
	}

	q.Status = domain.StatusAdminNotified
	q.AdminNotified = true
	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("mark question notified: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Question created", "question_id", q.ID, "category", q.Category)
	}
	return q, nil
}

func (s *QuestionService) notifyAdmins(ctx context.Context, q *domain.Question) error {
	settings, err := s.adminService.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("get admin settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		return nil
	}

	targets, err := s.adminService.ListTargets(ctx)
	if err != nil {
		return fmt.Errorf("list admin roster: %w", err)
	}
	if len(targets) == 0 {
		return nil
	}
	return s.notifier.NotifyNewQuestion(ctx, q, targets)
}

// GetQuestion returns one question by id.
func (s *QuestionService) GetQuestion(ctx context.Context, questionID string) (*domain.Question, error) {
	q, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, store.ErrQuestionNotFound) {
			return nil, domainerrors.NotFound("question not found")
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

// UpdateQuestion applies a partial update. Status changes that move
// against the lifecycle are rejected.
func (s *QuestionService) UpdateQuestion(ctx context.Context, questionID string, req UpdateQuestionRequest) (*domain.Question, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, domainerrors.Validationf("unknown status %q", *req.Status)
	}

	q, err := s.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	patch := domain.QuestionPatch{
		Category: req.Category,
		Title:    req.Title,
		Text:     req.Text,
		ImageURL: req.ImageURL,
		Status:   req.Status,
	}
	if req.Status != nil && *req.Status == domain.StatusResolved && q.ResolvedAt == nil {
		now := time.Now()
		patch.ResolvedAt = &now
	}
	patch.Apply(q)

	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			return nil, domainerrors.Conflict("question cannot move back to an earlier status")
		}
		return nil, fmt.Errorf("update question: %w", err)
	}
	return q, nil
}

// ResolveQuestion closes a question. Resolving an already resolved
// question is a no-op that returns the stored record, and the original
// ResolvedAt timestamp is kept.
func (s *QuestionService) ResolveQuestion(ctx context.Context, questionID string) (*domain.Question, error) {
	q, err := s.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.IsResolved() {
		return q, nil
	}

	now := time.Now()
	q.Status = domain.StatusResolved
	q.ResolvedAt = &now

	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("resolve question: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Question resolved", "question_id", q.ID)
	}
	return q, nil
}

// ListQuestions returns questions matching params, newest first. With
// ByCategory set, questions group by category priority before the
// chronological order applies.
func (s *QuestionService) ListQuestions(ctx context.Context, params ListQuestionsParams) ([]*domain.Question, error) {
	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	filtered := questions[:0]
	for _, q := range questions {
		if params.UserID != "" && q.UserID != params.UserID {
			continue
		}
		if params.Status != "" && q.Status != params.Status {
			continue
		}
		filtered = append(filtered, q)
	}

	if params.ByCategory {
		sortQuestionsByCategory(filtered)
	} else {
		sortQuestionsNewestFirst(filtered)
	}
	return filtered, nil
}

func sortQuestionsNewestFirst(questions []*domain.Question) {
	slices.SortStableFunc(questions, func(a, b *domain.Question) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func sortQuestionsByCategory(questions []*domain.Question) {
	slices.SortStableFunc(questions, func(a, b *domain.Question) int {
		pa, pb := categoryRank(a.Category), categoryRank(b.Category)
		if pa != pb {
			return pa - pb
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func categoryRank(category string) int {
	if rank, ok := categoryPriority[category]; ok {
		return rank
	}
	return len(categoryPriority)
}
