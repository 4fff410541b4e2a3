package service

import (
	"context"
	"log/slog"

	"github.com/ichigoapp/ichigo-server/internal/domain"
)

// Notifier delivers new-question notifications to the admin roster.
// Implementations must be safe for concurrent use.
type Notifier interface {
	NotifyNewQuestion(ctx context.Context, q *domain.Question, targets []*domain.AdminNotificationTarget) error
}

// LogNotifier records notifications in the log. It stands in for a
// mail or push integration in demo deployments.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyNewQuestion logs one line per roster target.
func (n *LogNotifier) NotifyNewQuestion(_ context.Context, q *domain.Question, targets []*domain.AdminNotificationTarget) error {
	for _, target := range targets {
		n.logger.Info("Admin notification",
			"question_id", q.ID,
			"category", q.Category,
			"to", target.Email,
			"type", target.NotificationType,
		)
	}
	return nil
}
