package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuestionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from QuestionStatus
		to   QuestionStatus
		ok   bool
	}{
		{"pending to notified", StatusPending, StatusAdminNotified, true},
		{"pending to resolved", StatusPending, StatusResolved, true},
		{"notified to resolved", StatusAdminNotified, StatusResolved, true},
		{"same state idempotent", StatusResolved, StatusResolved, true},
		{"resolved never reopens", StatusResolved, StatusPending, false},
		{"resolved never renotifies", StatusResolved, StatusAdminNotified, false},
		{"notified never regresses", StatusAdminNotified, StatusPending, false},
		{"unknown target rejected", StatusPending, QuestionStatus("ai-answered"), false},
		{"empty target rejected", StatusPending, QuestionStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestQuestionPatch_Apply(t *testing.T) {
	q := &Question{
		ID:       "q-1",
		Category: "pests",
		Title:    "Mites on runners",
		Text:     "Small white mites on the new runners.",
		Status:   StatusAdminNotified,
	}

	title := "Spider mites on runners"
	status := StatusResolved
	resolvedAt := time.Now()

	patch := &QuestionPatch{
		Title:      &title,
		Status:     &status,
		ResolvedAt: &resolvedAt,
	}
	patch.Apply(q)

	assert.Equal(t, "Spider mites on runners", q.Title)
	assert.Equal(t, StatusResolved, q.Status)
	assert.Equal(t, &resolvedAt, q.ResolvedAt)
	// Untouched fields keep their values
	assert.Equal(t, "pests", q.Category)
	assert.Equal(t, "Small white mites on the new runners.", q.Text)
}

func TestUserSettings_Merge(t *testing.T) {
	age := 42
	perDay := 3
	s := &UserSettings{UserID: "user-1", Age: &age, ConsultationsPerDay: &perDay}

	notify := false
	newPerDay := 5
	s.Merge(&UserSettings{ConsultationsPerDay: &newPerDay, EmailNotification: &notify})

	assert.Equal(t, 42, *s.Age, "absent patch fields must not clear stored values")
	assert.Equal(t, 5, *s.ConsultationsPerDay)
	assert.False(t, *s.EmailNotification)
	assert.False(t, s.UpdatedAt.IsZero())
}

func TestThreadMessage_Tags(t *testing.T) {
	m := &ThreadMessage{ID: "msg-1", ThreadID: SharedThreadID}

	assert.True(t, m.AddTag("tag-a"))
	assert.False(t, m.AddTag("tag-a"), "adding twice is a no-op")
	assert.True(t, m.AddTag("tag-b"))
	assert.True(t, m.HasTag("tag-a"))

	assert.True(t, m.RemoveTag("tag-a"))
	assert.False(t, m.RemoveTag("tag-a"))
	assert.Equal(t, []string{"tag-b"}, m.Tags)
}
