package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
)

func TestQuestionService_AddQuestionNotifiesAdmins(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")

	q, err := env.questions.AddQuestion(ctx, user, AddQuestionRequest{
		Category: "disease",
		Title:    "Yellow leaves",
		Text:     "The lower leaves are turning yellow",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, q.ID)
	assert.Equal(t, domain.StatusAdminNotified, q.Status)
	assert.True(t, q.AdminNotified)
	assert.Equal(t, user.UID, q.UserID)
	assert.Equal(t, "Hana", q.DisplayName)

	// A fresh read must show the notified state, not pending.
	got, err := env.questions.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAdminNotified, got.Status)
}

func TestQuestionService_AddQuestionNotifierFailureStaysPending(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	// Roster must be non-empty for the notifier to run at all.
	_, err := env.admins.AddTarget(ctx, AddTargetRequest{
		Email:            "oncall@farm.jp",
		NotificationType: "realtime",
	})
	require.NoError(t, err)

	env.questions.notifier = failingNotifier{}

	user := env.signup(t, "hana@farm.jp", "Hana")
	q, err := env.questions.AddQuestion(ctx, user, AddQuestionRequest{
		Category: "disease",
		Title:    "Yellow leaves",
		Text:     "Help",
	})
	require.NoError(t, err, "the user still gets their question back")
	assert.Equal(t, domain.StatusPending, q.Status)

	got, err := env.questions.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestQuestionService_AddQuestionValidation(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")

	_, err := env.questions.AddQuestion(ctx, user, AddQuestionRequest{Category: "disease"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestQuestionService_ResolveIsIdempotent(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	q, err := env.questions.AddQuestion(ctx, user, AddQuestionRequest{
		Category: "pest",
		Title:    "Mites",
		Text:     "Spider mites on the underside of leaves",
	})
	require.NoError(t, err)

	resolved, err := env.questions.ResolveQuestion(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	firstResolvedAt := *resolved.ResolvedAt

	again, err := env.questions.ResolveQuestion(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, again.ResolvedAt)
	assert.True(t, again.ResolvedAt.Equal(firstResolvedAt), "resolving twice must keep the original timestamp")
}

func TestQuestionService_UpdateRejectsBackwardTransition(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	q, err := env.questions.AddQuestion(ctx, user, AddQuestionRequest{
		Category: "pest",
		Title:    "Mites",
		Text:     "Spider mites again",
	})
	require.NoError(t, err)

	_, err = env.questions.ResolveQuestion(ctx, q.ID)
	require.NoError(t, err)

	pending := domain.StatusPending
	_, err = env.questions.UpdateQuestion(ctx, q.ID, UpdateQuestionRequest{Status: &pending})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestQuestionService_UpdateRejectsUnknownStatus(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	q, err := env.questions.AddQuestion(ctx, user, AddQuestionRequest{
		Category: "other",
		Title:    "Misc",
		Text:     "Text",
	})
	require.NoError(t, err)

	bogus := domain.QuestionStatus("ai-answered")
	_, err = env.questions.UpdateQuestion(ctx, q.ID, UpdateQuestionRequest{Status: &bogus})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestQuestionService_UpdatePatchKeepsOtherFields(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	q, err := env.questions.AddQuestion(ctx, user, AddQuestionRequest{
		Category: "nutrition",
		Title:    "Feeding schedule",
		Text:     "Original text",
	})
	require.NoError(t, err)

	newTitle := "Feeding schedule during flowering"
	updated, err := env.questions.UpdateQuestion(ctx, q.ID, UpdateQuestionRequest{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, "Original text", updated.Text)
	assert.Equal(t, "nutrition", updated.Category)
}

func TestQuestionService_GetUnknown(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()

	_, err := env.questions.GetQuestion(context.Background(), "q-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestQuestionService_ListFiltersAndSorts(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	hana := env.signup(t, "hana@farm.jp", "Hana")
	kenji := env.signup(t, "kenji@farm.jp", "Kenji")

	mkQuestion := func(user *domain.User, category, title string) *domain.Question {
		q, err := env.questions.AddQuestion(ctx, user, AddQuestionRequest{
			Category: category,
			Title:    title,
			Text:     "text",
		})
		require.NoError(t, err)
		return q
	}

	first := mkQuestion(hana, "other", "oldest")
	time.Sleep(2 * time.Millisecond)
	second := mkQuestion(kenji, "disease", "middle")
	time.Sleep(2 * time.Millisecond)
	third := mkQuestion(hana, "nutrition", "newest")

	all, err := env.questions.ListQuestions(ctx, ListQuestionsParams{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, first.ID, all[2].ID)

	mine, err := env.questions.ListQuestions(ctx, ListQuestionsParams{UserID: hana.UID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, q := range mine {
		assert.Equal(t, hana.UID, q.UserID)
	}

	byCategory, err := env.questions.ListQuestions(ctx, ListQuestionsParams{ByCategory: true})
	require.NoError(t, err)
	require.Len(t, byCategory, 3)
	assert.Equal(t, "disease", byCategory[0].Category)
	assert.Equal(t, "nutrition", byCategory[1].Category)
	assert.Equal(t, "other", byCategory[2].Category)
	_ = second

	_, err = env.questions.ResolveQuestion(ctx, first.ID)
	require.NoError(t, err)
	resolved, err := env.questions.ListQuestions(ctx, ListQuestionsParams{Status: domain.StatusResolved})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, first.ID, resolved[0].ID)
}

type failingNotifier struct{}

func (failingNotifier) NotifyNewQuestion(context.Context, *domain.Question, []*domain.AdminNotificationTarget) error {
	return assert.AnError
}
