package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
)

func TestTagService_CreateAndList(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	tag, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "disease"})
	require.NoError(t, err)
	assert.NotEmpty(t, tag.ID)

	tags, err := env.tags.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "disease", tags[0].Name)
}

func TestTagService_DuplicateNameRejected(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	_, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "disease"})
	require.NoError(t, err)

	_, err = env.tags.CreateTag(ctx, CreateTagRequest{Name: "disease"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	// Exact match only; a different casing is a different name.
	_, err = env.tags.CreateTag(ctx, CreateTagRequest{Name: "Disease"})
	require.NoError(t, err)
}

func TestTagService_DeleteCascadesToMessages(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	tag, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "disease"})
	require.NoError(t, err)
	keep, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "nutrition"})
	require.NoError(t, err)

	// One tagged message in the shared thread, one in a question thread.
	shared, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "yellow leaves"})
	require.NoError(t, err)
	q, err := env.questions.AddQuestion(ctx, user, AddQuestionRequest{
		Category: "disease", Title: "Spots", Text: "spots on fruit",
	})
	require.NoError(t, err)
	threaded, err := env.messages.AddMessage(ctx, user, AddMessageRequest{ThreadID: q.ID, Text: "also here"})
	require.NoError(t, err)

	for _, msg := range []*domain.ThreadMessage{shared, threaded} {
		_, err := env.triage.AddTagToMessage(ctx, msg.ThreadID, msg.ID, tag.ID)
		require.NoError(t, err)
	}
	_, err = env.triage.AddTagToMessage(ctx, shared.ThreadID, shared.ID, keep.ID)
	require.NoError(t, err)

	require.NoError(t, env.tags.DeleteTag(ctx, tag.ID))

	gotShared, err := env.messages.GetMessage(ctx, shared.ThreadID, shared.ID)
	require.NoError(t, err)
	assert.False(t, gotShared.HasTag(tag.ID))
	assert.True(t, gotShared.HasTag(keep.ID), "unrelated tags survive the cascade")

	gotThreaded, err := env.messages.GetMessage(ctx, threaded.ThreadID, threaded.ID)
	require.NoError(t, err)
	assert.Empty(t, gotThreaded.Tags)

	_, err = env.tags.GetTag(ctx, tag.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTagService_DeleteUnknownStillSweeps(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	// Deleting a tag that never existed is not an error.
	require.NoError(t, env.tags.DeleteTag(ctx, "tag-missing"))
}

func TestTagService_TagNamesSkipsDangling(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	tag, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "harvest"})
	require.NoError(t, err)

	names, err := env.tags.TagNames(ctx, []string{tag.ID, "tag-dangling"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{tag.ID: "harvest"}, names)
}
