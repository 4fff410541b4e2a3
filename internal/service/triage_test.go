package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
)

func TestTriageService_AddAndRemoveTag(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	tag, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "disease"})
	require.NoError(t, err)
	msg, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "yellow leaves"})
	require.NoError(t, err)

	tagged, err := env.triage.AddTagToMessage(ctx, msg.ThreadID, msg.ID, tag.ID)
	require.NoError(t, err)
	assert.True(t, tagged.HasTag(tag.ID))

	// Tagging twice is a no-op.
	tagged, err = env.triage.AddTagToMessage(ctx, msg.ThreadID, msg.ID, tag.ID)
	require.NoError(t, err)
	assert.Len(t, tagged.Tags, 1)

	untagged, err := env.triage.RemoveTagFromMessage(ctx, msg.ThreadID, msg.ID, tag.ID)
	require.NoError(t, err)
	assert.Empty(t, untagged.Tags)

	// Removing again is a no-op too.
	_, err = env.triage.RemoveTagFromMessage(ctx, msg.ThreadID, msg.ID, tag.ID)
	require.NoError(t, err)
}

func TestTriageService_AddUnknownTagRejected(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	msg, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "hello"})
	require.NoError(t, err)

	_, err = env.triage.AddTagToMessage(ctx, msg.ThreadID, msg.ID, "tag-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTriageService_MergeMessages(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	disease, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "disease"})
	require.NoError(t, err)
	nutrition, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "nutrition"})
	require.NoError(t, err)

	target, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "yellow leaves"})
	require.NoError(t, err)
	dupA, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "leaves going yellow"})
	require.NoError(t, err)
	dupB, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "yellowing again"})
	require.NoError(t, err)

	_, err = env.triage.AddTagToMessage(ctx, target.ThreadID, target.ID, disease.ID)
	require.NoError(t, err)
	_, err = env.triage.AddTagToMessage(ctx, dupA.ThreadID, dupA.ID, nutrition.ID)
	require.NoError(t, err)

	merged, err := env.triage.MergeMessages(ctx, domain.SharedThreadID, target.ID, []string{dupA.ID, dupB.ID})
	require.NoError(t, err)

	// Target unions everyone's tags and stays unmerged.
	assert.ElementsMatch(t, []string{disease.ID, nutrition.ID}, merged.Tags)
	assert.False(t, merged.IsMerged)

	for _, sourceID := range []string{dupA.ID, dupB.ID} {
		src, err := env.messages.GetMessage(ctx, domain.SharedThreadID, sourceID)
		require.NoError(t, err)
		assert.True(t, src.IsMerged)
		assert.Equal(t, target.ID, src.MergedInto)
		assert.NotEmpty(t, src.Text, "merged sources keep their text")
	}
}

func TestTriageService_MergeValidation(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	msg, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "solo"})
	require.NoError(t, err)

	_, err = env.triage.MergeMessages(ctx, domain.SharedThreadID, msg.ID, nil)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.triage.MergeMessages(ctx, domain.SharedThreadID, msg.ID, []string{msg.ID})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTriageService_MergeIntoMergedTargetRejected(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	a, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "a"})
	require.NoError(t, err)
	b, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "b"})
	require.NoError(t, err)
	c, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "c"})
	require.NoError(t, err)

	_, err = env.triage.MergeMessages(ctx, domain.SharedThreadID, a.ID, []string{b.ID})
	require.NoError(t, err)

	// b is now merged; it cannot collect new sources.
	_, err = env.triage.MergeMessages(ctx, domain.SharedThreadID, b.ID, []string{c.ID})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestTriageService_ExportMarkdown(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	disease, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "disease"})
	require.NoError(t, err)
	nutrition, err := env.tags.CreateTag(ctx, CreateTagRequest{Name: "nutrition"})
	require.NoError(t, err)

	m1, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "yellow leaves\non lower stems"})
	require.NoError(t, err)
	m2, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "feeding ratio question"})
	require.NoError(t, err)
	_, err = env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "untagged chatter"})
	require.NoError(t, err)
	merged, err := env.messages.AddMessage(ctx, user, AddMessageRequest{Text: "duplicate yellow leaves"})
	require.NoError(t, err)

	_, err = env.triage.AddTagToMessage(ctx, m1.ThreadID, m1.ID, disease.ID)
	require.NoError(t, err)
	_, err = env.triage.AddTagToMessage(ctx, m2.ThreadID, m2.ID, nutrition.ID)
	require.NoError(t, err)
	_, err = env.triage.AddTagToMessage(ctx, merged.ThreadID, merged.ID, disease.ID)
	require.NoError(t, err)
	_, err = env.triage.MergeMessages(ctx, domain.SharedThreadID, m1.ID, []string{merged.ID})
	require.NoError(t, err)

	doc, err := env.triage.ExportMarkdown(ctx, domain.SharedThreadID)
	require.NoError(t, err)

	assert.Contains(t, doc, "# Consultation notes")
	assert.Contains(t, doc, "## disease")
	assert.Contains(t, doc, "## nutrition")
	assert.Contains(t, doc, "yellow leaves on lower stems", "newlines flatten to spaces")
	assert.NotContains(t, doc, "untagged chatter")
	assert.NotContains(t, doc, "duplicate yellow leaves", "merged sources are skipped")

	// Sections sort by tag name.
	assert.Less(t, strings.Index(doc, "## disease"), strings.Index(doc, "## nutrition"))
}
