package badgerstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

func testMessage(id, threadID, text string) *domain.ThreadMessage {
	return &domain.ThreadMessage{
		ID:          id,
		ThreadID:    threadID,
		Text:        text,
		UserID:      "user-1",
		UserEmail:   "a@x.com",
		DisplayName: "Alice",
		Timestamp:   time.Now(),
	}
}

func TestAppendMessage_InsertionOrder(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	const n = 20
	for i := 0; i < n; i++ {
		m := testMessage(fmt.Sprintf("msg-%02d", i), "q-1", fmt.Sprintf("turn %d", i))
		require.NoError(t, s.AppendMessage(ctx, m))
	}

	messages, err := s.ListMessages(ctx, "q-1")
	require.NoError(t, err)
	require.Len(t, messages, n)

	for i, m := range messages {
		assert.Equal(t, fmt.Sprintf("msg-%02d", i), m.ID, "messages must come back in insertion order")
		if i > 0 {
			assert.False(t, m.Timestamp.Before(messages[i-1].Timestamp),
				"timestamps must be non-decreasing")
		}
	}
}

func TestListMessages_ThreadsAreIndependent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.AppendMessage(ctx, testMessage("msg-1", "q-1", "about q-1")))
	require.NoError(t, s.AppendMessage(ctx, testMessage("msg-2", "q-2", "about q-2")))
	require.NoError(t, s.AppendMessage(ctx, testMessage("msg-3", domain.SharedThreadID, "open log")))

	q1, err := s.ListMessages(ctx, "q-1")
	require.NoError(t, err)
	require.Len(t, q1, 1)
	assert.Equal(t, "about q-1", q1[0].Text)

	shared, err := s.ListMessages(ctx, domain.SharedThreadID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, "open log", shared[0].Text)
}

func TestListMessages_EmptyThread(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	messages, err := s.ListMessages(context.Background(), "q-nothing")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestGetMessage(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.AppendMessage(ctx, testMessage("msg-1", domain.SharedThreadID, "hello")))

	got, err := s.GetMessage(ctx, domain.SharedThreadID, "msg-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)

	_, err = s.GetMessage(ctx, domain.SharedThreadID, "msg-missing")
	assert.ErrorIs(t, err, store.ErrMessageNotFound)
}

func TestUpdateMessage_TriageMetadataKeepsOrder(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		m := testMessage(fmt.Sprintf("msg-%d", i), domain.SharedThreadID, fmt.Sprintf("turn %d", i))
		require.NoError(t, s.AppendMessage(ctx, m))
	}

	mid, err := s.GetMessage(ctx, domain.SharedThreadID, "msg-1")
	require.NoError(t, err)
	mid.AddTag("tag-a")
	mid.MergeInto("msg-0")
	require.NoError(t, s.UpdateMessage(ctx, mid))

	messages, err := s.ListMessages(ctx, domain.SharedThreadID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "msg-1", messages[1].ID, "updating metadata must not reorder the thread")
	assert.Equal(t, []string{"tag-a"}, messages[1].Tags)
	assert.True(t, messages[1].IsMerged)
	assert.Equal(t, "msg-0", messages[1].MergedInto)
}

func TestUpdateMessage_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	m := testMessage("msg-ghost", domain.SharedThreadID, "boo")
	assert.ErrorIs(t, s.UpdateMessage(context.Background(), m), store.ErrMessageNotFound)
}
