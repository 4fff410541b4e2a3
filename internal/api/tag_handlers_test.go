package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTag creates a tag as the signed-in admin.
func (ts *testServer) createTag(t *testing.T, name string) TagResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": name})
	require.Equal(t, http.StatusOK, resp.Code, "Create tag failed: %s", resp.Body.String())

	var tag TagResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tag))
	return tag
}

func TestCreateTag_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": "powdery-mildew"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestCreateTag_DuplicateNameRejected(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signupAdmin(t)
	ts.createTag(t, "powdery-mildew")

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": "powdery-mildew"})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestListTags_VisibleToMembers(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signupAdmin(t)
	ts.createTag(t, "powdery-mildew")
	ts.createTag(t, "spider-mites")

	ts.signup(t, "hana@test.jp", "Hana")

	resp := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListTagsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Tags, 2)
}

func TestDeleteTag_CascadesToMessages(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signupAdmin(t)
	tag := ts.createTag(t, "powdery-mildew")
	msg := ts.postMessage(t, "", "white dust on the leaves")

	resp := ts.api.Post("/api/v1/triage/messages/" + msg.ID + "/tags/" + tag.ID)
	require.Equal(t, http.StatusOK, resp.Code, "Tagging failed: %s", resp.Body.String())

	resp = ts.api.Delete("/api/v1/tags/" + tag.ID)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/messages")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListMessagesResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Messages, 1)
	assert.Empty(t, list.Messages[0].Tags)
}

func TestDeleteTag_UnknownIsIdempotent(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signupAdmin(t)

	resp := ts.api.Delete("/api/v1/tags/tag-missing")
	assert.Equal(t, http.StatusNoContent, resp.Code)
}
