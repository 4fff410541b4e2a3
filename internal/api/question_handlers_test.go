package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postQuestion creates a question as the signed-in user.
func (ts *testServer) postQuestion(t *testing.T, category, title string) QuestionResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/questions", map[string]any{
		"category": category,
		"title":    title,
		"text":     "The plants in greenhouse two look off.",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Create question failed: %s", resp.Body.String())

	var q QuestionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &q))
	return q
}

func TestCreateQuestion_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	user := ts.signup(t, "hana@test.jp", "Hana")
	q := ts.postQuestion(t, "disease", "White mold on leaves")

	assert.NotEmpty(t, q.ID)
	assert.Equal(t, "disease", q.Category)
	assert.Equal(t, user.UID, q.UserID)
	assert.Equal(t, "Hana", q.DisplayName)
	assert.NotEmpty(t, q.CreatedAt)
	assert.Nil(t, q.ResolvedAt)
}

func TestCreateQuestion_RequiresSignIn(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/questions", map[string]any{
		"category": "disease",
		"title":    "Anyone there",
		"text":     "hello",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateQuestion_MissingTitle(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")

	resp := ts.api.Post("/api/v1/questions", map[string]any{
		"category": "disease",
		"text":     "no title here",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestGetQuestion_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")

	resp := ts.api.Get("/api/v1/questions/question-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestResolveQuestion_Idempotent(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")
	q := ts.postQuestion(t, "disease", "White mold on leaves")

	resp := ts.api.Post("/api/v1/questions/" + q.ID + "/resolve")
	require.Equal(t, http.StatusOK, resp.Code)

	var resolved QuestionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &resolved))
	assert.Equal(t, "resolved", resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	firstResolvedAt := *resolved.ResolvedAt

	resp = ts.api.Post("/api/v1/questions/" + q.ID + "/resolve")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &resolved))
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, firstResolvedAt, *resolved.ResolvedAt)
}

func TestUpdateQuestion_BackwardTransitionRejected(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")
	q := ts.postQuestion(t, "disease", "White mold on leaves")

	resp := ts.api.Post("/api/v1/questions/" + q.ID + "/resolve")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Patch("/api/v1/questions/"+q.ID, map[string]any{
		"status": "pending",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestUpdateQuestion_UnknownStatusRejected(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")
	q := ts.postQuestion(t, "disease", "White mold on leaves")

	resp := ts.api.Patch("/api/v1/questions/"+q.ID, map[string]any{
		"status": "ai-answered",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListQuestions_MineFilter(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	user := ts.signup(t, "hana@test.jp", "Hana")
	ts.postQuestion(t, "disease", "White mold on leaves")

	ts.signup(t, "kenji@test.jp", "Kenji")
	ts.postQuestion(t, "pest", "Mites under the runners")

	resp := ts.api.Get("/api/v1/questions?mine=true")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListQuestionsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Questions, 1)
	assert.Equal(t, "Mites under the runners", list.Questions[0].Title)
	assert.NotEqual(t, user.UID, list.Questions[0].UserID)
}

func TestListQuestions_ByCategoryOrder(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")
	ts.postQuestion(t, "other", "General advice wanted")
	ts.postQuestion(t, "nutrition", "Yellowing between veins")
	ts.postQuestion(t, "disease", "White mold on leaves")

	resp := ts.api.Get("/api/v1/questions?byCategory=true")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListQuestionsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Questions, 3)
	assert.Equal(t, "disease", list.Questions[0].Category)
	assert.Equal(t, "nutrition", list.Questions[1].Category)
	assert.Equal(t, "other", list.Questions[2].Category)
}
