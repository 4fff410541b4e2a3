package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")

	resp := ts.api.Patch("/api/v1/profile", map[string]any{
		"username": "hana-farm",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, "hana-farm", user.Username)
	assert.Equal(t, "Hana", user.DisplayName)
}

func TestListUsers_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")

	resp := ts.api.Get("/api/v1/users")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	ts.signupAdmin(t)

	resp = ts.api.Get("/api/v1/users")
	require.Equal(t, http.StatusOK, resp.Code)

	var list ListUsersResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list.Users, 2)
}
