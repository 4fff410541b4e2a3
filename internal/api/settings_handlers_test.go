package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettings_DefaultsWhenNeverSaved(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	user := ts.signup(t, "hana@test.jp", "Hana")

	resp := ts.api.Get("/api/v1/settings")
	require.Equal(t, http.StatusOK, resp.Code)

	var settings SettingsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &settings))
	assert.Equal(t, user.UID, settings.UserID)
	assert.Nil(t, settings.Age)
	assert.Nil(t, settings.ConsultationsPerDay)
}

func TestUpdateSettings_MergesPartialUpdates(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")

	resp := ts.api.Patch("/api/v1/settings", map[string]any{"age": 34})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Patch("/api/v1/settings", map[string]any{"consultationsPerDay": 3})
	require.Equal(t, http.StatusOK, resp.Code)

	var settings SettingsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &settings))
	require.NotNil(t, settings.Age)
	assert.Equal(t, 34, *settings.Age)
	require.NotNil(t, settings.ConsultationsPerDay)
	assert.Equal(t, 3, *settings.ConsultationsPerDay)
}

func TestUpdateSettings_RejectsNegativeAge(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")

	resp := ts.api.Patch("/api/v1/settings", map[string]any{"age": -1})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
