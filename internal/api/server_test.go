package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichigoapp/ichigo-server/internal/config"
	"github.com/ichigoapp/ichigo-server/internal/search"
	"github.com/ichigoapp/ichigo-server/internal/service"
	"github.com/ichigoapp/ichigo-server/internal/store/badgerstore"
)

// adminTestEmail signs up with the admin role in tests.
const adminTestEmail = "admin@test.jp"

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api     humatest.TestAPI
	cleanup func()
}

// setupTestServer creates a full server over temporary storage with a
// real search index. Media stays disabled; it has its own tests.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "ichigo-api-test-*")
	require.NoError(t, err)

	st, err := badgerstore.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	index, err := search.NewMessageIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "search"),
		Logger:   logger,
	})
	require.NoError(t, err)

	admins := service.NewAdminService(st, logger)
	messages := service.NewMessageService(st, index, logger)
	tags := service.NewTagService(st, index, logger)

	services := &Services{
		Auth:     service.NewAuthService(st, []string{adminTestEmail}, logger),
		Settings: service.NewSettingsService(st, logger),
		Question: service.NewQuestionService(st, admins, service.NewLogNotifier(logger), logger),
		Message:  messages,
		Tag:      tags,
		Triage:   service.NewTriageService(st, tags, messages, index, logger),
		Admin:    admins,
		Profile:  service.NewProfileService(st, logger),
		Search:   index,
	}

	cfg := &config.Config{
		App: config.AppConfig{
			Environment: "test",
			AdminEmails: []string{adminTestEmail},
		},
		Server: config.ServerConfig{
			Name:        "Ichigo Test",
			CORSOrigins: []string{"*"},
		},
	}

	s := NewServer(st, services, cfg, logger)

	cleanup := func() {
		_ = index.Close()
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.api),
		cleanup: cleanup,
	}
}

// signup registers an account and leaves it signed in.
func (ts *testServer) signup(t *testing.T, email, name string) UserResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":       email,
		"password":    "hunter2hunter2",
		"displayName": name,
	})
	require.Equal(t, http.StatusOK, resp.Code, "Signup failed: %s", resp.Body.String())

	var user UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	return user
}

// signupAdmin registers the admin account and leaves it signed in.
func (ts *testServer) signupAdmin(t *testing.T) UserResponse {
	t.Helper()
	return ts.signup(t, adminTestEmail, "Admin")
}

// === Tests ===

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))

	// The store answers but the index has no documents yet.
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "healthy", health.Components["store"].Status)
	assert.Equal(t, "degraded", health.Components["search"].Status)
}

func TestHealthCheck_HealthyWithIndexedMessages(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.signup(t, "hana@test.jp", "Hana")
	resp := ts.api.Post("/api/v1/messages", map[string]any{
		"text": "leaf spots after heavy rain",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
}

func TestAuthRateLimit(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	// Burst is 5; rapid-fire attempts past it must be throttled.
	var last int
	for range 10 {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "nobody@test.jp",
			"password": "wrong-password",
		})
		last = resp.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestUnknownRouteReturns404(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/api/v1/does-not-exist")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
