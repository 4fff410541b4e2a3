package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/store"
	"github.com/ichigoapp/ichigo-server/internal/store/badgerstore"
)

// testEnv bundles every service over one temporary local store.
type testEnv struct {
	store     store.Store
	auth      *AuthService
	settings  *SettingsService
	questions *QuestionService
	messages  *MessageService
	tags      *TagService
	triage    *TriageService
	admins    *AdminService
	profiles  *ProfileService
}

// setupServices creates a full service stack over temporary storage.
// Search stays disabled; index behavior has its own tests.
func setupServices(t *testing.T) (*testEnv, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "ichigo-service-test-*")
	require.NoError(t, err)

	s, err := badgerstore.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	admins := NewAdminService(s, nil)
	messages := NewMessageService(s, nil, nil)
	tags := NewTagService(s, nil, nil)

	env := &testEnv{
		store:     s,
		auth:      NewAuthService(s, []string{"admin@farm.jp"}, nil),
		settings:  NewSettingsService(s, nil),
		questions: NewQuestionService(s, admins, noopNotifier{}, nil),
		messages:  messages,
		tags:      tags,
		triage:    NewTriageService(s, tags, messages, nil, nil),
		admins:    admins,
		profiles:  NewProfileService(s, nil),
	}

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}
	return env, cleanup
}

type noopNotifier struct{}

func (noopNotifier) NotifyNewQuestion(context.Context, *domain.Question, []*domain.AdminNotificationTarget) error {
	return nil
}

// signup registers a member account for tests that need a user.
func (e *testEnv) signup(t *testing.T, email, name string) *domain.User {
	t.Helper()
	user, err := e.auth.Signup(context.Background(), SignupRequest{
		Email:       email,
		Password:    "hunter2hunter2",
		DisplayName: name,
	})
	require.NoError(t, err)
	return user
}
