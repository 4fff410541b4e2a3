// Package store defines the persistence contract shared by the local
// and cloud backends. Every repository is an independent partition over
// the same backend; repositories share identifiers (uid, question id,
// tag id) but never each other's representation.
package store

import (
	"context"

	"github.com/ichigoapp/ichigo-server/internal/domain"
)

// Store is the backend-agnostic persistence contract. The embedded
// Badger store and the MongoDB store both honor it with identical field
// names and semantics, so everything above the store is backend-blind.
//
// Reads hand back fresh copies; mutating a returned value never changes
// stored state without an explicit write call.
type Store interface {
	// Identity. CreateUser writes the user record and its credential
	// atomically and fails with ErrEmailExists when the email is
	// already registered (case-insensitive).
	CreateUser(ctx context.Context, user *domain.User, cred *domain.Credential) error
	GetUser(ctx context.Context, uid string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetCredential(ctx context.Context, email string) (*domain.Credential, error)

	// Current-session slot. A single durable pointer to the signed-in
	// user; empty string means nobody is signed in. Saving the empty
	// string clears the slot and is idempotent.
	GetCurrentUserID(ctx context.Context) (string, error)
	SaveCurrentUserID(ctx context.Context, uid string) error

	// User settings. Get returns an empty settings record (not an
	// error) when the user never saved one. Save writes the whole
	// record; merge semantics live in the service layer.
	GetUserSettings(ctx context.Context, uid string) (*domain.UserSettings, error)
	SaveUserSettings(ctx context.Context, settings *domain.UserSettings) error

	// Questions. UpdateQuestion rejects writes that would move the
	// status against the lifecycle with ErrInvalidTransition.
	// ListQuestions is unsorted; ordering is a caller concern.
	CreateQuestion(ctx context.Context, q *domain.Question) error
	GetQuestion(ctx context.Context, id string) (*domain.Question, error)
	UpdateQuestion(ctx context.Context, q *domain.Question) error
	ListQuestions(ctx context.Context) ([]*domain.Question, error)

	// Thread messages, append-only. ListMessages returns the thread in
	// insertion order. UpdateMessage only exists for triage metadata
	// (tags, merge marks); message text is immutable.
	AppendMessage(ctx context.Context, m *domain.ThreadMessage) error
	GetMessage(ctx context.Context, threadID, messageID string) (*domain.ThreadMessage, error)
	UpdateMessage(ctx context.Context, m *domain.ThreadMessage) error
	ListMessages(ctx context.Context, threadID string) ([]*domain.ThreadMessage, error)

	// Tags. DeleteTag is idempotent and does not touch messages; the
	// reference cascade is the tag service's job so both backends
	// share one policy.
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]*domain.Tag, error)

	// Admin roster and the triage settings singleton. GetAdminSettings
	// returns defaults when never saved.
	CreateAdmin(ctx context.Context, target *domain.AdminNotificationTarget) error
	UpdateAdmin(ctx context.Context, target *domain.AdminNotificationTarget) error
	DeleteAdmin(ctx context.Context, id string) error
	ListAdmins(ctx context.Context) ([]*domain.AdminNotificationTarget, error)
	GetAdminSettings(ctx context.Context) (*domain.AdminSettings, error)
	SaveAdminSettings(ctx context.Context, settings *domain.AdminSettings) error

	Close() error
}
