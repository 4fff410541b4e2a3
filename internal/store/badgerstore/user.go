package badgerstore

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// CreateUser writes the user record and its credential in one
// transaction. The credential is keyed by normalized email, which is
// what makes duplicate registration detection case-insensitive.
func (s *Store) CreateUser(ctx context.Context, user *domain.User, cred *domain.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	userKey := prefixUser + user.UID
	credKey := prefixCred + normalizeEmail(cred.Email)

	userData, err := json.Marshal(user)
	if err != nil {
		return store.ErrStorageFailure.WithCause(fmt.Errorf("marshal user: %w", err))
	}
	credData, err := json.Marshal(cred)
	if err != nil {
		return store.ErrStorageFailure.WithCause(fmt.Errorf("marshal credential: %w", err))
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(credKey))
		if err == nil {
			return store.ErrEmailExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check credential key: %w", err)
		}

		if err := txn.Set([]byte(userKey), userData); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		return txn.Set([]byte(credKey), credData)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return err
		}
		return store.ErrStorageFailure.WithCause(err)
	}

	return nil
}

// GetUser retrieves a user by uid.
func (s *Store) GetUser(ctx context.Context, uid string) (*domain.User, error) {
	return s.users.Get(ctx, uid)
}

// GetUserByEmail resolves a user through the credential partition, so
// lookups are case-insensitive like registration.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	cred, err := s.creds.Get(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.users.Get(ctx, cred.UserID)
}

// UpdateUser overwrites an existing user record.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	return s.users.Update(ctx, user.UID, user)
}

// ListUsers returns all users, unsorted.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return collect(s.users.List(ctx))
}

// GetCredential retrieves the credential record for an email.
func (s *Store) GetCredential(ctx context.Context, email string) (*domain.Credential, error) {
	return s.creds.Get(ctx, normalizeEmail(email))
}

// GetCurrentUserID reads the durable session slot. An empty string
// means nobody is signed in; a missing key is not an error.
func (s *Store) GetCurrentUserID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var uid string
	err := s.getRaw(keyCurrentUser, &uid)
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", store.ErrStorageFailure.WithCause(err)
	}
	return uid, nil
}

// SaveCurrentUserID writes the session slot. Saving "" clears it and
// is idempotent.
func (s *Store) SaveCurrentUserID(ctx context.Context, uid string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.setRaw(keyCurrentUser, uid)
}

// GetUserSettings returns the stored settings for a user, or an empty
// record when the user never saved any.
func (s *Store) GetUserSettings(ctx context.Context, uid string) (*domain.UserSettings, error) {
	settings, err := s.settings.Get(ctx, uid)
	if errors.Is(err, store.ErrUserNotFound) {
		return &domain.UserSettings{UserID: uid}, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveUserSettings writes the whole settings record for a user.
func (s *Store) SaveUserSettings(ctx context.Context, settings *domain.UserSettings) error {
	return s.settings.Set(ctx, settings.UserID, settings)
}
