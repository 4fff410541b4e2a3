package badgerstore

import (
	"context"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// CreateAdmin adds a target to the notification roster. Emails are not
// required to be unique across the roster.
func (s *Store) CreateAdmin(ctx context.Context, target *domain.AdminNotificationTarget) error {
	return s.admins.Create(ctx, target.ID, target)
}

// UpdateAdmin overwrites an existing roster entry.
func (s *Store) UpdateAdmin(ctx context.Context, target *domain.AdminNotificationTarget) error {
	return s.admins.Update(ctx, target.ID, target)
}

// DeleteAdmin removes a roster entry. Idempotent.
func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	return s.admins.Delete(ctx, id)
}

// ListAdmins returns the whole roster.
func (s *Store) ListAdmins(ctx context.Context) ([]*domain.AdminNotificationTarget, error) {
	return collect(s.admins.List(ctx))
}

// GetAdminSettings reads the triage settings singleton, falling back
// to defaults when it was never saved.
func (s *Store) GetAdminSettings(ctx context.Context) (*domain.AdminSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var settings domain.AdminSettings
	err := s.getRaw(keyAdminSetting, &settings)
	if isNotFound(err) {
		return domain.DefaultAdminSettings(), nil
	}
	if err != nil {
		return nil, store.ErrStorageFailure.WithCause(err)
	}
	return &settings, nil
}

// SaveAdminSettings writes the triage settings singleton.
func (s *Store) SaveAdminSettings(ctx context.Context, settings *domain.AdminSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.setRaw(keyAdminSetting, settings)
}
