package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// SettingsService manages per-user preferences.
type SettingsService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store store.Store, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logger}
}

// UpdateSettingsRequest is a partial settings update. Absent fields
// keep their stored value.
type UpdateSettingsRequest struct {
	Age                 *int  `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	ConsultationsPerDay *int  `json:"consultationsPerDay,omitempty" validate:"omitempty,min=0,max=100"`
	EmailNotification   *bool `json:"emailNotification,omitempty"`
}

// GetSettings returns the user's settings. Users who never saved any
// get an empty record, not an error.
func (s *SettingsService) GetSettings(ctx context.Context, uid string) (*domain.UserSettings, error) {
	if uid == "" {
		return nil, domainerrors.Validation("user id is required")
	}
	settings, err := s.store.GetUserSettings(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings merges the request onto the stored record and writes
// it back. The first update for a user creates the record.
func (s *SettingsService) UpdateSettings(ctx context.Context, uid string, req UpdateSettingsRequest) (*domain.UserSettings, error) {
	if uid == "" {
		return nil, domainerrors.Validation("user id is required")
	}
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	settings, err := s.store.GetUserSettings(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings.Merge(&domain.UserSettings{
		Age:                 req.Age,
		ConsultationsPerDay: req.ConsultationsPerDay,
		EmailNotification:   req.EmailNotification,
	})

	if err := s.store.SaveUserSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("Settings updated", "user_id", uid)
	}
	return settings, nil
}
