package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
	"github.com/ichigoapp/ichigo-server/internal/id"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// AdminService manages the notification roster and the triage settings
// singleton.
type AdminService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store store.Store, logger *slog.Logger) *AdminService {
	return &AdminService{store: store, logger: logger}
}

// AddTargetRequest adds one entry to the notification roster.
type AddTargetRequest struct {
	Email            string `json:"email" validate:"required,email"`
	NotificationType string `json:"notificationType" validate:"required,oneof=realtime digest"`
	// NotificationInterval is the digest period in minutes. Required
	// for digest targets, ignored for realtime.
	NotificationInterval int `json:"notificationInterval,omitempty" validate:"omitempty,min=1,max=10080"`
}

// UpdateTargetRequest is a partial roster entry update.
type UpdateTargetRequest struct {
	Email                *string `json:"email,omitempty" validate:"omitempty,email"`
	NotificationType     *string `json:"notificationType,omitempty" validate:"omitempty,oneof=realtime digest"`
	NotificationInterval *int    `json:"notificationInterval,omitempty" validate:"omitempty,min=1,max=10080"`
}

// UpdateAdminSettingsRequest is a partial settings singleton update.
type UpdateAdminSettingsRequest struct {
	NotificationsEnabled *bool   `json:"notificationsEnabled,omitempty"`
	DefaultType          *string `json:"defaultNotificationType,omitempty" validate:"omitempty,oneof=realtime digest"`
}

// AddTarget registers a roster entry. Emails are not deduplicated;
// the same address can appear with different delivery types.
func (s *AdminService) AddTarget(ctx context.Context, req AddTargetRequest) (*domain.AdminNotificationTarget, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	notifType := domain.NotificationType(req.NotificationType)
	if notifType == domain.NotifyDigest && req.NotificationInterval == 0 {
		return nil, domainerrors.Validation("notificationInterval is required for digest targets")
	}

	targetID, err := id.Generate("admin")
	if err != nil {
		return nil, fmt.Errorf("generate target ID: %w", err)
	}

	target := &domain.AdminNotificationTarget{
		ID:               targetID,
		Email:            req.Email,
		NotificationType: notifType,
		CreatedAt:        time.Now(),
	}
	if notifType == domain.NotifyDigest {
		target.NotificationInterval = req.NotificationInterval
	}

	if err := s.store.CreateAdmin(ctx, target); err != nil {
		return nil, fmt.Errorf("create roster entry: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Roster entry added", "target_id", targetID, "type", notifType)
	}
	return target, nil
}

// UpdateTarget applies a partial update to a roster entry.
func (s *AdminService) UpdateTarget(ctx context.Context, targetID string, req UpdateTargetRequest) (*domain.AdminNotificationTarget, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	targets, err := s.store.ListAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	var target *domain.AdminNotificationTarget
	for _, t := range targets {
		if t.ID == targetID {
			target = t
			break
		}
	}
	if target == nil {
		return nil, domainerrors.NotFound("roster entry not found")
	}

	if req.Email != nil {
		target.Email = *req.Email
	}
	if req.NotificationType != nil {
		target.NotificationType = domain.NotificationType(*req.NotificationType)
		if target.NotificationType == domain.NotifyRealtime {
			target.NotificationInterval = 0
		}
	}
	if req.NotificationInterval != nil {
		target.NotificationInterval = *req.NotificationInterval
	}
	if target.NotificationType == domain.NotifyDigest && target.NotificationInterval == 0 {
		return nil, domainerrors.Validation("notificationInterval is required for digest targets")
	}

	if err := s.store.UpdateAdmin(ctx, target); err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			return nil, domainerrors.NotFound("roster entry not found")
		}
		return nil, fmt.Errorf("update roster entry: %w", err)
	}
	return target, nil
}

// RemoveTarget deletes a roster entry.
func (s *AdminService) RemoveTarget(ctx context.Context, targetID string) error {
	if err := s.store.DeleteAdmin(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			return domainerrors.NotFound("roster entry not found")
		}
		return fmt.Errorf("delete roster entry: %w", err)
	}
	return nil
}

// ListTargets returns the whole roster.
func (s *AdminService) ListTargets(ctx context.Context) ([]*domain.AdminNotificationTarget, error) {
	targets, err := s.store.ListAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return targets, nil
}

// GetSettings returns the triage settings singleton, defaults included.
func (s *AdminService) GetSettings(ctx context.Context) (*domain.AdminSettings, error) {
	settings, err := s.store.GetAdminSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get admin settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings merges the request onto the singleton and saves it.
func (s *AdminService) UpdateSettings(ctx context.Context, req UpdateAdminSettingsRequest) (*domain.AdminSettings, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	settings, err := s.store.GetAdminSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get admin settings: %w", err)
	}

	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.DefaultType != nil {
		settings.DefaultType = domain.NotificationType(*req.DefaultType)
	}
	settings.UpdatedAt = time.Now()

	if err := s.store.SaveAdminSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("save admin settings: %w", err)
	}
	return settings, nil
}
