package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/service"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRoster",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/roster",
		Summary:     "List notification roster",
		Description: "Lists all notification targets. Admin only.",
		Tags:        []string{"Admin"},
	}, s.handleListRoster)

	huma.Register(s.api, huma.Operation{
		OperationID: "addRosterTarget",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/roster",
		Summary:     "Add notification target",
		Description: "Adds an entry to the notification roster. Admin only.",
		Tags:        []string{"Admin"},
	}, s.handleAddRosterTarget)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRosterTarget",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/roster/{id}",
		Summary:     "Update notification target",
		Tags:        []string{"Admin"},
	}, s.handleUpdateRosterTarget)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeRosterTarget",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/roster/{id}",
		Summary:     "Remove notification target",
		Tags:        []string{"Admin"},
	}, s.handleRemoveRosterTarget)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAdminSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/settings",
		Summary:     "Get admin settings",
		Tags:        []string{"Admin"},
	}, s.handleGetAdminSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAdminSettings",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/settings",
		Summary:     "Update admin settings",
		Description: "Merges the given fields into the settings singleton. Admin only.",
		Tags:        []string{"Admin"},
	}, s.handleUpdateAdminSettings)
}

// === DTOs ===

// RosterTargetResponse contains one notification roster entry.
type RosterTargetResponse struct {
	ID                   string `json:"id" doc:"Target ID"`
	Email                string `json:"email" doc:"Delivery address"`
	NotificationType     string `json:"notificationType" doc:"realtime or digest"`
	NotificationInterval int    `json:"notificationInterval,omitempty" doc:"Digest period in minutes"`
	CreatedAt            string `json:"createdAt" doc:"Creation time"`
}

func toRosterTargetResponse(t *domain.AdminNotificationTarget) RosterTargetResponse {
	return RosterTargetResponse{
		ID:                   t.ID,
		Email:                t.Email,
		NotificationType:     string(t.NotificationType),
		NotificationInterval: t.NotificationInterval,
		CreatedAt:            formatTime(t.CreatedAt),
	}
}

// ListRosterResponse contains the whole notification roster.
type ListRosterResponse struct {
	Targets []RosterTargetResponse `json:"targets" doc:"All roster entries"`
}

// ListRosterOutput wraps the roster list for Huma.
type ListRosterOutput struct {
	Body ListRosterResponse
}

// AddRosterTargetInput wraps the add-target request for Huma.
type AddRosterTargetInput struct {
	Body service.AddTargetRequest
}

// UpdateRosterTargetInput identifies a roster entry and carries the
// partial update.
type UpdateRosterTargetInput struct {
	ID   string `path:"id" doc:"Target ID"`
	Body service.UpdateTargetRequest
}

// RosterTargetIDInput identifies a roster entry by path parameter.
type RosterTargetIDInput struct {
	ID string `path:"id" doc:"Target ID"`
}

// RosterTargetOutput wraps one roster entry for Huma.
type RosterTargetOutput struct {
	Body RosterTargetResponse
}

// AdminSettingsResponse contains the settings singleton.
type AdminSettingsResponse struct {
	NotificationsEnabled    bool   `json:"notificationsEnabled" doc:"Master switch for question notifications"`
	DefaultNotificationType string `json:"defaultNotificationType" doc:"realtime or digest"`
	UpdatedAt               string `json:"updatedAt,omitempty" doc:"Last save time"`
}

func toAdminSettingsResponse(settings *domain.AdminSettings) AdminSettingsResponse {
	resp := AdminSettingsResponse{
		NotificationsEnabled:    settings.NotificationsEnabled,
		DefaultNotificationType: string(settings.DefaultType),
	}
	if !settings.UpdatedAt.IsZero() {
		resp.UpdatedAt = formatTime(settings.UpdatedAt)
	}
	return resp
}

// AdminSettingsOutput wraps the settings singleton for Huma.
type AdminSettingsOutput struct {
	Body AdminSettingsResponse
}

// UpdateAdminSettingsInput wraps the settings update for Huma.
type UpdateAdminSettingsInput struct {
	Body service.UpdateAdminSettingsRequest
}

// === Handlers ===

func (s *Server) handleListRoster(ctx context.Context, _ *struct{}) (*ListRosterOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	targets, err := s.services.Admin.ListTargets(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]RosterTargetResponse, len(targets))
	for i, t := range targets {
		resp[i] = toRosterTargetResponse(t)
	}
	return &ListRosterOutput{Body: ListRosterResponse{Targets: resp}}, nil
}

func (s *Server) handleAddRosterTarget(ctx context.Context, input *AddRosterTargetInput) (*RosterTargetOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	target, err := s.services.Admin.AddTarget(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &RosterTargetOutput{Body: toRosterTargetResponse(target)}, nil
}

func (s *Server) handleUpdateRosterTarget(ctx context.Context, input *UpdateRosterTargetInput) (*RosterTargetOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	target, err := s.services.Admin.UpdateTarget(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &RosterTargetOutput{Body: toRosterTargetResponse(target)}, nil
}

func (s *Server) handleRemoveRosterTarget(ctx context.Context, input *RosterTargetIDInput) (*struct{}, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Admin.RemoveTarget(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleGetAdminSettings(ctx context.Context, _ *struct{}) (*AdminSettingsOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	settings, err := s.services.Admin.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminSettingsOutput{Body: toAdminSettingsResponse(settings)}, nil
}

func (s *Server) handleUpdateAdminSettings(ctx context.Context, input *UpdateAdminSettingsInput) (*AdminSettingsOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	settings, err := s.services.Admin.UpdateSettings(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AdminSettingsOutput{Body: toAdminSettingsResponse(settings)}, nil
}
