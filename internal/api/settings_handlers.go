package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings",
		Summary:     "Get settings",
		Description: "Returns the signed-in user's settings",
		Tags:        []string{"Settings"},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPatch,
		Path:        "/api/v1/settings",
		Summary:     "Update settings",
		Description: "Merges the given fields onto the stored settings",
		Tags:        []string{"Settings"},
	}, s.handleUpdateSettings)
}

// === DTOs ===

// SettingsResponse contains user settings in API responses. Fields the
// user never set are omitted.
type SettingsResponse struct {
	UserID              string `json:"userId" doc:"User ID"`
	Age                 *int   `json:"age,omitempty" doc:"User age"`
	ConsultationsPerDay *int   `json:"consultationsPerDay,omitempty" doc:"Daily consultation budget"`
	EmailNotification   *bool  `json:"emailNotification,omitempty" doc:"Email notification opt-in"`
}

func toSettingsResponse(settings *domain.UserSettings) SettingsResponse {
	return SettingsResponse{
		UserID:              settings.UserID,
		Age:                 settings.Age,
		ConsultationsPerDay: settings.ConsultationsPerDay,
		EmailNotification:   settings.EmailNotification,
	}
}

// UpdateSettingsRequest is the request body for settings updates.
// Absent fields keep their stored value.
type UpdateSettingsRequest struct {
	Age                 *int  `json:"age,omitempty" doc:"User age"`
	ConsultationsPerDay *int  `json:"consultationsPerDay,omitempty" doc:"Daily consultation budget"`
	EmailNotification   *bool `json:"emailNotification,omitempty" doc:"Email notification opt-in"`
}

// UpdateSettingsInput wraps the settings update for Huma.
type UpdateSettingsInput struct {
	Body UpdateSettingsRequest
}

// SettingsOutput wraps the settings response for Huma.
type SettingsOutput struct {
	Body SettingsResponse
}

// === Handlers ===

func (s *Server) handleGetSettings(ctx context.Context, _ *struct{}) (*SettingsOutput, error) {
	user, err := s.authenticateRequest(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.GetSettings(ctx, user.UID)
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Body: toSettingsResponse(settings)}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	user, err := s.authenticateRequest(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.UpdateSettings(ctx, user.UID, service.UpdateSettingsRequest{
		Age:                 input.Body.Age,
		ConsultationsPerDay: input.Body.ConsultationsPerDay,
		EmailNotification:   input.Body.EmailNotification,
	})
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Body: toSettingsResponse(settings)}, nil
}
