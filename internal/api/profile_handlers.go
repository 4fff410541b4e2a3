package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ichigoapp/ichigo-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profile",
		Summary:     "Update profile",
		Description: "Updates the signed-in user's display name or username",
		Tags:        []string{"Profile"},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns all registered accounts. Admin only.",
		Tags:        []string{"Profile"},
	}, s.handleListUsers)
}

// === DTOs ===

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty" doc:"Display name"`
	Username    *string `json:"username,omitempty" doc:"Username"`
}

// UpdateProfileInput wraps the profile update for Huma.
type UpdateProfileInput struct {
	Body UpdateProfileRequest
}

// ListUsersResponse contains a list of accounts.
type ListUsersResponse struct {
	Users []UserResponse `json:"users" doc:"Registered accounts"`
}

// ListUsersOutput wraps the list users response for Huma.
type ListUsersOutput struct {
	Body ListUsersResponse
}

// === Handlers ===

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.services.Profile.UpdateProfile(ctx, user.UID, service.UpdateProfileRequest{
		DisplayName: input.Body.DisplayName,
		Username:    input.Body.Username,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(updated)}, nil
}

func (s *Server) handleListUsers(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := s.services.Profile.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	return &ListUsersOutput{Body: ListUsersResponse{Users: resp}}, nil
}
