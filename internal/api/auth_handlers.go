package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	"github.com/ichigoapp/ichigo-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signup",
		Summary:     "Sign up",
		Description: "Creates a new account and signs it in",
		Tags:        []string{"Authentication"},
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in",
		Description: "Verifies credentials and makes the account the current user",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Log out",
		Description: "Clears the current user. Idempotent.",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "currentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current user",
		Description: "Returns the signed-in user, if any",
		Tags:        []string{"Authentication"},
	}, s.handleCurrentUser)
}

// === DTOs ===

// UserResponse contains account data in API responses.
type UserResponse struct {
	UID         string `json:"uid" doc:"User ID"`
	Email       string `json:"email" doc:"Email address"`
	DisplayName string `json:"displayName,omitempty" doc:"Display name"`
	Username    string `json:"username,omitempty" doc:"Username"`
	Role        string `json:"role" doc:"Role: admin or member"`
	CreatedAt   string `json:"createdAt" doc:"Creation time"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Username:    u.Username,
		Role:        string(u.Role),
		CreatedAt:   formatTime(u.CreatedAt),
	}
}

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Email       string `json:"email" doc:"Email address"`
	Password    string `json:"password" doc:"Password, at least 8 characters"`
	DisplayName string `json:"displayName,omitempty" doc:"Display name"`
	Username    string `json:"username,omitempty" doc:"Username"`
}

// SignupInput wraps the signup request for Huma.
type SignupInput struct {
	Body SignupRequest
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" doc:"Email address"`
	Password string `json:"password" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// CurrentUserResponse reports the session state. User is null when
// nobody is signed in.
type CurrentUserResponse struct {
	SignedIn bool          `json:"signedIn" doc:"Whether anybody is signed in"`
	User     *UserResponse `json:"user,omitempty" doc:"The signed-in user"`
}

// CurrentUserOutput wraps the current-user response for Huma.
type CurrentUserOutput struct {
	Body CurrentUserResponse
}

// === Handlers ===

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*UserOutput, error) {
	user, err := s.services.Auth.Signup(ctx, service.SignupRequest{
		Email:       input.Body.Email,
		Password:    input.Body.Password,
		DisplayName: input.Body.DisplayName,
		Username:    input.Body.Username,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*UserOutput, error) {
	user, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*struct{}, error) {
	if err := s.services.Auth.Logout(ctx); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleCurrentUser(ctx context.Context, _ *struct{}) (*CurrentUserOutput, error) {
	user, err := s.services.Auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	resp := CurrentUserResponse{SignedIn: user != nil}
	if user != nil {
		u := toUserResponse(user)
		resp.User = &u
	}
	return &CurrentUserOutput{Body: resp}, nil
}
