// Package service implements the application logic between the HTTP
// surface and the store. Services validate input, enforce lifecycle
// rules, and translate store sentinels into domain errors.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ichigoapp/ichigo-server/internal/auth"
	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
	"github.com/ichigoapp/ichigo-server/internal/id"
	"github.com/ichigoapp/ichigo-server/internal/store"
)

// validate is a shared validator instance for request validation.
var validate = func() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})
	return v
}()

// AuthService handles signup, login, logout and the current-user slot.
// There are no tokens; the signed-in user is a single durable slot in
// the store, written on login and cleared on logout.
type AuthService struct {
	store       store.Store
	adminEmails map[string]bool
	logger      *slog.Logger
}

// NewAuthService creates a new authentication service. adminEmails
// lists accounts that receive the admin role on signup.
func NewAuthService(store store.Store, adminEmails []string, logger *slog.Logger) *AuthService {
	byEmail := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		byEmail[strings.ToLower(strings.TrimSpace(email))] = true
	}
	return &AuthService{
		store:       store,
		adminEmails: byEmail,
		logger:      logger,
	}
}

// SignupRequest contains new account data.
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"displayName" validate:"omitempty,max=100"`
	Username    string `json:"username" validate:"omitempty,max=100"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup creates a new account and signs it in. The new user becomes
// the current user; any previously signed-in user is replaced.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	uid, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	role := domain.RoleMember
	if s.adminEmails[strings.ToLower(req.Email)] {
		role = domain.RoleAdmin
	}

	now := time.Now()
	user := &domain.User{
		UID:         uid,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Username:    req.Username,
		Role:        role,
		CreatedAt:   now,
	}
	cred := &domain.Credential{
		Email:        req.Email,
		PasswordHash: passwordHash,
		UserID:       uid,
		CreatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user, cred); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.store.SaveCurrentUserID(ctx, uid); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User signed up", "user_id", uid, "role", role)
	}

	return user, nil
}

// Login verifies credentials and makes the user the current user.
// Unknown emails and wrong passwords produce the same error so the
// endpoint can't be used to probe which emails are registered.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	cred, err := s.store.GetCredential(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	valid, err := auth.VerifyPassword(cred.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	user, err := s.store.GetUser(ctx, cred.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.store.SaveCurrentUserID(ctx, user.UID); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.UID)
	}

	return user, nil
}

// Logout clears the current-user slot. Logging out when nobody is
// signed in is a no-op, not an error.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.SaveCurrentUserID(ctx, "")
}

// CurrentUser returns the signed-in user, or nil when nobody is.
// A dangling slot (user record deleted out from under the session)
// reads as signed out.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	uid, err := s.store.GetCurrentUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if uid == "" {
		return nil, nil
	}

	user, err := s.store.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// RequireCurrentUser returns the signed-in user or an unauthorized
// error. Used by handlers that need an authenticated caller.
func (s *AuthService) RequireCurrentUser(ctx context.Context) (*domain.User, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.Unauthorized("not signed in")
	}
	return user, nil
}

// formatValidationError converts validator errors to user-friendly domain errors.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				return domainerrors.Validationf("%s is required", field)
			case "email":
				return domainerrors.Validationf("%s must be a valid email address", field)
			case "min":
				return domainerrors.Validationf("%s must be at least %s characters", field, e.Param())
			case "max":
				return domainerrors.Validationf("%s exceeds maximum length of %s characters", field, e.Param())
			case "oneof":
				return domainerrors.Validationf("%s must be one of: %s", field, e.Param())
			default:
				return domainerrors.Validationf("%s is invalid", field)
			}
		}
	}
	return err
}
