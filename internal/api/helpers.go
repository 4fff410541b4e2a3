package api

import (
	"context"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
)

// authenticateRequest returns the signed-in user or a 401 error.
// There are no tokens; the current user is the durable session slot.
func (s *Server) authenticateRequest(ctx context.Context) (*domain.User, error) {
	return s.services.Auth.RequireCurrentUser(ctx)
}

// authenticateAndRequireAdmin returns the signed-in user and requires
// the admin role.
func (s *Server) authenticateAndRequireAdmin(ctx context.Context) (*domain.User, error) {
	user, err := s.authenticateRequest(ctx)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, domainerrors.Forbidden("Admin access required")
	}
	return user, nil
}

// sharedThreadDefault maps an empty thread id to the shared log.
func sharedThreadDefault(threadID string) string {
	if threadID == "" {
		return domain.SharedThreadID
	}
	return threadID
}
