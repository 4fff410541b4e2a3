package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ichigoapp/ichigo-server/internal/domain"
	domainerrors "github.com/ichigoapp/ichigo-server/internal/errors"
)

func TestAuthService_SignupSignsIn(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	assert.Equal(t, domain.RoleMember, user.Role)
	assert.NotEmpty(t, user.UID)

	current, err := env.auth.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user.UID, current.UID)
}

func TestAuthService_SignupAdminEmail(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()

	user := env.signup(t, "admin@farm.jp", "Admin")
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.True(t, user.IsAdmin())
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	env.signup(t, "hana@farm.jp", "Hana")

	_, err := env.auth.Signup(ctx, SignupRequest{
		Email:    "hana@farm.jp",
		Password: "hunter2hunter2",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthService_SignupValidation(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	_, err := env.auth.Signup(ctx, SignupRequest{Email: "not-an-email", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.auth.Signup(ctx, SignupRequest{Email: "ok@farm.jp", Password: "short"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAuthService_LoginLogout(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	user := env.signup(t, "hana@farm.jp", "Hana")
	require.NoError(t, env.auth.Logout(ctx))

	current, err := env.auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	loggedIn, err := env.auth.Login(ctx, LoginRequest{
		Email:    "hana@farm.jp",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, user.UID, loggedIn.UID)

	current, err = env.auth.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user.UID, current.UID)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	env.signup(t, "hana@farm.jp", "Hana")

	_, err := env.auth.Login(ctx, LoginRequest{Email: "hana@farm.jp", Password: "wrong-password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_LoginUnknownEmailSameError(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	env.signup(t, "hana@farm.jp", "Hana")

	_, unknownErr := env.auth.Login(ctx, LoginRequest{Email: "nobody@farm.jp", Password: "hunter2hunter2"})
	_, wrongErr := env.auth.Login(ctx, LoginRequest{Email: "hana@farm.jp", Password: "wrong-password"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error(), "login errors must not reveal which emails exist")
}

func TestAuthService_LogoutIdempotent(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, env.auth.Logout(ctx))
	require.NoError(t, env.auth.Logout(ctx))
}

func TestAuthService_SignupReplacesCurrentUser(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	env.signup(t, "first@farm.jp", "First")
	second := env.signup(t, "second@farm.jp", "Second")

	current, err := env.auth.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, second.UID, current.UID)
}

func TestAuthService_RequireCurrentUser(t *testing.T) {
	env, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	_, err := env.auth.RequireCurrentUser(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	env.signup(t, "hana@farm.jp", "Hana")
	user, err := env.auth.RequireCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hana@farm.jp", user.Email)
}
