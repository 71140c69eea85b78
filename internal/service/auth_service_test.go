package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixdesk/workorder-service/internal/auth"
	"github.com/fixdesk/workorder-service/internal/config"
	"github.com/fixdesk/workorder-service/internal/domain"
)

func testAuthConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}}
}

func seedAccount(t *testing.T, users *stubUserRepo, username, password string, role domain.Role, active bool) {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	users.users[username] = domain.User{
		ID:           username,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Active:       active,
		CreatedAt:    time.Now(),
	}
}

func TestLoginSucceedsForActiveAccount(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(t, users, "ada", "hunter2", domain.RoleStaff, true)
	svc := NewAuthService(testAuthConfig(), users)

	user, token, expiresAt, err := svc.Login(context.Background(), "ada", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleStaff, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(t, users, "ada", "hunter2", domain.RoleStaff, true)
	svc := NewAuthService(testAuthConfig(), users)

	_, _, _, err := svc.Login(context.Background(), "ada", "wrong")
	assertCode(t, err, "UNAUTHORIZED")

	_, _, _, err = svc.Login(context.Background(), "nobody", "hunter2")
	assertCode(t, err, "UNAUTHORIZED")
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(t, users, "ada", "hunter2", domain.RoleStaff, false)
	svc := NewAuthService(testAuthConfig(), users)

	_, _, _, err := svc.Login(context.Background(), "ada", "hunter2")
	assertCode(t, err, "UNAUTHORIZED")
}

func TestRegisterCreatesStaffAccount(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(testAuthConfig(), users)

	user, err := svc.Register(context.Background(), "bo", "bo@example.com", "secret", "Bo", "Lund")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "secret", user.PasswordHash)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(t, users, "bo", "x", domain.RoleStaff, true)
	svc := NewAuthService(testAuthConfig(), users)

	_, err := svc.Register(context.Background(), "bo", "", "secret", "", "")
	assertCode(t, err, "CONFLICT")
}

func TestUserServiceCreateAndDeactivate(t *testing.T) {
	users := newStubUserRepo()
	svc := NewUserService(testAuthConfig(), users, nil)

	created, err := svc.Create(context.Background(), UserCreateInput{
		Username: "tech",
		Password: "secret",
		Role:     domain.RoleTechnician,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTechnician, created.Role)

	techs, err := svc.ListTechnicians(context.Background())
	require.NoError(t, err)
	require.Len(t, techs, 1)

	require.NoError(t, svc.Deactivate(context.Background(), created.ID))
	techs, err = svc.ListTechnicians(context.Background())
	require.NoError(t, err)
	assert.Empty(t, techs, "deactivated technicians drop out of the roster")
}

func TestUserServiceRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(testAuthConfig(), newStubUserRepo(), nil)
	_, err := svc.Create(context.Background(), UserCreateInput{
		Username: "x",
		Password: "y",
		Role:     domain.Role("Manager"),
	})
	assertCode(t, err, "VALIDATION_FAILED")
}
