package service

import (
	"context"
	"gradebook/internal/common"
	"gradebook/internal/common/security"
	"gradebook/internal/domain/model"
	"gradebook/internal/platform/config"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJWT(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: time.Hour,
	}
	security.InitJWT()
}

func createUser(t *testing.T, repo *fakeUserRepo, username, password, role string) *model.User {
	t.Helper()
	hashed, err := security.HashPassword(password)
	require.NoError(t, err)
	user := &model.User{
		ID:             uuid.NewString(),
		Username:       username,
		HashedPassword: hashed,
		Role:           role,
		Name:           username,
		Email:          username + "@test.test",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestLoginRoundTrip(t *testing.T) {
	setupJWT(t)
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	usr := createUser(t, repo, "alice", "secret123", model.RoleStudent)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, usr.ID, resp.User.ID)
	assert.Empty(t, resp.User.HashedPassword)

	// the issued token must verify and resolve back to the same user
	token, err := jwtauth.VerifyToken(security.TokenAuth, resp.Token)
	require.NoError(t, err)
	claims := token.PrivateClaims()
	userID, err := security.GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, userID)
	role, err := security.GetUserRoleFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, role)
}

func TestLoginFailures(t *testing.T) {
	setupJWT(t)
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	createUser(t, repo, "alice", "secret123", model.RoleStudent)

	tests := []struct {
		name string
		req  LoginRequest
		want error
	}{
		{name: "unknown user", req: LoginRequest{Username: "nobody", Password: "secret123"}, want: common.ErrUnauthorized},
		{name: "wrong password", req: LoginRequest{Username: "alice", Password: "wrong"}, want: common.ErrUnauthorized},
		{name: "missing username", req: LoginRequest{Password: "secret123"}, want: common.ErrValidation},
		{name: "missing password", req: LoginRequest{Username: "alice"}, want: common.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	setupJWT(t)
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	usr := createUser(t, repo, "alice", "secret123", model.RoleStudent)

	got, err := svc.CurrentUser(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.Equal(t, usr.Username, got.Username)
	assert.Empty(t, got.HashedPassword)

	// a token subject that no longer exists is unauthorized, not a 404
	_, err = svc.CurrentUser(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	setupJWT(t)
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	usr := createUser(t, repo, "alice", "secret123", model.RoleStudent)

	err := svc.ChangePassword(context.Background(), usr.ID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newsecret",
	})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	err = svc.ChangePassword(context.Background(), usr.ID, ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "short", // below the 6 character minimum
	})
	assert.ErrorIs(t, err, common.ErrValidation)

	err = svc.ChangePassword(context.Background(), usr.ID, ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "newsecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, common.ErrUnauthorized, "old password must stop working")
	_, err = svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "newsecret"})
	assert.NoError(t, err)
}
