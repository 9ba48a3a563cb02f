// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/platform/sec"
	"github.com/shiori-press/shiori/internal/users/auth"
)

// # In-Memory Fakes

type fakeUserRepo struct {
	byID map[string]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*auth.User)}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range f.byID {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (f *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := f.byID[userID]
	if !ok {
		return apperr.NotFound("Account")
	}
	user.PasswordHash = newHash
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]string // tokenHash -> userID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]string)}
}

func (f *fakeSessionRepo) Create(_ context.Context, tokenHash, userID string, _ time.Duration) error {
	f.sessions[tokenHash] = userID
	return nil
}

func (f *fakeSessionRepo) Resolve(_ context.Context, tokenHash string) (string, error) {
	userID, ok := f.sessions[tokenHash]
	if !ok {
		return "", apperr.Unauthorized("Session is invalid or expired")
	}
	return userID, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, tokenHash string) error {
	delete(f.sessions, tokenHash)
	return nil
}

func (f *fakeSessionRepo) RevokeOthers(_ context.Context, userID, keepHash string) error {
	for hash, owner := range f.sessions {
		if owner == userID && hash != keepHash {
			delete(f.sessions, hash)
		}
	}
	return nil
}

// fakeTokenProvider issues predictable token strings.
type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return fmt.Sprintf("access-token-for-%s", userID), nil
}

func newService() (*auth.Service, *fakeUserRepo, *fakeSessionRepo) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	return auth.NewService(users, sessions, fakeTokenProvider{}), users, sessions
}

func register(t *testing.T, service *auth.Service) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return user
}

// # Tests

/*
TestRegister_CreatesAuthorAccount verifies the registration defaults.
*/
func TestRegister_CreatesAuthorAccount(t *testing.T) {
	service, _, _ := newService()
	user := register(t, service)

	assert.Equal(t, sec.RoleAuthor, user.Role)
	assert.Equal(t, "alice", user.DisplayName, "display name falls back to the username")
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct horse battery", user.PasswordHash))
}

/*
TestRegister_IdentityConflicts verifies email and username uniqueness.
*/
func TestRegister_IdentityConflicts(t *testing.T) {
	service, _, _ := newService()
	register(t, service)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = service.Register(context.Background(), auth.RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestLogin_FlexibleLookupAndBadCredentials covers login by email or
username and the generic rejection message.
*/
func TestLogin_FlexibleLookupAndBadCredentials(t *testing.T) {
	service, _, sessions := newService()
	user := register(t, service)

	byEmail, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.User.ID)
	assert.NotEmpty(t, byEmail.RefreshToken)
	assert.Len(t, sessions.sessions, 1)

	_, err = service.Login(context.Background(), auth.LoginInput{
		Login:    "alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), auth.LoginInput{
		Login:    "alice",
		Password: "wrong",
	})
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	_, err = service.Login(context.Background(), auth.LoginInput{
		Login:    "nobody",
		Password: "whatever",
	})
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestRefreshSession_RotatesToken verifies rotation: the old refresh token is
dead after use and the new one works.
*/
func TestRefreshSession_RotatesToken(t *testing.T) {
	service, _, _ := newService()
	register(t, service)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	rotated, err := service.RefreshSession(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// Replaying the consumed token must fail
	_, err = service.RefreshSession(context.Background(), session.RefreshToken)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// The rotated token is live
	_, err = service.RefreshSession(context.Background(), rotated.RefreshToken)
	require.NoError(t, err)
}

/*
TestLogout_Idempotent verifies logout succeeds for live, dead, and unknown
tokens alike.
*/
func TestLogout_Idempotent(t *testing.T) {
	service, _, sessions := newService()
	register(t, service)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	assert.Empty(t, sessions.sessions)

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, service.Logout(context.Background(), "never-issued"))
}

/*
TestChangePassword_RevokesOtherSessions verifies the rotation side effect:
only the caller's current session survives a password change.
*/
func TestChangePassword_RevokesOtherSessions(t *testing.T) {
	service, _, sessions := newService()
	user := register(t, service)

	phone, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	laptop, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "alice",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.Len(t, sessions.sessions, 2)

	err = service.ChangePassword(context.Background(), user.ID, "wrong", "new password 42", laptop.RefreshToken)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	require.NoError(t, service.ChangePassword(context.Background(), user.ID, "correct horse battery", "new password 42", laptop.RefreshToken))

	// The laptop session survived, the phone session is gone
	_, err = service.RefreshSession(context.Background(), laptop.RefreshToken)
	require.NoError(t, err)
	_, err = service.RefreshSession(context.Background(), phone.RefreshToken)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// Old password no longer works
	_, err = service.Login(context.Background(), auth.LoginInput{
		Login:    "alice",
		Password: "correct horse battery",
	})
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	_, err = service.Login(context.Background(), auth.LoginInput{
		Login:    "alice",
		Password: "new password 42",
	})
	require.NoError(t, err)
}
