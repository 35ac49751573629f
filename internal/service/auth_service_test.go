package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sampletrack/internal/domain"
	"sampletrack/internal/repository"
	"sampletrack/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T, ttl time.Duration) (*AuthService, *repository.MemoryUsersRepo) {
	t.Helper()
	users := repository.NewMemoryUsersRepo()
	sessions := NewSessionManager(store.NewMemoryKV(), ttl, zap.NewNop())
	return NewAuthService(users, sessions, zap.NewNop()), users
}

func seedUser(t *testing.T, users *repository.MemoryUsersRepo, email, password string, role domain.Role, active bool) *domain.User {
	t.Helper()
	u := &domain.User{
		UserID:       "u-" + email,
		Email:        email,
		FullName:     "Test User",
		Role:         role,
		PasswordHash: HashPassword(password),
		Active:       active,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := users.CreateUser(context.Background(), u)
	require.NoError(t, err)
	return u
}

func TestLogin_Success(t *testing.T) {
	svc, users := newAuthService(t, time.Hour)
	u := seedUser(t, users, "lab@example.com", "secret", domain.RoleLab, true)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: "  Lab@Example.COM ", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, u.UserID, resp.UserID)
	assert.Equal(t, domain.RoleLab, resp.Role)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	sess, err := svc.CurrentUser(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.UserID, sess.UserID)
	assert.Equal(t, domain.RoleLab, sess.Role)
}

func TestLogin_Failures(t *testing.T) {
	svc, users := newAuthService(t, time.Hour)
	seedUser(t, users, "lab@example.com", "secret", domain.RoleLab, true)
	seedUser(t, users, "gone@example.com", "secret", domain.RoleManager, false)
	ctx := context.Background()

	cases := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Email: "lab@example.com", Password: "nope"}},
		{"unknown email", LoginRequest{Email: "ghost@example.com", Password: "secret"}},
		{"disabled account", LoginRequest{Email: "gone@example.com", Password: "secret"}},
		{"missing credentials", LoginRequest{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrAuth))
		})
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, users := newAuthService(t, time.Hour)
	seedUser(t, users, "lab@example.com", "secret", domain.RoleLab, true)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: "lab@example.com", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.AccessToken))

	_, err = svc.CurrentUser(ctx, resp.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuth))
}

func TestCurrentUser_ExpiredSession(t *testing.T) {
	svc, users := newAuthService(t, -time.Minute)
	seedUser(t, users, "lab@example.com", "secret", domain.RoleLab, true)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: "lab@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.CurrentUser(ctx, resp.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuth))
}

func TestCurrentUser_EmptyToken(t *testing.T) {
	svc, _ := newAuthService(t, time.Hour)

	_, err := svc.CurrentUser(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuth))
}
