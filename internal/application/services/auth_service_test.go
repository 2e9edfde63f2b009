package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/ports"
)

func newAuthService(t *testing.T) (*AuthService, *memUserRepo, *memAuthRepo) {
	t.Helper()

	users := newMemUserRepo()
	tokens := newMemAuthRepo()
	cfg := config.JWTConfig{
		Secret:           "test-secret",
		ExpiresIn:        time.Hour,
		RefreshExpiresIn: 24 * time.Hour,
		Issuer:           "taskboard-test",
	}

	return NewAuthService(users, tokens, cfg, loggerForTests()), users, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, ports.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Empty(t, resp.User.PasswordHash, "hash never leaves the service")

	login, err := svc.Login(ctx, ports.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, ports.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, entities.ErrUnauthenticated)

	_, err = svc.Login(ctx, ports.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, entities.ErrUnauthenticated)
}

func TestRegisterConflicts(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, ports.RegisterRequest{Email: "alice@example.com", Username: "other", Password: "password123"})
	assert.ErrorIs(t, err, entities.ErrEmailTaken)

	_, err = svc.Register(ctx, ports.RegisterRequest{Email: "other@example.com", Username: "alice", Password: "password123"})
	assert.ErrorIs(t, err, entities.ErrUsernameTaken)
}

func TestValidateToken(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, ports.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "password123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, tokens := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, ports.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "password123"})
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	// The spent token cannot be used again.
	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, entities.ErrUnauthenticated)

	// Logout revokes the outstanding token too.
	require.NoError(t, svc.Logout(ctx, resp.User.ID))
	_, err = svc.RefreshToken(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, entities.ErrUnauthenticated)

	stored, err := tokens.GetRefreshToken(ctx, hashToken(rotated.RefreshToken))
	require.NoError(t, err)
	assert.NotNil(t, stored.RevokedAt)
}
