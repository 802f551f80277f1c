package service

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/api/models"
	"ctchen222/TicTacToe-Classic/internal/api/repository"
	"ctchen222/TicTacToe-Classic/internal/db"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T) *userService {
	t.Helper()
	conn, err := db.LocalConnect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.InitializeSchema(conn))

	return NewUserService(repository.NewUserRepository(conn), "test-secret").(*userService)
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(t)

	require.NoError(t, svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "secret123"}))

	t.Run("Duplicate username", func(t *testing.T) {
		err := svc.Register(ctx, &models.RegisterRequest{Username: "alice", Password: "another1"})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "wrong-pass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{Username: "bob", Password: "secret123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Token round trip", func(t *testing.T) {
		resp, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "secret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.PlayerID)

		claims, err := svc.ParseToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, resp.PlayerID, claims.PlayerID)
		assert.NotEmpty(t, claims.Subject)

		again, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, resp.PlayerID, again.PlayerID, "player id is stable across logins")
	})
}

func TestUserService_ParseToken(t *testing.T) {
	svc := newTestUserService(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	valid := Claims{
		PlayerID:         "p1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: sign(t, jwt.SigningMethodHS256, []byte("test-secret"), valid)},
		{name: "wrong secret", token: sign(t, jwt.SigningMethodHS256, []byte("other"), valid), wantErr: true},
		{name: "wrong algorithm", token: sign(t, jwt.SigningMethodHS512, []byte("test-secret"), valid), wantErr: true},
		{
			name: "expired",
			token: sign(t, jwt.SigningMethodHS256, []byte("test-secret"), Claims{
				PlayerID:         "p1",
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))},
			}),
			wantErr: true,
		},
		{name: "no player id", token: sign(t, jwt.SigningMethodHS256, []byte("test-secret"), Claims{}), wantErr: true},
		{name: "garbage", token: "not.a.token", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ParseToken(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "p1", claims.PlayerID)
		})
	}
}

func TestUserService_GuestLogin(t *testing.T) {
	svc := newTestUserService(t)

	first, err := svc.GuestLogin(context.Background())
	require.NoError(t, err)
	second, err := svc.GuestLogin(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
