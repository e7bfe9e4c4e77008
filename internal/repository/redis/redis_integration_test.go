//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"myShopHub/domain"
	"myShopHub/internal/testutil"
	"myShopHub/pkg/config"
	redisdb "myShopHub/pkg/database/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepository(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	host, port := testutil.SetupRedis(ctx, t)
	client, err := redisdb.NewRedisClient(&config.Config{Redis: config.RedisConfig{RedisHost: host, RedisPort: port}})
	require.NoError(t, err)
	defer func() { _ = redisdb.CloseRedisClient(client) }()

	repo := NewTokenRepository(client)

	store := func(userID uint, token string) {
		t.Helper()
		require.NoError(t, repo.StoreToken(ctx, domain.Session{UserID: userID, Token: token}, time.Hour))
	}

	store(1, "alice-laptop")
	store(1, "alice-phone")
	store(2, "bob")

	t.Run("validate resolves the owner", func(t *testing.T) {
		id, err := repo.ValidateToken(ctx, "alice-phone")
		require.NoError(t, err)
		assert.Equal(t, uint(1), id)

		session, err := repo.GetSession(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "alice-phone", session.Token)
	})

	t.Run("logout revokes one token", func(t *testing.T) {
		require.NoError(t, repo.RevokeToken(ctx, 1, "alice-phone"))

		_, err := repo.ValidateToken(ctx, "alice-phone")
		assert.ErrorIs(t, err, ErrTokenNotFound)

		_, err = repo.ValidateToken(ctx, "alice-laptop")
		assert.NoError(t, err)
	})

	t.Run("deleted user loses every token", func(t *testing.T) {
		store(1, "alice-tablet")
		require.NoError(t, repo.RevokeUserTokens(ctx, 1))

		for _, token := range []string{"alice-laptop", "alice-tablet"} {
			_, err := repo.ValidateToken(ctx, token)
			assert.ErrorIs(t, err, ErrTokenNotFound, token)
		}

		_, err := repo.GetSession(ctx, 1)
		assert.ErrorIs(t, err, ErrTokenNotFound)

		id, err := repo.ValidateToken(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, uint(2), id)
	})

	t.Run("revoking a user without tokens succeeds", func(t *testing.T) {
		assert.NoError(t, repo.RevokeUserTokens(ctx, 42))
	})
}
